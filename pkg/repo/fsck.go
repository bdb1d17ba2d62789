package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/sourcegraph/conc/pool"
)

// FsckProblem describes one object that failed verification.
type FsckProblem struct {
	Hash object.Hash
	Err  error
}

// FsckReport summarizes a Fsck run.
type FsckReport struct {
	Checked  int
	Problems []FsckProblem // unreadable objects or hash mismatches
	Missing  []object.Hash // referenced by a stored object but absent
}

// OK reports whether no problems or missing objects were found.
func (rep *FsckReport) OK() bool {
	return len(rep.Problems) == 0 && len(rep.Missing) == 0
}

// ErrHashMismatch marks an object whose content does not hash to its path.
var ErrHashMismatch = errors.New("content hash does not match object path")

// Fsck re-reads every loose object with up to workers goroutines, checking
// that it decodes and that its content hashes to the name it is stored
// under. When every object is sound it also checks that all objects
// referenced from trees and commits are present. Filesystem errors abort
// the run; corruption is collected into the report.
func (r *Repo) Fsck(ctx context.Context, workers int) (*FsckReport, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var hashes []object.Hash
	if err := r.Store.Walk(func(h object.Hash) error {
		hashes = append(hashes, h)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	var (
		mu       sync.Mutex
		problems []FsckProblem
		roots    []object.Hash
	)
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for _, h := range hashes {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			obj, err := r.Store.Read(h)
			if err != nil {
				if !errors.Is(err, object.ErrCorrupt) {
					return err
				}
				mu.Lock()
				problems = append(problems, FsckProblem{Hash: h, Err: err})
				mu.Unlock()
				return nil
			}
			if got := obj.Hash(); got != h {
				mu.Lock()
				problems = append(problems, FsckProblem{Hash: h, Err: fmt.Errorf("%w: content is %s", ErrHashMismatch, got)})
				mu.Unlock()
				return nil
			}
			switch obj.Kind {
			case object.KindTree, object.KindCommit:
				if err := checkBody(obj); err != nil {
					mu.Lock()
					problems = append(problems, FsckProblem{Hash: h, Err: err})
					mu.Unlock()
					return nil
				}
				mu.Lock()
				roots = append(roots, h)
				mu.Unlock()
			case object.KindBlob:
			default:
				return fmt.Errorf("object %s: %w: %s", h, object.ErrUnsupportedKind, obj.Kind)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	sort.Slice(problems, func(i, j int) bool {
		return bytes.Compare(problems[i].Hash[:], problems[j].Hash[:]) < 0
	})
	report := &FsckReport{Checked: len(hashes), Problems: problems}
	if len(problems) > 0 {
		return report, nil
	}

	_, missing, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}
	report.Missing = missing
	return report, nil
}

// checkBody parses a tree or commit so malformed bodies are reported per
// object rather than failing the connectivity walk.
func checkBody(obj *object.Object) error {
	switch obj.Kind {
	case object.KindTree:
		_, err := obj.AsTree()
		return err
	case object.KindCommit:
		_, err := obj.AsCommit()
		return err
	default:
		return nil
	}
}
