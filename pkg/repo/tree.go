package repo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/object"
)

// BuildFile returns the blob object for the regular file at path.
func (r *Repo) BuildFile(path string) (*object.Object, error) {
	return BlobFromFile(path)
}

// BlobFromFile reads the regular file at path into a blob object. The
// payload is exactly the stat'd length; a file that changes size while it
// is being read is reported as object.ErrSizeMismatch.
func BlobFromFile(path string) (*object.Object, error) {
	// Opening a named pipe blocks until a writer appears, so reject
	// non-regular paths before opening them.
	pre, err := os.Stat(path)
	if err != nil {
		return nil, &object.IOError{Op: "build file stat", Path: path, Err: err}
	}
	if !pre.Mode().IsRegular() {
		return nil, &object.PathKindError{Path: path, Want: object.ErrNotAFile}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &object.IOError{Op: "build file open", Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &object.IOError{Op: "build file stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &object.PathKindError{Path: path, Want: object.ErrNotAFile}
	}

	size := info.Size()
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("build file %s: %w: shrank below stat size %d", path, object.ErrSizeMismatch, size)
		}
		return nil, &object.IOError{Op: "build file read", Path: path, Err: err}
	}
	var extra [1]byte
	if n, _ := f.Read(extra[:]); n > 0 {
		return nil, fmt.Errorf("build file %s: %w: grew past stat size %d", path, object.ErrSizeMismatch, size)
	}

	return &object.Object{Kind: object.KindBlob, Payload: data}, nil
}

// HashFile builds the blob for path and, if write is set, persists it.
func (r *Repo) HashFile(path string, write bool) (object.Hash, error) {
	blob, err := r.BuildFile(path)
	if err != nil {
		return object.ZeroHash, err
	}
	if !write {
		return blob.Hash(), nil
	}
	return r.Store.Write(blob)
}

// BuildTree returns the tree object for the directory at path without
// persisting anything.
func (r *Repo) BuildTree(path string) (*object.Object, error) {
	return r.buildTree(path, nil)
}

// WriteTree builds the tree for path and persists every blob and subtree
// it references. It returns the root tree hash.
func (r *Repo) WriteTree(path string) (object.Hash, error) {
	tree, err := r.buildTree(path, func(obj *object.Object) error {
		_, err := r.Store.Write(obj)
		return err
	})
	if err != nil {
		return object.ZeroHash, err
	}
	return tree.Hash(), nil
}

// treeFrame is one directory being assembled. children is sorted by name
// and next indexes the first child not yet visited.
type treeFrame struct {
	dir      string
	name     string
	children []os.DirEntry
	next     int
	entries  []object.TreeEntry
}

// buildTree walks path depth-first using an explicit stack, so directory
// depth is bounded by memory rather than goroutine stack size. Every
// finished blob and tree is passed to emit, children before parents.
func (r *Repo) buildTree(path string, emit func(*object.Object) error) (*object.Object, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &object.IOError{Op: "build tree stat", Path: path, Err: err}
	}
	if !info.IsDir() {
		return nil, &object.PathKindError{Path: path, Want: object.ErrNotADirectory}
	}

	root, err := r.openFrame(path, "")
	if err != nil {
		return nil, err
	}
	stack := []*treeFrame{root}

	for {
		top := stack[len(stack)-1]

		if top.next == len(top.children) {
			tree := object.NewTree(&object.Tree{Entries: top.entries})
			if emit != nil {
				if err := emit(tree); err != nil {
					return nil, fmt.Errorf("build tree %s: %w", top.dir, err)
				}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return tree, nil
			}
			parent := stack[len(stack)-1]
			parent.entries = append(parent.entries, object.TreeEntry{
				Mode: object.ModeDir,
				Name: top.name,
				Hash: tree.Hash(),
			})
			continue
		}

		child := top.children[top.next]
		top.next++
		childPath := filepath.Join(top.dir, child.Name())

		mode, err := modeFromType(childPath, child.Type())
		if err != nil {
			return nil, err
		}
		switch mode {
		case object.ModeDir:
			frame, err := r.openFrame(childPath, child.Name())
			if err != nil {
				return nil, err
			}
			stack = append(stack, frame)
		case object.ModeFile:
			blob, err := r.BuildFile(childPath)
			if err != nil {
				return nil, err
			}
			if emit != nil {
				if err := emit(blob); err != nil {
					return nil, fmt.Errorf("build tree %s: %w", childPath, err)
				}
			}
			top.entries = append(top.entries, object.TreeEntry{
				Mode: object.ModeFile,
				Name: child.Name(),
				Hash: blob.Hash(),
			})
		}
	}
}

// openFrame lists dir and drops the repository metadata directory.
// os.ReadDir already returns children sorted by name; MarshalTree sorts
// the finished entries regardless.
func (r *Repo) openFrame(dir, name string) (*treeFrame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &object.IOError{Op: "build tree read dir", Path: dir, Err: err}
	}
	children := entries[:0]
	for _, e := range entries {
		if r.isMetaDir(filepath.Join(dir, e.Name())) {
			continue
		}
		children = append(children, e)
	}
	return &treeFrame{
		dir:      dir,
		name:     name,
		children: children,
		entries:  make([]object.TreeEntry, 0, len(children)),
	}, nil
}

func (r *Repo) isMetaDir(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == r.MetaDir
}
