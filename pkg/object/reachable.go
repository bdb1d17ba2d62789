package object

import (
	"bytes"
	"fmt"
	"sort"
)

// ReachableSet returns all object hashes reachable from roots by following
// commit tree/parent links and tree entries. Referenced objects absent from
// the store do not stop the walk; they are returned in missing, sorted.
func (s *Store) ReachableSet(roots []Hash) (reachable map[Hash]struct{}, missing []Hash, err error) {
	roots = uniqueHashes(roots)
	reachable = make(map[Hash]struct{}, len(roots))
	absent := make(map[Hash]struct{})

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reachable[h]; ok {
			continue
		}
		if _, ok := absent[h]; ok {
			continue
		}
		ok, err := s.Has(h)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			absent[h] = struct{}{}
			continue
		}
		reachable[h] = struct{}{}

		obj, err := s.Read(h)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		refs, err := referencedHashes(obj)
		if err != nil {
			return nil, nil, fmt.Errorf("reachable set parse %s (%s): %w", h, obj.Kind, err)
		}
		stack = append(stack, refs...)
	}

	for h := range absent {
		missing = append(missing, h)
	}
	sortHashes(missing)
	return reachable, missing, nil
}

func referencedHashes(obj *Object) ([]Hash, error) {
	switch obj.Kind {
	case KindBlob:
		return nil, nil
	case KindCommit:
		commit, err := obj.AsCommit()
		if err != nil {
			return nil, err
		}
		refs := []Hash{commit.Tree}
		if commit.Parent != nil {
			refs = append(refs, *commit.Parent)
		}
		return refs, nil
	case KindTree:
		tree, err := obj.AsTree()
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			// Submodule commits live in another repository.
			if e.Mode == ModeSubmodule {
				continue
			}
			refs = append(refs, e.Hash)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, obj.Kind)
	}
}

func uniqueHashes(in []Hash) []Hash {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[Hash]struct{}, len(in))
	out := make([]Hash, 0, len(in))
	for _, h := range in {
		if h.IsZero() {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sortHashes(out)
	return out
}

func sortHashes(hs []Hash) {
	sort.Slice(hs, func(i, j int) bool { return bytes.Compare(hs[i][:], hs[j][:]) < 0 })
}
