package repo

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
)

// PlaceholderIdentity is recorded as both author and committer. Commits
// carry no real identity or clock, so the same tree, parent and message
// always hash the same.
const PlaceholderIdentity = "grit <grit@localhost> 0 +0000"

// BuildCommit composes a commit object for tree with an optional parent.
// The tree must already be stored; so must the parent, if given, and it
// must be a commit.
func (r *Repo) BuildCommit(tree object.Hash, message string, parent *object.Hash) (*object.Object, error) {
	if _, err := r.Store.ReadTree(tree); err != nil {
		return nil, fmt.Errorf("commit: tree %s: %w", tree, err)
	}

	c := &object.Commit{
		Tree:      tree,
		Author:    PlaceholderIdentity,
		Committer: PlaceholderIdentity,
		Message:   message,
	}
	if parent != nil {
		if _, err := r.Store.ReadCommit(*parent); err != nil {
			return nil, fmt.Errorf("commit: parent %s: %w", *parent, err)
		}
		p := *parent
		c.Parent = &p
	}
	return object.NewCommit(c), nil
}

// CommitTree builds a commit with BuildCommit and persists it.
func (r *Repo) CommitTree(tree object.Hash, message string, parent *object.Hash) (object.Hash, error) {
	commit, err := r.BuildCommit(tree, message, parent)
	if err != nil {
		return object.ZeroHash, err
	}
	h, err := r.Store.Write(commit)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit: %w", err)
	}
	return h, nil
}
