package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/spf13/cobra"
)

var errNotATree = errors.New("not a tree object")

func (a *app) newLsTreeCmd() *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] <tree>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			obj, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if obj.Kind != object.KindTree {
				return fmt.Errorf("%s: %w", h, errNotATree)
			}
			tree, err := obj.AsTree()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range tree.Entries {
				if nameOnly {
					fmt.Fprintln(out, e.Name)
					continue
				}
				fmt.Fprintln(out, formatTreeEntry(e))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	return cmd
}

// formatTreeEntry renders an entry the way git ls-tree does, with the mode
// zero-padded to six digits.
func formatTreeEntry(e object.TreeEntry) string {
	mode := e.Mode
	if len(mode) < 6 {
		mode = strings.Repeat("0", 6-len(mode)) + mode
	}
	return fmt.Sprintf("%s %s %s\t%s", mode, e.Kind(), e.Hash, e.Name)
}
