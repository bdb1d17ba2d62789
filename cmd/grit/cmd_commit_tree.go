package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/spf13/cobra"
)

func (a *app) newCommitTreeCmd() *cobra.Command {
	var message, parentHex string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> -m <message> [-p <parent>]",
		Short: "Create a commit object for a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := object.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("tree: %w", err)
			}
			var parent *object.Hash
			if parentHex != "" {
				p, err := object.ParseHash(parentHex)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				parent = &p
			}

			r, err := a.openRepo()
			if err != nil {
				return err
			}
			h, err := r.CommitTree(tree, message, parent)
			if err != nil {
				return err
			}
			a.logger.Debug("wrote commit", "tree", tree, "hash", h)
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVarP(&parentHex, "parent", "p", "", "parent commit hash")
	cmd.MarkFlagRequired("message")
	return cmd
}
