package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Store the working directory as a tree and print its hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			h, err := r.WriteTree(r.RootDir)
			if err != nil {
				return err
			}
			a.logger.Debug("wrote tree", "root", r.RootDir, "hash", h)
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
