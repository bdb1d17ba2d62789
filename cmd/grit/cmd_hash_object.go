package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func (a *app) newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object [-w] <file>...",
		Short: "Compute blob hashes for files, optionally storing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Hashing alone needs no repository.
			var r *repo.Repo
			if write {
				var err error
				if r, err = a.openRepo(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				var (
					h   object.Hash
					err error
				)
				if r != nil {
					h, err = r.HashFile(path, true)
				} else {
					var blob *object.Object
					if blob, err = repo.BlobFromFile(path); err == nil {
						h = blob.Hash()
					}
				}
				if err != nil {
					return err
				}
				a.logger.Debug("hashed file", "path", path, "hash", h, "stored", write)
				fmt.Fprintln(out, h)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the blob into the object store")
	return cmd
}
