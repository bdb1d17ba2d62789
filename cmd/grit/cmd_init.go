package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func (a *app) newInitCmd() *cobra.Command {
	var (
		branch      string
		compression int
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty grit repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.v.GetString("repo")
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			// Ensure the target directory exists.
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			opts := []repo.Option{repo.WithMetaDir(a.metaDir()), repo.WithDefaultBranch(branch)}
			if cmd.Flags().Changed("compression") {
				opts = append(opts, repo.WithCompressionLevel(compression))
			}
			r, err := repo.Init(abs, opts...)
			if err != nil {
				return err
			}
			a.logger.Debug("initialized repository", "meta", r.MetaDir, "branch", branch)

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty grit repository in %s\n", r.MetaDir+string(filepath.Separator))
			return nil
		},
	}
	cmd.Flags().StringVarP(&branch, "initial-branch", "b", repo.DefaultBranch, "name of the branch HEAD points at")
	cmd.Flags().IntVar(&compression, "compression", 0, "zlib level for stored objects (-1 default, 0-9)")
	return cmd
}
