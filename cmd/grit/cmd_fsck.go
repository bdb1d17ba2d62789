package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newFsckCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "fsck",
		Short: "Verify every stored object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo()
			if err != nil {
				return err
			}
			rep, err := r.Fsck(cmd.Context(), workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rep.OK() {
				fmt.Fprintf(out, "ok %d objects\n", rep.Checked)
				return nil
			}
			for _, p := range rep.Problems {
				fmt.Fprintf(out, "bad %s: %v\n", p.Hash, p.Err)
			}
			for _, h := range rep.Missing {
				fmt.Fprintf(out, "missing %s\n", h)
			}
			a.logger.Warn("fsck found problems", "checked", rep.Checked, "bad", len(rep.Problems), "missing", len(rep.Missing))
			return fmt.Errorf("fsck: %d bad, %d missing of %d objects", len(rep.Problems), len(rep.Missing), rep.Checked)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel readers (0 uses GOMAXPROCS)")
	return cmd
}
