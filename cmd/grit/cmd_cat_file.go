package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/spf13/cobra"
)

func (a *app) newCatFileCmd() *cobra.Command {
	var pretty, kind, size bool

	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s) <hash>",
		Short: "Print an object's content, kind or size",
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

			out := cmd.OutOrStdout()
			switch {
			case kind:
				fmt.Fprintln(out, obj.Kind)
			case size:
				fmt.Fprintln(out, obj.Size())
			case pretty:
				if obj.Kind != object.KindTree {
					_, err := out.Write(obj.Payload)
					return err
				}
				tree, err := obj.AsTree()
				if err != nil {
					return err
				}
				for _, e := range tree.Entries {
					fmt.Fprintln(out, e.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "pretty-print the object content")
	cmd.Flags().BoolVarP(&kind, "type", "t", false, "print the object kind")
	cmd.Flags().BoolVarP(&size, "size", "s", false, "print the payload size in bytes")
	cmd.MarkFlagsMutuallyExclusive("pretty", "type", "size")
	cmd.MarkFlagsOneRequired("pretty", "type", "size")
	return cmd
}
