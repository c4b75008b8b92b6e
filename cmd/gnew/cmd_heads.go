package main

import (
	"fmt"

	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newHeadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heads",
		Short: "List branches and their tip commits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			current, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, b := range branches {
				marker := "  "
				if b == current {
					marker = "* "
				}
				h, err := r.BranchHash(b)
				if err != nil {
					return err
				}
				if h == "" {
					fmt.Fprintf(out, "%s%s (no commits)\n", marker, b)
				} else {
					fmt.Fprintf(out, "%s%s %s\n", marker, b, h)
				}
			}
			return nil
		},
	}
}
