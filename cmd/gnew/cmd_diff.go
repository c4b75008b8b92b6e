package main

import (
	"fmt"

	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [commit] [commit]",
		Short: "Show changes between commits or against the working tree",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			var out string
			switch len(args) {
			case 0:
				out, err = r.DiffWorktree("")
			case 1:
				out, err = r.DiffWorktree(args[0])
			case 2:
				out, err = r.DiffCommits(args[0], args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
