package main

import (
	"fmt"

	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch-or-commit>",
		Short: "Merge another head into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := r.Merge(args[0])
			if err != nil {
				return err
			}

			return reportMerge(cmd, report)
		},
	}
}

// reportMerge prints the outcome of a merge and converts conflicts into
// the non-fatal conflict error. Shared with pull.
func reportMerge(cmd *cobra.Command, report *repo.MergeReport) error {
	if report == nil {
		return nil
	}
	if report.FastForward {
		fmt.Fprintf(cmd.OutOrStdout(), "Fast-forward to %s\n", report.Target)
		return nil
	}
	if report.HasConflicts {
		for _, p := range report.ConflictPaths() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Merge conflict in %s\n", p)
		}
		return repo.ErrMergeConflict
	}
	return nil
}
