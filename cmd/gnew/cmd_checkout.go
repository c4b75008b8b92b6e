package main

import (
	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var createBranch bool
	var force bool

	cmd := &cobra.Command{
		Use:   "checkout <branch-or-commit>",
		Short: "Switch branches or materialise a commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.Checkout(args[0], repo.CheckoutOptions{
				CreateBranch: createBranch,
				Force:        force,
			})
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "create the branch at the current commit, then switch")
	cmd.Flags().BoolVar(&force, "force", false, "skip the untracked-file safety check")
	return cmd
}
