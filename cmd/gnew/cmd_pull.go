package main

import (
	"github.com/glazedonut/gnew/pkg/remote"
	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "pull <src>",
		Short: "Fetch objects from a peer and update local branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := remote.Pull(r, r.ResolvePeer(args[0]), all)
			if err != nil {
				return err
			}
			return reportMerge(cmd, report)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "pull every branch (non-current branches must fast-forward)")
	return cmd
}
