package main

import (
	"github.com/glazedonut/gnew/pkg/remote"
	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "push <dest>",
		Short: "Send local commits to a peer and fast-forward its refs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return remote.Push(r, r.ResolvePeer(args[0]), all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "push every branch")
	return cmd
}
