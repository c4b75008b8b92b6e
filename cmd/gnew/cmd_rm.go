package main

import (
	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <paths...>",
		Short: "Take paths out of version control",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.Untrack(args)
		},
	}
}
