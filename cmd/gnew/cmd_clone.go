package main

import (
	"github.com/glazedonut/gnew/pkg/remote"
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <src>",
		Short: "Copy a peer repository into the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := remote.Clone(args[0], ".")
			return err
		},
	}
}
