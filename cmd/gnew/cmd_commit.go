package main

import (
	"fmt"
	"strings"

	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "commit <message>",
		Short: "Record a snapshot of the tracked paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if author == "" {
				author = r.Author()
			}

			h, err := r.Commit(strings.Join(args, " "), author)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(h))
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "override author (default: config, then $USER)")
	return cmd
}
