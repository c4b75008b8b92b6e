package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [N]",
		Short: "Show commit history following first parents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid commit count %q", args[0])
				}
				limit = n
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			entries, err := r.Log(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "commit %s\n", e.Hash)
				fmt.Fprintf(out, "author %s\n", e.Commit.Author)
				fmt.Fprintf(out, "date %s\n", time.Unix(e.Commit.Timestamp, 0).UTC().Format(time.RFC3339))
				fmt.Fprintln(out)
				for _, line := range strings.Split(strings.TrimRight(e.Commit.Message, "\n"), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
