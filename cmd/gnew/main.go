package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "gnew",
		Short:         "Content-addressed, branch-oriented version control",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newWriteTreeCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newHeadsCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newCloneCmd())
	root.AddCommand(newPullCmd())
	root.AddCommand(newPushCmd())
	root.AddCommand(newCatCmd())
	root.AddCommand(newCatObjectCmd())

	if err := root.Execute(); err != nil {
		// Merge conflicts already reported per path on stderr; everything
		// else gets a single fatal line.
		if !errors.Is(err, repo.ErrMergeConflict) {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		}
		os.Exit(1)
	}
}
