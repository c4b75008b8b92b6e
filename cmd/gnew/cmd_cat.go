package main

import (
	"fmt"
	"strings"

	"github.com/glazedonut/gnew/pkg/object"
	"github.com/glazedonut/gnew/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <commit-ish> <path>",
		Short: "Print a file's content from a commit's tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.ResolveCommit(args[0])
			if err != nil {
				return err
			}
			files, err := r.CommitTreeFiles(h)
			if err != nil {
				return err
			}
			for _, f := range files {
				if f.Path == args[1] {
					blob, err := r.Store.ReadBlob(f.Hash)
					if err != nil {
						return err
					}
					cmd.OutOrStdout().Write(blob.Data)
					return nil
				}
			}
			return fmt.Errorf("%w: %s", repo.ErrFileNotFound, args[1])
		},
	}
}

func newCatObjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-object <hash>",
		Short: "Print a readable rendering of any stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if !object.ValidHash(args[0]) || !r.Store.Has(object.Hash(args[0])) {
				return fmt.Errorf("%w: %s", repo.ErrRefNotFound, args[0])
			}
			h := object.Hash(args[0])

			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch objType {
			case object.TypeBlob:
				out.Write(data)
			case object.TypeTree:
				tree, err := object.UnmarshalTree(data)
				if err != nil {
					return fmt.Errorf("%w %s: %v", object.ErrCorrupt, h, err)
				}
				for _, e := range tree.Entries {
					kind := "blob"
					if e.IsDir() {
						kind = "tree"
					}
					fmt.Fprintf(out, "%s %s %s\t%s\n", padMode(e.Mode), kind, e.Hash, e.Name)
				}
			case object.TypeCommit:
				out.Write(data)
			}
			return nil
		},
	}
}

// padMode left-pads tree modes to git's six-column display width.
func padMode(mode string) string {
	if len(mode) >= 6 {
		return mode
	}
	return strings.Repeat("0", 6-len(mode)) + mode
}
