package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glazedonut/gnew/pkg/object"
)

// CheckoutOptions controls Checkout behavior.
type CheckoutOptions struct {
	CreateBranch bool // create the branch at the current commit, then switch
	Force        bool // skip the untracked-overwrite safety check
}

// Checkout switches to a branch or materialises a commit.
//
//   - A branch target moves HEAD to the branch and updates the working
//     tree to its commit.
//   - A raw commit hash updates the working tree and tracklist but leaves
//     HEAD and all branch refs untouched.
//   - With CreateBranch, the target names a new branch created at the
//     current commit; the working tree is already there, so only the refs
//     move.
func (r *Repo) Checkout(target string, opts CheckoutOptions) error {
	if opts.CreateBranch {
		if r.BranchExists(target) {
			return fmt.Errorf("%w: %s", ErrBranchExists, target)
		}
		head, err := r.HeadCommit()
		if err != nil {
			return err
		}
		if head != "" {
			if err := r.UpdateBranch(target, head); err != nil {
				return err
			}
		}
		return r.SetCurrentBranch(target)
	}

	// Resolve target: branch name first, then raw commit hash.
	isBranch := false
	var targetHash object.Hash
	if h, err := r.BranchHash(target); err == nil && h != "" {
		targetHash = h
		isBranch = true
	} else if cur, err := r.CurrentBranch(); err == nil && cur == target {
		// Switching to the current (possibly unborn) branch is a no-op.
		return nil
	} else if object.ValidHash(target) && r.Store.Has(object.Hash(target)) {
		targetHash = object.Hash(target)
	} else {
		return fmt.Errorf("%w: %s", ErrRefNotFound, target)
	}

	targetFiles, err := r.CommitTreeFiles(targetHash)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if !opts.Force {
		if err := r.checkUntrackedOverwrite(targetFiles); err != nil {
			return err
		}
	}

	if err := r.materializeTree(targetFiles); err != nil {
		return err
	}

	if isBranch {
		if err := r.SetCurrentBranch(target); err != nil {
			return err
		}
	}
	return nil
}

// ResetWorktree materialises the given commit into the working tree and
// tracklist without touching HEAD or any branch ref. Used by the sync
// layer (clone and pull).
func (r *Repo) ResetWorktree(commit object.Hash) error {
	files, err := r.CommitTreeFiles(commit)
	if err != nil {
		return err
	}
	return r.materializeTree(files)
}

// checkUntrackedOverwrite fails when writing the target tree would change
// the content of a working-tree file that is not under version control.
func (r *Repo) checkUntrackedOverwrite(targetFiles []TreeFileEntry) error {
	t, err := r.ReadTracklist()
	if err != nil {
		return err
	}

	for _, f := range targetFiles {
		if t.Has(f.Path) {
			continue
		}
		abs := filepath.Join(r.RootDir, filepath.FromSlash(f.Path))
		content, err := os.ReadFile(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("checkout: read %q: %w", f.Path, err)
		}
		if object.HashObject(object.TypeBlob, content) != f.Hash {
			return fmt.Errorf("%w: %s", ErrUntrackedOverwrite, f.Path)
		}
	}
	return nil
}

// materializeTree updates the working tree from the current HEAD tree to
// the target file set: paths only in the current tree are deleted, target
// paths are written, and the tracklist is rewritten to exactly the target
// paths.
func (r *Repo) materializeTree(targetFiles []TreeFileEntry) error {
	targetMap := make(map[string]TreeFileEntry, len(targetFiles))
	for _, f := range targetFiles {
		targetMap[f.Path] = f
	}

	current, err := r.headTreeEntries()
	if err != nil {
		return err
	}
	for p := range current {
		if _, keep := targetMap[p]; keep {
			continue
		}
		abs := filepath.Join(r.RootDir, filepath.FromSlash(p))
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("checkout: remove %q: %w", p, err)
		}
		r.removeEmptyParents(filepath.Dir(abs))
	}

	t := NewTracklist()
	for _, f := range targetFiles {
		abs := filepath.Join(r.RootDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir %q: %w", filepath.Dir(abs), err)
		}
		blob, err := r.Store.ReadBlob(f.Hash)
		if err != nil {
			return fmt.Errorf("checkout: read blob for %q: %w", f.Path, err)
		}
		if err := os.WriteFile(abs, blob.Data, 0o644); err != nil {
			return fmt.Errorf("checkout: write %q: %w", f.Path, err)
		}
		t.Insert(f.Path)
	}

	return r.WriteTracklist(t)
}

// removeEmptyParents removes empty directories up to (but not including)
// the repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir) {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}

		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}
