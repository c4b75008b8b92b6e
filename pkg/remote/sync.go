// Package remote synchronises repositories over the local filesystem.
// A peer is a working directory containing a .gnew/ repository, referenced
// by path at call time. Objects move between stores as plain copies of the
// container files; refs only ever fast-forward at the destination (pull may
// fall back to a three-way merge for the current branch).
package remote

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/glazedonut/gnew/pkg/object"
	"github.com/glazedonut/gnew/pkg/repo"
)

// OpenPeer opens the repository rooted exactly at path. Unlike repo.Open
// it does not search upward: a peer is the directory the caller named.
func OpenPeer(path string) (*repo.Repo, error) {
	gnewDir := filepath.Join(path, ".gnew")
	info, err := os.Stat(gnewDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("not a gnew repository: %s", path)
	}
	return &repo.Repo{
		RootDir: path,
		GnewDir: gnewDir,
		Store:   object.NewStore(gnewDir),
	}, nil
}

// Clone copies the repository at srcPath into destPath: all objects, all
// branch refs, HEAD set to main, and the working tree materialised at
// HEAD. It refuses to clone into a directory that already contains a
// .gnew/.
func Clone(srcPath, destPath string) (*repo.Repo, error) {
	src, err := OpenPeer(srcPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(destPath, ".gnew")); err == nil {
		return nil, fmt.Errorf("destination already contains a repository: %s", destPath)
	}
	if err := os.MkdirAll(destPath, 0o755); err != nil {
		return nil, fmt.Errorf("clone: mkdir %q: %w", destPath, err)
	}

	dest, err := repo.Init(destPath)
	if err != nil {
		return nil, err
	}

	// Clone copies the whole object directory, reachable or not.
	if err := copyAllObjects(src, dest); err != nil {
		return nil, err
	}

	// Copy every branch ref.
	branches, err := src.ListBranches()
	if err != nil {
		return nil, err
	}
	for _, b := range branches {
		h, err := src.BranchHash(b)
		if err != nil {
			return nil, err
		}
		if h == "" {
			continue
		}
		if err := dest.UpdateBranch(b, h); err != nil {
			return nil, err
		}
	}

	if err := dest.SetCurrentBranch(repo.DefaultBranch); err != nil {
		return nil, err
	}
	head, err := dest.HeadCommit()
	if err != nil {
		return nil, err
	}
	if head != "" {
		if err := dest.ResetWorktree(head); err != nil {
			return nil, err
		}
	}
	return dest, nil
}

// Pull updates r from the peer at srcPath. The current branch may merge;
// with all set, every remote branch is pulled and non-current branches
// must fast-forward. The returned report is non-nil when a three-way
// merge ran.
func Pull(r *repo.Repo, srcPath string, all bool) (*repo.MergeReport, error) {
	src, err := OpenPeer(srcPath)
	if err != nil {
		return nil, err
	}

	current, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}

	branches := []string{current}
	if all {
		if branches, err = src.ListBranches(); err != nil {
			return nil, err
		}
	}

	var report *repo.MergeReport
	for _, b := range branches {
		remoteHash, err := src.BranchHash(b)
		if err != nil {
			return nil, err
		}
		if remoteHash == "" {
			continue
		}

		if err := copyReachable(src.Store, r.Store, []object.Hash{remoteHash}); err != nil {
			return nil, err
		}

		localHash, err := r.BranchHash(b)
		if err != nil {
			return nil, err
		}
		if localHash == remoteHash {
			continue
		}

		ff, err := r.IsAncestor(localHash, remoteHash)
		if err != nil {
			return nil, err
		}
		if localHash == "" || ff {
			// Reset before moving the ref so the old HEAD tree still
			// defines which stale files to delete.
			if b == current {
				if err := r.ResetWorktree(remoteHash); err != nil {
					return nil, err
				}
			}
			if err := r.UpdateBranch(b, remoteHash); err != nil {
				return nil, err
			}
			continue
		}

		// Diverged. Only the current branch may merge.
		if b != current {
			return nil, fmt.Errorf("branch %q has diverged from the peer and cannot fast-forward", b)
		}
		behind, err := r.IsAncestor(remoteHash, localHash)
		if err != nil {
			return nil, err
		}
		if behind {
			// Local is ahead of the peer; nothing to pull.
			continue
		}
		if report, err = r.Merge(string(remoteHash)); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// Push updates the peer at destPath from r. A branch whose remote ref is
// not an ancestor of the local ref is rejected; nothing is force-pushed.
func Push(r *repo.Repo, destPath string, all bool) error {
	dest, err := OpenPeer(destPath)
	if err != nil {
		return err
	}

	current, err := r.CurrentBranch()
	if err != nil {
		return err
	}

	branches := []string{current}
	if all {
		if branches, err = r.ListBranches(); err != nil {
			return err
		}
	}

	for _, b := range branches {
		localHash, err := r.BranchHash(b)
		if err != nil {
			return err
		}
		if localHash == "" {
			continue
		}

		remoteHash, err := dest.BranchHash(b)
		if err != nil {
			return err
		}
		if remoteHash == localHash {
			continue
		}
		if remoteHash != "" {
			// The remote tip must already be in our history; anything else
			// would discard remote commits.
			anc, err := r.IsAncestor(remoteHash, localHash)
			if err != nil {
				return err
			}
			if !anc {
				return fmt.Errorf("%w: branch %s", repo.ErrPushRejected, b)
			}
		}

		if err := copyReachable(r.Store, dest.Store, []object.Hash{localHash}); err != nil {
			return err
		}
		if err := dest.UpdateBranch(b, localHash); err != nil {
			return err
		}
	}

	return nil
}

// copyAllObjects copies every container file under the source's objects/
// directory into the destination.
func copyAllObjects(src, dest *repo.Repo) error {
	srcObjects := filepath.Join(src.GnewDir, "objects")
	entries, err := os.ReadDir(srcObjects)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clone: read objects: %w", err)
	}

	for _, fan := range entries {
		if !fan.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(srcObjects, fan.Name()))
		if err != nil {
			return fmt.Errorf("clone: read objects/%s: %w", fan.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			h := object.Hash(fan.Name() + f.Name())
			if dest.Store.Has(h) {
				continue
			}
			if err := copyObjectFile(src.Store.ObjectPath(h), dest.Store.ObjectPath(h)); err != nil {
				return fmt.Errorf("copy object %s: %w", h, err)
			}
		}
	}
	return nil
}

// copyReachable copies every object reachable from roots that the
// destination does not already have. The container files are copied
// verbatim (the encoding is identical on both sides) via temp + rename.
func copyReachable(src, dest *object.Store, roots []object.Hash) error {
	reachable, err := src.ReachableSet(roots)
	if err != nil {
		return err
	}

	for h := range reachable {
		if dest.Has(h) {
			continue
		}
		if err := copyObjectFile(src.ObjectPath(h), dest.ObjectPath(h)); err != nil {
			return fmt.Errorf("copy object %s: %w", h, err)
		}
	}
	return nil
}

func copyObjectFile(srcPath, destPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, destPath); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
