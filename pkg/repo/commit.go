package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glazedonut/gnew/pkg/object"
)

// Commit records a snapshot of the tracked paths.
//
//  1. Build the root tree from the tracklist and working files.
//  2. Unless a merge is pending, reject an empty delta: HEAD exists and
//     its tree equals the new root, or HEAD has no commit and the
//     tracklist is empty.
//  3. Create the commit with parents (HEAD, MERGE_HEAD if present).
//  4. Store it, advance the current branch, clear any pending merge.
func (r *Repo) Commit(message, author string) (object.Hash, error) {
	treeHash, err := r.WriteTree()
	if err != nil {
		return "", err
	}

	headHash, err := r.HeadCommit()
	if err != nil {
		return "", err
	}

	mergeParent, err := r.MergeHead()
	if err != nil {
		return "", err
	}

	if mergeParent == "" {
		if headHash == "" {
			t, err := r.ReadTracklist()
			if err != nil {
				return "", err
			}
			if t.Len() == 0 {
				return "", ErrNothingToCommit
			}
		} else {
			headCommit, err := r.Store.ReadCommit(headHash)
			if err != nil {
				return "", err
			}
			if headCommit.TreeHash == treeHash {
				return "", ErrNothingToCommit
			}
		}
	}

	var parents []object.Hash
	if headHash != "" {
		parents = append(parents, headHash)
	}
	if mergeParent != "" && mergeParent != headHash {
		parents = append(parents, mergeParent)
	}

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}
	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parents:   parents,
		Author:    author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	}

	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return "", err
	}
	if err := r.UpdateBranch(branch, commitHash); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if mergeParent != "" {
		if err := r.ClearMergeHead(); err != nil {
			return "", err
		}
	}

	return commitHash, nil
}

// LogEntry pairs a commit with its hash during history traversal.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks the commit history starting from HEAD, following first-parent
// links, returning up to limit commits newest first. limit <= 0 means
// unlimited.
func (r *Repo) Log(limit int) ([]LogEntry, error) {
	start, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	current := start
	for current != "" {
		if limit > 0 && len(entries) >= limit {
			break
		}
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: read commit %s: %w", current, err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})

		if len(c.Parents) == 0 {
			break
		}
		current = c.Parents[0]
	}

	return entries, nil
}

// mergeHeadPath returns the path of the transient MERGE_HEAD file.
func (r *Repo) mergeHeadPath() string {
	return filepath.Join(r.GnewDir, "MERGE_HEAD")
}

// MergeHead returns the pending merge parent recorded by merge, or the
// empty hash when no merge is in progress.
func (r *Repo) MergeHead() (object.Hash, error) {
	data, err := os.ReadFile(r.mergeHeadPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read MERGE_HEAD: %w", err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// SetMergeHead records the second parent for the next commit.
func (r *Repo) SetMergeHead(h object.Hash) error {
	if err := os.WriteFile(r.mergeHeadPath(), []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write MERGE_HEAD: %w", err)
	}
	return nil
}

// ClearMergeHead removes the pending merge marker.
func (r *Repo) ClearMergeHead() error {
	if err := os.Remove(r.mergeHeadPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear MERGE_HEAD: %w", err)
	}
	return nil
}
