package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/glazedonut/gnew/pkg/object"
)

// Status codes as printed by the status command.
const (
	StatusUntracked = '?' // in working tree, not tracked
	StatusAdded     = 'A' // tracked, not in HEAD tree
	StatusRemoved   = 'R' // in HEAD tree but untracked, or tracked but gone from disk
	StatusModified  = 'M' // tracked and in HEAD, content differs
)

// StatusEntry records the status of a single path. Clean paths produce no
// entry.
type StatusEntry struct {
	Code byte
	Path string
}

// Status classifies every relevant path against HEAD's tree and the
// tracklist.
//
// Algorithm:
//  1. Walk the working directory (skipping .gnew/) into a path set.
//  2. Read the tracklist and flatten HEAD's tree.
//  3. Untracked: on disk, neither tracked nor in HEAD.
//     Added: tracked, not in HEAD.
//     Removed: in HEAD but untracked, or tracked but missing on disk.
//     Modified: tracked, in HEAD, blob hash differs.
//  4. Return entries sorted by path.
func (r *Repo) Status() ([]StatusEntry, error) {
	workFiles, err := r.workingFiles()
	if err != nil {
		return nil, err
	}

	t, err := r.ReadTracklist()
	if err != nil {
		return nil, err
	}

	headEntries, err := r.headTreeEntries()
	if err != nil {
		return nil, err
	}

	var entries []StatusEntry

	// Untracked working files.
	for p := range workFiles {
		if !t.Has(p) {
			if _, inHead := headEntries[p]; !inHead {
				entries = append(entries, StatusEntry{Code: StatusUntracked, Path: p})
			}
		}
	}

	// Tracked paths: added, removed (missing on disk), or modified.
	for _, p := range t.Paths() {
		headHash, inHead := headEntries[p]
		if !workFiles[p] {
			entries = append(entries, StatusEntry{Code: StatusRemoved, Path: p})
			continue
		}
		if !inHead {
			entries = append(entries, StatusEntry{Code: StatusAdded, Path: p})
			continue
		}

		abs := filepath.Join(r.RootDir, filepath.FromSlash(p))
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("status: read %q: %w", p, err)
		}
		if object.HashObject(object.TypeBlob, content) != headHash {
			entries = append(entries, StatusEntry{Code: StatusModified, Path: p})
		}
	}

	// HEAD paths dropped from the tracklist.
	for p := range headEntries {
		if !t.Has(p) {
			entries = append(entries, StatusEntry{Code: StatusRemoved, Path: p})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// workingFiles walks the working directory and returns the set of regular
// files as repo-relative slash paths, excluding .gnew/.
func (r *Repo) workingFiles() (map[string]bool, error) {
	files := make(map[string]bool)
	err := filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if rel == ".gnew" {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files[rel] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("status: walk: %w", err)
	}
	return files, nil
}

// headTreeEntries flattens HEAD's tree into path → blob hash. A repository
// with no commits yields an empty map.
func (r *Repo) headTreeEntries() (map[string]object.Hash, error) {
	result := make(map[string]object.Hash)

	headHash, err := r.HeadCommit()
	if err != nil || headHash == "" {
		return result, nil
	}

	files, err := r.CommitTreeFiles(headHash)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	for _, f := range files {
		result[f.Path] = f.Hash
	}
	return result, nil
}
