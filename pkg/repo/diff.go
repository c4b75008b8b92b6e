package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glazedonut/gnew/pkg/diff"
	"github.com/glazedonut/gnew/pkg/object"
)

// DiffCommits renders the unified diff between two commits (branch names
// or raw hashes), ordered by the sorted union of changed paths.
func (r *Repo) DiffCommits(c1, c2 string) (string, error) {
	h1, err := r.ResolveCommit(c1)
	if err != nil {
		return "", err
	}
	h2, err := r.ResolveCommit(c2)
	if err != nil {
		return "", err
	}

	left, err := r.treeContents(h1)
	if err != nil {
		return "", err
	}
	right, err := r.treeContents(h2)
	if err != nil {
		return "", err
	}
	return renderDiff(left, right), nil
}

// DiffWorktree renders the unified diff between a commit and the working
// tree. An empty commit-ish means HEAD. The tracklist defines which
// working paths are considered, so untracked files only appear once
// tracked.
func (r *Repo) DiffWorktree(c1 string) (string, error) {
	var h object.Hash
	var err error
	if c1 == "" {
		h, err = r.HeadCommit()
		if err != nil {
			return "", err
		}
	} else {
		h, err = r.ResolveCommit(c1)
		if err != nil {
			return "", err
		}
	}

	left := make(map[string]fileContent)
	if h != "" {
		left, err = r.treeContents(h)
		if err != nil {
			return "", err
		}
	}

	t, err := r.ReadTracklist()
	if err != nil {
		return "", err
	}
	right := make(map[string]fileContent, t.Len())
	for _, p := range t.Paths() {
		abs := filepath.Join(r.RootDir, filepath.FromSlash(p))
		data, err := os.ReadFile(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("diff: read %q: %w", p, err)
		}
		right[p] = fileContent{data: data}
	}

	return renderDiff(left, right), nil
}

type fileContent struct {
	data []byte
}

// treeContents flattens a commit's tree into path → blob bytes.
func (r *Repo) treeContents(h object.Hash) (map[string]fileContent, error) {
	files, err := r.CommitTreeFiles(h)
	if err != nil {
		return nil, err
	}
	out := make(map[string]fileContent, len(files))
	for _, f := range files {
		blob, err := r.Store.ReadBlob(f.Hash)
		if err != nil {
			return nil, fmt.Errorf("diff: read blob for %q: %w", f.Path, err)
		}
		out[f.Path] = fileContent{data: blob.Data}
	}
	return out, nil
}

// renderDiff formats the per-file unified diffs over the sorted union of
// paths present on either side.
func renderDiff(left, right map[string]fileContent) string {
	seen := make(map[string]struct{}, len(left)+len(right))
	for p := range left {
		seen[p] = struct{}{}
	}
	for p := range right {
		seen[p] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		l, inLeft := left[p]
		r, inRight := right[p]
		b.WriteString(diff.Format(diff.FilePair{
			Path:     p,
			A:        l.data,
			B:        r.data,
			APresent: inLeft,
			BPresent: inRight,
		}))
	}
	return b.String()
}
