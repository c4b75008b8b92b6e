package repo

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glazedonut/gnew/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path string
	Hash object.Hash
	Mode string
}

// WriteTree builds a tree from the tracklist and the working directory:
// every tracked path present on disk is read, stored as a blob, and placed
// under its path, with intermediate directories becoming subtree objects.
// Tracked paths missing from the working tree are left out (they show up
// as removals in status and in the next commit). Returns the root tree
// hash.
func (r *Repo) WriteTree() (object.Hash, error) {
	t, err := r.ReadTracklist()
	if err != nil {
		return "", err
	}

	blobs := make(map[string]object.Hash)
	for _, p := range t.SortedPaths() {
		abs := filepath.Join(r.RootDir, filepath.FromSlash(p))
		content, err := os.ReadFile(abs)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("write-tree: read %q: %w", p, err)
		}
		h, err := r.Store.WriteBlob(&object.Blob{Data: content})
		if err != nil {
			return "", fmt.Errorf("write-tree: blob %q: %w", p, err)
		}
		blobs[p] = h
	}

	return r.storeTrees(blobs)
}

// storeTrees writes one tree object per directory, bottom-up: files are
// bucketed by their containing directory, directories are processed
// deepest first so every subtree hash exists before the parent tree that
// references it, and the root tree comes out last.
func (r *Repo) storeTrees(blobs map[string]object.Hash) (object.Hash, error) {
	files := make(map[string][]object.TreeEntry)
	dirSet := map[string]struct{}{"": {}}
	for p, h := range blobs {
		dir := parentDir(p)
		files[dir] = append(files[dir], object.TreeEntry{
			Mode: object.TreeModeFile,
			Name: path.Base(p),
			Hash: h,
		})
		for d := dir; d != ""; d = parentDir(d) {
			dirSet[d] = struct{}{}
		}
	}

	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := dirDepth(dirs[i]), dirDepth(dirs[j])
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})

	subtrees := make(map[string][]object.TreeEntry)
	for _, d := range dirs {
		treeObj := &object.TreeObj{Entries: append(files[d], subtrees[d]...)}
		h, err := r.Store.WriteTree(treeObj)
		if err != nil {
			return "", fmt.Errorf("write tree %q: %w", d, err)
		}
		if d == "" {
			// The root sorts last; everything below it is already stored.
			return h, nil
		}
		parent := parentDir(d)
		subtrees[parent] = append(subtrees[parent], object.TreeEntry{
			Mode: object.TreeModeDir,
			Name: path.Base(d),
			Hash: h,
		})
	}

	return "", fmt.Errorf("write tree: no root directory")
}

// parentDir returns the containing directory of a slash path, "" at the
// top level.
func parentDir(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// dirDepth counts path segments; the repository root is depth zero.
func dirDepth(d string) int {
	if d == "" {
		return 0
	}
	return strings.Count(d, "/") + 1
}

// FlattenTree expands a tree object into the files below it, with full
// slash-separated paths, sorted by path. The walk is iterative: a stack
// of pending (subtree, prefix) pairs replaces recursion.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	type pending struct {
		hash   object.Hash
		prefix string
	}

	var files []TreeFileEntry
	stack := []pending{{hash: h}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tr, err := r.Store.ReadTree(cur.hash)
		if err != nil {
			return nil, fmt.Errorf("flatten tree %s: %w", cur.hash, err)
		}
		for _, e := range tr.Entries {
			p := e.Name
			if cur.prefix != "" {
				p = cur.prefix + "/" + e.Name
			}
			if e.IsDir() {
				stack = append(stack, pending{hash: e.Hash, prefix: p})
			} else {
				files = append(files, TreeFileEntry{Path: p, Hash: e.Hash, Mode: e.Mode})
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// CommitTreeFiles resolves a commit hash to its flattened tree.
func (r *Repo) CommitTreeFiles(h object.Hash) ([]TreeFileEntry, error) {
	commit, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	return r.FlattenTree(commit.TreeHash)
}
