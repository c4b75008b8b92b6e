package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Tracklist is the set of repository-relative paths under version control.
// Membership is what matters; insertion order is preserved only for
// display stability.
type Tracklist struct {
	paths []string
	index map[string]struct{}
}

// NewTracklist returns an empty tracklist.
func NewTracklist() *Tracklist {
	return &Tracklist{index: make(map[string]struct{})}
}

// Has reports whether path is tracked.
func (t *Tracklist) Has(path string) bool {
	_, ok := t.index[path]
	return ok
}

// Insert adds a path if not already present. Reports whether it was added.
func (t *Tracklist) Insert(path string) bool {
	if t.Has(path) {
		return false
	}
	t.paths = append(t.paths, path)
	t.index[path] = struct{}{}
	return true
}

// Delete removes a path. Reports whether it was present.
func (t *Tracklist) Delete(path string) bool {
	if !t.Has(path) {
		return false
	}
	delete(t.index, path)
	for i, p := range t.paths {
		if p == path {
			t.paths = append(t.paths[:i], t.paths[i+1:]...)
			break
		}
	}
	return true
}

// Paths returns the tracked paths in insertion order.
func (t *Tracklist) Paths() []string {
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// SortedPaths returns the tracked paths sorted ascending.
func (t *Tracklist) SortedPaths() []string {
	out := t.Paths()
	sort.Strings(out)
	return out
}

// Len returns the number of tracked paths.
func (t *Tracklist) Len() int {
	return len(t.paths)
}

// tracklistPath returns the filesystem path of the tracklist file.
func (r *Repo) tracklistPath() string {
	return filepath.Join(r.GnewDir, "tracklist")
}

// ReadTracklist loads the tracklist from .gnew/tracklist. A missing file
// yields an empty tracklist.
func (r *Repo) ReadTracklist() (*Tracklist, error) {
	data, err := os.ReadFile(r.tracklistPath())
	if err != nil {
		if os.IsNotExist(err) {
			return NewTracklist(), nil
		}
		return nil, fmt.Errorf("read tracklist: %w", err)
	}

	t := NewTracklist()
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			t.Insert(line)
		}
	}
	return t, nil
}

// WriteTracklist atomically writes the tracklist to .gnew/tracklist.
func (r *Repo) WriteTracklist(t *Tracklist) error {
	var b strings.Builder
	for _, p := range t.paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(r.GnewDir, ".tracklist-tmp-*")
	if err != nil {
		return fmt.Errorf("write tracklist: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write tracklist: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write tracklist: close: %w", err)
	}
	if err := os.Rename(tmpName, r.tracklistPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write tracklist: rename: %w", err)
	}
	return nil
}

// Track inserts the given paths into the tracklist. A path naming a
// regular file is inserted directly; a directory is walked depth-first and
// every regular file below it is inserted. The .gnew directory is always
// excluded. A path that does not exist fails with ErrFileNotFound.
// Re-tracking an already-tracked path is a no-op.
func (r *Repo) Track(paths []string) error {
	t, err := r.ReadTracklist()
	if err != nil {
		return err
	}

	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			return err
		}

		abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}

		if !info.IsDir() {
			if rel != ".gnew" && !strings.HasPrefix(rel, ".gnew/") {
				t.Insert(rel)
			}
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			sub, err := filepath.Rel(r.RootDir, path)
			if err != nil {
				return err
			}
			sub = filepath.ToSlash(sub)
			if d.IsDir() {
				if sub == ".gnew" {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				t.Insert(sub)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("track %q: %w", p, err)
		}
	}

	return r.WriteTracklist(t)
}

// Untrack removes the given paths from the tracklist. The on-disk files
// are left alone; removal succeeds whether or not a file still exists. A
// path that is not tracked fails with ErrFileNotFound.
func (r *Repo) Untrack(paths []string) error {
	t, err := r.ReadTracklist()
	if err != nil {
		return err
	}

	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			return err
		}
		if !t.Delete(rel) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
	}

	return r.WriteTracklist(t)
}

// repoRelPath converts a path (absolute, or relative to CWD) into a
// slash-separated path relative to the repository root. A relative path
// that does not resolve inside the repository via CWD is assumed to
// already be repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
			return "", fmt.Errorf("path %q is outside repository", p)
		}
		return filepath.ToSlash(rel), nil
	}

	if cwd, err := os.Getwd(); err == nil {
		rel, err := filepath.Rel(r.RootDir, filepath.Join(cwd, p))
		if err == nil && rel != ".." && !strings.HasPrefix(rel, "../") {
			return filepath.ToSlash(rel), nil
		}
	}

	return filepath.ToSlash(filepath.Clean(p)), nil
}
