package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glazedonut/gnew/pkg/object"
)

// headPath returns the path of the .gnew/HEAD file.
func (r *Repo) headPath() string {
	return filepath.Join(r.GnewDir, "HEAD")
}

// branchPath returns the ref file path for a branch name.
func (r *Repo) branchPath(name string) string {
	return filepath.Join(r.GnewDir, "heads", name)
}

// CurrentBranch reads .gnew/HEAD and returns the current branch name.
func (r *Repo) CurrentBranch() (string, error) {
	data, err := os.ReadFile(r.headPath())
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SetCurrentBranch points HEAD at the named branch.
func (r *Repo) SetCurrentBranch(name string) error {
	if err := os.WriteFile(r.headPath(), []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// BranchExists reports whether the branch has a ref file or is the current
// branch. A branch with no commits yet has no ref file; only HEAD knows
// about it.
func (r *Repo) BranchExists(name string) bool {
	if _, err := os.Stat(r.branchPath(name)); err == nil {
		return true
	}
	cur, err := r.CurrentBranch()
	return err == nil && cur == name
}

// BranchHash reads the commit hash a branch points at. A branch that
// exists but has no commits yields the empty hash.
func (r *Repo) BranchHash(name string) (object.Hash, error) {
	data, err := os.ReadFile(r.branchPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read branch %q: %w", name, err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// UpdateBranch writes a commit hash to the branch's ref file. The write is
// atomic: a temp file in heads/ renamed into place.
func (r *Repo) UpdateBranch(name string, h object.Hash) error {
	dir := filepath.Dir(r.branchPath(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("update branch %q: mkdir: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, ".ref-tmp-*")
	if err != nil {
		return fmt.Errorf("update branch %q: tmpfile: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(string(h) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("update branch %q: write: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update branch %q: close: %w", name, err)
	}
	if err := os.Rename(tmpName, r.branchPath(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("update branch %q: rename: %w", name, err)
	}
	return nil
}

// ListBranches returns all branch names sorted alphabetically. The current
// branch is included even when it has no ref file yet.
func (r *Repo) ListBranches() ([]string, error) {
	headsDir := filepath.Join(r.GnewDir, "heads")

	seen := make(map[string]struct{})
	entries, err := os.ReadDir(headsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		seen[e.Name()] = struct{}{}
	}

	if cur, err := r.CurrentBranch(); err == nil && cur != "" {
		seen[cur] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// HeadCommit resolves HEAD to a commit hash. A freshly initialised
// repository (branch with no commits) yields the empty hash.
func (r *Repo) HeadCommit() (object.Hash, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return "", err
	}
	return r.BranchHash(branch)
}

// ResolveCommit resolves a branch name or a raw commit hash to a commit
// hash. Branch names take priority. Returns ErrRefNotFound when neither
// form resolves.
func (r *Repo) ResolveCommit(name string) (object.Hash, error) {
	if h, err := r.BranchHash(name); err == nil && h != "" {
		return h, nil
	}
	if object.ValidHash(name) && r.Store.Has(object.Hash(name)) {
		return object.Hash(name), nil
	}
	return "", fmt.Errorf("%w: %s", ErrRefNotFound, name)
}
