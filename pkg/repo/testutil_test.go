package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glazedonut/gnew/pkg/object"
)

// initRepo creates a fresh repository in a temp directory.
func initRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

// writeFile writes a working-tree file, creating parent directories.
func writeFile(t *testing.T, r *Repo, rel, content string) {
	t.Helper()
	abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// readFile reads a working-tree file.
func readFile(t *testing.T, r *Repo, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// mustTrack stages paths, failing the test on error.
func mustTrack(t *testing.T, r *Repo, paths ...string) {
	t.Helper()
	if err := r.Track(paths); err != nil {
		t.Fatalf("Track(%v): %v", paths, err)
	}
}

// mustCommit records a commit, failing the test on error.
func mustCommit(t *testing.T, r *Repo, message string) object.Hash {
	t.Helper()
	h, err := r.Commit(message, "tester")
	if err != nil {
		t.Fatalf("Commit(%q): %v", message, err)
	}
	return h
}

// commitFile writes, tracks, and commits a single file in one step.
func commitFile(t *testing.T, r *Repo, rel, content, message string) object.Hash {
	t.Helper()
	writeFile(t, r, rel, content)
	mustTrack(t, r, rel)
	return mustCommit(t, r, message)
}
