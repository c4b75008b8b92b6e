package repo

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/glazedonut/gnew/pkg/object"
)

// countObjects walks .gnew/objects and counts container files.
func countObjects(t *testing.T, r *Repo) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(filepath.Join(r.GnewDir, "objects"), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk objects: %v", err)
	}
	return count
}

func TestFirstCommitStoresThreeObjects(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "foo", "foo\n")
	mustTrack(t, r, "foo")

	h := mustCommit(t, r, "add foo")

	if got := countObjects(t, r); got != 3 {
		t.Errorf("object count = %d, want 3 (blob, tree, commit)", got)
	}

	// heads/main equals the returned commit hash.
	ref, err := os.ReadFile(filepath.Join(r.GnewDir, "heads", "main"))
	if err != nil {
		t.Fatalf("read heads/main: %v", err)
	}
	if string(ref) != string(h)+"\n" {
		t.Errorf("heads/main = %q, want %q", ref, string(h)+"\n")
	}

	// The commit is a root with the right author and message.
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(c.Parents) != 0 {
		t.Errorf("parents = %v, want none", c.Parents)
	}
	if c.Author != "tester" {
		t.Errorf("author = %q", c.Author)
	}
	if c.Message != "add foo\n" {
		t.Errorf("message = %q", c.Message)
	}
}

func TestCommitChainsParents(t *testing.T) {
	r := initRepo(t)
	h1 := commitFile(t, r, "foo", "v1\n", "one")
	writeFile(t, r, "foo", "v2\n")
	h2 := mustCommit(t, r, "two")

	c, err := r.Store.ReadCommit(h2)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if len(c.Parents) != 1 || c.Parents[0] != h1 {
		t.Errorf("parents = %v, want [%s]", c.Parents, h1)
	}
}

func TestCommitRejectsEmptyDelta(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "v1\n", "one")

	if _, err := r.Commit("again", "tester"); !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("empty-delta commit = %v, want ErrNothingToCommit", err)
	}
}

func TestCommitRejectsEmptyRepo(t *testing.T) {
	r := initRepo(t)
	if _, err := r.Commit("nothing", "tester"); !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("commit in empty repo = %v, want ErrNothingToCommit", err)
	}
}

func TestCommitRestoresTrackedContent(t *testing.T) {
	// After commit, every tracked path's working content must equal the
	// blob reachable from the new tree at that path.
	r := initRepo(t)
	writeFile(t, r, "a/b/deep.txt", "deep\n")
	writeFile(t, r, "top.txt", "top\n")
	mustTrack(t, r, ".")
	h := mustCommit(t, r, "snapshot")

	files, err := r.CommitTreeFiles(h)
	if err != nil {
		t.Fatalf("CommitTreeFiles: %v", err)
	}
	byPath := make(map[string]object.Hash)
	for _, f := range files {
		byPath[f.Path] = f.Hash
	}
	if len(byPath) != 2 {
		t.Fatalf("tree files = %v, want 2", byPath)
	}

	for p, want := range byPath {
		content := readFile(t, r, p)
		if got := object.HashObject(object.TypeBlob, []byte(content)); got != want {
			t.Errorf("%s: working hash %s != tree hash %s", p, got, want)
		}
	}
}

func TestLogFollowsFirstParent(t *testing.T) {
	r := initRepo(t)
	h1 := commitFile(t, r, "foo", "v1\n", "one")
	writeFile(t, r, "foo", "v2\n")
	h2 := mustCommit(t, r, "two")
	writeFile(t, r, "foo", "v3\n")
	h3 := mustCommit(t, r, "three")

	entries, err := r.Log(0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("log length = %d, want 3", len(entries))
	}
	want := []object.Hash{h3, h2, h1}
	for i, e := range entries {
		if e.Hash != want[i] {
			t.Errorf("log[%d] = %s, want %s", i, e.Hash, want[i])
		}
	}

	limited, err := r.Log(2)
	if err != nil {
		t.Fatalf("Log(2): %v", err)
	}
	if len(limited) != 2 || limited[0].Hash != h3 || limited[1].Hash != h2 {
		t.Errorf("limited log = %v", limited)
	}
}

func TestWriteTreeSkipsMissingFiles(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "keep", "k\n")
	writeFile(t, r, "gone", "g\n")
	mustTrack(t, r, "keep", "gone")
	if err := os.Remove(filepath.Join(r.RootDir, "gone")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	root, err := r.WriteTree()
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	files, err := r.FlattenTree(root)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	if len(files) != 1 || files[0].Path != "keep" {
		t.Errorf("tree files = %v, want only keep", files)
	}
}
