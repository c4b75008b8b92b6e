package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func statusMap(t *testing.T, r *Repo) map[string]byte {
	t.Helper()
	entries, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	m := make(map[string]byte, len(entries))
	for _, e := range entries {
		m[e.Path] = e.Code
	}
	return m
}

func TestStatusUntracked(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "loose", "x\n")

	st := statusMap(t, r)
	if st["loose"] != StatusUntracked {
		t.Errorf("loose = %q, want ?", st["loose"])
	}
}

func TestStatusAdded(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "new", "x\n")
	mustTrack(t, r, "new")

	st := statusMap(t, r)
	if st["new"] != StatusAdded {
		t.Errorf("new = %q, want A", st["new"])
	}
}

func TestStatusModified(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "v1\n", "add foo")
	writeFile(t, r, "foo", "v2\n")

	st := statusMap(t, r)
	if st["foo"] != StatusModified {
		t.Errorf("foo = %q, want M", st["foo"])
	}
}

func TestStatusRemovedFromTracklist(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "v1\n", "add foo")
	if err := r.Untrack([]string{"foo"}); err != nil {
		t.Fatalf("Untrack: %v", err)
	}

	st := statusMap(t, r)
	if st["foo"] != StatusRemoved {
		t.Errorf("foo = %q, want R", st["foo"])
	}
}

func TestStatusRemovedFromDisk(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "v1\n", "add foo")
	if err := os.Remove(filepath.Join(r.RootDir, "foo")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st := statusMap(t, r)
	if st["foo"] != StatusRemoved {
		t.Errorf("foo = %q, want R", st["foo"])
	}
}

func TestStatusCleanPathsOmitted(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "v1\n", "add foo")

	st := statusMap(t, r)
	if _, present := st["foo"]; present {
		t.Errorf("clean path foo reported with %q", st["foo"])
	}
	if len(st) != 0 {
		t.Errorf("status = %v, want empty", st)
	}
}

func TestStatusSortedByPath(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "b", "b\n")
	writeFile(t, r, "a", "a\n")

	entries, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != "a" || entries[1].Path != "b" {
		t.Errorf("entries = %v, want sorted [a b]", entries)
	}
}
