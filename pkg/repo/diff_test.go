package repo

import (
	"errors"
	"strings"
	"testing"
)

func TestDiffCommitsTwoFiles(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "foo on main\n", "foo on main")

	if err := r.Checkout("branch1", CheckoutOptions{CreateBranch: true}); err != nil {
		t.Fatalf("checkout -b: %v", err)
	}
	writeFile(t, r, "foo", "foo on branch1\n")
	mustCommit(t, r, "foo on branch1")
	commitFile(t, r, "bar", "bar\n", "bar")

	got, err := r.DiffCommits("main", "branch1")
	if err != nil {
		t.Fatalf("DiffCommits: %v", err)
	}

	want := "--- /dev/null\n" +
		"+++ b/bar\n" +
		"@@ -0,0 +1,1 @@\n" +
		"+bar\n" +
		"--- a/foo\n" +
		"+++ b/foo\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-foo on main\n" +
		"+foo on branch1\n"
	if got != want {
		t.Errorf("diff:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiffIdenticalTreesIsEmpty(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "foo\n", "add foo")

	got, err := r.DiffCommits("main", "main")
	if err != nil {
		t.Fatalf("DiffCommits: %v", err)
	}
	if got != "" {
		t.Errorf("diff(T, T) = %q, want empty", got)
	}
}

func TestDiffWorktreeAgainstHead(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "old\n", "add foo")
	writeFile(t, r, "foo", "new\n")

	got, err := r.DiffWorktree("")
	if err != nil {
		t.Fatalf("DiffWorktree: %v", err)
	}
	if !strings.Contains(got, "-old\n+new\n") {
		t.Errorf("worktree diff missing change:\n%s", got)
	}
}

func TestDiffWorktreeIgnoresUntracked(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "foo\n", "add foo")
	writeFile(t, r, "loose", "untracked\n")

	got, err := r.DiffWorktree("")
	if err != nil {
		t.Fatalf("DiffWorktree: %v", err)
	}
	if strings.Contains(got, "loose") {
		t.Errorf("untracked path leaked into diff:\n%s", got)
	}

	// Once tracked, the same path shows up as an addition.
	mustTrack(t, r, "loose")
	got, err = r.DiffWorktree("")
	if err != nil {
		t.Fatalf("DiffWorktree: %v", err)
	}
	if !strings.Contains(got, "+++ b/loose\n") {
		t.Errorf("tracked addition missing from diff:\n%s", got)
	}
}

func TestDiffUnknownCommit(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foo", "foo\n", "add foo")

	if _, err := r.DiffCommits("main", "nope"); !errors.Is(err, ErrRefNotFound) {
		t.Errorf("DiffCommits unknown = %v, want ErrRefNotFound", err)
	}
}
