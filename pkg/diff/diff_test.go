package diff

import (
	"strings"
	"testing"
)

func pair(path, a, b string) FilePair {
	return FilePair{Path: path, A: []byte(a), B: []byte(b), APresent: true, BPresent: true}
}

func TestFormatIdenticalIsEmpty(t *testing.T) {
	if out := Format(pair("f", "same\n", "same\n")); out != "" {
		t.Errorf("diff of identical content = %q, want empty", out)
	}
}

func TestFormatSingleLineChange(t *testing.T) {
	got := Format(pair("foo", "foo on main\n", "foo on branch1\n"))
	want := "--- a/foo\n" +
		"+++ b/foo\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-foo on main\n" +
		"+foo on branch1\n"
	if got != want {
		t.Errorf("diff:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatAddedFile(t *testing.T) {
	got := Format(FilePair{Path: "bar", B: []byte("bar\n"), BPresent: true})
	want := "--- /dev/null\n" +
		"+++ b/bar\n" +
		"@@ -0,0 +1,1 @@\n" +
		"+bar\n"
	if got != want {
		t.Errorf("diff:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatRemovedFile(t *testing.T) {
	got := Format(FilePair{Path: "gone", A: []byte("x\ny\n"), APresent: true})
	want := "--- a/gone\n" +
		"+++ /dev/null\n" +
		"@@ -1,2 +0,0 @@\n" +
		"-x\n" +
		"-y\n"
	if got != want {
		t.Errorf("diff:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatContextAndHunkSplit(t *testing.T) {
	// Two edits far enough apart must land in separate hunks with three
	// lines of context each.
	var a, b []string
	for i := 0; i < 20; i++ {
		line := "line"
		a = append(a, line)
		b = append(b, line)
	}
	a[2] = "old-top"
	b[2] = "new-top"
	a[17] = "old-bottom"
	b[17] = "new-bottom"

	got := Format(pair("f", strings.Join(a, "\n")+"\n", strings.Join(b, "\n")+"\n"))

	if count := strings.Count(got, "@@ -"); count != 2 {
		t.Fatalf("hunk count = %d, want 2:\n%s", count, got)
	}
	if !strings.Contains(got, "@@ -1,6 +1,6 @@\n") {
		t.Errorf("first hunk header missing:\n%s", got)
	}
	if !strings.Contains(got, "@@ -15,6 +15,6 @@\n") {
		t.Errorf("second hunk header missing:\n%s", got)
	}
	if !strings.Contains(got, "-old-top\n+new-top\n") {
		t.Errorf("first edit missing:\n%s", got)
	}
}

func TestFormatCoalescesNearbyHunks(t *testing.T) {
	a := "a\nb\nc\nd\ne\nf\ng\n"
	b := "A\nb\nc\nd\ne\nf\nG\n"

	got := Format(pair("f", a, b))
	// The two edits are 5 unchanged lines apart; with three lines of
	// context the hunks touch and merge into one.
	if count := strings.Count(got, "@@ -"); count != 1 {
		t.Errorf("hunk count = %d, want 1:\n%s", count, got)
	}
	if !strings.Contains(got, "@@ -1,7 +1,7 @@\n") {
		t.Errorf("hunk header missing:\n%s", got)
	}
}

func TestFormatBinaryStanza(t *testing.T) {
	got := Format(FilePair{
		Path:     "img.bin",
		A:        []byte{0x00, 0x01, 0x02},
		B:        []byte{0x00, 0xFF},
		APresent: true,
		BPresent: true,
	})
	want := "Binary files a/img.bin and b/img.bin differ\n"
	if got != want {
		t.Errorf("binary diff = %q, want %q", got, want)
	}
}

func TestChanged(t *testing.T) {
	if pair("f", "x\n", "x\n").Changed() {
		t.Error("identical pair reports changed")
	}
	if !pair("f", "x\n", "y\n").Changed() {
		t.Error("modified pair reports unchanged")
	}
	if !(FilePair{Path: "f", B: []byte("x"), BPresent: true}).Changed() {
		t.Error("added pair reports unchanged")
	}
}
