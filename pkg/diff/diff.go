package diff

import (
	"bytes"

	"github.com/glazedonut/gnew/pkg/diff3"
)

// FilePair is one path compared between two sides of a diff. A side that
// does not contain the path has Present=false and nil content.
type FilePair struct {
	Path     string
	A, B     []byte
	APresent bool
	BPresent bool
}

// Changed reports whether the pair would produce any output.
func (p FilePair) Changed() bool {
	if p.APresent != p.BPresent {
		return true
	}
	return !bytes.Equal(p.A, p.B)
}

// Format renders the unified diff for a single file pair. It returns the
// empty string when the two sides are identical. Binary content (either
// side containing a NUL byte) produces an informational stanza instead of
// a patch.
func Format(p FilePair) string {
	if !p.Changed() {
		return ""
	}

	if isBinary(p.A) || isBinary(p.B) {
		return "Binary files a/" + p.Path + " and b/" + p.Path + " differ\n"
	}

	var b bytes.Buffer
	if p.APresent {
		b.WriteString("--- a/" + p.Path + "\n")
	} else {
		b.WriteString("--- /dev/null\n")
	}
	if p.BPresent {
		b.WriteString("+++ b/" + p.Path + "\n")
	} else {
		b.WriteString("+++ /dev/null\n")
	}

	ops := diff3.DiffLines(diff3.SplitLines(string(p.A)), diff3.SplitLines(string(p.B)))
	writeHunks(&b, ops)
	return b.String()
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
