package diff3

import (
	"bytes"
	"slices"
	"strings"
)

// Result holds the outcome of a three-way merge.
type Result struct {
	Merged       []byte // Full merged content (with conflict markers if conflicts exist).
	HasConflicts bool   // True if any region conflicted.
	Conflicts    int    // Number of conflicted regions.
}

// Merge performs a three-way merge of base, ours, and theirs.
//
// Each side is aligned against the base by diffing it: every base line is
// either matched to a side line or marked as dropped by that side. Base
// lines matched by both sides with no pending insertions act as anchors
// and pass through unchanged. The stretches between anchors are resolved
// as a unit: a side that still equals the base yields to the other side,
// identical rewrites are taken once, and anything else becomes a conflict
// region bracketed by ours/original/theirs markers.
func Merge(base, ours, theirs []byte) Result {
	baseLines := SplitLines(string(base))
	oursLines := SplitLines(string(ours))
	theirsLines := SplitLines(string(theirs))

	m := &merger{
		base:   baseLines,
		ours:   oursLines,
		theirs: theirsLines,
		om:     matchIndexes(baseLines, oursLines),
		tm:     matchIndexes(baseLines, theirsLines),
	}
	m.run()

	return Result{
		Merged:       m.out.Bytes(),
		HasConflicts: m.conflicts > 0,
		Conflicts:    m.conflicts,
	}
}

// SplitLines breaks s at newlines. The terminator of the final line is
// swallowed rather than yielding a phantom empty line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// matchIndexes aligns side against base: the result has one slot per base
// line holding the side line index it matched, or -1 where the side
// dropped the line.
func matchIndexes(base, side []string) []int {
	m := make([]int, len(base))
	bi, si := 0, 0
	for _, op := range DiffLines(base, side) {
		switch op.Type {
		case Equal:
			m[bi] = si
			bi++
			si++
		case Delete:
			m[bi] = -1
			bi++
		case Insert:
			si++
		}
	}
	return m
}

// merger carries the cursors of the anchor walk: bi indexes the base,
// oi/ti the next unconsumed line of each side.
type merger struct {
	base, ours, theirs []string
	om, tm             []int

	bi, oi, ti int
	out        bytes.Buffer
	conflicts  int
}

func (m *merger) run() {
	for m.bi < len(m.base) || m.oi < len(m.ours) || m.ti < len(m.theirs) {
		if m.atAnchor() {
			m.emit(m.base[m.bi])
			m.bi++
			m.oi++
			m.ti++
			continue
		}
		m.resolveRegion()
	}
}

// atAnchor reports whether the current base line is kept by both sides
// and neither side has pending insertions before it.
func (m *merger) atAnchor() bool {
	return m.bi < len(m.base) && m.om[m.bi] == m.oi && m.tm[m.bi] == m.ti
}

// resolveRegion consumes everything up to the next anchor (or the end of
// all three inputs) and decides its merged content.
func (m *merger) resolveRegion() {
	// Find the next base line both sides kept; its side positions bound
	// the region on each side.
	next := m.bi
	for next < len(m.base) && (m.om[next] < 0 || m.tm[next] < 0) {
		next++
	}
	oEnd, tEnd := len(m.ours), len(m.theirs)
	if next < len(m.base) {
		oEnd, tEnd = m.om[next], m.tm[next]
	}

	baseSeg := m.base[m.bi:next]
	oursSeg := m.ours[m.oi:oEnd]
	theirsSeg := m.theirs[m.ti:tEnd]

	switch {
	case slices.Equal(oursSeg, theirsSeg):
		// Both sides agree (including both having deleted the region).
		m.emit(oursSeg...)
	case slices.Equal(baseSeg, oursSeg):
		// We kept the base; their rewrite wins.
		m.emit(theirsSeg...)
	case slices.Equal(baseSeg, theirsSeg):
		// They kept the base; our rewrite wins.
		m.emit(oursSeg...)
	default:
		m.conflicts++
		m.emit("<<<<<<< ours")
		m.emit(oursSeg...)
		m.emit("||||||| original")
		m.emit(baseSeg...)
		m.emit("=======")
		m.emit(theirsSeg...)
		m.emit(">>>>>>> theirs")
	}

	m.bi = next
	m.oi = oEnd
	m.ti = tEnd
}

func (m *merger) emit(lines ...string) {
	for _, l := range lines {
		m.out.WriteString(l)
		m.out.WriteByte('\n')
	}
}

