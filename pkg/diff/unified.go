package diff

import (
	"bytes"
	"fmt"

	"github.com/glazedonut/gnew/pkg/diff3"
)

// contextLines is the number of unchanged lines shown around each edit.
// Hunks whose context regions touch or overlap are coalesced.
const contextLines = 3

// writeHunks renders an edit script as unified hunks onto b.
func writeHunks(b *bytes.Buffer, ops []diff3.DiffOp) {
	if len(ops) == 0 {
		return
	}

	// Mark the op indices included in some hunk: every edit plus up to
	// contextLines of surrounding equal lines.
	include := make([]bool, len(ops))
	for i, op := range ops {
		if op.Type == diff3.Equal {
			continue
		}
		lo := i - contextLines
		if lo < 0 {
			lo = 0
		}
		hi := i + contextLines
		if hi > len(ops)-1 {
			hi = len(ops) - 1
		}
		for j := lo; j <= hi; j++ {
			include[j] = true
		}
	}

	// aBefore/bBefore track how many lines of each side precede op i.
	aBefore := 0
	bBefore := 0

	i := 0
	for i < len(ops) {
		if !include[i] {
			switch ops[i].Type {
			case diff3.Equal:
				aBefore++
				bBefore++
			case diff3.Delete:
				aBefore++
			case diff3.Insert:
				bBefore++
			}
			i++
			continue
		}

		// Start of a hunk: collect the contiguous included run.
		start := i
		aCount := 0
		bCount := 0
		for i < len(ops) && include[i] {
			switch ops[i].Type {
			case diff3.Equal:
				aCount++
				bCount++
			case diff3.Delete:
				aCount++
			case diff3.Insert:
				bCount++
			}
			i++
		}

		aStart := aBefore + 1
		if aCount == 0 {
			aStart = aBefore
		}
		bStart := bBefore + 1
		if bCount == 0 {
			bStart = bBefore
		}
		fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", aStart, aCount, bStart, bCount)

		for j := start; j < i; j++ {
			switch ops[j].Type {
			case diff3.Equal:
				b.WriteString(" " + ops[j].Line + "\n")
				aBefore++
				bBefore++
			case diff3.Delete:
				b.WriteString("-" + ops[j].Line + "\n")
				aBefore++
			case diff3.Insert:
				b.WriteString("+" + ops[j].Line + "\n")
				bBefore++
			}
		}
	}
}
