package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Name for
// deterministic output. Each entry is encoded as
//
//	<mode> <name>\0<hash_20_bytes>
//
// where mode is 100644 for regular files and 40000 for subtrees.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	prev := ""
	for i, e := range sorted {
		if err := validateEntryName(e.Name); err != nil {
			return nil, fmt.Errorf("marshal tree: %w", err)
		}
		if i > 0 && e.Name == prev {
			return nil, fmt.Errorf("marshal tree: duplicate entry name %q", e.Name)
		}
		prev = e.Name

		mode := e.Mode
		if mode == "" {
			mode = TreeModeFile
		}
		if mode != TreeModeFile && mode != TreeModeDir {
			return nil, fmt.Errorf("marshal tree: unknown mode %q for %q", mode, e.Name)
		}

		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != 20 {
			return nil, fmt.Errorf("marshal tree: invalid hash %q for %q", e.Hash, e.Name)
		}

		buf.WriteString(mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses a TreeObj from its serialized form. Entries must be
// sorted by name and unique; anything else is rejected.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	rest := data
	prev := ""
	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing mode separator")
		}
		mode := string(rest[:sp])
		if mode != TreeModeFile && mode != TreeModeDir {
			return nil, fmt.Errorf("unmarshal tree: unknown mode %q", mode)
		}
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing name terminator")
		}
		name := string(rest[:nul])
		if err := validateEntryName(name); err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		rest = rest[nul+1:]

		if len(rest) < 20 {
			return nil, fmt.Errorf("unmarshal tree: truncated hash for %q", name)
		}
		h := Hash(hex.EncodeToString(rest[:20]))
		rest = rest[20:]

		if len(tr.Entries) > 0 {
			if name == prev {
				return nil, fmt.Errorf("unmarshal tree: duplicate entry name %q", name)
			}
			if name < prev {
				return nil, fmt.Errorf("unmarshal tree: entries out of order (%q after %q)", name, prev)
			}
		}
		prev = name

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}
	return tr, nil
}

func validateEntryName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid entry name %q", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("invalid entry name %q", name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent H     (zero or more, in order)
//	author A T
//
//	message
//
// The message always ends with a newline in the canonical form.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.TreeHash))
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", string(p))
	}
	fmt.Fprintf(&buf, "author %s %d\n", c.Author, c.Timestamp)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	if !strings.HasSuffix(c.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &CommitObj{Message: message}
	sawAuthor := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "tree":
			if c.TreeHash != "" {
				return nil, fmt.Errorf("unmarshal commit: duplicate tree header")
			}
			if !ValidHash(val) {
				return nil, fmt.Errorf("unmarshal commit: bad tree hash %q", val)
			}
			c.TreeHash = Hash(val)
		case "parent":
			if !ValidHash(val) {
				return nil, fmt.Errorf("unmarshal commit: bad parent hash %q", val)
			}
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			// The author display name may contain spaces; the timestamp
			// is the final space-separated field.
			cut := strings.LastIndexByte(val, ' ')
			if cut < 0 {
				return nil, fmt.Errorf("unmarshal commit: malformed author line %q", line)
			}
			ts, err := strconv.ParseInt(val[cut+1:], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", val[cut+1:], err)
			}
			c.Author = val[:cut]
			c.Timestamp = ts
			sawAuthor = true
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	if c.TreeHash == "" {
		return nil, fmt.Errorf("unmarshal commit: missing tree header")
	}
	if !sawAuthor {
		return nil, fmt.Errorf("unmarshal commit: missing author header")
	}
	return c, nil
}
