package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glazedonut/gnew/pkg/diff3"
	"github.com/glazedonut/gnew/pkg/object"
)

// FileMergeReport records the merge outcome for a single file.
type FileMergeReport struct {
	Path   string
	Status string // "clean", "conflict", "added", "deleted"
}

// MergeReport is the overall result of a repository-level merge.
type MergeReport struct {
	Files        []FileMergeReport
	HasConflicts bool
	FastForward  bool
	Target       object.Hash // the resolved other head
}

// ConflictPaths returns the conflicted paths in report order.
func (m *MergeReport) ConflictPaths() []string {
	var out []string
	for _, f := range m.Files {
		if f.Status == "conflict" {
			out = append(out, f.Path)
		}
	}
	return out
}

// FindMergeBase finds a lowest common ancestor of two commits using a
// synchronised BFS from both sides. Each visited commit is marked with the
// side that reached it; the first commit seen from both sides wins.
// Returns the empty hash when the commits share no ancestor.
func (r *Repo) FindMergeBase(a, b object.Hash) (object.Hash, error) {
	if a == "" || b == "" {
		return "", nil
	}
	if a == b {
		return a, nil
	}

	visitedA := map[object.Hash]struct{}{a: {}}
	visitedB := map[object.Hash]struct{}{b: {}}
	queueA := []object.Hash{a}
	queueB := []object.Hash{b}

	for len(queueA) > 0 || len(queueB) > 0 {
		var err error
		var found object.Hash

		found, queueA, err = r.stepMergeBase(queueA, visitedA, visitedB)
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}

		found, queueB, err = r.stepMergeBase(queueB, visitedB, visitedA)
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}
	}

	return "", nil
}

// stepMergeBase expands one commit from the queue, marking it in own and
// reporting it if the other side has already reached it.
func (r *Repo) stepMergeBase(queue []object.Hash, own, other map[object.Hash]struct{}) (object.Hash, []object.Hash, error) {
	if len(queue) == 0 {
		return "", queue, nil
	}
	cur := queue[0]
	queue = queue[1:]

	if _, ok := other[cur]; ok {
		return cur, queue, nil
	}

	commit, err := r.Store.ReadCommit(cur)
	if err != nil {
		return "", queue, fmt.Errorf("find merge base: %w", err)
	}
	for _, p := range commit.Parents {
		if p == "" {
			continue
		}
		if _, seen := own[p]; seen {
			continue
		}
		own[p] = struct{}{}
		if _, ok := other[p]; ok {
			return p, queue, nil
		}
		queue = append(queue, p)
	}
	return "", queue, nil
}

// IsAncestor reports whether ancestor is reachable from descendant by
// following parent links.
func (r *Repo) IsAncestor(ancestor, descendant object.Hash) (bool, error) {
	if ancestor == "" || descendant == "" {
		return false, nil
	}
	if ancestor == descendant {
		return true, nil
	}

	visited := map[object.Hash]struct{}{descendant: {}}
	queue := []object.Hash{descendant}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == ancestor {
			return true, nil
		}
		commit, err := r.Store.ReadCommit(cur)
		if err != nil {
			return false, fmt.Errorf("ancestor walk: %w", err)
		}
		for _, p := range commit.Parents {
			if p == "" {
				continue
			}
			if _, seen := visited[p]; seen {
				continue
			}
			visited[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	return false, nil
}

// Merge merges the given branch or commit into HEAD.
//
//   - other == HEAD, or other an ancestor of HEAD → ErrNothingToMerge.
//   - HEAD an ancestor of other → fast-forward: the branch ref moves and
//     the working tree updates; no commit is created.
//   - Otherwise a three-way merge against the LCA is written to the
//     working tree. The tracklist becomes the union of merged paths and
//     MERGE_HEAD records the other head for the next commit. Conflicted
//     files carry ours/original/theirs markers.
func (r *Repo) Merge(other string) (*MergeReport, error) {
	oursHash, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if oursHash == "" {
		return nil, fmt.Errorf("%w: HEAD", ErrRefNotFound)
	}

	theirsHash, err := r.ResolveCommit(other)
	if err != nil {
		return nil, err
	}

	if oursHash == theirsHash {
		return nil, ErrNothingToMerge
	}
	if anc, err := r.IsAncestor(theirsHash, oursHash); err != nil {
		return nil, err
	} else if anc {
		return nil, ErrNothingToMerge
	}

	// Fast-forward: ours is behind theirs.
	if anc, err := r.IsAncestor(oursHash, theirsHash); err != nil {
		return nil, err
	} else if anc {
		targetFiles, err := r.CommitTreeFiles(theirsHash)
		if err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		if err := r.materializeTree(targetFiles); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		branch, err := r.CurrentBranch()
		if err != nil {
			return nil, err
		}
		if err := r.UpdateBranch(branch, theirsHash); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		return &MergeReport{FastForward: true, Target: theirsHash}, nil
	}

	baseHash, err := r.FindMergeBase(oursHash, theirsHash)
	if err != nil {
		return nil, err
	}

	report, err := r.mergeTrees(baseHash, oursHash, theirsHash)
	if err != nil {
		return nil, err
	}
	report.Target = theirsHash

	if err := r.SetMergeHead(theirsHash); err != nil {
		return nil, err
	}
	return report, nil
}

// mergeTrees performs the per-path three-way merge and writes results to
// the working tree and tracklist.
func (r *Repo) mergeTrees(baseHash, oursHash, theirsHash object.Hash) (*MergeReport, error) {
	oursFiles, err := r.CommitTreeFiles(oursHash)
	if err != nil {
		return nil, fmt.Errorf("merge: flatten ours tree: %w", err)
	}
	theirsFiles, err := r.CommitTreeFiles(theirsHash)
	if err != nil {
		return nil, fmt.Errorf("merge: flatten theirs tree: %w", err)
	}

	// Base tree may be absent when the histories are unrelated.
	var baseFiles []TreeFileEntry
	if baseHash != "" {
		baseFiles, err = r.CommitTreeFiles(baseHash)
		if err != nil {
			return nil, fmt.Errorf("merge: flatten base tree: %w", err)
		}
	}

	baseMap := indexByPath(baseFiles)
	oursMap := indexByPath(oursFiles)
	theirsMap := indexByPath(theirsFiles)

	report := &MergeReport{}
	t := NewTracklist()

	type outFile struct {
		path    string
		content []byte
	}
	var results []outFile
	var removed []string

	for _, path := range collectAllPaths(baseMap, oursMap, theirsMap) {
		base, inBase := baseMap[path]
		ours, inOurs := oursMap[path]
		theirs, inTheirs := theirsMap[path]

		decide := func(content []byte, status string) {
			results = append(results, outFile{path: path, content: content})
			report.Files = append(report.Files, FileMergeReport{Path: path, Status: status})
			if status == "conflict" {
				report.HasConflicts = true
			}
		}

		switch {
		case inOurs && inTheirs:
			if ours.Hash == theirs.Hash || (inBase && base.Hash == theirs.Hash) {
				// Same on both sides, or only ours changed → take ours.
				content, err := r.blobData(ours.Hash)
				if err != nil {
					return nil, err
				}
				decide(content, "clean")
				continue
			}
			if inBase && base.Hash == ours.Hash {
				// Only theirs changed → take theirs.
				content, err := r.blobData(theirs.Hash)
				if err != nil {
					return nil, err
				}
				decide(content, "clean")
				continue
			}

			// Divergent edits → per-line three-way merge.
			var baseData []byte
			if inBase {
				if baseData, err = r.blobData(base.Hash); err != nil {
					return nil, err
				}
			}
			oursData, err := r.blobData(ours.Hash)
			if err != nil {
				return nil, err
			}
			theirsData, err := r.blobData(theirs.Hash)
			if err != nil {
				return nil, err
			}
			merged := diff3.Merge(baseData, oursData, theirsData)
			status := "clean"
			if merged.HasConflicts {
				status = "conflict"
			}
			decide(merged.Merged, status)

		case inOurs && !inTheirs:
			if inBase && base.Hash == ours.Hash {
				// Unchanged by us, deleted by them → take the deletion.
				removed = append(removed, path)
				report.Files = append(report.Files, FileMergeReport{Path: path, Status: "deleted"})
				continue
			}
			if !inBase {
				// Added by us only.
				content, err := r.blobData(ours.Hash)
				if err != nil {
					return nil, err
				}
				decide(content, "added")
				continue
			}
			// Modified by us, deleted by them → keep ours, conflict.
			content, err := r.blobData(ours.Hash)
			if err != nil {
				return nil, err
			}
			decide(content, "conflict")

		case !inOurs && inTheirs:
			if inBase && base.Hash == theirs.Hash {
				// Deleted by us, unchanged by them → stays deleted.
				removed = append(removed, path)
				report.Files = append(report.Files, FileMergeReport{Path: path, Status: "deleted"})
				continue
			}
			if !inBase {
				// Added by them only.
				content, err := r.blobData(theirs.Hash)
				if err != nil {
					return nil, err
				}
				decide(content, "added")
				continue
			}
			// Deleted by us, modified by them → keep theirs, conflict.
			content, err := r.blobData(theirs.Hash)
			if err != nil {
				return nil, err
			}
			decide(content, "conflict")

		default:
			// Only in base: deleted on both sides.
			removed = append(removed, path)
		}
	}

	// Write merged contents and rebuild the tracklist as the union.
	for _, f := range results {
		abs := filepath.Join(r.RootDir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("merge: mkdir %q: %w", filepath.Dir(abs), err)
		}
		if err := os.WriteFile(abs, f.content, 0o644); err != nil {
			return nil, fmt.Errorf("merge: write %q: %w", f.path, err)
		}
		t.Insert(f.path)
	}
	for _, p := range removed {
		abs := filepath.Join(r.RootDir, filepath.FromSlash(p))
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("merge: remove %q: %w", p, err)
		}
		r.removeEmptyParents(filepath.Dir(abs))
	}

	if err := r.WriteTracklist(t); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *Repo) blobData(h object.Hash) ([]byte, error) {
	blob, err := r.Store.ReadBlob(h)
	if err != nil {
		return nil, fmt.Errorf("merge read blob %s: %w", h, err)
	}
	return blob.Data, nil
}

func indexByPath(entries []TreeFileEntry) map[string]TreeFileEntry {
	m := make(map[string]TreeFileEntry, len(entries))
	for _, e := range entries {
		m[e.Path] = e
	}
	return m
}

func collectAllPaths(base, ours, theirs map[string]TreeFileEntry) []string {
	seen := make(map[string]struct{})
	for p := range base {
		seen[p] = struct{}{}
	}
	for p := range ours {
		seen[p] = struct{}{}
	}
	for p := range theirs {
		seen[p] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
