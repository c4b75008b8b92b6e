package object

import "testing"

// buildChain stores blob ← tree ← commit and returns all three hashes.
func buildChain(t *testing.T, s *Store, content string, parents []Hash) (blob, tree, commit Hash) {
	t.Helper()

	blob, err := s.WriteBlob(&Blob{Data: []byte(content)})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree, err = s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Mode: TreeModeFile, Name: "f", Hash: blob},
	}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commit, err = s.WriteCommit(&CommitObj{
		TreeHash:  tree,
		Parents:   parents,
		Author:    "test",
		Timestamp: 1,
		Message:   "c\n",
	})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	return blob, tree, commit
}

func TestReachableSetFollowsCommitTreeBlob(t *testing.T) {
	s := NewStore(t.TempDir())

	b1, t1, c1 := buildChain(t, s, "one", nil)
	b2, t2, c2 := buildChain(t, s, "two", []Hash{c1})

	set, err := s.ReachableSet([]Hash{c2})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}

	for _, h := range []Hash{b1, t1, c1, b2, t2, c2} {
		if _, ok := set[h]; !ok {
			t.Errorf("reachable set missing %s", h)
		}
	}
	if len(set) != 6 {
		t.Errorf("reachable set size = %d, want 6", len(set))
	}
}

func TestReachableSetStopsAtRoot(t *testing.T) {
	s := NewStore(t.TempDir())

	b1, t1, c1 := buildChain(t, s, "one", nil)
	buildChain(t, s, "two", []Hash{c1})

	set, err := s.ReachableSet([]Hash{c1})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	if len(set) != 3 {
		t.Errorf("reachable set size = %d, want 3 (got %v)", len(set), set)
	}
	for _, h := range []Hash{b1, t1, c1} {
		if _, ok := set[h]; !ok {
			t.Errorf("reachable set missing %s", h)
		}
	}
}

func TestReachableSetIgnoresMissingRoots(t *testing.T) {
	s := NewStore(t.TempDir())
	missing := HashObject(TypeCommit, []byte("nowhere"))

	set, err := s.ReachableSet([]Hash{missing})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("reachable set = %v, want empty", set)
	}
}
