package repo

import "errors"

// Sentinel errors carrying the stable diagnostic texts. The CLI prints
// them behind a "fatal: " prefix, so the wording here is part of the
// user-facing contract.
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrRefNotFound        = errors.New("reference not found")
	ErrBranchExists       = errors.New("branch already exists")
	ErrNothingToCommit    = errors.New("nothing to commit")
	ErrNothingToMerge     = errors.New("nothing to merge")
	ErrPushRejected       = errors.New("push rejected")
	ErrUntrackedOverwrite = errors.New("untracked files would be overwritten")

	// ErrMergeConflict signals a merge that wrote conflict markers. It is
	// not a fatal diagnostic: the command reports per-path conflicts on
	// stderr and exits non-zero without a fatal line.
	ErrMergeConflict = errors.New("merge conflict")
)
