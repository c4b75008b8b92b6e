package repo

import "github.com/glazedonut/gnew/pkg/object"

// Repo represents an opened Gnew repository.
type Repo struct {
	RootDir string        // working directory root
	GnewDir string        // .gnew/ directory
	Store   *object.Store // content-addressed object store
}
