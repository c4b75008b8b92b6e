package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glazedonut/gnew/pkg/object"
)

// DefaultBranch is the branch created by Init.
const DefaultBranch = "main"

// Init creates a new Gnew repository at path. It creates the .gnew/
// directory structure: HEAD, objects/, and heads/. The initial branch is
// "main" with no commits. Returns an error if a .gnew/ directory already
// exists.
func Init(path string) (*Repo, error) {
	gnewDir := filepath.Join(path, ".gnew")

	// Fail if .gnew/ already exists.
	if _, err := os.Stat(gnewDir); err == nil {
		return nil, fmt.Errorf("repository already exists at %s", gnewDir)
	}

	dirs := []string{
		filepath.Join(gnewDir, "objects"),
		filepath.Join(gnewDir, "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	// Write default HEAD. The branch itself has no ref file until the
	// first commit.
	headPath := filepath.Join(gnewDir, "HEAD")
	if err := os.WriteFile(headPath, []byte(DefaultBranch+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return &Repo{
		RootDir: path,
		GnewDir: gnewDir,
		Store:   object.NewStore(gnewDir),
	}, nil
}

// Open searches upward from path for a .gnew/ directory and opens the
// repository. Returns an error if no .gnew/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gnewDir := filepath.Join(cur, ".gnew")
		info, err := os.Stat(gnewDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GnewDir: gnewDir,
				Store:   object.NewStore(gnewDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .gnew/.
			return nil, fmt.Errorf("not a gnew repository (or any parent up to /)")
		}
		cur = parent
	}
}
