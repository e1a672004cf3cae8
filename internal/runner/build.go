package runner

import (
	"fmt"
	"os"
	"path/filepath"
)

// buildDir is the scratch directory a compiled solution lives in for the
// length of one test run.
type buildDir struct {
	path string
}

func newBuildDir() (*buildDir, error) {
	path, err := os.MkdirTemp("", "kattis-grind-build-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}
	return &buildDir{path: path}, nil
}

func (b *buildDir) binary() string {
	return filepath.Join(b.path, "solution"+exeSuffix)
}

// cleanup removes the build directory and everything the compiler left in
// it.
func (b *buildDir) cleanup() error {
	if err := os.RemoveAll(b.path); err != nil {
		return fmt.Errorf("failed to delete directory %s: %w", b.path, err)
	}
	return nil
}
