package util

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks up from the working directory to the nearest directory
// containing .git. Falls back to the working directory itself when no
// repository encloses it, so analysis of a bare directory tree still works.
func FindGitRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}
