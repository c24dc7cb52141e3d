package run

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoModuleRoot is returned when no module root can be found above the
// starting directory.
var ErrNoModuleRoot = errors.New("could not locate module root (no inprocess/ and github_repo/ pair)")

// FindModuleRoot walks up from start looking for a module root: a directory
// holding both inprocess/ and github_repo/. Being inside github_repo/ itself
// also counts, since that is where the tools are usually invoked from.
func FindModuleRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if isDir(filepath.Join(dir, "inprocess")) && isDir(filepath.Join(dir, "github_repo")) {
			return dir, nil
		}
		if filepath.Base(dir) == "github_repo" && isDir(filepath.Join(filepath.Dir(dir), "inprocess")) {
			return filepath.Dir(dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoModuleRoot
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
