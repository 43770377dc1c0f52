// Package utils holds small path helpers shared by the CLI and services.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ to the user home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// ResolvePath returns the symlink-free absolute form of path. Fossil tracks
// real files, so rm/mv must see the resolved path, not a link to it.
func ResolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// ResolvePathMissingOK behaves like ResolvePath but tolerates a path that
// does not exist yet, such as a rename target: the deepest existing ancestor
// is resolved and the remainder re-attached.
func ResolvePathMissingOK(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}
