// Package fsutil provides file system utility functions.
package fsutil

import (
	"path/filepath"
	"strings"
)

// AbsoluteSlashPath resolves path to an absolute form with forward slashes
// only. CMake cannot reliably parse backslash-containing paths, so every
// path handed to command construction must go through here first.
func AbsoluteSlashPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(abs, `\`, "/"), nil
}

// SplitArchiveRoot splits an input directory into its parent directory and
// final path component. Archiving from the parent keeps the archive's
// internal root entry equal to the base name only.
func SplitArchiveRoot(dir string) (parent, base string) {
	clean := filepath.Clean(dir)
	return filepath.Dir(clean), filepath.Base(clean)
}
