// Package fs provides file system adapters for walking, reading, and hashing project files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
)

// alwaysSkipped are VCS directories that never hold project files.
var alwaysSkipped = []string{".git", ".jj", ".hg"}

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the path of every regular file below root, in lexical order.
// Directories whose name matches an ignore pattern, and VCS directories, are skipped.
// Unreadable directories are skipped rather than aborting the walk.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != root && w.ShouldSkipDir(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// ShouldSkipDir reports whether a directory with the given name is excluded from walking.
func (w *Walker) ShouldSkipDir(name string, ignores []string) bool {
	if slices.Contains(alwaysSkipped, name) {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
