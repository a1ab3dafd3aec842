// Package fileindex groups tracked files by their parent directory.
package fileindex

import (
	"iter"
	"path/filepath"

	"go.trai.ch/depgraph/internal/core/ports"
)

var _ ports.DirectoryLister = (*Index)(nil)

// Index maps each directory to the base names of the files directly inside it.
// It is immutable once built; a changed file set means building a new Index.
type Index struct {
	files map[string][]string
	dirs  map[string]struct{}
}

// Build indexes every path yielded by paths.
// Every ancestor directory of a path is recorded so HasDir answers for
// directories that only contain subdirectories.
func Build(paths iter.Seq[string]) *Index {
	idx := &Index{
		files: make(map[string][]string),
		dirs:  make(map[string]struct{}),
	}

	for path := range paths {
		dir, base := filepath.Split(path)
		dir = filepath.Clean(dir)
		idx.files[dir] = append(idx.files[dir], base)

		for {
			if _, seen := idx.dirs[dir]; seen {
				break
			}
			idx.dirs[dir] = struct{}{}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return idx
}

// FilesIn returns the base names of files directly inside dir.
// Callers must not modify the returned slice.
func (idx *Index) FilesIn(dir string) []string {
	return idx.files[filepath.Clean(dir)]
}

// HasDir reports whether dir contains a tracked file at any depth.
func (idx *Index) HasDir(dir string) bool {
	_, ok := idx.dirs[filepath.Clean(dir)]
	return ok
}

// Len returns the number of directories that directly contain files.
func (idx *Index) Len() int {
	return len(idx.files)
}
