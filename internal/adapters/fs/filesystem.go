package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/depgraph/internal/core/ports"
)

var (
	_ ports.FileSystem = (*OSFS)(nil)
	_ ports.FileSystem = (*MapFSAdapter)(nil)
)

// OSFS implements ports.FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- paths come from the tracked file registry
	return os.ReadFile(path)
}

// EvalSymlinks returns path with every symbolic link resolved.
func (o *OSFS) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// MapFSAdapter adapts an fs.FS (typically fstest.MapFS) to ports.FileSystem for testing.
// Absolute paths are interpreted relative to Root. Symbolic links are not modeled,
// except through the Links table which maps an absolute path onto its target.
type MapFSAdapter struct {
	FS    fs.FS
	Root  string
	Links map[string]string
}

// NewMapFSAdapter creates a new MapFSAdapter with the given root path and filesystem.
func NewMapFSAdapter(root string, fsys fs.FS) *MapFSAdapter {
	return &MapFSAdapter{
		FS:    fsys,
		Root:  root,
		Links: make(map[string]string),
	}
}

// Stat returns file info for the given path.
func (m *MapFSAdapter) Stat(path string) (fs.FileInfo, error) {
	return fs.Stat(m.FS, m.toRelPath(path))
}

// ReadFile reads the entire file at path.
func (m *MapFSAdapter) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(m.FS, m.toRelPath(path))
}

// EvalSymlinks follows the Links table until it reaches a path that is not a link.
func (m *MapFSAdapter) EvalSymlinks(path string) (string, error) {
	seen := make(map[string]bool)
	for {
		target, ok := m.Links[path]
		if !ok {
			break
		}
		if seen[path] {
			return "", &fs.PathError{Op: "evalsymlinks", Path: path, Err: fs.ErrInvalid}
		}
		seen[path] = true
		path = target
	}
	if _, err := m.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// toRelPath converts an absolute path to a relative path within the filesystem.
// Paths outside the root are returned unchanged so fs operations fail with "not exist".
func (m *MapFSAdapter) toRelPath(absPath string) string {
	if !filepath.IsAbs(absPath) {
		return absPath
	}
	if absPath == m.Root {
		return "."
	}
	if m.Root != "/" && !strings.HasPrefix(absPath, m.Root+string(filepath.Separator)) {
		return absPath
	}
	rel := strings.TrimPrefix(absPath, m.Root)
	return strings.TrimPrefix(rel, string(filepath.Separator))
}
