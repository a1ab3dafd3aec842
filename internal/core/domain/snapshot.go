package domain

import (
	"iter"
	"maps"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// FileRecord holds what the tracker knows about one tracked file.
type FileRecord struct {
	// Hash is the hex SHA-1 of the file content.
	Hash string
	// GlobalName is the name the file is registered under, if any.
	GlobalName string
}

// FileChange updates one path in a snapshot. A nil Record removes the path.
type FileChange struct {
	Path   string
	Record *FileRecord
}

// Snapshot is an immutable view of the tracked file set.
// It is replaced wholesale on every change batch and never mutated.
type Snapshot struct {
	root       string
	files      map[string]FileRecord
	names      map[string]string
	sorted     []string
	generation uint64
}

// NewSnapshot builds a snapshot rooted at root from the given records.
// When two paths claim the same global name the lexicographically first path keeps it.
func NewSnapshot(root string, files map[string]FileRecord) *Snapshot {
	owned := maps.Clone(files)
	if owned == nil {
		owned = make(map[string]FileRecord)
	}

	sorted := slices.Sorted(maps.Keys(owned))
	names := make(map[string]string)
	digest := xxhash.New()

	for _, path := range sorted {
		rec := owned[path]
		if rec.GlobalName != "" {
			if _, taken := names[rec.GlobalName]; !taken {
				names[rec.GlobalName] = path
			}
		}

		_, _ = digest.WriteString(path)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(rec.Hash)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(rec.GlobalName)
		_, _ = digest.Write([]byte{0})
	}

	return &Snapshot{
		root:       root,
		files:      owned,
		names:      names,
		sorted:     sorted,
		generation: digest.Sum64(),
	}
}

// Root returns the absolute project root the snapshot covers.
func (s *Snapshot) Root() string {
	return s.root
}

// Exists reports whether path is a tracked file.
func (s *Snapshot) Exists(path string) bool {
	_, ok := s.files[path]
	return ok
}

// HashOf returns the recorded content hash of path.
func (s *Snapshot) HashOf(path string) (string, bool) {
	rec, ok := s.files[path]
	if !ok || rec.Hash == "" {
		return "", false
	}
	return rec.Hash, true
}

// GlobalNameOf returns the global name path is registered under.
// Paths that lost a name conflict report no name.
func (s *Snapshot) GlobalNameOf(path string) (string, bool) {
	rec, ok := s.files[path]
	if !ok || rec.GlobalName == "" {
		return "", false
	}
	if s.names[rec.GlobalName] != path {
		return "", false
	}
	return rec.GlobalName, true
}

// PathOfGlobalName returns the path registered under name, matched case-sensitively.
func (s *Snapshot) PathOfGlobalName(name string) (string, bool) {
	path, ok := s.names[name]
	return path, ok
}

// AllPaths yields every tracked path in lexical order.
func (s *Snapshot) AllPaths() iter.Seq[string] {
	return slices.Values(s.sorted)
}

// Len returns the number of tracked files.
func (s *Snapshot) Len() int {
	return len(s.files)
}

// Generation returns a fingerprint of the snapshot content.
// Two snapshots with the same files, hashes, and names share a generation.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Record returns the full record for path.
func (s *Snapshot) Record(path string) (FileRecord, bool) {
	rec, ok := s.files[path]
	return rec, ok
}

// Apply returns a new snapshot with the given changes applied in order.
func (s *Snapshot) Apply(changes []FileChange) *Snapshot {
	files := maps.Clone(s.files)
	for _, c := range changes {
		if c.Record == nil {
			delete(files, c.Path)
			continue
		}
		files[c.Path] = *c.Record
	}
	return NewSnapshot(s.root, files)
}
