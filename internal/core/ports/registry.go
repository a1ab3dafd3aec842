package ports

import "iter"

// Registry answers queries over the tracked file set.
// Implementations are immutable once handed to a resolver.
type Registry interface {
	// Root returns the absolute project root.
	Root() string
	// Exists reports whether path is a tracked file.
	Exists(path string) bool
	// HashOf returns the recorded content hash of path.
	HashOf(path string) (string, bool)
	// GlobalNameOf returns the global name path is registered under.
	GlobalNameOf(path string) (string, bool)
	// PathOfGlobalName returns the path registered under name.
	PathOfGlobalName(name string) (string, bool)
	// AllPaths yields every tracked path.
	AllPaths() iter.Seq[string]
	// Generation returns a fingerprint of the registry content.
	Generation() uint64
}
