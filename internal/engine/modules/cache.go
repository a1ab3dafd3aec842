// Package modules caches per-path module metadata and package manifests.
package modules

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"unique"

	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cache lazily creates one ModuleMetadata per path and keeps it until the
// path is invalidated.
type Cache struct {
	mu       sync.Mutex
	registry ports.Registry
	fsys     ports.FileSystem
	entries  map[unique.Handle[string]]*domain.ModuleMetadata
}

// New creates an empty cache reading through fsys and answering registry
// queries from registry.
func New(registry ports.Registry, fsys ports.FileSystem) *Cache {
	return &Cache{
		registry: registry,
		fsys:     fsys,
		entries:  make(map[unique.Handle[string]]*domain.ModuleMetadata),
	}
}

// Get returns the metadata for path, creating it on first access.
func (c *Cache) Get(path string) (*domain.ModuleMetadata, error) {
	path = filepath.Clean(path)
	h := unique.Make(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if meta, ok := c.entries[h]; ok {
		return meta, nil
	}

	meta, err := c.create(path)
	if err != nil {
		return nil, err
	}
	c.entries[h] = meta
	return meta, nil
}

// Manifest returns the parsed package manifest at manifestPath.
func (c *Cache) Manifest(manifestPath string) (*domain.PackageManifest, error) {
	meta, err := c.Get(manifestPath)
	if err != nil {
		return nil, err
	}
	if meta.Manifest == nil {
		return nil, zerr.With(domain.ErrManifestRead, "path", manifestPath)
	}
	return meta.Manifest, nil
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, unique.Make(filepath.Clean(path)))
}

// Rebind points the cache at a new registry snapshot. Existing entries are kept.
func (c *Cache) Rebind(registry ports.Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry = registry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ClosestManifestFor walks upward from the directory of path while inside
// the registry root and returns the first tracked package manifest.
func (c *Cache) ClosestManifestFor(path string) (string, bool) {
	c.mu.Lock()
	registry := c.registry
	c.mu.Unlock()
	return closestManifest(registry, path)
}

func closestManifest(registry ports.Registry, path string) (string, bool) {
	root := filepath.Clean(registry.Root())
	dir := filepath.Dir(filepath.Clean(path))

	for within(root, dir) {
		candidate := filepath.Join(dir, domain.ManifestFileName)
		if registry.Exists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func within(root, dir string) bool {
	if dir == root {
		return true
	}
	if root == string(filepath.Separator) {
		return filepath.IsAbs(dir)
	}
	return strings.HasPrefix(dir, root+string(filepath.Separator))
}

func (c *Cache) create(path string) (*domain.ModuleMetadata, error) {
	info, err := c.fsys.Stat(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileRead.Error()), "path", path)
	}
	if info.IsDir() {
		return nil, zerr.With(domain.ErrFileRead, "path", path)
	}

	meta := &domain.ModuleMetadata{Path: path, Size: info.Size()}
	meta.Hash, _ = c.registry.HashOf(path)
	meta.GlobalName, _ = c.registry.GlobalNameOf(path)
	meta.ManifestPath, _ = closestManifest(c.registry, path)

	if filepath.Base(path) == domain.ManifestFileName {
		manifest, err := c.readManifest(path)
		if err != nil {
			return nil, err
		}
		meta.Manifest = manifest
	}
	return meta, nil
}

func (c *Cache) readManifest(path string) (*domain.PackageManifest, error) {
	data, err := c.fsys.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestRead.Error()), "path", path)
	}
	return ParseManifest(path, data)
}

// ParseManifest decodes a package manifest. Only string-valued top-level
// fields are kept; object-valued fields such as a browser replacement map
// are ignored.
func ParseManifest(path string, data []byte) (*domain.PackageManifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestRead.Error()), "path", path)
	}

	manifest := &domain.PackageManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Fields: make(map[string]string, len(raw)),
	}
	for field, value := range raw {
		var s string
		if json.Unmarshal(value, &s) == nil {
			manifest.Fields[field] = s
		}
	}
	manifest.Name = manifest.Fields["name"]
	return manifest, nil
}
