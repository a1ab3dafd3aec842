package assets

import (
	"cmp"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
)

type key struct {
	dir      string
	base     string
	ext      string
	platform string
}

type entry struct {
	generation uint64
	resolution domain.AssetResolution
	found      bool
}

// Cache memoizes asset resolution per (directory, base name, extension, platform).
// Any change to the tracked file set clears the whole cache; entries are also
// stamped with the registry generation they were computed under and are never
// served for another generation.
type Cache struct {
	mu         sync.Mutex
	cfg        domain.ResolverConfig
	lister     ports.DirectoryLister
	generation uint64
	entries    map[key]entry
}

// New creates an empty cache listing candidates through lister.
func New(cfg domain.ResolverConfig, lister ports.DirectoryLister, generation uint64) *Cache {
	return &Cache{
		cfg:        cfg,
		lister:     lister,
		generation: generation,
		entries:    make(map[key]entry),
	}
}

// Resolve finds the variant set for the asset file name inside dir.
// name may carry density and platform suffixes; they are ignored for matching.
// Candidates with the requested platform suffix win over native ones, which
// win over platform-agnostic ones; every density of the winning rank is returned.
func (c *Cache) Resolve(dir, name, platform string) (domain.AssetResolution, bool) {
	parsed, ok := ParseName(c.cfg, name)
	if !ok {
		return domain.AssetResolution{}, false
	}

	k := key{dir: filepath.Clean(dir), base: parsed.Base, ext: parsed.Ext, platform: platform}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, hit := c.entries[k]; hit && e.generation == c.generation {
		return e.resolution, e.found
	}

	resolution, found := c.compute(k)
	c.entries[k] = entry{generation: c.generation, resolution: resolution, found: found}
	return resolution, found
}

// Clear drops every memoized entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Reset swaps the candidate source for a new file set generation and clears the cache.
func (c *Cache) Reset(lister ports.DirectoryLister, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lister = lister
	c.generation = generation
	clear(c.entries)
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) compute(k key) (domain.AssetResolution, bool) {
	ranks := c.platformRanks(k.platform)
	byRank := make([][]domain.AssetVariant, len(ranks))

	for _, file := range c.lister.FilesIn(k.dir) {
		candidate, ok := ParseName(c.cfg, file)
		if !ok || candidate.Base != k.base || candidate.Ext != k.ext {
			continue
		}
		rank := slices.Index(ranks, candidate.Platform)
		if rank < 0 {
			continue
		}
		byRank[rank] = append(byRank[rank], domain.AssetVariant{
			Path:     filepath.Join(k.dir, file),
			Density:  candidate.Density,
			Platform: candidate.Platform,
		})
	}

	for _, variants := range byRank {
		if len(variants) == 0 {
			continue
		}
		slices.SortFunc(variants, func(a, b domain.AssetVariant) int {
			return cmp.Or(cmp.Compare(a.Density, b.Density), cmp.Compare(a.Path, b.Path))
		})
		return domain.AssetResolution{
			Dir:      k.dir,
			BaseName: k.base,
			Ext:      k.ext,
			Variants: variants,
		}, true
	}

	return domain.AssetResolution{}, false
}

// platformRanks lists acceptable platform suffixes from most to least preferred.
func (c *Cache) platformRanks(platform string) []string {
	ranks := make([]string, 0, 3)
	if platform != "" {
		ranks = append(ranks, platform)
	}
	if c.cfg.PreferNativePlatform && platform != domain.NativePlatform {
		ranks = append(ranks, domain.NativePlatform)
	}
	return append(ranks, "")
}
