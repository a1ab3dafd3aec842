// Package resolver maps import specifiers to tracked file paths.
//
// A Resolver is immutable: it closes over one registry snapshot and the caches
// built for it, and is replaced wholesale whenever the tracked file set changes.
// Every call creates a short-lived request that only reads shared state.
package resolver

import (
	"path/filepath"
	"strings"

	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/depgraph/internal/engine/assets"
	"go.trai.ch/zerr"
)

// AssetLookup finds the variant set of an asset file name inside a directory.
type AssetLookup interface {
	Resolve(dir, name, platform string) (domain.AssetResolution, bool)
}

// ManifestLookup returns the parsed package manifest stored at a path.
type ManifestLookup interface {
	Manifest(path string) (*domain.PackageManifest, error)
}

// Config is everything a Resolver reads. It is never mutated after New.
type Config struct {
	Options   domain.ResolverConfig
	Registry  ports.Registry
	Files     ports.DirectoryLister
	Assets    AssetLookup
	Manifests ManifestLookup
}

// Resolver resolves specifiers against one registry snapshot.
type Resolver struct {
	cfg Config
}

// New creates a Resolver. The options are copied so later edits by the
// caller cannot leak into resolution.
func New(cfg Config) *Resolver {
	cfg.Options = cfg.Options.Clone()
	return &Resolver{cfg: cfg}
}

// Options returns the options the resolver was built with.
func (r *Resolver) Options() domain.ResolverConfig {
	return r.cfg.Options.Clone()
}

// Resolve returns the absolute path specifier refers to when imported from origin.
// Asset specifiers resolve to the primary variant of their variant set.
func (r *Resolver) Resolve(origin, specifier, platform string) (string, error) {
	res, err := r.newRequest(origin, specifier, platform).resolve()
	if err != nil {
		return "", err
	}
	return res.path, nil
}

// ResolveAsset returns the whole variant set of an asset specifier.
func (r *Resolver) ResolveAsset(origin, specifier, platform string) (domain.AssetResolution, error) {
	res, err := r.newRequest(origin, specifier, platform).resolve()
	if err != nil {
		return domain.AssetResolution{}, err
	}
	if res.asset != nil {
		return *res.asset, nil
	}

	if assets.IsAsset(r.cfg.Options, filepath.Base(res.path)) {
		if found, ok := r.cfg.Assets.Resolve(filepath.Dir(res.path), filepath.Base(res.path), platform); ok {
			return found, nil
		}
	}
	return domain.AssetResolution{}, zerr.With(zerr.With(domain.ErrNotAnAsset, "specifier", specifier), "path", res.path)
}

// IsPathShaped reports whether specifier names a path rather than a package or global name.
func IsPathShaped(specifier string) bool {
	return strings.HasPrefix(specifier, ".") || filepath.IsAbs(specifier)
}
