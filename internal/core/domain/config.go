package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Redirect maps a bare specifier prefix onto a different base path.
type Redirect struct {
	// Prefix is matched against whole leading path segments of a bare specifier.
	Prefix string
	// Target is the replacement base path. Relative targets are joined with the project root.
	Target string
}

// ResolverConfig is the immutable set of options that steer resolution.
type ResolverConfig struct {
	// Root is the absolute project root.
	Root string
	// SourceExts is the ordered list of source extensions, without leading dots.
	SourceExts []string
	// AssetExts is the set of asset extensions, without leading dots.
	AssetExts []string
	// Platforms is the ordered list of known platform suffixes.
	Platforms []string
	// PreferNativePlatform enables the "native" platform suffix after the requested one.
	PreferNativePlatform bool
	// MainFields is the ordered list of manifest entry-point fields.
	MainFields []string
	// Redirects is the ordered extra-redirect table.
	Redirects []Redirect
	// ThirdPartyDir is the reserved directory name searched during the ancestor walk.
	ThirdPartyDir string
	// Ignore lists directory names excluded from crawling and watching.
	Ignore []string
}

// DefaultResolverConfig returns the configuration used when no config file sets a value.
func DefaultResolverConfig(root string) ResolverConfig {
	return ResolverConfig{
		Root:          root,
		SourceExts:    []string{"js", "jsx", "ts", "tsx", "json"},
		AssetExts:     []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "ttf", "otf", "mp4", "mp3"},
		Platforms:     []string{"ios", "android", "web"},
		MainFields:    []string{"browser", "main"},
		ThirdPartyDir: DefaultThirdPartyDir,
	}
}

// Validate checks that the configuration is usable for resolution.
func (c ResolverConfig) Validate() error {
	if !filepath.IsAbs(c.Root) {
		return zerr.With(ErrInvalidConfig, "root", c.Root)
	}
	if len(c.SourceExts) == 0 {
		return zerr.With(ErrInvalidConfig, "field", "sourceExts")
	}
	if len(c.MainFields) == 0 {
		return zerr.With(ErrInvalidConfig, "field", "mainFields")
	}
	if c.ThirdPartyDir == "" || strings.ContainsRune(c.ThirdPartyDir, '/') {
		return zerr.With(ErrInvalidConfig, "thirdPartyDir", c.ThirdPartyDir)
	}
	for _, list := range [][]string{c.SourceExts, c.AssetExts} {
		for _, ext := range list {
			if ext == "" || strings.HasPrefix(ext, ".") {
				return zerr.With(ErrInvalidConfig, "extension", ext)
			}
		}
	}
	for _, r := range c.Redirects {
		if r.Prefix == "" || r.Target == "" || strings.HasSuffix(r.Prefix, "/") {
			return zerr.With(ErrInvalidConfig, "redirect", r.Prefix)
		}
	}
	return nil
}

// IsAssetExt reports whether ext (without a leading dot) is a configured asset extension.
func (c ResolverConfig) IsAssetExt(ext string) bool {
	return slices.Contains(c.AssetExts, ext)
}

// IsPlatform reports whether name is a configured platform or the native platform.
func (c ResolverConfig) IsPlatform(name string) bool {
	if name == NativePlatform && c.PreferNativePlatform {
		return true
	}
	return slices.Contains(c.Platforms, name)
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (c ResolverConfig) Clone() ResolverConfig {
	c.SourceExts = slices.Clone(c.SourceExts)
	c.AssetExts = slices.Clone(c.AssetExts)
	c.Platforms = slices.Clone(c.Platforms)
	c.MainFields = slices.Clone(c.MainFields)
	c.Redirects = slices.Clone(c.Redirects)
	c.Ignore = slices.Clone(c.Ignore)
	return c
}
