// Package assets resolves asset specifiers to their density and platform variants.
package assets

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/depgraph/internal/core/domain"
)

var densitySuffix = regexp.MustCompile(`@(\d+(?:\.\d+)?)x$`)

// Name is an asset file name split into its parts.
// "logo@2x.ios.png" parses to {Base: "logo", Density: 2, Platform: "ios", Ext: "png"}.
type Name struct {
	Base     string
	Density  float64
	Platform string
	Ext      string
}

// IsAsset reports whether name carries a configured asset extension.
func IsAsset(cfg domain.ResolverConfig, name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return false
	}
	return cfg.IsAssetExt(name[dot+1:])
}

// ParseName splits an asset file name. It reports false when the extension
// is not a configured asset extension or nothing is left for the base name.
func ParseName(cfg domain.ResolverConfig, name string) (Name, bool) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || !cfg.IsAssetExt(name[dot+1:]) {
		return Name{}, false
	}

	parsed := Name{Ext: name[dot+1:], Density: 1}
	rest := name[:dot]

	if pdot := strings.LastIndexByte(rest, '.'); pdot > 0 && cfg.IsPlatform(rest[pdot+1:]) {
		parsed.Platform = rest[pdot+1:]
		rest = rest[:pdot]
	}

	if m := densitySuffix.FindStringSubmatchIndex(rest); m != nil {
		density, err := strconv.ParseFloat(rest[m[2]:m[3]], 64)
		if err == nil && density > 0 {
			parsed.Density = density
			rest = rest[:m[0]]
		}
	}

	if rest == "" {
		return Name{}, false
	}
	parsed.Base = rest
	return parsed, true
}
