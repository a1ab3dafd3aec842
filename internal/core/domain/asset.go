package domain

// AssetVariant is one file of an asset's variant set.
type AssetVariant struct {
	// Path is the absolute path of the variant file.
	Path string
	// Density is the display density suffix (the 2 in "@2x"); 1 when the name has none.
	Density float64
	// Platform is the platform suffix, empty for platform-agnostic files.
	Platform string
}

// AssetResolution is the variant set an asset specifier resolves to.
// Variants share one platform rank and are ordered by ascending density.
type AssetResolution struct {
	Dir      string
	BaseName string
	Ext      string
	Variants []AssetVariant
}

// Contains reports whether path is one of the variants.
func (r AssetResolution) Contains(path string) bool {
	for _, v := range r.Variants {
		if v.Path == path {
			return true
		}
	}
	return false
}

// Primary returns the variant used when a single path is required:
// the 1x variant if present, otherwise the lowest density.
func (r AssetResolution) Primary() string {
	if len(r.Variants) == 0 {
		return ""
	}
	for _, v := range r.Variants {
		if v.Density == 1 {
			return v.Path
		}
	}
	return r.Variants[0].Path
}
