package domain

// PackageManifest holds the entry-point fields read from one package manifest.
type PackageManifest struct {
	// Path is the absolute path of the manifest file.
	Path string
	// Root is the package root directory.
	Root string
	// Name is the declared package name.
	Name string
	// Fields maps string-valued manifest fields to their values.
	Fields map[string]string
}

// EntryPoints returns the values of mainFields present in the manifest, in order.
func (m *PackageManifest) EntryPoints(mainFields []string) []string {
	var entries []string
	for _, field := range mainFields {
		if v, ok := m.Fields[field]; ok && v != "" {
			entries = append(entries, v)
		}
	}
	return entries
}

// ModuleMetadata holds dependency-relevant facts about one tracked file.
type ModuleMetadata struct {
	// Path is the absolute path of the module.
	Path string
	// Hash is the registry content hash at creation time.
	Hash string
	// Size is the file size in bytes at creation time.
	Size int64
	// GlobalName is the registered global name, if any.
	GlobalName string
	// ManifestPath is the closest package manifest owning the module, empty if none.
	ManifestPath string
	// Manifest is the parsed manifest when the module itself is a manifest file.
	Manifest *PackageManifest
}

// IsManifest reports whether the module is a package manifest.
func (m *ModuleMetadata) IsManifest() bool {
	return m.Manifest != nil
}
