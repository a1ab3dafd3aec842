package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "depgraph.yaml"

	// ManifestFileName is the name of a package manifest file.
	ManifestFileName = "package.json"

	// DefaultThirdPartyDir is the reserved directory searched for vendored packages.
	DefaultThirdPartyDir = "node_modules"

	// IndexBaseName is the implicit module name inside a directory.
	IndexBaseName = "index"

	// NativePlatform is the platform suffix tried after the requested platform
	// when native preference is enabled.
	NativePlatform = "native"

	// GlobalNameTag is the docblock tag that registers a file under a global name.
	GlobalNameTag = "@providesModule"
)
