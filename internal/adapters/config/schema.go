package config

// Configfile represents the structure of the depgraph.yaml configuration file.
// Unset fields keep their defaults.
type Configfile struct {
	Version              string        `yaml:"version"`
	Root                 string        `yaml:"root"`
	SourceExts           []string      `yaml:"sourceExts"`
	AssetExts            []string      `yaml:"assetExts"`
	Platforms            []string      `yaml:"platforms"`
	PreferNativePlatform *bool         `yaml:"preferNativePlatform"`
	MainFields           []string      `yaml:"mainFields"`
	ThirdPartyDir        string        `yaml:"thirdPartyDir"`
	Redirects            []RedirectDTO `yaml:"redirects"`
	Ignore               []string      `yaml:"ignore"`
}

// RedirectDTO represents one entry of the redirect table.
type RedirectDTO struct {
	Prefix string `yaml:"prefix"`
	Target string `yaml:"target"`
}
