// Package build holds build-time information.
package build

// Overwritten by linker flags, e.g. -X go.trai.ch/depgraph/internal/build.Version=v1.2.0.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
