package domain

import "go.trai.ch/zerr"

var (
	// ErrModuleNotFound is returned when a specifier cannot be resolved to a tracked file.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrNotAnAsset is returned when an asset lookup resolves to a non-asset file.
	ErrNotAnAsset = zerr.New("resolved file is not an asset")

	// ErrManifestRead is returned when a tracked package manifest cannot be read or parsed.
	ErrManifestRead = zerr.New("failed to read package manifest")

	// ErrFileRead is returned when a tracked file has no readable content.
	ErrFileRead = zerr.New("failed to read file")

	// ErrFileHashFailed is returned when hashing a file's content fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrConfigNotFound is returned when the depgraph configuration file cannot be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrCrawlFailed is returned when the initial crawl of the project root fails.
	ErrCrawlFailed = zerr.New("failed to crawl project root")

	// ErrTrackerStartFailed is returned when the file tracker cannot start watching.
	ErrTrackerStartFailed = zerr.New("failed to start file tracker")

	// ErrGraphReleased is returned when a released graph is used.
	ErrGraphReleased = zerr.New("dependency graph has been released")

	// ErrMissingSnapshot is returned when a change batch carries no snapshot.
	ErrMissingSnapshot = zerr.New("change batch has no snapshot")

	// ErrResolutionFailed is returned by commands when at least one specifier failed to resolve.
	ErrResolutionFailed = zerr.New("one or more specifiers failed to resolve")
)

// ModuleNotFoundError reports a specifier that exhausted every resolution branch.
// It matches ErrModuleNotFound under errors.Is.
type ModuleNotFoundError struct {
	Origin    string
	Specifier string
	Platform  string
}

// NewModuleNotFoundError creates a ModuleNotFoundError for the given request.
func NewModuleNotFoundError(origin, specifier, platform string) *ModuleNotFoundError {
	return &ModuleNotFoundError{Origin: origin, Specifier: specifier, Platform: platform}
}

func (e *ModuleNotFoundError) Error() string {
	msg := "module not found: unable to resolve " + `"` + e.Specifier + `"` + " from " + e.Origin
	if e.Platform != "" {
		msg += " (platform " + e.Platform + ")"
	}
	return msg
}

// Message returns the error message without a cause chain.
func (e *ModuleNotFoundError) Message() string {
	return e.Error()
}

// Is reports whether target is ErrModuleNotFound.
func (e *ModuleNotFoundError) Is(target error) bool {
	return target == ErrModuleNotFound //nolint:errorlint // sentinel identity comparison
}
