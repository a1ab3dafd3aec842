package ports

// DirectoryLister lists the tracked files directly inside a directory.
//
//go:generate mockgen -source=directory_lister.go -destination=mocks/mock_directory_lister.go -package=mocks
type DirectoryLister interface {
	// FilesIn returns the base names of tracked files directly inside dir.
	// The order is unspecified. Untracked directories yield an empty result.
	FilesIn(dir string) []string
	// HasDir reports whether dir contains any tracked file, directly or below.
	HasDir(dir string) bool
}
