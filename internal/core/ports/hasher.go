package ports

// ContentHasher computes content hashes in the registry's format.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type ContentHasher interface {
	// ComputeFileHash returns the hex content hash of the file at path.
	ComputeFileHash(path string) (string, error)
}
