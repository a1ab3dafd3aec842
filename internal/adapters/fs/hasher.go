package fs

import (
	"crypto/sha1" //nolint:gosec // SHA-1 matches the registry's content hash format
	"encoding/hex"
	"io"
	"os"

	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ContentHasher = (*Hasher)(nil)

// Hasher computes SHA-1 content hashes, the format the registry records.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash returns the hex SHA-1 of the file's content.
func (h *Hasher) ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileRead.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	return HashReader(f, path)
}

// HashBytes returns the hex SHA-1 of data.
func HashBytes(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // Registry format
	return hex.EncodeToString(sum[:])
}

// HashReader returns the hex SHA-1 of everything read from r.
// path is only used for error context.
func HashReader(r io.Reader, path string) (string, error) {
	digest := sha1.New() //nolint:gosec // Registry format
	if _, err := io.Copy(digest, r); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
