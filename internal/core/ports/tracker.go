package ports

import (
	"context"
	"iter"

	"go.trai.ch/depgraph/internal/core/domain"
)

// Crawler builds the initial registry snapshot of a project.
//
//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks
type Crawler interface {
	// Crawl walks root, hashes every file, and returns the resulting snapshot.
	Crawl(ctx context.Context, root string, ignore []string) (*domain.Snapshot, error)
	// Inspect hashes one file and extracts its global name.
	Inspect(path string) (domain.FileRecord, error)
}

// FileTracker supplies the tracked file set and batched change notifications.
type FileTracker interface {
	// Start begins watching. The initial snapshot is available once Start returns.
	Start(ctx context.Context) error
	// Snapshot returns the most recent registry snapshot.
	Snapshot() *domain.Snapshot
	// Batches yields change batches in the order they were produced.
	Batches() iter.Seq[domain.ChangeBatch]
	// Release stops watching and releases all resources.
	Release() error
}
