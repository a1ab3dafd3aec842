// Package crawler builds registry snapshots by walking and hashing a project tree.
package crawler

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"

	"go.trai.ch/depgraph/internal/adapters/fs"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Crawler = (*Crawler)(nil)

var (
	leadingDocblock = regexp.MustCompile(`(?s)^\s*/\*\*?(.*?)\*/`)
	providesModule  = regexp.MustCompile(domain.GlobalNameTag + `[ \t]+(\S+)`)

	errIsDir = errors.New("is a directory")
)

// Crawler walks a project root and records a content hash and optional global
// name for every file.
type Crawler struct {
	walker *fs.Walker
	fsys   ports.FileSystem
	logger ports.Logger
	limit  int
}

// New creates a Crawler reading file content through fsys.
func New(walker *fs.Walker, fsys ports.FileSystem, logger ports.Logger) *Crawler {
	return &Crawler{
		walker: walker,
		fsys:   fsys,
		logger: logger,
		limit:  runtime.NumCPU(),
	}
}

// Crawl walks root and returns a snapshot of every file found.
// Files that vanish between walking and reading are left out.
func (c *Crawler) Crawl(ctx context.Context, root string, ignore []string) (*domain.Snapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	var (
		mu      sync.Mutex
		records = make(map[string]domain.FileRecord)
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)

	for path := range c.walker.WalkFiles(absRoot, ignore) {
		if groupCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := c.Inspect(path)
			if errors.Is(err, iofs.ErrNotExist) || errors.Is(err, errIsDir) {
				return nil
			}
			if err != nil {
				return err
			}

			mu.Lock()
			records[path] = rec
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCrawlFailed.Error()), "root", absRoot)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := domain.NewSnapshot(absRoot, records)
	c.reportShadowedNames(snapshot)
	c.logger.Debug(fmt.Sprintf("crawled %d files under %s", snapshot.Len(), absRoot))
	return snapshot, nil
}

// Inspect reads the file at path once and returns its hash and global name.
// Stat and read errors are returned unwrapped so callers can test for fs.ErrNotExist.
func (c *Crawler) Inspect(path string) (domain.FileRecord, error) {
	info, err := c.fsys.Stat(path)
	if err != nil {
		return domain.FileRecord{}, err
	}
	if info.IsDir() {
		return domain.FileRecord{}, errIsDir
	}

	data, err := c.fsys.ReadFile(path)
	if err != nil {
		return domain.FileRecord{}, err
	}
	return domain.FileRecord{
		Hash:       fs.HashBytes(data),
		GlobalName: GlobalName(data),
	}, nil
}

// GlobalName extracts the name declared by a "@providesModule" tag in the
// leading docblock of a source file.
func GlobalName(content []byte) string {
	block := leadingDocblock.FindSubmatch(content)
	if block == nil {
		return ""
	}
	m := providesModule.FindSubmatch(block[1])
	if m == nil {
		return ""
	}
	return string(m[1])
}

func (c *Crawler) reportShadowedNames(snapshot *domain.Snapshot) {
	for path := range snapshot.AllPaths() {
		rec, _ := snapshot.Record(path)
		if rec.GlobalName == "" {
			continue
		}
		if _, ok := snapshot.GlobalNameOf(path); ok {
			continue
		}
		owner, _ := snapshot.PathOfGlobalName(rec.GlobalName)
		c.logger.Warn(fmt.Sprintf("duplicate global name %q in %s, already provided by %s", rec.GlobalName, path, owner))
	}
}
