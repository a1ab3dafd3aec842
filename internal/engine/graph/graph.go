// Package graph owns the tracked file snapshot and every cache derived from
// it, and exposes the resolution API to the bundling stage.
package graph

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/depgraph/internal/engine/assets"
	"go.trai.ch/depgraph/internal/engine/fileindex"
	"go.trai.ch/depgraph/internal/engine/modules"
	"go.trai.ch/depgraph/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// TracerName is the instrumentation scope of graph spans.
const TracerName = "go.trai.ch/depgraph/graph"

// ChangeHandler is notified once per applied change batch. Handlers run after
// the batch is visible to readers but before the next batch is applied, so they
// may call read operations and must not call ApplyBatch.
type ChangeHandler func(domain.ChangeBatch)

// Graph is the resolution orchestrator. Reads run concurrently; a change
// batch is applied under the write lock so readers observe either the state
// before it or the state after it.
type Graph struct {
	// applyMu serializes batches and their notifications.
	applyMu sync.Mutex

	mu       sync.RWMutex
	options  domain.ResolverConfig
	snapshot *domain.Snapshot
	index    *fileindex.Index
	assets   *assets.Cache
	modules  *modules.Cache
	resolver *resolver.Resolver
	tracker  ports.FileTracker
	released bool

	subMu    sync.Mutex
	handlers map[int]ChangeHandler
	nextSub  int

	fsys   ports.FileSystem
	hasher ports.ContentHasher
	logger ports.Logger
	tracer trace.Tracer
}

// Load builds a graph over the initial snapshot.
func Load(
	options domain.ResolverConfig,
	snapshot *domain.Snapshot,
	fsys ports.FileSystem,
	hasher ports.ContentHasher,
) (*Graph, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, domain.ErrMissingSnapshot
	}

	options = options.Clone()
	index := fileindex.Build(snapshot.AllPaths())

	g := &Graph{
		options:  options,
		snapshot: snapshot,
		index:    index,
		assets:   assets.New(options, index, snapshot.Generation()),
		modules:  modules.New(snapshot, fsys),
		handlers: make(map[int]ChangeHandler),
		fsys:     fsys,
		hasher:   hasher,
		tracer:   otel.Tracer(TracerName),
	}
	g.resolver = g.buildResolver()
	return g, nil
}

// WithLogger sets the logger used for change handling diagnostics.
func (g *Graph) WithLogger(logger ports.Logger) *Graph {
	g.logger = logger
	return g
}

// WithTracerProvider sets the provider graph spans are recorded with.
func (g *Graph) WithTracerProvider(tp trace.TracerProvider) *Graph {
	g.tracer = tp.Tracer(TracerName)
	return g
}

func (g *Graph) buildResolver() *resolver.Resolver {
	return resolver.New(resolver.Config{
		Options:   g.options,
		Registry:  g.snapshot,
		Files:     g.index,
		Assets:    g.assets,
		Manifests: g.modules,
	})
}

// ResolveDependency resolves specifier as imported from origin for platform.
// A failed resolution returns a *domain.ModuleNotFoundError.
func (g *Graph) ResolveDependency(ctx context.Context, origin, specifier, platform string) (string, error) {
	_, span := g.startResolveSpan(ctx, origin, specifier, platform)
	defer span.End()

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.released {
		return "", endWithError(span, domain.ErrGraphReleased)
	}

	path, err := g.resolver.Resolve(origin, specifier, platform)
	if err != nil {
		return "", endWithError(span, err)
	}
	span.SetAttributes(attribute.String("depgraph.path", path))
	return path, nil
}

// ResolveAsset resolves an asset specifier to its full variant set.
func (g *Graph) ResolveAsset(ctx context.Context, origin, specifier, platform string) (domain.AssetResolution, error) {
	_, span := g.startResolveSpan(ctx, origin, specifier, platform)
	defer span.End()

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.released {
		return domain.AssetResolution{}, endWithError(span, domain.ErrGraphReleased)
	}

	res, err := g.resolver.ResolveAsset(origin, specifier, platform)
	if err != nil {
		return domain.AssetResolution{}, endWithError(span, err)
	}
	span.SetAttributes(attribute.Int("depgraph.variants", len(res.Variants)))
	return res, nil
}

func (g *Graph) startResolveSpan(ctx context.Context, origin, specifier, platform string) (context.Context, trace.Span) {
	return g.tracer.Start(ctx, "depgraph.resolve", trace.WithAttributes(
		attribute.String("depgraph.origin", origin),
		attribute.String("depgraph.specifier", specifier),
		attribute.String("depgraph.platform", platform),
	))
}

func endWithError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// ContentHash returns the content hash of the real file behind path.
// When the snapshot has no hash for it, the hash is recomputed from disk.
func (g *Graph) ContentHash(path string) (string, error) {
	target, err := g.fsys.EvalSymlinks(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileRead.Error()), "path", path)
	}

	g.mu.RLock()
	snapshot, released := g.snapshot, g.released
	g.mu.RUnlock()

	if released {
		return "", domain.ErrGraphReleased
	}
	if hash, ok := snapshot.HashOf(target); ok {
		return hash, nil
	}

	hash, err := g.hasher.ComputeFileHash(target)
	if err != nil {
		return "", err
	}
	g.debug(fmt.Sprintf("recomputed hash of untracked path %s", target))
	return hash, nil
}

// RegisteredName returns the global name of path, or path relative to the project root.
func (g *Graph) RegisteredName(path string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if name, ok := g.snapshot.GlobalNameOf(path); ok {
		return name
	}
	rel, err := filepath.Rel(g.options.Root, path)
	if err != nil {
		return path
	}
	return rel
}

// Metadata returns the cached module metadata for path.
func (g *Graph) Metadata(path string) (*domain.ModuleMetadata, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.released {
		return nil, domain.ErrGraphReleased
	}
	return g.modules.Get(path)
}

// Snapshot returns the current snapshot.
func (g *Graph) Snapshot() *domain.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// Options returns the resolver options the graph was loaded with.
func (g *Graph) Options() domain.ResolverConfig {
	return g.options.Clone()
}

// OnChange registers handler for change notifications and returns a function
// that removes it.
func (g *Graph) OnChange(handler ChangeHandler) func() {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	id := g.nextSub
	g.nextSub++
	g.handlers[id] = handler

	return func() {
		g.subMu.Lock()
		defer g.subMu.Unlock()
		delete(g.handlers, id)
	}
}

// ApplyBatch applies one change batch and notifies subscribers once.
func (g *Graph) ApplyBatch(ctx context.Context, batch domain.ChangeBatch) error {
	g.applyMu.Lock()
	defer g.applyMu.Unlock()

	_, span := g.tracer.Start(ctx, "depgraph.apply_changes", trace.WithAttributes(
		attribute.Int("depgraph.events", len(batch.Events)),
	))
	defer span.End()

	if batch.Snapshot == nil {
		return endWithError(span, domain.ErrMissingSnapshot)
	}

	if err := g.swap(batch); err != nil {
		return endWithError(span, err)
	}
	span.SetAttributes(attribute.Int64("depgraph.generation", int64(batch.Snapshot.Generation()))) //nolint:gosec // fingerprint, sign is irrelevant

	g.debug(fmt.Sprintf("applied %d change events, %d files tracked", len(batch.Events), batch.Snapshot.Len()))
	g.notify(batch)
	return nil
}

func (g *Graph) swap(batch domain.ChangeBatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return domain.ErrGraphReleased
	}

	g.snapshot = batch.Snapshot
	g.index = fileindex.Build(batch.Snapshot.AllPaths())

	g.assets.Reset(g.index, batch.Snapshot.Generation())

	g.modules.Rebind(batch.Snapshot)
	for _, ev := range batch.Events {
		g.modules.Invalidate(ev.Path)
	}

	g.resolver = g.buildResolver()
	return nil
}

func (g *Graph) notify(batch domain.ChangeBatch) {
	g.subMu.Lock()
	handlers := make([]ChangeHandler, 0, len(g.handlers))
	for id := range g.nextSub {
		if h, ok := g.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	g.subMu.Unlock()

	for _, h := range handlers {
		h(batch)
	}
}

// Run applies every batch the tracker delivers until the tracker stops or ctx
// is done, whichever comes first. The tracker is released with the graph.
func (g *Graph) Run(ctx context.Context, tracker ports.FileTracker) error {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return domain.ErrGraphReleased
	}
	g.tracker = tracker
	g.mu.Unlock()

	recvCtx, stop := context.WithCancel(ctx)
	defer stop()

	batches := receive(recvCtx, tracker.Batches())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-batches:
			if !ok {
				return ctx.Err()
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.ApplyBatch(ctx, batch); err != nil {
				return err
			}
		}
	}
}

// receive forwards seq onto a channel until seq ends or ctx is done.
// A sequence blocked inside the tracker keeps the goroutine alive until the
// tracker is released.
func receive(ctx context.Context, seq iter.Seq[domain.ChangeBatch]) <-chan domain.ChangeBatch {
	out := make(chan domain.ChangeBatch)
	go func() {
		defer close(out)
		for batch := range seq {
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Release tears the graph down and releases the attached tracker.
// Later calls are no-ops.
func (g *Graph) Release() error {
	g.mu.Lock()
	if g.released {
		g.mu.Unlock()
		return nil
	}
	g.released = true
	g.assets.Clear()
	tracker := g.tracker
	g.mu.Unlock()

	if tracker != nil {
		if err := tracker.Release(); err != nil {
			return zerr.Wrap(err, "failed to release file tracker")
		}
	}
	return nil
}

func (g *Graph) debug(msg string) {
	if g.logger != nil {
		g.logger.Debug(msg)
	}
}
