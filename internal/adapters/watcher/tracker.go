package watcher

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"iter"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/depgraph/internal/adapters/fs"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileTracker = (*Tracker)(nil)

const batchBuffer = 64

// DefaultDebounceWindow is the default time window for coalescing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Tracker keeps a snapshot of the project's files current and reports every
// change to it as a batch.
type Tracker struct {
	root    string
	ignore  []string
	window  time.Duration
	crawler ports.Crawler
	watcher ports.Watcher
	walker  *fs.Walker
	fsys    ports.FileSystem
	logger  ports.Logger

	// procMu serializes batch production so batches leave in order.
	procMu sync.Mutex

	mu       sync.RWMutex
	snapshot *domain.Snapshot

	debouncer *Debouncer
	batches   chan domain.ChangeBatch
	done      chan struct{}
	stopOnce  sync.Once
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	Root   string
	Ignore []string
	Window time.Duration
}

// NewTracker creates a tracker for the given options.
func NewTracker(
	opts TrackerOptions,
	crawler ports.Crawler,
	watcher ports.Watcher,
	walker *fs.Walker,
	fsys ports.FileSystem,
	logger ports.Logger,
) *Tracker {
	window := opts.Window
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Tracker{
		root:    filepath.Clean(opts.Root),
		ignore:  slices.Clone(opts.Ignore),
		window:  window,
		crawler: crawler,
		watcher: watcher,
		walker:  walker,
		fsys:    fsys,
		logger:  logger,
		batches: make(chan domain.ChangeBatch, batchBuffer),
		done:    make(chan struct{}),
	}
}

// Start crawls the root, then starts watching it.
func (t *Tracker) Start(ctx context.Context) error {
	snapshot, err := t.crawler.Crawl(ctx, t.root, t.ignore)
	if err != nil {
		return zerr.Wrap(err, domain.ErrTrackerStartFailed.Error())
	}

	t.mu.Lock()
	t.snapshot = snapshot
	t.mu.Unlock()

	if err := t.watcher.Start(ctx, t.root, t.ignore); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTrackerStartFailed.Error()), "root", t.root)
	}

	t.debouncer = NewDebouncer(t.window, func(paths []string) { t.Process(paths) })
	go t.pump()
	return nil
}

func (t *Tracker) pump() {
	defer t.stop()
	for event := range t.watcher.Events() {
		t.debouncer.Add(event.Path)
	}
	t.debouncer.Flush()
}

// Snapshot returns the most recent snapshot.
func (t *Tracker) Snapshot() *domain.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// Batches yields change batches in production order until the tracker stops.
func (t *Tracker) Batches() iter.Seq[domain.ChangeBatch] {
	return func(yield func(domain.ChangeBatch) bool) {
		for {
			select {
			case batch := <-t.batches:
				if !yield(batch) {
					return
				}
			case <-t.done:
				return
			}
		}
	}
}

// Release stops watching. Pending notifications are dropped.
func (t *Tracker) Release() error {
	t.stop()
	if t.debouncer != nil {
		t.debouncer.Stop()
	}
	return t.watcher.Stop()
}

func (t *Tracker) stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *Tracker) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Process turns a set of touched paths into a batch against the current
// snapshot and queues it. It reports whether a batch was produced.
func (t *Tracker) Process(paths []string) bool {
	t.procMu.Lock()
	defer t.procMu.Unlock()

	if t.stopped() {
		return false
	}

	current := t.Snapshot()
	if current == nil {
		return false
	}

	events, changes := t.diff(current, paths)
	if len(events) == 0 {
		return false
	}

	next := current.Apply(changes)
	t.mu.Lock()
	t.snapshot = next
	t.mu.Unlock()

	t.logger.Debug(fmt.Sprintf("%d file changes, %d files tracked", len(events), next.Len()))

	select {
	case t.batches <- domain.ChangeBatch{Events: events, Snapshot: next}:
		return true
	case <-t.done:
		return false
	}
}

// diff classifies each touched path against the snapshot.
// Directories expand to the files below them.
func (t *Tracker) diff(current *domain.Snapshot, paths []string) ([]domain.ChangeEvent, []domain.FileChange) {
	touched := make(map[string]*domain.FileRecord)

	for _, path := range paths {
		path = filepath.Clean(path)
		if !t.tracks(path) {
			continue
		}

		info, err := t.fsys.Stat(path)
		switch {
		case err != nil:
			t.markRemoved(current, path, touched)
		case info.IsDir():
			t.markRemoved(current, path, touched)
			for file := range t.walker.WalkFiles(path, t.ignore) {
				t.inspect(file, touched)
			}
		default:
			t.inspect(path, touched)
		}
	}

	var (
		events  []domain.ChangeEvent
		changes []domain.FileChange
	)
	for _, path := range slices.Sorted(maps.Keys(touched)) {
		rec := touched[path]
		old, existed := current.Record(path)

		var kind domain.ChangeKind
		switch {
		case rec == nil && !existed:
			continue
		case rec == nil:
			kind = domain.ChangeDelete
		case !existed:
			kind = domain.ChangeAdd
		case old == *rec:
			continue
		default:
			kind = domain.ChangeEdit
		}

		events = append(events, domain.ChangeEvent{Kind: kind, Path: path})
		changes = append(changes, domain.FileChange{Path: path, Record: rec})
	}
	return events, changes
}

// markRemoved records path and every tracked file below it as gone.
// Files still present are re-marked by a later inspect.
func (t *Tracker) markRemoved(current *domain.Snapshot, path string, touched map[string]*domain.FileRecord) {
	if current.Exists(path) {
		touched[path] = nil
	}
	prefix := path + string(filepath.Separator)
	for tracked := range current.AllPaths() {
		if strings.HasPrefix(tracked, prefix) {
			touched[tracked] = nil
		}
	}
}

func (t *Tracker) inspect(path string, touched map[string]*domain.FileRecord) {
	rec, err := t.crawler.Inspect(path)
	if err != nil {
		if !errors.Is(err, iofs.ErrNotExist) {
			t.logger.Warn("failed to inspect " + path + ": " + err.Error())
		}
		touched[path] = nil
		return
	}
	touched[path] = &rec
}

// tracks reports whether path lies inside the root and outside ignored directories.
func (t *Tracker) tracks(path string) bool {
	rel, err := filepath.Rel(t.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if t.walker.ShouldSkipDir(part, t.ignore) {
			return false
		}
	}
	return true
}
