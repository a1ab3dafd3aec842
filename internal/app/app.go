// Package app implements the application layer for depgraph.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/depgraph/internal/adapters/detector"
	"go.trai.ch/depgraph/internal/adapters/fs"
	"go.trai.ch/depgraph/internal/adapters/watcher"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/depgraph/internal/engine/graph"
	"go.trai.ch/depgraph/internal/ui/output"
	"go.trai.ch/depgraph/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	crawler      ports.Crawler
	watcher      ports.Watcher
	walker       *fs.Walker
	fsys         ports.FileSystem
	hasher       ports.ContentHasher
	logger       ports.Logger

	tracerProvider trace.TracerProvider
	debounce       time.Duration
	workDir        string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	crawler ports.Crawler,
	w ports.Watcher,
	walker *fs.Walker,
	fsys ports.FileSystem,
	hasher ports.ContentHasher,
	log ports.Logger,
) *App {
	return &App{
		configLoader:   loader,
		crawler:        crawler,
		watcher:        w,
		walker:         walker,
		fsys:           fsys,
		hasher:         hasher,
		logger:         log,
		tracerProvider: otel.GetTracerProvider(),
	}
}

// WithTracerProvider sets the provider graph spans are recorded with.
func (a *App) WithTracerProvider(tp trace.TracerProvider) *App {
	a.tracerProvider = tp
	return a
}

// WithDebounceWindow sets how long watch mode coalesces file events.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// WithWorkDir sets the directory relative paths are resolved against.
// It defaults to the process working directory.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// LogOptions configures log output.
type LogOptions struct {
	Format  string
	Verbose bool
	Output  io.Writer
}

// configurableLogger is implemented by the slog adapter.
type configurableLogger interface {
	SetOutput(w io.Writer)
	SetJSON(enable bool)
	SetLevel(level slog.Level)
}

// ConfigureLogging applies the log format and verbosity flags.
// Loggers that cannot be configured are left untouched.
func (a *App) ConfigureLogging(opts LogOptions) {
	l, ok := a.logger.(configurableLogger)
	if !ok {
		return
	}

	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}

	format := detector.ResolveFormat(detector.DetectEnvironment(), opts.Format)
	l.SetJSON(format == detector.FormatJSON)

	if opts.Verbose {
		l.SetLevel(slog.LevelDebug)
	}
}

// ResolveOptions configures Resolve and Watch.
type ResolveOptions struct {
	Origin     string
	Specifiers []string
	Platform   string
}

// Open loads the configuration, crawls the project, and builds a graph over it.
// The caller releases the graph.
func (a *App) Open(ctx context.Context) (*graph.Graph, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	snapshot, err := a.crawler.Crawl(ctx, cfg.Root, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	return a.load(cfg, snapshot)
}

func (a *App) loadConfig() (domain.ResolverConfig, error) {
	cwd, err := a.cwd()
	if err != nil {
		return domain.ResolverConfig{}, err
	}

	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return domain.ResolverConfig{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func (a *App) load(cfg domain.ResolverConfig, snapshot *domain.Snapshot) (*graph.Graph, error) {
	g, err := graph.Load(cfg, snapshot, a.fsys, a.hasher)
	if err != nil {
		return nil, err
	}
	return g.WithLogger(a.logger).WithTracerProvider(a.tracerProvider), nil
}

// Resolve prints the resolved path of every specifier, one per line.
// Every specifier is attempted; if any fails, domain.ErrResolutionFailed is returned.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions, w io.Writer) error {
	g, err := a.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = g.Release() }()

	return a.printResolutions(ctx, g, opts, w)
}

func (a *App) printResolutions(ctx context.Context, g *graph.Graph, opts ResolveOptions, w io.Writer) error {
	origin, err := a.abs(opts.Origin)
	if err != nil {
		return err
	}

	failed := false
	for _, spec := range opts.Specifiers {
		path, err := g.ResolveDependency(ctx, origin, spec, opts.Platform)
		if err != nil {
			a.logger.Error(err)
			failed = true
			continue
		}
		_, _ = fmt.Fprintln(w, a.display(path))
	}

	if failed {
		return domain.ErrResolutionFailed
	}
	return nil
}

// Hash prints "<hash>  <path>" for every path.
func (a *App) Hash(ctx context.Context, paths []string, w io.Writer) error {
	g, err := a.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = g.Release() }()

	for _, p := range paths {
		abs, err := a.abs(p)
		if err != nil {
			return err
		}
		hash, err := g.ContentHash(abs)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s  %s\n", hash, p)
	}
	return nil
}

// Names prints "<name>  <path>" for every path. Files without a global name
// are named by their root-relative path.
func (a *App) Names(ctx context.Context, paths []string, w io.Writer) error {
	g, err := a.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = g.Release() }()

	for _, p := range paths {
		abs, err := a.abs(p)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s  %s\n", g.RegisteredName(abs), p)
	}
	return nil
}

// Watch resolves the specifiers, then re-resolves them after every applied
// change batch until ctx is done.
func (a *App) Watch(ctx context.Context, opts ResolveOptions, w io.Writer) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	tracker := watcher.NewTracker(watcher.TrackerOptions{
		Root:   cfg.Root,
		Ignore: cfg.Ignore,
		Window: a.debounce,
	}, a.crawler, a.watcher, a.walker, a.fsys, a.logger)

	if err := tracker.Start(ctx); err != nil {
		return err
	}

	g, err := a.load(cfg, tracker.Snapshot())
	if err != nil {
		_ = tracker.Release()
		return err
	}

	out := output.New(w)
	header := func(batch domain.ChangeBatch) {
		line := fmt.Sprintf("%s %d change(s): %s", style.Dot, len(batch.Events), summarize(batch))
		_, _ = out.WriteString(out.String(line).Foreground(out.Color(string(style.Iris))).String() + "\n")
	}

	_ = a.printResolutions(ctx, g, opts, w)
	unsubscribe := g.OnChange(func(batch domain.ChangeBatch) {
		header(batch)
		_ = a.printResolutions(ctx, g, opts, w)
	})
	defer unsubscribe()

	a.logger.Info("watching " + cfg.Root)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		err := g.Run(ctx, tracker)
		if errors.Is(err, domain.ErrGraphReleased) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		return g.Release()
	})

	err = eg.Wait()
	_ = tracker.Release()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func summarize(batch domain.ChangeBatch) string {
	parts := make([]string, 0, len(batch.Events))
	for _, e := range batch.Events {
		parts = append(parts, e.Kind.String()+" "+filepath.Base(e.Path))
	}
	return strings.Join(parts, ", ")
}

func (a *App) cwd() (string, error) {
	if a.workDir != "" {
		return a.workDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return cwd, nil
}

func (a *App) abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := a.cwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, path), nil
}

// display renders path relative to the working directory when it lies below it.
func (a *App) display(path string) string {
	cwd, err := a.cwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
