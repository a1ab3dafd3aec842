package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/depgraph/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/depgraph/internal/adapters/crawler"   //nolint:depguard // Wired in app layer
	"go.trai.ch/depgraph/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/depgraph/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/depgraph/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/depgraph/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/depgraph/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			crawler.NodeID,
			watcher.NodeID,
			fs.WalkerNodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	crawl, err := graft.Dep[ports.Crawler](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.ContentHasher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tp, err := graft.Dep[trace.TracerProvider](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, crawl, w, walker, fsys, hasher, log).WithTracerProvider(tp), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
