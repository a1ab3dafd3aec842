// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/depgraph/internal/adapters/config"
	_ "go.trai.ch/depgraph/internal/adapters/crawler"
	_ "go.trai.ch/depgraph/internal/adapters/fs"
	_ "go.trai.ch/depgraph/internal/adapters/logger"
	_ "go.trai.ch/depgraph/internal/adapters/telemetry"
	_ "go.trai.ch/depgraph/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/depgraph/internal/app"
)
