package ports

import "go.trai.ch/depgraph/internal/core/domain"

// ConfigLoader defines the interface for loading the resolver configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration for the given working directory and returns it.
	// A missing configuration file yields defaults rooted at cwd.
	Load(cwd string) (domain.ResolverConfig, error)
}
