// Package config provides the configuration loader for depgraph.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     ports.FileSystem
}

// NewLoader creates a new Loader reading through fsys.
func NewLoader(logger ports.Logger, fsys ports.FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load finds depgraph.yaml in cwd or the nearest ancestor and returns the
// resolver configuration it describes. Without a config file the defaults
// rooted at cwd are returned.
func (l *Loader) Load(cwd string) (domain.ResolverConfig, error) {
	cwd, err := filepath.Abs(cwd)
	if err != nil {
		return domain.ResolverConfig{}, zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	configPath, ok := l.findConfiguration(cwd)
	if !ok {
		l.Logger.Debug(fmt.Sprintf("no %s found above %s, using defaults", domain.ConfigFileName, cwd))
		return domain.DefaultResolverConfig(cwd), nil
	}

	var file Configfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return domain.ResolverConfig{}, zerr.With(err, "path", configPath)
	}

	cfg := apply(domain.DefaultResolverConfig(resolveRoot(configPath, file.Root)), file)
	if err := cfg.Validate(); err != nil {
		return domain.ResolverConfig{}, zerr.With(err, "path", configPath)
	}
	l.Logger.Debug(fmt.Sprintf("loaded %s, project root %s", configPath, cfg.Root))
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) readAndUnmarshalYAML(configPath string, target *Configfile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

func apply(cfg domain.ResolverConfig, file Configfile) domain.ResolverConfig {
	if file.SourceExts != nil {
		cfg.SourceExts = file.SourceExts
	}
	if file.AssetExts != nil {
		cfg.AssetExts = file.AssetExts
	}
	if file.Platforms != nil {
		cfg.Platforms = file.Platforms
	}
	if file.PreferNativePlatform != nil {
		cfg.PreferNativePlatform = *file.PreferNativePlatform
	}
	if file.MainFields != nil {
		cfg.MainFields = file.MainFields
	}
	if file.ThirdPartyDir != "" {
		cfg.ThirdPartyDir = file.ThirdPartyDir
	}
	for _, r := range file.Redirects {
		cfg.Redirects = append(cfg.Redirects, domain.Redirect{
			Prefix: strings.TrimRight(r.Prefix, "/"),
			Target: r.Target,
		})
	}
	cfg.Ignore = file.Ignore
	return cfg
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}
