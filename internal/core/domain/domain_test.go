package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depgraph/internal/core/domain"
)

func TestModuleNotFoundError(t *testing.T) {
	err := error(domain.NewModuleNotFoundError("/project/index.js", "./missing", "ios"))

	require.ErrorIs(t, err, domain.ErrModuleNotFound)
	assert.Contains(t, err.Error(), `"./missing"`)
	assert.Contains(t, err.Error(), "/project/index.js")
	assert.Contains(t, err.Error(), "platform ios")

	var notFound *domain.ModuleNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "./missing", notFound.Specifier)

	noPlatform := domain.NewModuleNotFoundError("/project/index.js", "lodash", "")
	assert.NotContains(t, noPlatform.Error(), "platform")
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "add", domain.ChangeAdd.String())
	assert.Equal(t, "edit", domain.ChangeEdit.String())
	assert.Equal(t, "delete", domain.ChangeDelete.String())
	assert.Equal(t, "unknown", domain.ChangeKind(42).String())
}

func TestChangeBatch_Paths(t *testing.T) {
	batch := domain.ChangeBatch{Events: []domain.ChangeEvent{
		{Kind: domain.ChangeAdd, Path: "/a"},
		{Kind: domain.ChangeDelete, Path: "/b"},
	}}
	assert.Equal(t, []string{"/a", "/b"}, batch.Paths())
}

func TestResolverConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ResolverConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*domain.ResolverConfig) {}},
		{name: "relative root", mutate: func(c *domain.ResolverConfig) { c.Root = "project" }, wantErr: true},
		{name: "no source exts", mutate: func(c *domain.ResolverConfig) { c.SourceExts = nil }, wantErr: true},
		{name: "dotted ext", mutate: func(c *domain.ResolverConfig) { c.SourceExts = []string{".js"} }, wantErr: true},
		{name: "no main fields", mutate: func(c *domain.ResolverConfig) { c.MainFields = nil }, wantErr: true},
		{name: "nested third party dir", mutate: func(c *domain.ResolverConfig) { c.ThirdPartyDir = "a/b" }, wantErr: true},
		{
			name:    "empty redirect target",
			mutate:  func(c *domain.ResolverConfig) { c.Redirects = []domain.Redirect{{Prefix: "x"}} },
			wantErr: true,
		},
		{
			name:    "redirect prefix with trailing slash",
			mutate:  func(c *domain.ResolverConfig) { c.Redirects = []domain.Redirect{{Prefix: "lib/", Target: "src"}} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultResolverConfig("/project")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), domain.ErrInvalidConfig.Error())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResolverConfig_Clone(t *testing.T) {
	cfg := domain.DefaultResolverConfig("/project")
	clone := cfg.Clone()
	clone.SourceExts[0] = "mjs"
	assert.Equal(t, "js", cfg.SourceExts[0])
}

func TestAssetResolution_Primary(t *testing.T) {
	res := domain.AssetResolution{Variants: []domain.AssetVariant{
		{Path: "/a/icon@0.5x.png", Density: 0.5},
		{Path: "/a/icon.png", Density: 1},
		{Path: "/a/icon@2x.png", Density: 2},
	}}
	assert.Equal(t, "/a/icon.png", res.Primary())

	res.Variants = res.Variants[2:]
	assert.Equal(t, "/a/icon@2x.png", res.Primary())

	assert.Empty(t, domain.AssetResolution{}.Primary())
}

func TestPackageManifest_EntryPoints(t *testing.T) {
	m := &domain.PackageManifest{Fields: map[string]string{"main": "lib/index.js", "browser": "dist/b.js", "module": ""}}
	assert.Equal(t, []string{"dist/b.js", "lib/index.js"}, m.EntryPoints([]string{"browser", "module", "main"}))
}
