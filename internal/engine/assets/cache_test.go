package assets_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports/mocks"
	"go.trai.ch/depgraph/internal/engine/assets"
	"go.trai.ch/depgraph/internal/engine/fileindex"
	"go.uber.org/mock/gomock"
)

func newCache(paths ...string) *assets.Cache {
	return assets.New(domain.DefaultResolverConfig("/project"), fileindex.Build(slices.Values(paths)), 1)
}

func variantPaths(res domain.AssetResolution) []string {
	paths := make([]string, len(res.Variants))
	for i, v := range res.Variants {
		paths[i] = v.Path
	}
	return paths
}

func TestCache_Resolve_DensityGroup(t *testing.T) {
	cache := newCache(
		"/project/img/logo.png",
		"/project/img/logo@3x.png",
		"/project/img/logo@2x.png",
		"/project/img/logo.jpg",
		"/project/img/other.png",
	)

	res, ok := cache.Resolve("/project/img", "logo.png", "")
	require.True(t, ok)
	assert.Equal(t, []string{
		"/project/img/logo.png",
		"/project/img/logo@2x.png",
		"/project/img/logo@3x.png",
	}, variantPaths(res))
	assert.Equal(t, "logo", res.BaseName)
	assert.Equal(t, "png", res.Ext)
	assert.Equal(t, "/project/img/logo.png", res.Primary())
}

func TestCache_Resolve_PlatformRanking(t *testing.T) {
	cache := newCache(
		"/project/img/logo.png",
		"/project/img/logo@2x.png",
		"/project/img/logo.ios.png",
		"/project/img/logo@2x.ios.png",
		"/project/img/logo.android.png",
	)

	ios, ok := cache.Resolve("/project/img", "logo.png", "ios")
	require.True(t, ok)
	assert.Equal(t, []string{"/project/img/logo.ios.png", "/project/img/logo@2x.ios.png"}, variantPaths(ios))

	web, ok := cache.Resolve("/project/img", "logo.png", "web")
	require.True(t, ok)
	assert.Equal(t, []string{"/project/img/logo.png", "/project/img/logo@2x.png"}, variantPaths(web))

	none, ok := cache.Resolve("/project/img", "logo.png", "")
	require.True(t, ok)
	assert.Equal(t, []string{"/project/img/logo.png", "/project/img/logo@2x.png"}, variantPaths(none))
}

func TestCache_Resolve_SuffixedSpecifier(t *testing.T) {
	cache := newCache("/project/img/logo.png", "/project/img/logo@2x.png")

	res, ok := cache.Resolve("/project/img", "logo@2x.png", "")
	require.True(t, ok)
	assert.Len(t, res.Variants, 2)
}

func TestCache_Resolve_PlatformOnlyVariant(t *testing.T) {
	cache := newCache("/project/img/logo.ios.png")

	_, ok := cache.Resolve("/project/img", "logo.png", "android")
	assert.False(t, ok)

	res, ok := cache.Resolve("/project/img", "logo.png", "ios")
	require.True(t, ok)
	assert.Equal(t, "/project/img/logo.ios.png", res.Primary())
}

func TestCache_Resolve_NotFound(t *testing.T) {
	cache := newCache("/project/img/logo.png")

	_, ok := cache.Resolve("/project/img", "missing.png", "")
	assert.False(t, ok)

	_, ok = cache.Resolve("/project/elsewhere", "logo.png", "")
	assert.False(t, ok)

	_, ok = cache.Resolve("/project/img", "logo.js", "")
	assert.False(t, ok, "non-asset names never resolve")
}

func TestCache_Resolve_ListsDirectoryOncePerKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockDirectoryLister(ctrl)
	lister.EXPECT().FilesIn("/project/img").Return([]string{"logo.png", "logo@2x.png"}).Times(1)

	cache := assets.New(domain.DefaultResolverConfig("/project"), lister, 7)

	first, ok := cache.Resolve("/project/img", "logo.png", "ios")
	require.True(t, ok)
	second, ok := cache.Resolve("/project/img", "logo.png", "ios")
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Resolve_MemoizesMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockDirectoryLister(ctrl)
	lister.EXPECT().FilesIn("/project/img").Return(nil).Times(1)

	cache := assets.New(domain.DefaultResolverConfig("/project"), lister, 1)

	_, ok := cache.Resolve("/project/img", "logo.png", "")
	assert.False(t, ok)
	_, ok = cache.Resolve("/project/img", "logo.png", "")
	assert.False(t, ok)
}

func TestCache_ClearAndReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	lister := mocks.NewMockDirectoryLister(ctrl)
	lister.EXPECT().FilesIn("/project/img").Return([]string{"logo.png"}).Times(2)

	cache := assets.New(domain.DefaultResolverConfig("/project"), lister, 1)

	_, ok := cache.Resolve("/project/img", "logo.png", "")
	require.True(t, ok)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())

	_, ok = cache.Resolve("/project/img", "logo.png", "")
	require.True(t, ok)

	next := fileindex.Build(slices.Values([]string{"/project/img/logo@2x.png"}))
	cache.Reset(next, 2)
	assert.Equal(t, 0, cache.Len())

	res, ok := cache.Resolve("/project/img", "logo.png", "")
	require.True(t, ok)
	assert.Equal(t, "/project/img/logo@2x.png", res.Primary())
}

func TestCache_Resolve_NativePreference(t *testing.T) {
	cfg := domain.DefaultResolverConfig("/project")
	cfg.PreferNativePlatform = true
	cache := assets.New(cfg, fileindex.Build(slices.Values([]string{
		"/project/img/logo.png",
		"/project/img/logo.native.png",
	})), 1)

	res, ok := cache.Resolve("/project/img", "logo.png", "ios")
	require.True(t, ok)
	assert.Equal(t, "/project/img/logo.native.png", res.Primary())
}
