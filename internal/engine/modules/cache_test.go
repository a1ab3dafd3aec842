package modules_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depgraph/internal/adapters/fs"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/core/ports/mocks"
	"go.trai.ch/depgraph/internal/engine/modules"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T, files map[string]string) (*modules.Cache, *fstest.MapFS) {
	t.Helper()

	mapFS := fstest.MapFS{}
	records := make(map[string]domain.FileRecord)
	for rel, content := range files {
		mapFS[rel] = &fstest.MapFile{Data: []byte(content)}
		records["/project/"+rel] = domain.FileRecord{Hash: fs.HashBytes([]byte(content))}
	}

	snapshot := domain.NewSnapshot("/project", records)
	return modules.New(snapshot, fs.NewMapFSAdapter("/project", mapFS)), &mapFS
}

func TestCache_Get(t *testing.T) {
	cache, _ := setup(t, map[string]string{
		"package.json":     `{"name": "app", "main": "index.js"}`,
		"src/index.js":     "module.exports = 1;\n",
		"src/lib/util.js":  "export {}\n",
		"src/package.json": `{"name": "src", "browser": "browser.js"}`,
	})

	meta, err := cache.Get("/project/src/lib/util.js")
	require.NoError(t, err)
	assert.Equal(t, "/project/src/lib/util.js", meta.Path)
	assert.Equal(t, int64(len("export {}\n")), meta.Size)
	assert.Equal(t, fs.HashBytes([]byte("export {}\n")), meta.Hash)
	assert.Equal(t, "/project/src/package.json", meta.ManifestPath)
	assert.False(t, meta.IsManifest())

	again, err := cache.Get("/project/src/lib/util.js")
	require.NoError(t, err)
	assert.Same(t, meta, again, "metadata is created once per path")
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Get_Manifest(t *testing.T) {
	cache, _ := setup(t, map[string]string{
		"pkg/package.json": `{"name": "pkg", "main": "lib/main.js", "browser": {"fs": false}, "version": "1.0.0"}`,
	})

	manifest, err := cache.Manifest("/project/pkg/package.json")
	require.NoError(t, err)
	assert.Equal(t, "pkg", manifest.Name)
	assert.Equal(t, "/project/pkg", manifest.Root)
	assert.Equal(t, "lib/main.js", manifest.Fields["main"])
	assert.NotContains(t, manifest.Fields, "browser", "object-valued fields are skipped")
	assert.Equal(t, []string{"lib/main.js"}, manifest.EntryPoints([]string{"browser", "main"}))
}

func TestCache_Get_Errors(t *testing.T) {
	cache, _ := setup(t, map[string]string{
		"bad/package.json": `{"main": `,
		"src/index.js":     "",
	})

	t.Run("malformed manifest", func(t *testing.T) {
		_, err := cache.Get("/project/bad/package.json")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrManifestRead.Error())
		assert.Equal(t, 0, cache.Len(), "failures are not cached")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := cache.Get("/project/src/missing.js")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrFileRead.Error())
	})

	t.Run("directory", func(t *testing.T) {
		_, err := cache.Get("/project/src")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrFileRead.Error())
	})

	t.Run("not a manifest", func(t *testing.T) {
		_, err := cache.Manifest("/project/src/index.js")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrManifestRead.Error())
	})
}

func TestCache_Get_ManifestReadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)

	info, err := fstest.MapFS{"package.json": {Data: []byte("{}")}}.Stat("package.json")
	require.NoError(t, err)

	const path = "/project/package.json"
	fsys.EXPECT().Stat(path).Return(info, nil)
	fsys.EXPECT().ReadFile(path).Return(nil, errors.New("permission denied"))

	snapshot := domain.NewSnapshot("/project", map[string]domain.FileRecord{path: {Hash: "h"}})
	cache := modules.New(snapshot, fsys)

	_, err = cache.Get(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestRead.Error())
	assert.ErrorContains(t, err, "permission denied")
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Invalidate(t *testing.T) {
	cache, mapFS := setup(t, map[string]string{
		"pkg/package.json": `{"main": "a.js"}`,
	})

	manifest, err := cache.Manifest("/project/pkg/package.json")
	require.NoError(t, err)
	assert.Equal(t, "a.js", manifest.Fields["main"])

	(*mapFS)["pkg/package.json"] = &fstest.MapFile{Data: []byte(`{"main": "b.js"}`)}

	manifest, err = cache.Manifest("/project/pkg/package.json")
	require.NoError(t, err)
	assert.Equal(t, "a.js", manifest.Fields["main"], "stale until invalidated")

	cache.Invalidate("/project/pkg/package.json")
	assert.Equal(t, 0, cache.Len())

	manifest, err = cache.Manifest("/project/pkg/package.json")
	require.NoError(t, err)
	assert.Equal(t, "b.js", manifest.Fields["main"])
}

func TestCache_ClosestManifestFor(t *testing.T) {
	cache, _ := setup(t, map[string]string{
		"package.json":            `{}`,
		"packages/a/package.json": `{}`,
		"packages/a/src/x.js":     "",
		"packages/b/src/y.js":     "",
	})

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{path: "/project/packages/a/src/x.js", want: "/project/packages/a/package.json", wantOK: true},
		{path: "/project/packages/a/package.json", want: "/project/packages/a/package.json", wantOK: true},
		{path: "/project/packages/b/src/y.js", want: "/project/package.json", wantOK: true},
		{path: "/elsewhere/z.js", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := cache.ClosestManifestFor(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCache_ClosestManifestFor_StopsAtRoot(t *testing.T) {
	snapshot := domain.NewSnapshot("/project/app", map[string]domain.FileRecord{
		"/project/package.json":    {Hash: "x"},
		"/project/app/src/main.js": {Hash: "y"},
	})
	cache := modules.New(snapshot, fs.NewOSFS())

	_, ok := cache.ClosestManifestFor("/project/app/src/main.js")
	assert.False(t, ok, "manifests above the root are not considered")
}

func TestCache_Rebind(t *testing.T) {
	first := domain.NewSnapshot("/project", map[string]domain.FileRecord{
		"/project/src/a.js": {},
	})
	cache := modules.New(first, fs.NewOSFS())

	_, ok := cache.ClosestManifestFor("/project/src/a.js")
	assert.False(t, ok)

	cache.Rebind(first.Apply([]domain.FileChange{
		{Path: "/project/package.json", Record: &domain.FileRecord{Hash: "h"}},
	}))

	got, ok := cache.ClosestManifestFor("/project/src/a.js")
	assert.True(t, ok)
	assert.Equal(t, "/project/package.json", got)
}

func TestParseManifest(t *testing.T) {
	_, err := modules.ParseManifest("/p/package.json", []byte(`[1, 2]`))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestRead.Error())

	m, err := modules.ParseManifest("/p/package.json", []byte(`{"name": "p", "module": "esm.js", "files": ["a"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "p", "module": "esm.js"}, m.Fields)
}
