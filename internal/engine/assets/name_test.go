package assets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/depgraph/internal/core/domain"
	"go.trai.ch/depgraph/internal/engine/assets"
)

func TestParseName(t *testing.T) {
	cfg := domain.DefaultResolverConfig("/project")

	tests := []struct {
		name   string
		input  string
		want   assets.Name
		wantOK bool
	}{
		{name: "plain", input: "logo.png", want: assets.Name{Base: "logo", Density: 1, Ext: "png"}, wantOK: true},
		{name: "density", input: "logo@2x.png", want: assets.Name{Base: "logo", Density: 2, Ext: "png"}, wantOK: true},
		{name: "fractional density", input: "logo@1.5x.png", want: assets.Name{Base: "logo", Density: 1.5, Ext: "png"}, wantOK: true},
		{
			name:   "density and platform",
			input:  "logo@3x.ios.png",
			want:   assets.Name{Base: "logo", Density: 3, Platform: "ios", Ext: "png"},
			wantOK: true,
		},
		{name: "unknown platform stays in base", input: "logo.tv.png", want: assets.Name{Base: "logo.tv", Density: 1, Ext: "png"}, wantOK: true},
		{name: "dotted base", input: "icon.large.svg", want: assets.Name{Base: "icon.large", Density: 1, Ext: "svg"}, wantOK: true},
		{name: "source file", input: "logo.js", wantOK: false},
		{name: "no extension", input: "logo", wantOK: false},
		{name: "hidden file", input: ".png", wantOK: false},
		{name: "only suffixes", input: "@2x.png", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := assets.ParseName(cfg, tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseName_NativePlatform(t *testing.T) {
	cfg := domain.DefaultResolverConfig("/project")

	got, ok := assets.ParseName(cfg, "logo.native.png")
	assert.True(t, ok)
	assert.Equal(t, "logo.native", got.Base, "native is only a platform when preferred")

	cfg.PreferNativePlatform = true
	got, ok = assets.ParseName(cfg, "logo.native.png")
	assert.True(t, ok)
	assert.Equal(t, "logo", got.Base)
	assert.Equal(t, "native", got.Platform)
}

func TestIsAsset(t *testing.T) {
	cfg := domain.DefaultResolverConfig("/project")
	assert.True(t, assets.IsAsset(cfg, "logo@2x.png"))
	assert.True(t, assets.IsAsset(cfg, "font.ttf"))
	assert.False(t, assets.IsAsset(cfg, "index.js"))
	assert.False(t, assets.IsAsset(cfg, "png"))
}
