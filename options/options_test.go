package options

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	o, err := Parse("test", nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", o.Title)
	assert.Equal(t, 300, o.Width)
	assert.Equal(t, 300, o.Height)
	assert.Equal(t, 1, o.SwapInterval)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, o.Clear())
	assert.Equal(t, slog.LevelInfo, o.SlogLevel())
}

func TestParseZeroSizeFallsBack(t *testing.T) {
	o, err := Parse("test", []string{"-width", "0", "-height", "0", "-title", ""})
	require.NoError(t, err)
	assert.Equal(t, 300, o.Width)
	assert.Equal(t, 300, o.Height)
	assert.Equal(t, "Hello World!", o.Title)
}

func TestParseSwapInterval(t *testing.T) {
	o, err := Parse("test", []string{"-swap", "0"})
	require.NoError(t, err)
	assert.Equal(t, 1, o.SwapInterval)

	o, err = Parse("test", []string{"-swap", "-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, o.Window().PresentInterval())
}

func TestParseFlags(t *testing.T) {
	o, err := Parse("test", []string{
		"-title", "square", "-width", "640", "-height", "480",
		"-clear", "0.25,0.5,1", "-frames", "3", "-log", "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, "square", o.Title)
	assert.Equal(t, 640, o.Width)
	assert.Equal(t, 480, o.Height)
	assert.Equal(t, [4]float32{0.25, 0.5, 1, 1}, o.ClearColor)
	assert.Equal(t, 3, o.Frames)
	assert.Equal(t, slog.LevelDebug, o.SlogLevel())
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
title = "from file"
width = 800
height = 600
clear_color = [0.1, 0.2, 0.3, 1.0]
frames = 10
`), 0o644))

	o, err := Parse("test", []string{"-config", path, "-width", "1024"})
	require.NoError(t, err)
	assert.Equal(t, "from file", o.Title)
	assert.Equal(t, 1024, o.Width)
	assert.Equal(t, 600, o.Height)
	assert.Equal(t, 10, o.Frames)
	assert.InDelta(t, 0.2, o.ClearColor[1], 1e-6)
}

func TestConfigFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harness.toml")
	require.NoError(t, os.WriteFile(path, []byte("titel = \"typo\"\n"), 0o644))

	_, err := Parse("test", []string{"-config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "titel")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(o *Options)
	}{
		{"negative size", func(o *Options) { o.Width = -1 }},
		{"negative frames", func(o *Options) { o.Frames = -2 }},
		{"headless without frames", func(o *Options) { o.Headless = true }},
		{"one shader file", func(o *Options) { o.VertexShader = "a.vert" }},
		{"bad fps", func(o *Options) { o.Record = "out.mp4"; o.FPS = 0 }},
		{"bad log level", func(o *Options) { o.LogLevel = "loud" }},
		{"bad swap interval", func(o *Options) { o.SwapInterval = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.edit(o)
			assert.Error(t, o.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestColorValue(t *testing.T) {
	var c colorValue
	require.NoError(t, c.Set("1, 0.5, 0, 0.25"))
	assert.Equal(t, colorValue{1, 0.5, 0, 0.25}, c)
	assert.Equal(t, "1,0.5,0,0.25", c.String())

	assert.Error(t, c.Set("1,2"))
	assert.Error(t, c.Set("1,0,x"))
	assert.Error(t, c.Set("1.5,0,0"))
}
