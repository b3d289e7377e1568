package shader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsESSL(t *testing.T) {
	assert.True(t, isESSL(staticVertexSourceGLES))
	assert.True(t, isESSL("\n// comment\n#version 300 es\nvoid main(){}"))
	assert.False(t, isESSL(staticVertexSourceGL))
	assert.False(t, isESSL("void main(){}"))
	assert.True(t, StaticSource(true).IsGLES())
	assert.False(t, StaticSource(false).IsGLES())
}

func TestLoadSourceDesktop(t *testing.T) {
	dir := t.TempDir()
	vp := filepath.Join(dir, "vertexShader.glsl")
	fp := filepath.Join(dir, "fragmentShader.glsl")
	require.NoError(t, os.WriteFile(vp, []byte(staticVertexSourceGL), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte(staticFragmentSourceGL), 0o644))

	src, err := LoadSource(context.Background(), vp, fp)
	require.NoError(t, err)
	assert.Equal(t, staticVertexSourceGL, src.Vertex)
	assert.Equal(t, staticFragmentSourceGL, src.Fragment)
	assert.Equal(t, "position", src.name("position"))
}

func TestLoadSourceMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSource(context.Background(), filepath.Join(dir, "nope.vert"), filepath.Join(dir, "nope.frag"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceNameMapping(t *testing.T) {
	src := Source{names: map[string]string{"position": "_uposition"}}
	assert.Equal(t, "_uposition", src.name("position"))
	assert.Equal(t, "uv", src.name("uv"))
}
