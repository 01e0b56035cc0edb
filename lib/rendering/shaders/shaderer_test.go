package shaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSources(t *testing.T) {
	src, err := DefaultSources()
	require.NoError(t, err)
	assert.Contains(t, src.Vertex, "#version 330 core")
	assert.Contains(t, src.Vertex, "layout (location = 0)")
	assert.Contains(t, src.Fragment, "FragColor")
}

func TestShadererBuiltin(t *testing.T) {
	s := NewShaderer("", "", false)
	assert.True(t, s.Builtin())

	src, err := s.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, src.Vertex)
}

func TestShadererLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "vertex_shader.glsl")
	frag := filepath.Join(dir, "fragment_shader.glsl")
	require.NoError(t, os.WriteFile(vert, []byte("vertex source"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("fragment source"), 0o644))

	s := NewShaderer(vert, frag, false)
	assert.False(t, s.Builtin())

	src, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "vertex source", src.Vertex)
	assert.Equal(t, "fragment source", src.Fragment)
}

func TestShadererMissingFile(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "vertex_shader.glsl")
	require.NoError(t, os.WriteFile(vert, []byte("vertex source"), 0o644))

	_, err := NewShaderer(vert, filepath.Join(dir, "missing.glsl"), false).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "fragment")
}
