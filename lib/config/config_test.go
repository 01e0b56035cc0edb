package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "OpenGL experiment", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, *cfg.Window.Resizable)
	assert.Equal(t, 3, cfg.Window.GLMajor)
	assert.Equal(t, 3, cfg.Window.GLMinor)
	assert.Equal(t, CfgPath("src/vertex_shader.glsl"), cfg.Shaders.Vertex)
	assert.Equal(t, CfgPath("src/fragment_shader.glsl"), cfg.Shaders.Fragment)
	assert.Equal(t, "#334d4dff", cfg.ClearColour)
	assert.Nil(t, cfg.Api)
}

func TestParseYAML(t *testing.T) {
	path := writeConfig(t, "demo.yaml", `
window:
  title: test window
  width: 640
  height: 480
  resizable: false
shaders:
  vertex: shaders/rect.vert
  fragment: /abs/rect.frag
  strict: true
clear_colour: "#000000ff"
api:
  bind: 127.0.0.1:8000
`)
	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "test window", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.False(t, *cfg.Window.Resizable)
	assert.Equal(t, 3, cfg.Window.GLMajor)
	assert.True(t, cfg.Shaders.Strict)
	assert.Equal(t, CfgPath(filepath.Join(filepath.Dir(path), "shaders/rect.vert")), cfg.Shaders.Vertex)
	assert.Equal(t, CfgPath("/abs/rect.frag"), cfg.Shaders.Fragment)
	assert.Equal(t, "127.0.0.1:8000", cfg.Api.Bind)
}

func TestParseTOML(t *testing.T) {
	path := writeConfig(t, "demo.toml", `
clear_colour = "#ff0000ff"

[window]
width = 800
height = 600

[shaders]
watch = true
`)
	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "OpenGL experiment", cfg.Window.Title)
	assert.True(t, cfg.Shaders.Watch)
	assert.Equal(t, "#ff0000ff", cfg.ClearColour)
	assert.Equal(t, CfgPath(filepath.Join(filepath.Dir(path), DefaultVertexShader)), cfg.Shaders.Vertex)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "demo.yaml", "window:\n  colour_depth: 24\n")
	_, err := Parse(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = -1 }},
		{"old gl", func(c *Config) { c.Window.GLMajor, c.Window.GLMinor = 3, 2 }},
		{"bad colour", func(c *Config) { c.ClearColour = "teal" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"no vertex shader", func(c *Config) { c.Shaders.Vertex = "" }},
		{"api without bind", func(c *Config) { c.Api = &ApiCfg{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCfgPathResolve(t *testing.T) {
	assert.Equal(t, CfgPath("/etc/a.glsl"), CfgPath("a.glsl").Resolve("/etc"))
	assert.Equal(t, CfgPath("/b.glsl"), CfgPath("/b.glsl").Resolve("/etc"))
	assert.Equal(t, CfgPath(""), CfgPath("").Resolve("/etc"))
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "OpenGL experiment")
	assert.Contains(t, s, "1280x720")
	assert.Contains(t, s, "src/vertex_shader.glsl")
}
