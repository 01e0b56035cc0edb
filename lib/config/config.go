package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/glexperiment/lib/utils"
	yaml "github.com/goccy/go-yaml"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultTitle          = "OpenGL experiment"
	DefaultWidth          = 1280
	DefaultHeight         = 720
	DefaultGLMajor        = 3
	DefaultGLMinor        = 3
	DefaultVertexShader   = "src/vertex_shader.glsl"
	DefaultFragmentShader = "src/fragment_shader.glsl"
	DefaultClearColour    = "#334d4dff"
)

type Config struct {
	Window      *WindowCfg  `yaml:"window" toml:"window"`
	Shaders     *ShadersCfg `yaml:"shaders" toml:"shaders"`
	ClearColour string      `yaml:"clear_colour" toml:"clear_colour"`
	LogLevel    string      `yaml:"log_level" toml:"log_level"`
	Api         *ApiCfg     `yaml:"api" toml:"api"`
}

type WindowCfg struct {
	Title     string `yaml:"title" toml:"title"`
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	Resizable *bool  `yaml:"resizable" toml:"resizable"`
	GLMajor   int    `yaml:"gl_major" toml:"gl_major"`
	GLMinor   int    `yaml:"gl_minor" toml:"gl_minor"`
	VSync     bool   `yaml:"vsync" toml:"vsync"`
}

type ShadersCfg struct {
	Vertex   CfgPath `yaml:"vertex" toml:"vertex"`
	Fragment CfgPath `yaml:"fragment" toml:"fragment"`

	// Strict aborts startup on the first compile or link failure instead
	// of logging it and carrying on with whatever the driver produced.
	Strict bool `yaml:"strict" toml:"strict"`
	Watch  bool `yaml:"watch" toml:"watch"`
}

type ApiCfg struct {
	Bind           string `yaml:"bind" toml:"bind"`
	EnableProfiler bool   `yaml:"enable_profiler" toml:"enable_profiler"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

func Parse(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	default:
		err = yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField()).Decode(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", filename, err)
	}

	cfg.fillDefaults()
	cfg.resolvePaths(filepath.Dir(absFilename))

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Window == nil {
		c.Window = &WindowCfg{}
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width == 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height == 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Window.Resizable == nil {
		resizable := true
		c.Window.Resizable = &resizable
	}
	if c.Window.GLMajor == 0 {
		c.Window.GLMajor = DefaultGLMajor
		c.Window.GLMinor = DefaultGLMinor
	}

	if c.Shaders == nil {
		c.Shaders = &ShadersCfg{}
	}
	if c.Shaders.Vertex == "" {
		c.Shaders.Vertex = DefaultVertexShader
	}
	if c.Shaders.Fragment == "" {
		c.Shaders.Fragment = DefaultFragmentShader
	}

	if c.ClearColour == "" {
		c.ClearColour = DefaultClearColour
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) resolvePaths(base string) {
	c.Shaders.Vertex = c.Shaders.Vertex.Resolve(base)
	c.Shaders.Fragment = c.Shaders.Fragment.Resolve(base)
}

func (c *Config) Validate() error {
	err := c.Window.Validate()
	if err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}
	err = c.Shaders.Validate()
	if err != nil {
		return fmt.Errorf("shaders are invalid: %w", err)
	}
	if !utils.ColourValidate(c.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.ClearColour)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %s", c.LogLevel)
	}
	if c.Api != nil && c.Api.Bind == "" {
		return fmt.Errorf("api section needs a bind address")
	}
	return nil
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height)
	}
	if w.GLMajor < 3 || (w.GLMajor == 3 && w.GLMinor < 3) {
		return fmt.Errorf("OpenGL %d.%d is too old, at least 3.3 core is needed", w.GLMajor, w.GLMinor)
	}
	return nil
}

func (s *ShadersCfg) Validate() error {
	if s.Vertex == "" {
		return fmt.Errorf("vertex shader path must be specified")
	}
	if s.Fragment == "" {
		return fmt.Errorf("fragment shader path must be specified")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("Window:\n")
	b.WriteString(fmt.Sprintf("  %q %dx%d (resizable: %t, OpenGL %d.%d core)\n",
		c.Window.Title, c.Window.Width, c.Window.Height, *c.Window.Resizable, c.Window.GLMajor, c.Window.GLMinor))

	b.WriteString("\nShaders:\n")
	b.WriteString(fmt.Sprintf("  vertex:   %s\n", c.Shaders.Vertex))
	b.WriteString(fmt.Sprintf("  fragment: %s\n", c.Shaders.Fragment))
	b.WriteString(fmt.Sprintf("  strict: %t, watch: %t\n", c.Shaders.Strict, c.Shaders.Watch))

	b.WriteString(fmt.Sprintf("\nClear colour: %s\n", c.ClearColour))

	if c.Api != nil {
		b.WriteString(fmt.Sprintf("\nAPI: %s\n", c.Api.Bind))
	}

	return b.String()
}
