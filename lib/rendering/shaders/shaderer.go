package shaders

import (
	"embed"
	"fmt"

	"github.com/fosdem/glexperiment/lib/fileload"
)

//go:embed defaults/*.vert defaults/*.frag
var defaultDir embed.FS

// Sources is a vertex/fragment source pair ready to be compiled.
type Sources struct {
	Vertex   string
	Fragment string
}

// Shaderer knows where the shader pair lives. When VertexPath and
// FragmentPath are empty the built-in rectangle shaders are used.
type Shaderer struct {
	VertexPath   string
	FragmentPath string
	Strict       bool
}

func NewShaderer(vertexPath, fragmentPath string, strict bool) *Shaderer {
	return &Shaderer{
		VertexPath:   vertexPath,
		FragmentPath: fragmentPath,
		Strict:       strict,
	}
}

func (s *Shaderer) Builtin() bool {
	return s.VertexPath == "" && s.FragmentPath == ""
}

func (s *Shaderer) Load() (Sources, error) {
	if s.Builtin() {
		return DefaultSources()
	}

	vs, err := fileload.ReadEntireFile(s.VertexPath)
	if err != nil {
		return Sources{}, fmt.Errorf("could not get vertex shader: %w", err)
	}
	fs, err := fileload.ReadEntireFile(s.FragmentPath)
	if err != nil {
		return Sources{}, fmt.Errorf("could not get fragment shader: %w", err)
	}

	return Sources{Vertex: vs.Source(), Fragment: fs.Source()}, nil
}

// Build loads both files and builds a program from them. Needs a current
// GL context.
func (s *Shaderer) Build() (Program, error) {
	src, err := s.Load()
	if err != nil {
		return Program{}, err
	}
	return BuildProgram(src.Vertex, src.Fragment, s.Strict)
}

func DefaultSources() (Sources, error) {
	vs, err := defaultDir.ReadFile("defaults/rect.vert")
	if err != nil {
		return Sources{}, err
	}
	fs, err := defaultDir.ReadFile("defaults/rect.frag")
	if err != nil {
		return Sources{}, err
	}
	return Sources{Vertex: string(vs), Fragment: string(fs)}, nil
}
