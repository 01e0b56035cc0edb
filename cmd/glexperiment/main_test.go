package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fosdem/glexperiment/lib/demo"
	"github.com/fosdem/glexperiment/lib/rendering/shaders"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"clean exit", nil, 0},
		{"no window", fmt.Errorf("%w: failed to create GLFW window", demo.ErrStartup), -1},
		{"no gl loader", fmt.Errorf("run: %w", fmt.Errorf("%w: gl.Init", demo.ErrStartup)), -1},
		{"missing shader", errors.New("could not get vertex shader: open src/vertex_shader.glsl: no such file or directory"), 1},
		{"strict build", &shaders.LinkError{Log: "error: unresolved"}, 1},
		{"cancelled", context.Canceled, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
