// Package gltest gives tests a throwaway OpenGL 3.3 core context.
package gltest

import (
	"runtime"
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WithContext runs fn with a hidden window's context current on the
// calling thread. The test is skipped when no display or driver is around.
func WithContext(t *testing.T, fn func(w *glfw.Window)) {
	t.Helper()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		t.Skipf("glfw unavailable: %s", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(64, 64, t.Name(), nil, nil)
	if err != nil {
		t.Skipf("no OpenGL 3.3 window: %s", err)
	}
	defer window.Destroy()

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		t.Skipf("could not load OpenGL: %s", err)
	}

	fn(window)
}
