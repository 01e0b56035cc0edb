package windowsink

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/fosdem/glexperiment/lib/config"
	"github.com/fosdem/glexperiment/lib/metrics"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	gopointer "github.com/mattn/go-pointer"
)

// Viewport is the framebuffer size as last reported by GLFW. The resize
// callback finds it through the window's user pointer.
type Viewport struct {
	mu     sync.Mutex
	width  int
	height int
}

func (v *Viewport) Set(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}

func (v *Viewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

type WindowSink struct {
	Window   *glfw.Window
	Viewport *Viewport

	cfg         *config.WindowCfg
	userPointer unsafe.Pointer
}

func New(cfg *config.WindowCfg) *WindowSink {
	return &WindowSink{
		cfg:      cfg,
		Viewport: &Viewport{width: cfg.Width, height: cfg.Height},
	}
}

// Start creates the window and makes its context current on the calling
// thread, which must stay locked to the OS thread.
func (w *WindowSink) Start() error {
	if w.Window != nil {
		return nil
	}
	w.log("Initializing window")
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	resizable := glfw.True
	if w.cfg.Resizable != nil && !*w.cfg.Resizable {
		resizable = glfw.False
	}
	glfw.WindowHint(glfw.Resizable, resizable)
	glfw.WindowHint(glfw.ContextVersionMajor, w.cfg.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, w.cfg.GLMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(w.cfg.Width, w.cfg.Height, w.cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}

	window.MakeContextCurrent()
	if w.cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	fw, fh := window.GetFramebufferSize()
	w.Viewport.Set(fw, fh)

	w.userPointer = gopointer.Save(w.Viewport)
	window.SetUserPointer(w.userPointer)
	window.SetFramebufferSizeCallback(framebufferSizeCallback)

	w.Window = window
	w.log("Created %dx%d window %q", w.cfg.Width, w.cfg.Height, w.cfg.Title)
	return nil
}

func framebufferSizeCallback(window *glfw.Window, width, height int) {
	viewport, ok := gopointer.Restore(window.GetUserPointer()).(*Viewport)
	if !ok {
		return
	}
	viewport.Set(width, height)
	gl.Viewport(0, 0, int32(width), int32(height))
	metrics.WindowResizes.Inc()
}

func (w *WindowSink) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *WindowSink) SetShouldClose(value bool) {
	w.Window.SetShouldClose(value)
}

func (w *WindowSink) SwapBuffers() {
	w.Window.SwapBuffers()
}

func (w *WindowSink) PollEvents() {
	glfw.PollEvents()
}

// Close destroys the window and tears GLFW down.
func (w *WindowSink) Close() {
	if w.Window == nil {
		return
	}
	w.Window.Destroy()
	w.Window = nil
	gopointer.Unref(w.userPointer)
	w.userPointer = nil
	glfw.Terminate()
}

func (w *WindowSink) log(msg string, args ...interface{}) {
	slog.Info(fmt.Sprintf(msg, args...), slog.String("module", "window"))
}
