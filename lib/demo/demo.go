// Package demo wires the window, shaders, geometry and render loop
// together and runs the demo until the window closes.
package demo

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/fosdem/glexperiment/lib/api"
	"github.com/fosdem/glexperiment/lib/config"
	"github.com/fosdem/glexperiment/lib/control"
	"github.com/fosdem/glexperiment/lib/kbdctl"
	"github.com/fosdem/glexperiment/lib/metrics"
	"github.com/fosdem/glexperiment/lib/rendering"
	"github.com/fosdem/glexperiment/lib/rendering/shaders"
	"github.com/fosdem/glexperiment/lib/renderloop"
	"github.com/fosdem/glexperiment/lib/shaderwatch"
	"github.com/fosdem/glexperiment/lib/sink/windowsink"
	"github.com/fosdem/glexperiment/lib/stats"
	"github.com/fosdem/glexperiment/lib/utils"
)

// ErrStartup marks failures to get a window or an OpenGL context.
var ErrStartup = errors.New("startup failed")

type Options struct {
	// BuiltinShaders ignores the configured shader paths.
	BuiltinShaders bool
	// Triangle draws the three-vertex mesh instead of the rectangle.
	Triangle bool
}

type frame struct {
	renderer *rendering.Renderer
	viewport *windowsink.Viewport
	control  *control.Control
}

func (f *frame) DrawFrame() {
	f.renderer.DrawFrame()
	f.control.ServiceCaptures(func() (*image.NRGBA, error) {
		return rendering.ReadFramebuffer(f.viewport.Size())
	})
}

// Run runs the demo on the calling goroutine, which must be
// locked to the main OS thread.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	shaderer := shaders.NewShaderer(string(cfg.Shaders.Vertex), string(cfg.Shaders.Fragment), cfg.Shaders.Strict)
	if opts.BuiltinShaders {
		shaderer = shaders.NewShaderer("", "", cfg.Shaders.Strict)
	}

	// read the sources before any window shows up, so a typo in a path
	// does not flash an empty window
	sources, err := shaderer.Load()
	if err != nil {
		return err
	}

	windowSink := windowsink.New(cfg.Window)
	err = windowSink.Start()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}
	defer windowSink.Close()

	err = rendering.Init()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStartup, err)
	}

	program, err := shaders.BuildProgram(sources.Vertex, sources.Fragment, shaderer.Strict)
	if err != nil {
		if shaderer.Strict {
			return fmt.Errorf("could not init GL program: %w", err)
		}
		slog.Warn("continuing with a shader program that did not build cleanly", slog.String("module", "demo"))
	}

	mesh := rendering.RectangleMesh()
	if opts.Triangle {
		mesh = rendering.TriangleMesh()
	}
	geometry, err := rendering.UploadMesh(mesh)
	if err != nil {
		program.Delete()
		return err
	}

	renderer := rendering.NewRenderer(program, geometry, utils.ColourVec(cfg.ClearColour))
	defer renderer.Delete()
	renderer.Start()

	ctl := control.New()
	tracker := stats.New()

	theApi := api.ServeInBackground(cfg.Api, ctl, tracker)
	if theApi != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := theApi.Shutdown(shutdownCtx)
			if err != nil {
				slog.Warn(fmt.Sprintf("could not stop web server: %s", err), slog.String("module", "demo"))
			}
		}()
	}
	// runs before the server shutdown above, so waiting frame requests return
	defer ctl.Shutdown()

	watchCtx, stopWatching := context.WithCancel(ctx)
	defer stopWatching()
	if cfg.Shaders.Watch && !shaderer.Builtin() {
		watcher, err := shaderwatch.New(ctl.RequestReload, shaderer.VertexPath, shaderer.FragmentPath)
		if err != nil {
			slog.Error("shader hot reload disabled", slog.String("module", "demo"), slog.Any("err", err))
		} else {
			go watcher.Run(watchCtx)
		}
	}

	loop := renderloop.New(
		windowSink,
		&frame{renderer: renderer, viewport: windowSink.Viewport, control: ctl},
		kbdctl.New(windowSink.Window),
		ctl,
	)
	loop.OnFrame(func(dt time.Duration) {
		tracker.Update(dt)
		tracker.SetViewport(windowSink.Viewport.Size())
		ctl.ServiceReloads(func() error {
			return reloadProgram(shaderer, renderer, tracker)
		})
	})

	slog.Info("rendering", slog.String("module", "demo"))
	loop.Run(ctx)
	slog.Info(fmt.Sprintf("window closed after %d frames", loop.Frames()), slog.String("module", "demo"))

	return nil
}

// reloadProgram swaps in a freshly built program. A build that fails is
// thrown away and the old program stays in use, regardless of strictness.
func reloadProgram(shaderer *shaders.Shaderer, renderer *rendering.Renderer, tracker *stats.Tracker) error {
	sources, err := shaderer.Load()
	if err != nil {
		metrics.ShaderReloads.WithLabelValues("failed").Inc()
		return err
	}

	program, err := shaders.BuildProgram(sources.Vertex, sources.Fragment, true)
	if err != nil {
		metrics.ShaderReloads.WithLabelValues("failed").Inc()
		slog.Warn("keeping the previous shader program", slog.String("module", "demo"))
		return err
	}

	renderer.SwapProgram(program)
	tracker.CountReload()
	metrics.ShaderReloads.WithLabelValues("ok").Inc()
	slog.Info("shaders reloaded", slog.String("module", "demo"))
	return nil
}
