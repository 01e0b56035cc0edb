// Package renderloop drives the per-frame input, draw, present cycle.
package renderloop

import (
	"context"
	"time"

	"github.com/fosdem/glexperiment/lib/metrics"
	"github.com/fosdem/glexperiment/lib/utils"
)

type State int

const (
	Running State = iota
	Closing
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// Surface is a window that can be presented to.
type Surface interface {
	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()
	PollEvents()
}

// Input tells the loop whether the user asked to quit.
type Input interface {
	CloseRequested() bool
}

// Frame draws one frame into the back buffer.
type Frame interface {
	DrawFrame()
}

// Hook runs after every presented frame with the time since the previous one.
type Hook func(dt time.Duration)

type Loop struct {
	surface Surface
	inputs  []Input
	frame   Frame
	hooks   []Hook

	state      State
	deltaTimer utils.DeltaTimer
	frames     uint64
}

func New(surface Surface, frame Frame, inputs ...Input) *Loop {
	return &Loop{
		surface: surface,
		inputs:  inputs,
		frame:   frame,
	}
}

func (l *Loop) OnFrame(h Hook) {
	l.hooks = append(l.hooks, h)
}

// SetClock replaces time.Now for the frame delta passed to hooks.
func (l *Loop) SetClock(now func() time.Time) {
	l.deltaTimer.Clock = now
}

func (l *Loop) State() State {
	return l.state
}

func (l *Loop) Frames() uint64 {
	return l.frames
}

// Step runs one iteration and reports whether the loop is still running.
// A close flag raised during a step is acted on at the start of the next.
func (l *Loop) Step() bool {
	if l.state == Closing {
		return false
	}
	if l.surface.ShouldClose() {
		l.state = Closing
		return false
	}

	for _, in := range l.inputs {
		if in.CloseRequested() {
			l.surface.SetShouldClose(true)
		}
	}

	l.frame.DrawFrame()
	l.surface.SwapBuffers()
	l.frames++

	dt := l.deltaTimer.Next()
	metrics.FramesRendered.Inc()
	if dt > 0 {
		metrics.FrameSeconds.Observe(dt.Seconds())
	}
	for _, h := range l.hooks {
		h(dt)
	}

	l.surface.PollEvents()
	return true
}

// Run steps until the surface is closed. Cancelling ctx raises the close
// flag, so the loop still finishes its current frame.
func (l *Loop) Run(ctx context.Context) {
	for l.Step() {
		if ctx.Err() != nil {
			l.surface.SetShouldClose(true)
		}
	}
}
