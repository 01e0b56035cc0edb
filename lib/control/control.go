// Package control carries requests from background goroutines (API,
// file watcher) to the render thread, which owns every GL object.
package control

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	EventReload = "reload"
	EventClose  = "close"
)

type EventListener func(c *Control, data interface{})

type EventDataReload struct {
	Event string `json:"event"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type EventDataClose struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

// ErrShutdown is returned to capture requests the render thread will
// never get to.
var ErrShutdown = errors.New("renderer is shutting down")

type capture struct {
	img *image.NRGBA
	err error
}

type Control struct {
	closeRequested atomic.Bool
	reloads        chan struct{}
	captures       chan chan capture
	done           chan struct{}
	shutdownOnce   sync.Once

	listenerMu sync.Mutex
	listener   map[string][]EventListener
}

func New() *Control {
	return &Control{
		reloads:  make(chan struct{}, 1),
		captures: make(chan chan capture, 4),
		done:     make(chan struct{}),
		listener: make(map[string][]EventListener),
	}
}

func (c *Control) AddEventListener(event string, callback EventListener) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.listener[event] = append(c.listener[event], callback)
}

func (c *Control) invoke(event string, data interface{}) {
	c.listenerMu.Lock()
	listeners := append([]EventListener(nil), c.listener[event]...)
	c.listenerMu.Unlock()

	for _, listener := range listeners {
		go listener(c, data)
	}
}

// RequestClose asks the render loop to stop after the current frame.
func (c *Control) RequestClose(reason string) {
	if c.closeRequested.Swap(true) {
		return
	}
	slog.Info(fmt.Sprintf("close requested: %s", reason), slog.String("module", "control"))
	c.invoke(EventClose, EventDataClose{Event: EventClose, Reason: reason})
}

// CloseRequested makes Control usable as a render loop input.
func (c *Control) CloseRequested() bool {
	return c.closeRequested.Load()
}

// RequestReload queues a shader rebuild. Requests made while one is
// already pending are merged.
func (c *Control) RequestReload() {
	select {
	case c.reloads <- struct{}{}:
	default:
	}
}

// ServiceReloads runs rebuild if a reload is pending. Render thread only.
func (c *Control) ServiceReloads(rebuild func() error) {
	select {
	case <-c.reloads:
	default:
		return
	}

	err := rebuild()
	event := EventDataReload{Event: EventReload, OK: err == nil}
	if err != nil {
		event.Error = err.Error()
	}
	c.invoke(EventReload, event)
}

// RequestCapture waits for the render thread to hand over the next frame.
func (c *Control) RequestCapture(ctx context.Context) (*image.NRGBA, error) {
	select {
	case <-c.done:
		return nil, ErrShutdown
	default:
	}

	reply := make(chan capture, 1)
	select {
	case c.captures <- reply:
	case <-c.done:
		return nil, ErrShutdown
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.img, res.err
	case <-c.done:
		return nil, ErrShutdown
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ServiceCaptures answers pending capture requests with read(), which is
// only called when somebody is waiting. Render thread only.
func (c *Control) ServiceCaptures(read func() (*image.NRGBA, error)) {
	var res *capture
	for {
		select {
		case reply := <-c.captures:
			if res == nil {
				img, err := read()
				res = &capture{img: img, err: err}
			}
			reply <- *res
		default:
			return
		}
	}
}

// Shutdown fails every capture still queued or requested later.
func (c *Control) Shutdown() {
	c.shutdownOnce.Do(func() {
		close(c.done)
	})
	for {
		select {
		case reply := <-c.captures:
			reply <- capture{err: ErrShutdown}
		default:
			return
		}
	}
}
