package stats

import (
	"sync"
	"time"
)

type Stats struct {
	Frames    uint64  `json:"frames"`
	Uptime    float64 `json:"uptime"`
	FPS       uint64  `json:"fps"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Reloads   uint64  `json:"reloads"`
	WsClients int     `json:"ws_clients"`
}

// Tracker accumulates Stats on the render thread and hands out copies to
// whoever asks.
type Tracker struct {
	mu sync.Mutex
	s  Stats

	frameCounter uint64
	frameTimer   time.Duration
	start        time.Time
	now          func() time.Time
}

func New() *Tracker {
	t := &Tracker{now: time.Now}
	t.start = t.now()
	return t
}

// Update is called once per presented frame with the time since the last one.
func (t *Tracker) Update(dt time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.Frames++
	t.frameCounter++
	t.frameTimer += dt
	if t.frameTimer >= time.Second {
		t.s.FPS = t.frameCounter
		t.frameCounter = 0
		t.frameTimer = 0
	}

	t.s.Uptime = t.now().Sub(t.start).Seconds()
}

func (t *Tracker) SetViewport(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.Width = width
	t.s.Height = height
}

func (t *Tracker) CountReload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.Reloads++
}

func (t *Tracker) SetWsClients(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.WsClients = n
}

func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}
