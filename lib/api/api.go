package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	_ "github.com/fosdem/glexperiment/lib/api/docs"
	"github.com/fosdem/glexperiment/lib/config"
	"github.com/fosdem/glexperiment/lib/control"
	"github.com/fosdem/glexperiment/lib/metrics"
	"github.com/fosdem/glexperiment/lib/stats"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title			glexperiment API
// @version		1.0
// @description	Remote control and status for the rectangle demo.
// @BasePath		/
type Api struct {
	srv     http.Server
	mux     *http.ServeMux
	cfg     *config.ApiCfg
	control *control.Control

	Stats *stats.Tracker

	wsMu      sync.Mutex
	wsClients map[*websocket.Conn]*wsClient
}

func New(cfg *config.ApiCfg, c *control.Control, st *stats.Tracker) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.control = c
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]*wsClient)
	a.Stats = st

	c.AddEventListener(control.EventReload, func(_ *control.Control, data interface{}) {
		a.broadcast(data)
	})
	c.AddEventListener(control.EventClose, func(_ *control.Control, data interface{}) {
		a.broadcast(data)
	})

	a.routes()
	return a
}

func (a *Api) routes() {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("POST /api/kill", a.suicide)
	a.mux.HandleFunc("POST /api/reload", a.reload)
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/frame", a.getFrame)
	a.mux.HandleFunc("GET /api/ws", a.handleWebsocket)
	a.mux.Handle("GET /metrics", metrics.Handler())
	a.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

func (a *Api) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

// @Summary	Close the window and exit
// @Router		/api/kill [post]
// @Tags		base
// @Success	200
func (a *Api) suicide(w http.ResponseWriter, _ *http.Request) {
	a.control.RequestClose("api request")
	a.ok(w)
}

// @Summary	Reload both shader files from disk
// @Description	The rebuild happens on the next frame. Its outcome is pushed to websocket clients.
// @Router		/api/reload [post]
// @Tags		shaders
// @Success	202
func (a *Api) reload(w http.ResponseWriter, _ *http.Request) {
	a.control.RequestReload()
	w.WriteHeader(http.StatusAccepted)
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.log("could not write response: %s", err)
	}
}

// @Summary	Get render statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Stats
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

// @Summary	Capture the next rendered frame as PNG
// @Router		/api/frame [get]
// @Tags		base
// @Produce	png
// @Success	200
// @Failure	503	{string}	string	"Renderer did not deliver a frame"
func (a *Api) getFrame(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
	defer cancel()

	img, err := a.control.RequestCapture(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("could not capture frame: %s", err), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	err = png.Encode(w, img)
	if err != nil {
		a.log("could not encode frame: %s", err)
	}
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

func (a *Api) ok(w http.ResponseWriter) {
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.log("could not write response: %s", err)
	}
}

func (a *Api) log(msg string, args ...interface{}) {
	slog.Warn(fmt.Sprintf(msg, args...), slog.String("module", "api"))
}

// ServeInBackground starts the API if it is configured and returns nil
// otherwise.
func ServeInBackground(cfg *config.ApiCfg, c *control.Control, st *stats.Tracker) *Api {
	if cfg == nil {
		return nil
	}
	theApi := New(cfg, c, st)

	slog.Info(fmt.Sprintf("starting web server on %s", cfg.Bind), slog.String("module", "api"))
	go func() {
		err := theApi.Serve()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("web server failed", slog.String("module", "api"), slog.Any("err", err))
		}
	}()
	return theApi
}
