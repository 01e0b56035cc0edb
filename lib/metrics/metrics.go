package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glexperiment_frames_rendered_total",
		Help: "Total number of frames drawn and presented",
	})
	FrameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "glexperiment_frame_seconds",
		Help:    "Time between two presented frames",
		Buckets: []float64{0.002, 0.004, 0.008, 0.0167, 0.0334, 0.05, 0.1, 0.25},
	})
	ShaderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glexperiment_shader_failures_total",
		Help: "Total number of shader compile (vertex, fragment) or link (program) failures",
	}, []string{"stage"})
	ShaderReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glexperiment_shader_reloads_total",
		Help: "Total number of shader program rebuilds after startup",
	}, []string{"result"})
	WindowResizes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glexperiment_window_resizes_total",
		Help: "Total number of framebuffer resize events",
	})
)

func init() {
	for _, stage := range []string{"vertex", "fragment", "program"} {
		ShaderFailures.WithLabelValues(stage).Add(0)
	}
	ShaderReloads.WithLabelValues("ok").Add(0)
	ShaderReloads.WithLabelValues("failed").Add(0)
}

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
