package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestShaderFailureLabelsExist(t *testing.T) {
	assert.Equal(t, 3, testutil.CollectAndCount(ShaderFailures))
	assert.Equal(t, 2, testutil.CollectAndCount(ShaderReloads))
}

func TestShaderFailuresCount(t *testing.T) {
	before := testutil.ToFloat64(ShaderFailures.WithLabelValues("fragment"))
	ShaderFailures.WithLabelValues("fragment").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ShaderFailures.WithLabelValues("fragment")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	FramesRendered.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "glexperiment_frames_rendered_total"))
	assert.True(t, strings.Contains(body, `glexperiment_shader_failures_total{stage="vertex"}`))
}
