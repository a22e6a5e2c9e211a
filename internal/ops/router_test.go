package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gograph/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	h := NewRouter(Config{Database: pinger{}, SessionCount: func() int { return 3 }})
	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Database)
	assert.Equal(t, 3, body.Sessions)
}

func TestHealthzDegraded(t *testing.T) {
	rec := get(t, NewRouter(Config{Database: pinger{err: errors.New("connection refused")}}), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestMetricsAndProfiler(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.StaleDiscarded("export")

	h := NewRouter(Config{Registry: recorder.Registry(), Profiling: true})
	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gograph_stale_results_total{stage="export"} 1`)

	assert.Equal(t, http.StatusOK, get(t, h, "/debug/pprof/").Code)
}

func TestProfilerDisabled(t *testing.T) {
	h := NewRouter(Config{})
	assert.Equal(t, http.StatusNotFound, get(t, h, "/debug/pprof/").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
}
