package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Config selects what the ops router exposes
type Config struct {
	Registry  *prometheus.Registry
	Database  Pinger
	Profiling bool
	// SessionCount reports the number of live sessions; optional.
	SessionCount func() int
}

// Health is the /healthz payload
type Health struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Sessions int       `json:"sessions"`
	Uptime   string    `json:"uptime"`
	Time     time.Time `json:"time"`
}

// NewRouter builds the operations router: health, metrics and, when
// enabled, pprof under /debug.
func NewRouter(cfg Config) http.Handler {
	started := time.Now()
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		h := Health{Status: "ok", Database: "unconfigured", Uptime: time.Since(started).Round(time.Second).String(), Time: time.Now().UTC()}
		if cfg.SessionCount != nil {
			h.Sessions = cfg.SessionCount()
		}
		if cfg.Database != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			h.Database = "ok"
			if err := cfg.Database.PingContext(ctx); err != nil {
				h.Status, h.Database = "degraded", err.Error()
				render.Status(req, http.StatusServiceUnavailable)
			}
		}
		render.JSON(w, req, h)
	})

	if cfg.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}
	if cfg.Profiling {
		r.Mount("/debug", middleware.Profiler())
	}
	return r
}
