package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "gograph"

// Recorder publishes pipeline events as Prometheus metrics.
type Recorder struct {
	registry *prometheus.Registry

	tablesLoaded  prometheus.Counter
	tableRows     prometheus.Histogram
	renders       *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec
	rejections    *prometheus.CounterVec
	exports       *prometheus.CounterVec
	exportSeconds *prometheus.HistogramVec
	stale         *prometheus.CounterVec
}

// NewRecorder registers every metric on a fresh registry, together with the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tablesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_loaded_total",
			Help:      "Tables applied to a session.",
		}),
		tableRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows per loaded table.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Charts validated, computed and painted.",
		}, []string{"chart_type"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_render_seconds",
			Help:      "Time from validation to paint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"chart_type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rejected_total",
			Help:      "Chart selections refused, by error code.",
		}, []string{"chart_type", "code"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Export attempts by format and outcome.",
		}, []string{"format", "outcome"}),
		exportSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_seconds",
			Help:      "Capture and encode time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Asynchronous results discarded because a newer one superseded them.",
		}, []string{"stage"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.tablesLoaded, r.tableRows,
		r.renders, r.renderSeconds, r.rejections,
		r.exports, r.exportSeconds, r.stale,
	)
	return r
}

// Registry exposes the registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) TableLoaded(rows, columns int) {
	r.tablesLoaded.Inc()
	r.tableRows.Observe(float64(rows))
}

func (r *Recorder) ChartRendered(chartType string, elapsed time.Duration) {
	r.renders.WithLabelValues(chartType).Inc()
	r.renderSeconds.WithLabelValues(chartType).Observe(elapsed.Seconds())
}

func (r *Recorder) ChartRejected(chartType, code string) {
	r.rejections.WithLabelValues(chartType, code).Inc()
}

func (r *Recorder) Exported(format string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.exports.WithLabelValues(format, outcome).Inc()
	r.exportSeconds.WithLabelValues(format).Observe(elapsed.Seconds())
}

func (r *Recorder) StaleDiscarded(stage string) {
	r.stale.WithLabelValues(stage).Inc()
}
