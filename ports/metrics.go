package ports

import (
	"time"
)

// MetricsRecorder receives pipeline events. Implementations must be safe for
// concurrent use.
type MetricsRecorder interface {
	TableLoaded(rows, columns int)
	ChartRendered(chartType string, elapsed time.Duration)
	ChartRejected(chartType, code string)
	Exported(format string, elapsed time.Duration, err error)
	StaleDiscarded(stage string)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) TableLoaded(int, int)                  {}
func (NopMetrics) ChartRendered(string, time.Duration)   {}
func (NopMetrics) ChartRejected(string, string)          {}
func (NopMetrics) Exported(string, time.Duration, error) {}
func (NopMetrics) StaleDiscarded(string)                 {}
