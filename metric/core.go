package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by this module.
const Namespace = "sensorbuf"

// Run status values reported by RecordRunStatus.
const (
	StatusStopped = iota
	StatusRunning
	StatusFailed
)

// Metrics contains driver-level metrics (buffer internals register their own)
type Metrics struct {
	RunStatus        *prometheus.GaugeVec
	ReadingsRecorded *prometheus.CounterVec
	ReadingsDrained  *prometheus.CounterVec
	TickDuration     *prometheus.HistogramVec
	ErrorsTotal      *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all driver metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RunStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "driver",
				Name:      "status",
				Help:      "Driver run status (0=stopped, 1=running, 2=failed)",
			},
			[]string{"mode"},
		),

		ReadingsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "readings",
				Name:      "recorded_total",
				Help:      "Total number of readings handed to a recorder, by outcome",
			},
			[]string{"component", "outcome"},
		),

		ReadingsDrained: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "readings",
				Name:      "drained_total",
				Help:      "Total number of readings drained from a buffer",
			},
			[]string{"component"},
		),

		TickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "driver",
				Name:      "tick_duration_seconds",
				Help:      "Duration of one produce/drain tick in seconds",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"mode"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by error class",
			},
			[]string{"component", "class"},
		),
	}
}

// RecordRunStatus updates the driver status metric
func (c *Metrics) RecordRunStatus(mode string, status int) {
	c.RunStatus.WithLabelValues(mode).Set(float64(status))
}

// RecordReading increments the recorded-readings counter for an outcome
// ("stored", "rejected", "replaced", "invalid").
func (c *Metrics) RecordReading(component, outcome string) {
	c.ReadingsRecorded.WithLabelValues(component, outcome).Inc()
}

// RecordDrained adds n to the drained-readings counter
func (c *Metrics) RecordDrained(component string, n int) {
	if n <= 0 {
		return
	}
	c.ReadingsDrained.WithLabelValues(component).Add(float64(n))
}

// RecordTickDuration records how long one tick took
func (c *Metrics) RecordTickDuration(mode string, duration time.Duration) {
	c.TickDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordError increments the error counter
func (c *Metrics) RecordError(component, class string) {
	c.ErrorsTotal.WithLabelValues(component, class).Inc()
}
