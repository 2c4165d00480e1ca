package buffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/sensorbuf/metric"
)

// bufferMetrics holds Prometheus metrics for one buffer instance.
type bufferMetrics struct {
	writes     prometheus.Counter
	reads      prometheus.Counter
	peeks      prometheus.Counter
	overflows  prometheus.Counter
	underflows prometheus.Counter

	size        prometheus.Gauge
	utilization prometheus.Gauge
	overflowed  prometheus.Gauge

	// registration keys, in registration order
	keys []string
}

func bufferCounter(component, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   metric.Namespace,
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": component},
		Help:        help,
	})
}

func bufferGauge(component, name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metric.Namespace,
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": component},
		Help:        help,
	})
}

// newBufferMetrics creates and registers buffer metrics under component.
// On failure every metric registered so far is unregistered again.
func newBufferMetrics(registry *metric.MetricsRegistry, component string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		writes:     bufferCounter(component, "writes_total", "Total number of accepted pushes"),
		reads:      bufferCounter(component, "reads_total", "Total number of items popped"),
		peeks:      bufferCounter(component, "peeks_total", "Total number of successful peeks"),
		overflows:  bufferCounter(component, "overflows_total", "Total number of pushes rejected by a full buffer"),
		underflows: bufferCounter(component, "underflows_total", "Total number of pops or peeks on an empty buffer"),
		size:       bufferGauge(component, "size", "Current number of items in buffer"),
		utilization: bufferGauge(component, "utilization",
			"Buffer utilization as a fraction of capacity (0.0 to 1.0)"),
		overflowed: bufferGauge(component, "overflowed", "1 if a push was rejected since the last clear"),
	}

	counters := []struct {
		name string
		c    prometheus.Counter
	}{
		{"buffer_writes", m.writes},
		{"buffer_reads", m.reads},
		{"buffer_peeks", m.peeks},
		{"buffer_overflows", m.overflows},
		{"buffer_underflows", m.underflows},
	}
	for _, c := range counters {
		if err := registry.RegisterCounter(component, c.name, c.c); err != nil {
			m.unregister(registry, component)
			return nil, err
		}
		m.keys = append(m.keys, c.name)
	}

	gauges := []struct {
		name string
		g    prometheus.Gauge
	}{
		{"buffer_size", m.size},
		{"buffer_utilization", m.utilization},
		{"buffer_overflowed", m.overflowed},
	}
	for _, g := range gauges {
		if err := registry.RegisterGauge(component, g.name, g.g); err != nil {
			m.unregister(registry, component)
			return nil, err
		}
		m.keys = append(m.keys, g.name)
	}

	return m, nil
}

// unregister removes every registered metric so the component name can be reused.
func (m *bufferMetrics) unregister(registry *metric.MetricsRegistry, component string) {
	for _, key := range m.keys {
		registry.Unregister(component, key)
	}
	m.keys = nil
}

func (m *bufferMetrics) recordWrite(size, capacity int) {
	m.writes.Inc()
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordRead(size, capacity int) {
	m.reads.Inc()
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordReads(n, size, capacity int) {
	m.reads.Add(float64(n))
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordPeek() {
	m.peeks.Inc()
}

func (m *bufferMetrics) recordOverflow() {
	m.overflows.Inc()
	m.overflowed.Set(1)
}

func (m *bufferMetrics) recordUnderflow() {
	m.underflows.Inc()
}

func (m *bufferMetrics) recordClear(capacity int) {
	m.overflowed.Set(0)
	m.updateSize(0, capacity)
}

// updateSize sets the current buffer size and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.utilization.Set(float64(size) / float64(capacity))
}
