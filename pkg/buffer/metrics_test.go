package buffer

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/c360/sensorbuf/errors"
	"github.com/c360/sensorbuf/metric"
)

// metricValue returns the value of the named family for component, or -1 if absent.
func metricValue(t *testing.T, registry *metric.MetricsRegistry, name, component string) float64 {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabel(m, "component", component) {
				if mf.GetType() == dto.MetricType_COUNTER {
					return m.GetCounter().GetValue()
				}
				return m.GetGauge().GetValue()
			}
		}
	}
	return -1
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func TestRingBuffer_Metrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	buf := newTestBuffer[int](t, 2, WithMetrics[int](registry, "test-buffer"))

	require.NoError(t, buf.Push(1))
	require.NoError(t, buf.Push(2))
	require.ErrorIs(t, buf.Push(3), cerrors.ErrBufferFull)
	_, _ = buf.Peek()
	_, _ = buf.Pop()

	assert.Equal(t, 2.0, metricValue(t, registry, "sensorbuf_buffer_writes_total", "test-buffer"))
	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_reads_total", "test-buffer"))
	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_peeks_total", "test-buffer"))
	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_overflows_total", "test-buffer"))
	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_size", "test-buffer"))
	assert.Equal(t, 0.5, metricValue(t, registry, "sensorbuf_buffer_utilization", "test-buffer"))
	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_overflowed", "test-buffer"))

	_ = buf.PopBatch(5)
	_, _ = buf.Pop()
	assert.Equal(t, 2.0, metricValue(t, registry, "sensorbuf_buffer_reads_total", "test-buffer"))
	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_underflows_total", "test-buffer"))
	assert.Equal(t, 0.0, metricValue(t, registry, "sensorbuf_buffer_size", "test-buffer"))

	buf.Clear()
	assert.Equal(t, 0.0, metricValue(t, registry, "sensorbuf_buffer_overflowed", "test-buffer"))
}

func TestRingBuffer_MetricsUnregisteredOnClose(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	buf, err := NewRingBuffer[int](2, WithMetrics[int](registry, "reused"))
	require.NoError(t, err)
	require.NoError(t, buf.Push(1))
	assert.True(t, registry.IsRegistered("reused", "buffer_writes"))

	require.NoError(t, buf.Close())
	assert.False(t, registry.IsRegistered("reused", "buffer_writes"))
	assert.Equal(t, -1.0, metricValue(t, registry, "sensorbuf_buffer_writes_total", "reused"))

	// The component name can be reused once the first buffer is closed
	buf2, err := NewRingBuffer[int](2, WithMetrics[int](registry, "reused"))
	require.NoError(t, err)
	defer buf2.Close()
	assert.Equal(t, 0.0, metricValue(t, registry, "sensorbuf_buffer_writes_total", "reused"))
}

func TestRingBuffer_MetricsRegistrationConflict(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	buf := newTestBuffer[int](t, 2, WithMetrics[int](registry, "dup"))
	require.NotNil(t, buf)

	_, err := NewRingBuffer[int](2, WithMetrics[int](registry, "dup"))
	require.Error(t, err)
	assert.True(t, cerrors.IsTransient(err))
	assert.Contains(t, err.Error(), "metrics registration")

	// The failed constructor leaves the first buffer's metrics in place
	assert.True(t, registry.IsRegistered("dup", "buffer_writes"))
}

func TestRingBuffer_MultipleComponents(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	a := newTestBuffer[int](t, 2, WithMetrics[int](registry, "a"))
	b := newTestBuffer[int](t, 2, WithMetrics[int](registry, "b"))

	require.NoError(t, a.Push(1))
	require.NoError(t, b.Push(1))
	require.NoError(t, b.Push(2))

	assert.Equal(t, 1.0, metricValue(t, registry, "sensorbuf_buffer_writes_total", "a"))
	assert.Equal(t, 2.0, metricValue(t, registry, "sensorbuf_buffer_writes_total", "b"))
}

func TestWithMetrics_Ignored(t *testing.T) {
	buf := newTestBuffer[int](t, 2, WithMetrics[int](nil, "x"))
	assert.Nil(t, buf.metrics)

	buf = newTestBuffer[int](t, 2, WithMetrics[int](metric.NewMetricsRegistry(), ""))
	assert.Nil(t, buf.metrics)
}
