package metric

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/sensorbuf/errors"
	"github.com/c360/sensorbuf/health"
)

func gatherByName(t *testing.T, registry *MetricsRegistry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())
}

func TestMetricsRegistry_RegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter",
		Help: "A test counter",
	})

	require.NoError(t, registry.RegisterCounter("test-buffer", "test_counter", counter))
	counter.Add(3)

	families := gatherByName(t, registry)
	require.Contains(t, families, "test_counter")
	assert.Equal(t, 3.0, families["test_counter"].GetMetric()[0].GetCounter().GetValue())
	assert.True(t, registry.IsRegistered("test-buffer", "test_counter"))
}

func TestMetricsRegistry_RegisterGauge(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "A test gauge",
	})

	require.NoError(t, registry.RegisterGauge("test-buffer", "test_gauge", gauge))
	gauge.Set(42.0)

	families := gatherByName(t, registry)
	require.Contains(t, families, "test_gauge")
	assert.Equal(t, 42.0, families["test_gauge"].GetMetric()[0].GetGauge().GetValue())
}

func TestMetricsRegistry_RegisterVectors(t *testing.T) {
	registry := NewMetricsRegistry()

	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_counter_vec",
		Help: "A test counter vector",
	}, []string{"sensor"})
	gaugeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "test_gauge_vec",
		Help: "A test gauge vector",
	}, []string{"sensor"})

	require.NoError(t, registry.RegisterCounterVec("test-buffer", "counter_vec", counterVec))
	require.NoError(t, registry.RegisterGaugeVec("test-buffer", "gauge_vec", gaugeVec))

	counterVec.WithLabelValues("0").Inc()
	gaugeVec.WithLabelValues("1").Set(7)

	families := gatherByName(t, registry)
	assert.Contains(t, families, "test_counter_vec")
	assert.Contains(t, families, "test_gauge_vec")
}

func TestMetricsRegistry_PreventDuplicateRegistration(t *testing.T) {
	registry := NewMetricsRegistry()

	counter1 := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duplicate_counter",
		Help: "First counter",
	})
	counter2 := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duplicate_counter",
		Help: "First counter",
	})

	require.NoError(t, registry.RegisterCounter("buffer1", "duplicate_counter", counter1))

	// Same key is caught by our own tracking
	err := registry.RegisterCounter("buffer1", "duplicate_counter", counter2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate metric registration")
	assert.True(t, errors.IsInvalid(err))

	// Different key, same Prometheus descriptor is caught by Prometheus
	err = registry.RegisterCounter("buffer2", "duplicate_counter", counter2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prometheus conflict")
	assert.True(t, errors.IsInvalid(err))
}

func TestMetricsRegistry_UnregisterMetric(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unregister_counter",
		Help: "A counter to unregister",
	})
	counter.Inc()

	require.NoError(t, registry.RegisterCounter("test-buffer", "unregister_counter", counter))
	assert.Contains(t, gatherByName(t, registry), "unregister_counter")

	assert.True(t, registry.Unregister("test-buffer", "unregister_counter"))
	assert.NotContains(t, gatherByName(t, registry), "unregister_counter")
	assert.False(t, registry.IsRegistered("test-buffer", "unregister_counter"))

	// Second unregister is a no-op
	assert.False(t, registry.Unregister("test-buffer", "unregister_counter"))

	// The name is free again
	require.NoError(t, registry.RegisterCounter("test-buffer", "unregister_counter", counter))
}

func TestMetricsRegistry_ThreadSafety(t *testing.T) {
	registry := NewMetricsRegistry()

	var wg sync.WaitGroup
	numGoroutines := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Name: fmt.Sprintf("concurrent_counter_%d", id),
				Help: "A concurrent counter",
			})

			err := registry.RegisterCounter("concurrent-buffer",
				fmt.Sprintf("concurrent_counter_%d", id), counter)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	counterCount := 0
	for name := range gatherByName(t, registry) {
		if strings.HasPrefix(name, "concurrent_counter_") {
			counterCount++
		}
	}

	assert.Equal(t, numGoroutines, counterCount,
		"All concurrent counters should be registered")
}

func TestCoreMetrics_RecordMethods(t *testing.T) {
	registry := NewMetricsRegistry()
	core := registry.CoreMetrics()

	core.RecordRunStatus("simulate", StatusRunning)
	core.RecordReading("sensor-buffer", "stored")
	core.RecordReading("sensor-buffer", "stored")
	core.RecordReading("sensor-buffer", "rejected")
	core.RecordDrained("sensor-buffer", 5)
	core.RecordDrained("sensor-buffer", 0)
	core.RecordTickDuration("simulate", 250*time.Microsecond)
	core.RecordError("sensor-buffer", "transient")

	families := gatherByName(t, registry)

	expected := []string{
		"sensorbuf_driver_status",
		"sensorbuf_readings_recorded_total",
		"sensorbuf_readings_drained_total",
		"sensorbuf_driver_tick_duration_seconds",
		"sensorbuf_errors_total",
	}
	for _, name := range expected {
		assert.Contains(t, families, name, "core metric %s should be exported", name)
	}

	drained := families["sensorbuf_readings_drained_total"].GetMetric()
	require.Len(t, drained, 1)
	assert.Equal(t, 5.0, drained[0].GetCounter().GetValue())

	var stored float64
	for _, m := range families["sensorbuf_readings_recorded_total"].GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "outcome" && lp.GetValue() == "stored" {
				stored = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, stored)
}

func TestServer_Handler(t *testing.T) {
	registry := NewMetricsRegistry()
	registry.CoreMetrics().RecordRunStatus("demo", StatusRunning)

	server := NewServer(0, "", registry)
	assert.Equal(t, "http://localhost:9090/metrics", server.Address())

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sensorbuf_driver_status")
}

type stubBuffer struct {
	overflowed, closed bool
}

func (b stubBuffer) Len() int         { return 1 }
func (b stubBuffer) Capacity() int    { return 4 }
func (b stubBuffer) Overflowed() bool { return b.overflowed }
func (b stubBuffer) Closed() bool     { return b.closed }

func TestServer_HealthMonitor(t *testing.T) {
	monitor := health.NewMonitor()
	server := NewServer(0, "", NewMetricsRegistry())
	server.SetHealthMonitor(monitor)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	get := func() (int, health.Status) {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var status health.Status
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		return resp.StatusCode, status
	}

	monitor.Observe("sensor-buffer", stubBuffer{})
	code, status := get()
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.IsHealthy())
	assert.Equal(t, Namespace, status.Component)

	monitor.Observe("sensor-buffer", stubBuffer{overflowed: true})
	code, status = get()
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.IsDegraded())
	require.Len(t, status.SubStatuses, 1)
	assert.Equal(t, 1, status.SubStatuses[0].Metrics.Count)

	monitor.Observe("sensor-buffer", stubBuffer{closed: true})
	code, status = get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, status.IsUnhealthy())
}

func TestServer_StopWithoutStart(t *testing.T) {
	server := NewServer(0, "/metrics", NewMetricsRegistry())
	assert.NoError(t, server.Stop())
}

func TestServer_StartWithoutRegistry(t *testing.T) {
	server := NewServer(0, "/metrics", nil)
	err := server.Start()
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

// busyPort holds a local port open for the duration of the test.
func busyPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln.Addr().(*net.TCPAddr).Port
}

func TestServer_ListenPortInUse(t *testing.T) {
	server := NewServer(busyPort(t), "/metrics", NewMetricsRegistry())

	err := server.Listen()
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), "failed to bind port")

	err = server.Start()
	require.Error(t, err, "Start reports the same bind failure")
	assert.NoError(t, server.Stop())
}

func TestServer_ListenThenStart(t *testing.T) {
	// Find a free port, then release it for the server
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	registry := NewMetricsRegistry()
	registry.CoreMetrics().RecordRunStatus("simulate", StatusRunning)
	server := NewServer(port, "/metrics", registry)
	require.NoError(t, server.Listen())
	require.NoError(t, server.Listen(), "second Listen is a no-op")

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	// The port is bound before Start runs, so the request cannot race the bind
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/metrics", port))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "sensorbuf_driver_status")

	require.NoError(t, server.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
