// Package metric provides Prometheus-based metrics collection and an HTTP server
// for sensorbuf monitoring.
//
// The package offers a centralized registry managing both core driver metrics
// (run status, readings recorded and drained, tick duration, errors) and
// component-specific metrics such as the per-buffer counters registered by
// pkg/buffer. An HTTP server exposes everything in Prometheus format.
//
// # Architecture
//
//  1. Core Metrics: driver-level metrics registered automatically (Metrics type)
//  2. Component Registry: keyed registration for component metrics (MetricsRegistrar interface)
//  3. HTTP Server: metrics endpoint plus /health, which reports a health.Monitor aggregate when one is set (Server type)
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//	if err := server.Listen(); err != nil {
//	    return err // port in use
//	}
//
//	serveErr := make(chan error, 1)
//	go func() { serveErr <- server.Start() }()
//	defer server.Stop()
//
//	core := registry.CoreMetrics()
//	core.RecordRunStatus("simulate", metric.StatusRunning)
//	core.RecordReading("sensor-buffer", "stored")
//
// # Component Metrics
//
// Components register collectors under a "component.metric" key. Registering
// the same key twice, or a collector whose descriptor clashes with one already
// in Prometheus, returns an invalid-class error. Unregister frees the key so a
// component can be recreated under the same name:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{...})
//	if err := registry.RegisterCounter("sensor-buffer", "buffer_writes", counter); err != nil {
//	    return err
//	}
//	defer registry.Unregister("sensor-buffer", "buffer_writes")
//
// # Thread Safety
//
// MetricsRegistry is safe for concurrent use; Prometheus collectors are atomic.
package metric
