// Package health reports buffer health for the driver's /health endpoint.
//
// # Health States
//
//   - Healthy: the buffer is open and has not rejected a reading since its last clear
//   - Degraded: the overflow flag is set, so readings were lost
//   - Unhealthy: the buffer has been closed
//
// # Usage
//
//	monitor := health.NewMonitor()
//	monitor.Observe("sensor-buffer", buf)
//
//	status := monitor.AggregateHealth("sensorbuf")
//	if status.IsDegraded() {
//		// readings were dropped somewhere
//	}
//
// FromBuffer only reads Len, Capacity and Overflowed, so a status can be taken
// without disturbing the buffer. Monitor is safe for concurrent use; the buffer
// itself is not, so Observe must be called from the goroutine that owns it.
package health
