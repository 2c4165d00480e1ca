// Package sensorbuf is a fixed-capacity FIFO buffer for sensor readings, plus
// the driver and plumbing needed to exercise it.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│         cmd/sensorbuf               │  demo / simulate modes
//	│  (flags, config, slog, signals)     │  optional metrics server
//	└─────────────────────────────────────┘
//	           ↓ records through
//	┌─────────────────────────────────────┐
//	│         pkg/sensor                  │  Reading, validation,
//	│  (Recorder, overflow policy)        │  reject / drop_oldest
//	└─────────────────────────────────────┘
//	           ↓ stores in
//	┌─────────────────────────────────────┐
//	│         pkg/buffer                  │  RingBuffer[T], statistics,
//	│  (bounded cursors, sticky flag)     │  Prometheus collectors
//	└─────────────────────────────────────┘
//
// # Packages
//
//   - pkg/buffer: generic ring buffer. Push rejects new items when full and sets
//     a sticky overflowed flag that only Clear resets.
//   - pkg/sensor: the SensorReading value type and a Recorder that applies a
//     caller-side overflow policy on top of the buffer.
//   - pkg/timestamp: 32-bit second and millisecond timestamps for readings.
//   - errors: sentinel errors and the transient/invalid/fatal classification.
//   - config: JSON or YAML configuration with schema validation and env overrides.
//   - metric: Prometheus registry, driver metrics and the HTTP endpoint.
//   - health: buffer health (healthy, degraded on overflow, unhealthy when closed).
//   - testutil: reading fixtures shared by tests.
//
// # Concurrency
//
// A RingBuffer has a single owner and is not safe for concurrent use. Only its
// Statistics and Prometheus collectors may be read from other goroutines.
//
// # Quick Start
//
//	buf, err := sensor.NewBuffer(5)
//	if err != nil {
//		return err
//	}
//	defer buf.Close()
//
//	if err := buf.Push(sensor.Reading{Timestamp: 1000, SensorID: 0, Value: 20}); err != nil {
//		// errors.ErrBufferFull: the reading was rejected and buf.Overflowed() is now true
//	}
//
//	r, err := buf.Pop() // errors.ErrEmpty when nothing is stored
package sensorbuf
