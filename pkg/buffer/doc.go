// Package buffer provides a generic fixed-capacity ring buffer with a reject-new overflow
// policy, built-in statistics tracking, and optional Prometheus metrics integration.
//
// # Overview
//
// RingBuffer[T] stores at most Capacity() items in a single slice allocated at
// construction. Push copies an item in at the write cursor, Pop copies the oldest item
// out at the read cursor, and both cursors wrap at capacity. The buffer never grows.
//
// # Quick Start
//
//	buf, err := buffer.NewRingBuffer[sensor.Reading](256)
//	if err != nil {
//		return err
//	}
//	defer buf.Close()
//
//	if err := buf.Push(reading); errors.Is(err, cerrors.ErrBufferFull) {
//		// reading was rejected; buf.Overflowed() is now true
//	}
//
//	for !buf.IsEmpty() {
//		r, _ := buf.Pop()
//		process(r)
//	}
//
// With metrics and a drop callback:
//
//	buf, err := buffer.NewRingBuffer[sensor.Reading](256,
//		buffer.WithMetrics[sensor.Reading](registry, "sensor-buffer"),
//		buffer.WithDropCallback[sensor.Reading](func(r sensor.Reading) {
//			lost = append(lost, r)
//		}),
//	)
//
// # Overflow
//
// A full buffer rejects the new item: Push returns errors.ErrBufferFull, stored items
// and cursors are untouched, and the sticky overflow flag is raised. The flag stays set
// through later pops and is lowered only by Clear. Callers that prefer to keep the
// newest data pop one item and push again (see sensor.Recorder).
//
// Pop and Peek on an empty buffer return errors.ErrEmpty and change nothing. Both
// hot-path errors are returned as bare sentinels so they can be compared with
// errors.Is without allocation.
//
// # Observability
//
// Statistics are always collected and available via Stats(). When WithMetrics is
// given, the same events are exported as sensorbuf_buffer_* Prometheus metrics labeled
// with the component name; Close unregisters them so the name can be reused.
// Debug() returns a DebugInfo snapshot of the cursors, which logs as a structured
// group through slog.
//
// # Thread Safety
//
// RingBuffer is NOT safe for concurrent use. It is meant for a single owner that both
// produces and consumes, or for a producer and consumer serialized by the caller.
// Only the Statistics counters may be read from another goroutine.
//
// # Performance Characteristics
//
//   - Push, Pop, Peek and all queries: O(1), no allocation
//   - PopBatch: O(n) in the batch size, one allocation for the result
//   - Memory: capacity * sizeof(T), checked against WithMemoryLimit (64 MiB default)
package buffer
