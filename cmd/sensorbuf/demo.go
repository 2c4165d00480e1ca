package main

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/c360/sensorbuf/errors"
	"github.com/c360/sensorbuf/metric"
	"github.com/c360/sensorbuf/pkg/buffer"
	"github.com/c360/sensorbuf/pkg/sensor"
)

const (
	demoCapacity  = 5
	demoComponent = "demo-buffer"
)

// newDemoBuffer creates the small buffer the demonstration runs against.
func newDemoBuffer(logger *slog.Logger, registry *metric.MetricsRegistry) (*sensor.Buffer, error) {
	return sensor.NewBuffer(demoCapacity,
		buffer.WithMetrics[sensor.Reading](registry, demoComponent),
		buffer.WithLogger[sensor.Reading](logger.With("mode", modeDemo)),
	)
}

// runDemo walks an empty buffer of demoCapacity through fill, overflow, drain,
// underflow, wrap-around and clear, logging each step. Any result that differs
// from the expected buffer behavior is returned as an error. The caller owns buf.
func runDemo(logger *slog.Logger, buf *sensor.Buffer) error {
	logger = logger.With("mode", modeDemo)

	if buf.Capacity() != demoCapacity || !buf.IsEmpty() {
		return fmt.Errorf("demo needs an empty buffer of capacity %d, got %v", demoCapacity, buf.Debug())
	}

	logger.Info("Step 1: buffer created", "buffer", buf.Debug())

	// Step 2: fill to capacity
	for i := 0; i < demoCapacity; i++ {
		r := sensor.Reading{Timestamp: uint32(1000 + i), SensorID: uint8(i), Value: float32(20 + i)}
		if err := buf.Push(r); err != nil {
			return fmt.Errorf("fill push %d: %w", i, err)
		}
		logger.Info("Wrote reading", "reading", r, "count", buf.Len())
	}
	if !buf.IsFull() {
		return fmt.Errorf("buffer not full after %d writes", demoCapacity)
	}
	logger.Info("Step 2: buffer filled", "buffer", buf.Debug())

	// Step 3: overflow
	extra := sensor.Reading{Timestamp: 2000, SensorID: 99, Value: 99.9}
	if err := buf.Push(extra); !stderrors.Is(err, errors.ErrBufferFull) {
		return fmt.Errorf("overflow push: expected %v, got %v", errors.ErrBufferFull, err)
	}
	logger.Info("Step 3: overflow rejected", "reading", extra, "status", buf.Status())

	// Step 4: drain in FIFO order
	for i := 0; !buf.IsEmpty(); i++ {
		r, err := buf.Pop()
		if err != nil {
			return fmt.Errorf("drain pop: %w", err)
		}
		if r.SensorID != uint8(i) {
			return fmt.Errorf("drain order: expected sensor %d, got %d", i, r.SensorID)
		}
		logger.Info("Read reading", "reading", r, "count", buf.Len())
	}
	logger.Info("Step 4: buffer drained", "buffer", buf.Debug())

	// Step 5: underflow
	if _, err := buf.Pop(); !stderrors.Is(err, errors.ErrEmpty) {
		return fmt.Errorf("underflow pop: expected %v, got %v", errors.ErrEmpty, err)
	}
	logger.Info("Step 5: underflow reported", "status", buf.Status())

	// Step 6: wrap-around, reading from the third write on
	var expected []sensor.Reading
	for i := 0; i < 7; i++ {
		r := sensor.Reading{Timestamp: uint32(3000 + i), SensorID: uint8(i * 10), Value: float32(30 + i)}
		if err := buf.Push(r); err != nil {
			return fmt.Errorf("wrap push %d: %w", i, err)
		}
		expected = append(expected, r)

		if i < 2 {
			continue
		}
		got, err := buf.Pop()
		if err != nil {
			return fmt.Errorf("wrap pop %d: %w", i, err)
		}
		if got != expected[0] {
			return fmt.Errorf("wrap order: expected %v, got %v", expected[0], got)
		}
		expected = expected[1:]
		logger.Info("Wrap-around step", "wrote", r, "read", got, "buffer", buf.Debug())
	}
	logger.Info("Step 6: wrap-around complete", "remaining", buf.Len(), "buffer", buf.Debug())

	// Step 7: clear
	buf.Clear()
	if !buf.IsEmpty() || buf.Overflowed() {
		return fmt.Errorf("clear left buffer in %v", buf.Debug())
	}
	logger.Info("Step 7: buffer cleared", "buffer", buf.Debug(), "stats", buf.Stats().Summary().String())

	return nil
}
