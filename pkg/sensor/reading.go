// Package sensor defines the sensor reading stored in ring buffers, and Recorder, the
// caller-side layer that applies an overflow policy and optional validation on top of
// a buffer.
package sensor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/c360/sensorbuf/errors"
)

const (
	// MaxSensors is the number of sensor channels; valid ids are [0, MaxSensors).
	MaxSensors = 8

	// DefaultBufferSize is the capacity used when none is configured.
	DefaultBufferSize = 256
)

// Reading is one timestamped measurement from one sensor.
type Reading struct {
	// Timestamp is Unix seconds or milliseconds since boot, chosen by the producer.
	Timestamp uint32  `json:"timestamp"`
	SensorID  uint8   `json:"sensor_id"`
	Value     float32 `json:"value"`
}

// Validate checks the sensor id range and that Value is a finite number.
// Buffers store readings without calling it.
func (r Reading) Validate() error {
	if int(r.SensorID) >= MaxSensors {
		return fmt.Errorf("%w: sensor id %d out of range [0, %d)", errors.ErrInvalidData, r.SensorID, MaxSensors)
	}
	v := float64(r.Value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: sensor %d value is not finite", errors.ErrInvalidData, r.SensorID)
	}
	return nil
}

func (r Reading) String() string {
	return fmt.Sprintf("time=%d, sensor=%d, value=%.1f", r.Timestamp, r.SensorID, r.Value)
}

// LogValue implements slog.LogValuer.
func (r Reading) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("timestamp", uint64(r.Timestamp)),
		slog.Int("sensor_id", int(r.SensorID)),
		slog.Float64("value", float64(r.Value)),
	)
}
