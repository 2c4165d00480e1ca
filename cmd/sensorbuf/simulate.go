package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360/sensorbuf/config"
	"github.com/c360/sensorbuf/errors"
	"github.com/c360/sensorbuf/health"
	"github.com/c360/sensorbuf/metric"
	"github.com/c360/sensorbuf/pkg/buffer"
	"github.com/c360/sensorbuf/pkg/sensor"
	"github.com/c360/sensorbuf/pkg/timestamp"
)

const simulationComponent = "sensor-buffer"

// SimulationResult summarizes one simulate run.
type SimulationResult struct {
	Ticks      int                  `json:"ticks"`
	Recorder   sensor.RecorderStats `json:"recorder"`
	Overflowed bool                 `json:"overflowed"`
	Remaining  int                  `json:"remaining"`
	Buffer     buffer.DebugInfo     `json:"buffer"`
}

// newSimulationBuffer creates the buffer described by the buffer config section.
func newSimulationBuffer(cfg *config.Config, logger *slog.Logger, registry *metric.MetricsRegistry) (*sensor.Buffer, error) {
	opts := []buffer.Option[sensor.Reading]{
		buffer.WithMetrics[sensor.Reading](registry, simulationComponent),
		buffer.WithMemoryLimit[sensor.Reading](cfg.Buffer.MemoryLimitBytes),
		buffer.WithLogger[sensor.Reading](logger.With("mode", modeSimulate)),
	}
	if cfg.Buffer.ZeroOnPop {
		opts = append(opts, buffer.WithZeroOnPop[sensor.Reading]())
	}
	return sensor.NewBuffer(cfg.Buffer.Capacity, opts...)
}

// runSimulation produces readings round-robin across sensors into buf and drains
// them on a fixed schedule. Timestamps come from a virtual clock advanced by the
// tick interval, so a run is deterministic for a given configuration. A non-nil
// monitor is updated with the buffer's health after every tick. The caller owns buf
// and keeps it open for as long as its metrics should be served.
func runSimulation(
	ctx context.Context,
	buf *sensor.Buffer,
	cfg *config.Config,
	logger *slog.Logger,
	registry *metric.MetricsRegistry,
	monitor *health.Monitor,
) (SimulationResult, error) {
	var result SimulationResult
	logger = logger.With("mode", modeSimulate)
	sim := cfg.Simulation

	policy, err := sensor.ParsePolicy(sim.Policy)
	if err != nil {
		return result, err
	}

	core := registry.CoreMetrics()
	rec, err := sensor.NewRecorder(buf,
		sensor.WithPolicy(policy),
		sensor.WithValidation(sim.ValidateReadings),
		sensor.WithRecorderMetrics(core, simulationComponent),
		sensor.WithRecorderLogger(logger),
	)
	if err != nil {
		return result, fmt.Errorf("create recorder: %w", err)
	}

	clock := timestamp.NewClock(time.Now())
	interval := time.Duration(sim.TickIntervalMs) * time.Millisecond

	logger.Info("Simulation started",
		"capacity", buf.Capacity(),
		"ticks", sim.Ticks,
		"produce_per_tick", sim.ProducePerTick,
		"drain_per_tick", sim.DrainPerTick,
		"sensors", sim.Sensors,
		"policy", policy)

	seq := 0
	for tick := 0; tick < sim.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			logger.Info("Simulation interrupted", "tick", tick)
			break
		}

		start := time.Now()
		ts := clock.At(clock.Boot().Add(time.Duration(tick) * interval))

		for i := 0; i < sim.ProducePerTick; i++ {
			reading := sensor.Reading{
				Timestamp: ts,
				SensorID:  uint8(seq % sim.Sensors),
				Value:     simulatedValue(seq),
			}
			seq++

			if err := rec.Record(reading); err != nil && !stderrors.Is(err, errors.ErrBufferFull) {
				if stderrors.Is(err, errors.ErrInvalidData) {
					continue
				}
				return result, err
			}
		}

		if sim.DrainPerTick > 0 {
			drained := rec.Drain(sim.DrainPerTick)
			logger.Debug("Tick complete",
				"tick", tick,
				"timestamp", ts,
				"drained", len(drained),
				"buffer", buf.Debug())
		}

		core.RecordTickDuration(modeSimulate, time.Since(start))
		if monitor != nil {
			monitor.Observe(simulationComponent, buf)
		}
		result.Ticks++
	}

	result.Recorder = rec.Stats()
	result.Overflowed = buf.Overflowed()
	result.Remaining = buf.Len()
	result.Buffer = buf.Debug()

	logger.Info("Simulation finished",
		"ticks", result.Ticks,
		"stored", result.Recorder.Stored,
		"rejected", result.Recorder.Rejected,
		"replaced", result.Recorder.Replaced,
		"invalid", result.Recorder.Invalid,
		"drained", result.Recorder.Drained,
		"overflowed", result.Overflowed,
		"remaining", result.Remaining,
		"buffer", result.Buffer,
		"stats", buf.Stats().Summary().String())

	return result, nil
}

// simulatedValue returns a repeatable reading in the range [20.0, 29.9].
func simulatedValue(seq int) float32 {
	return 20 + float32(seq%100)/10
}
