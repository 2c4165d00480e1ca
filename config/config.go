package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/c360/sensorbuf/errors"
	"github.com/c360/sensorbuf/pkg/buffer"
	"github.com/c360/sensorbuf/pkg/sensor"
)

// MaxSimulatedSensors is the number of distinct sensor ids a reading can carry.
// Simulations may address ids at or above sensor.MaxSensors; with
// validate_readings set those readings are rejected before reaching the buffer.
const MaxSimulatedSensors = 256

// Config represents the complete driver configuration
type Config struct {
	Buffer     BufferConfig     `json:"buffer" yaml:"buffer"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
}

// BufferConfig sizes the reading buffer
type BufferConfig struct {
	Capacity  int  `json:"capacity" yaml:"capacity"`
	ZeroOnPop bool `json:"zero_on_pop" yaml:"zero_on_pop"`
	// MemoryLimitBytes caps storage size; 0 disables the check
	MemoryLimitBytes uint64 `json:"memory_limit_bytes" yaml:"memory_limit_bytes"`
}

// SimulationConfig drives the simulate mode producer/consumer loop
type SimulationConfig struct {
	Ticks            int    `json:"ticks" yaml:"ticks"`
	ProducePerTick   int    `json:"produce_per_tick" yaml:"produce_per_tick"`
	DrainPerTick     int    `json:"drain_per_tick" yaml:"drain_per_tick"`
	Sensors          int    `json:"sensors" yaml:"sensors"`
	Policy           string `json:"policy" yaml:"policy"` // reject, drop_oldest
	ValidateReadings bool   `json:"validate_readings" yaml:"validate_readings"`
	// TickIntervalMs is the simulated time between ticks, used for reading timestamps
	TickIntervalMs int `json:"tick_interval_ms" yaml:"tick_interval_ms"`
}

// LogConfig selects the slog level and handler
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
}

// MetricsConfig controls the Prometheus HTTP endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port" yaml:"port"`
	Path    string `json:"path" yaml:"path"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Buffer: BufferConfig{
			Capacity:         sensor.DefaultBufferSize,
			MemoryLimitBytes: buffer.DefaultMemoryLimit,
		},
		Simulation: SimulationConfig{
			Ticks:          100,
			ProducePerTick: 4,
			DrainPerTick:   3,
			Sensors:        sensor.MaxSensors,
			Policy:         string(sensor.PolicyReject),
			TickIntervalMs: 100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Buffer.Capacity < 1 {
		return invalid("buffer.capacity must be >= 1, got %d", c.Buffer.Capacity)
	}

	s := c.Simulation
	if s.Ticks < 0 || s.ProducePerTick < 0 || s.DrainPerTick < 0 {
		return invalid("simulation ticks, produce_per_tick and drain_per_tick must not be negative")
	}
	if s.Sensors < 1 || s.Sensors > MaxSimulatedSensors {
		return invalid("simulation.sensors must be in [1, %d], got %d", MaxSimulatedSensors, s.Sensors)
	}
	if s.TickIntervalMs < 1 {
		return invalid("simulation.tick_interval_ms must be >= 1, got %d", s.TickIntervalMs)
	}
	if _, err := sensor.ParsePolicy(s.Policy); err != nil {
		return invalid("simulation.policy %q is not one of reject, drop_oldest", s.Policy)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return invalid("log.format %q is not one of json, text", c.Log.Format)
	}

	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return invalid("metrics.port %d out of range", c.Metrics.Port)
	}
	if c.Metrics.Enabled && c.Metrics.Port == 0 {
		return invalid("metrics.port is required when metrics are enabled")
	}
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path %q must start with /", c.Metrics.Path)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errors.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
