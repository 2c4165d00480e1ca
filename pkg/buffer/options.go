package buffer

import (
	"log/slog"

	"github.com/c360/sensorbuf/metric"
)

// DefaultMemoryLimit caps the storage a single buffer may allocate (64 MiB).
const DefaultMemoryLimit uint64 = 64 << 20

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Stats are ALWAYS collected - they are not optional.
type bufferOptions[T any] struct {
	dropCallback DropCallback[T]
	zeroOnPop    bool
	memoryLimit  uint64
	logger       *slog.Logger

	// metricsReg is optional - if provided, buffer stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil or component is empty, this option is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, component string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && component != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = component
		}
	}
}

// WithDropCallback sets a callback invoked with every item rejected by a full buffer.
// It reports the item passed to the failing Push; a caller that makes room and
// pushes again afterwards loses a different item.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.dropCallback = callback
	}
}

// WithZeroOnPop overwrites vacated slots with the zero value on Pop, PopBatch and Clear.
func WithZeroOnPop[T any]() Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.zeroOnPop = true
	}
}

// WithMemoryLimit sets the maximum storage size in bytes. Zero disables the check.
func WithMemoryLimit[T any](bytes uint64) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.memoryLimit = bytes
	}
}

// WithLogger sets a logger for overflow diagnostics. Nothing is logged without one.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.logger = logger
	}
}

func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		memoryLimit: DefaultMemoryLimit,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
