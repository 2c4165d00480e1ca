package sensor

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/c360/sensorbuf/errors"
	"github.com/c360/sensorbuf/metric"
)

// Policy decides what a Recorder does with a reading that meets a full buffer.
type Policy string

const (
	// PolicyReject keeps the stored readings and rejects the new one.
	PolicyReject Policy = "reject"

	// PolicyDropOldest discards the oldest stored reading to make room.
	PolicyDropOldest Policy = "drop_oldest"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyReject, PolicyDropOldest:
		return p, nil
	case "":
		return PolicyReject, nil
	default:
		return "", errors.WrapInvalid(fmt.Errorf("%w: unknown policy %q", errors.ErrInvalidArgument, s),
			"sensor", "ParsePolicy", "policy lookup")
	}
}

// RecorderStats counts what happened to the readings handed to a Recorder.
type RecorderStats struct {
	Stored   uint64 `json:"stored"`   // accepted without displacing anything
	Rejected uint64 `json:"rejected"` // refused by a full buffer under PolicyReject
	Replaced uint64 `json:"replaced"` // accepted after dropping the oldest reading
	Invalid  uint64 `json:"invalid"`  // failed validation
	Drained  uint64 `json:"drained"`
}

// Recorder feeds readings into a Buffer under an overflow policy.
// Like the buffer it wraps, a Recorder has a single owner.
type Recorder struct {
	buf       *Buffer
	policy    Policy
	validate  bool
	component string
	metrics   *metric.Metrics
	logger    *slog.Logger
	onDrop    func(Reading)
	stats     RecorderStats
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPolicy sets the overflow policy. Defaults to PolicyReject.
func WithPolicy(p Policy) RecorderOption {
	return func(r *Recorder) {
		r.policy = p
	}
}

// WithValidation rejects readings that fail Reading.Validate before they reach the buffer.
func WithValidation(enabled bool) RecorderOption {
	return func(r *Recorder) {
		r.validate = enabled
	}
}

// WithRecorderMetrics reports outcomes to the core metrics under component.
func WithRecorderMetrics(m *metric.Metrics, component string) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
		if component != "" {
			r.component = component
		}
	}
}

// WithDropHandler sets a function called with every reading the Recorder loses to
// a full buffer: the new reading under PolicyReject, the displaced oldest reading
// under PolicyDropOldest.
//
// Prefer it to buffer.WithDropCallback. Under PolicyDropOldest the buffer's own
// callback sees the incoming reading, which the Recorder then stores.
func WithDropHandler(fn func(Reading)) RecorderOption {
	return func(r *Recorder) {
		r.onDrop = fn
	}
}

// WithRecorderLogger sets a logger for dropped and invalid readings.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// NewRecorder wraps buf. The recorder does not own buf; the caller closes it.
func NewRecorder(buf *Buffer, opts ...RecorderOption) (*Recorder, error) {
	if buf == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "Recorder", "NewRecorder", "buffer check")
	}

	r := &Recorder{
		buf:       buf,
		policy:    PolicyReject,
		component: "sensor-buffer",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if _, err := ParsePolicy(string(r.policy)); err != nil {
		return nil, err
	}

	return r, nil
}

// Record stores reading according to the policy.
//
// Under PolicyReject a full buffer returns errors.ErrBufferFull. Under PolicyDropOldest
// the oldest reading is discarded and Record succeeds; the buffer's overflow flag is
// raised either way. Invalid readings return an error wrapping errors.ErrInvalidData.
func (r *Recorder) Record(reading Reading) error {
	if r.validate {
		if err := reading.Validate(); err != nil {
			r.stats.Invalid++
			r.observe("invalid")
			r.debug("Dropping invalid reading", reading, err)
			return err
		}
	}

	err := r.buf.Push(reading)
	switch {
	case err == nil:
		r.stats.Stored++
		r.observe("stored")
		return nil

	case stderrors.Is(err, errors.ErrBufferFull) && r.policy == PolicyDropOldest:
		oldest, popErr := r.buf.Pop()
		if popErr != nil {
			return r.fail(popErr)
		}
		if err := r.buf.Push(reading); err != nil {
			return r.fail(err)
		}
		r.stats.Replaced++
		r.observe("replaced")
		r.dropped(oldest)
		r.debug("Dropped oldest reading", oldest, nil)
		return nil

	case stderrors.Is(err, errors.ErrBufferFull):
		r.stats.Rejected++
		r.observe("rejected")
		r.dropped(reading)
		return err

	default:
		return r.fail(err)
	}
}

// Drain pops up to max readings in FIFO order; max <= 0 drains everything.
func (r *Recorder) Drain(max int) []Reading {
	if max <= 0 {
		max = r.buf.Len()
	}

	readings := r.buf.PopBatch(max)
	r.stats.Drained += uint64(len(readings))
	if r.metrics != nil {
		r.metrics.RecordDrained(r.component, len(readings))
	}
	return readings
}

// Stats returns a copy of the outcome counters.
func (r *Recorder) Stats() RecorderStats {
	return r.stats
}

// Policy returns the overflow policy in use.
func (r *Recorder) Policy() Policy {
	return r.policy
}

// Buffer returns the wrapped buffer.
func (r *Recorder) Buffer() *Buffer {
	return r.buf
}

func (r *Recorder) observe(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordReading(r.component, outcome)
	}
}

func (r *Recorder) dropped(reading Reading) {
	if r.onDrop != nil {
		r.onDrop(reading)
	}
}

func (r *Recorder) fail(err error) error {
	if r.metrics != nil {
		r.metrics.RecordError(r.component, errors.Classify(err).String())
	}
	return errors.Wrap(err, "Recorder", "Record", "store reading")
}

func (r *Recorder) debug(msg string, reading Reading, err error) {
	if r.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("component", r.component),
		slog.Any("reading", reading),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	r.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
