// Package timestamp provides the 32-bit timestamp handling used by sensor readings.
//
// A reading timestamp is a uint32 whose unit is chosen by the producer. Two encodings
// are supported:
//   - Unix seconds (FromTime, ToTime, Now), valid until 2106
//   - milliseconds since a boot instant (Clock), wrapping every ~49.7 days like a
//     hardware tick counter
//
// Zero Value Semantics:
//   - A Unix-seconds timestamp of 0 means "not set"
//   - Functions handle zero values gracefully, returning appropriate defaults
//
// Usage Examples:
//
//	// Wall-clock seconds
//	ts := timestamp.Now()
//	display := timestamp.Format(ts)
//
//	// Milliseconds since start
//	clock := timestamp.NewClock(time.Now())
//	ts := clock.Now()
//	age := timestamp.Elapsed(ts, clock.Now())
package timestamp

import (
	"math"
	"time"
)

// Now returns the current time as Unix seconds.
func Now() uint32 {
	return FromTime(time.Now())
}

// FromTime converts a time.Time to Unix seconds. Zero time and times before the
// epoch return 0; times past the uint32 range saturate at math.MaxUint32.
func FromTime(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	sec := t.Unix()
	switch {
	case sec <= 0:
		return 0
	case sec > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(sec)
}

// ToTime converts Unix seconds to a UTC time.Time.
// Returns zero time if timestamp is 0.
func ToTime(sec uint32) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}

// Format converts Unix seconds to an RFC3339 string for display.
// Returns empty string if timestamp is 0.
func Format(sec uint32) string {
	if sec == 0 {
		return ""
	}
	return ToTime(sec).Format(time.RFC3339)
}

// IsZero checks if a timestamp is unset (zero).
func IsZero(ts uint32) bool {
	return ts == 0
}

// Elapsed returns to - from in timestamp units, correct across one counter wrap.
func Elapsed(from, to uint32) uint32 {
	return to - from
}

// Clock produces millisecond timestamps relative to a boot instant.
type Clock struct {
	boot time.Time
}

// NewClock returns a Clock whose zero is boot.
func NewClock(boot time.Time) Clock {
	return Clock{boot: boot}
}

// Boot returns the instant the clock counts from.
func (c Clock) Boot() time.Time {
	return c.boot
}

// Now returns the milliseconds elapsed since boot.
func (c Clock) Now() uint32 {
	return c.At(time.Now())
}

// At returns the milliseconds between boot and t, truncated to 32 bits.
// Times before boot return 0.
func (c Clock) At(t time.Time) uint32 {
	ms := t.Sub(c.boot).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return uint32(ms)
}

// Time converts a millisecond timestamp back to wall time, assuming no wrap has
// occurred since boot.
func (c Clock) Time(ms uint32) time.Time {
	return c.boot.Add(time.Duration(ms) * time.Millisecond)
}

// Since returns the duration from a millisecond timestamp to now.
func (c Clock) Since(ms uint32) time.Duration {
	return time.Duration(Elapsed(ms, c.Now())) * time.Millisecond
}
