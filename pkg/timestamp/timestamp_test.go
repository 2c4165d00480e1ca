package timestamp

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test constants
var (
	testTime       = time.Date(2023, 1, 15, 12, 30, 45, 123000000, time.UTC)
	testTimeSec    = uint32(1673785845)
	testTimeString = "2023-01-15T12:30:45Z"
)

func TestNow(t *testing.T) {
	before := uint32(time.Now().Unix())
	ts := Now()
	after := uint32(time.Now().Unix())

	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}

func TestFromTime(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected uint32
	}{
		{"normal time", testTime, testTimeSec},
		{"zero time", time.Time{}, 0},
		{"unix epoch", time.Unix(0, 0), 0},
		{"before epoch", time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"past uint32 range", time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC), math.MaxUint32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromTime(tt.input))
		})
	}
}

func TestToTime(t *testing.T) {
	assert.True(t, ToTime(0).IsZero())
	assert.Equal(t, testTime.Truncate(time.Second), ToTime(testTimeSec))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(0))
	assert.Equal(t, testTimeString, Format(testTimeSec))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(0))
	assert.False(t, IsZero(1))
}

func TestElapsed(t *testing.T) {
	tests := []struct {
		name     string
		from, to uint32
		expected uint32
	}{
		{"forward", 1000, 1500, 500},
		{"same", 42, 42, 0},
		{"across wrap", math.MaxUint32 - 9, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Elapsed(tt.from, tt.to))
		})
	}
}

func TestClock(t *testing.T) {
	clock := NewClock(testTime)

	assert.Equal(t, testTime, clock.Boot())
	assert.Equal(t, uint32(0), clock.At(testTime))
	assert.Equal(t, uint32(0), clock.At(testTime.Add(-time.Hour)), "before boot")
	assert.Equal(t, uint32(1500), clock.At(testTime.Add(1500*time.Millisecond)))
	assert.Equal(t, testTime.Add(2*time.Second), clock.Time(2000))

	// 2^32 ms after boot the counter wraps to zero
	assert.Equal(t, uint32(5), clock.At(testTime.Add((1<<32+5)*time.Millisecond)))
}

func TestClock_NowAndSince(t *testing.T) {
	clock := NewClock(time.Now().Add(-time.Second))

	ts := clock.Now()
	assert.GreaterOrEqual(t, ts, uint32(1000))
	assert.GreaterOrEqual(t, clock.Since(ts), time.Duration(0))
	assert.Less(t, clock.Since(ts), time.Minute)
}
