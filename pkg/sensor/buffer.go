package sensor

import (
	"github.com/c360/sensorbuf/pkg/buffer"
)

// Buffer is a ring buffer of readings.
type Buffer = buffer.RingBuffer[Reading]

// NewBuffer creates a reading buffer with the given capacity.
func NewBuffer(capacity int, opts ...buffer.Option[Reading]) (*Buffer, error) {
	return buffer.NewRingBuffer[Reading](capacity, opts...)
}

// NewDefaultBuffer creates a reading buffer of DefaultBufferSize.
func NewDefaultBuffer(opts ...buffer.Option[Reading]) (*Buffer, error) {
	return NewBuffer(DefaultBufferSize, opts...)
}
