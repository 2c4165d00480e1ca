package buffer

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/c360/sensorbuf/errors"
)

// RingBuffer is a fixed-capacity FIFO over a single owned slice.
//
// It has one exclusive owner: no method may be called concurrently with another.
// Items are copied in on Push and copied out on Pop and Peek.
type RingBuffer[T any] struct {
	items      []T
	capacity   int
	readPos    int // next slot to pop
	writePos   int // next slot to push
	count      int
	overflowed bool // sticky until Clear
	closed     bool

	stats   *Statistics    // ALWAYS initialized for observability
	metrics *bufferMetrics // Optional Prometheus metrics
	opts    *bufferOptions[T]
}

func newRingBuffer[T any](capacity int, opts *bufferOptions[T]) (*RingBuffer[T], error) {
	if capacity <= 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidArgument, "RingBuffer", "NewRingBuffer",
			fmt.Sprintf("capacity check (capacity %d)", capacity))
	}

	bytes, err := storageSize[T](capacity, opts.memoryLimit)
	if err != nil {
		return nil, errors.WrapInvalid(err, "RingBuffer", "NewRingBuffer", "storage sizing")
	}

	items, err := allocate[T](capacity)
	if err != nil {
		return nil, errors.WrapInvalid(err, "RingBuffer", "NewRingBuffer", "storage allocation")
	}

	var metrics *bufferMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "RingBuffer", "NewRingBuffer", "metrics registration")
		}
	}

	stats := NewStatistics()
	stats.UpdateMemoryUsage(int64(bytes))

	return &RingBuffer[T]{
		items:    items,
		capacity: capacity,
		stats:    stats,
		metrics:  metrics,
		opts:     opts,
	}, nil
}

// storageSize returns capacity*sizeof(T), or ErrAllocation when that exceeds limit.
// A zero limit disables the check.
func storageSize[T any](capacity int, limit uint64) (uint64, error) {
	var zero T
	elem := uint64(unsafe.Sizeof(zero))
	n := uint64(capacity)

	if elem != 0 && n > ^uint64(0)/elem {
		return 0, fmt.Errorf("%w: %d items overflow the address space", errors.ErrAllocation, capacity)
	}
	bytes := n * elem

	if limit > 0 && bytes > limit {
		return 0, fmt.Errorf("%w: %d bytes requested, limit is %d", errors.ErrAllocation, bytes, limit)
	}
	return bytes, nil
}

// allocate converts a runtime allocation panic into ErrAllocation.
func allocate[T any](capacity int) (items []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = fmt.Errorf("%w: %v", errors.ErrAllocation, r)
		}
	}()
	return make([]T, capacity), nil
}

// advance moves a cursor one slot forward, wrapping at capacity.
func (rb *RingBuffer[T]) advance(pos int) int {
	pos++
	if pos == rb.capacity {
		return 0
	}
	return pos
}

// Push appends item at the write cursor. A full buffer is left untouched apart from the
// overflow flag and the item is rejected with errors.ErrBufferFull.
func (rb *RingBuffer[T]) Push(item T) error {
	if rb.closed {
		return errors.ErrClosed
	}

	if rb.count == rb.capacity {
		rb.overflowed = true
		rb.stats.Overflow()
		if rb.metrics != nil {
			rb.metrics.recordOverflow()
		}
		if rb.opts.logger != nil {
			rb.opts.logger.LogAttrs(context.Background(), slog.LevelDebug, "Ring buffer overflow",
				slog.String("component", rb.opts.metricsPrefix),
				slog.Any("buffer", rb.Debug()))
		}
		if rb.opts.dropCallback != nil {
			rb.opts.dropCallback(item)
		}
		return errors.ErrBufferFull
	}

	rb.items[rb.writePos] = item
	rb.writePos = rb.advance(rb.writePos)
	rb.count++

	rb.stats.Write()
	rb.stats.UpdateSize(int64(rb.count))
	if rb.metrics != nil {
		rb.metrics.recordWrite(rb.count, rb.capacity)
	}

	return nil
}

// Pop removes and returns the item at the read cursor.
func (rb *RingBuffer[T]) Pop() (T, error) {
	var zero T

	if rb.closed {
		return zero, errors.ErrClosed
	}

	if rb.count == 0 {
		rb.stats.Underflow()
		if rb.metrics != nil {
			rb.metrics.recordUnderflow()
		}
		return zero, errors.ErrEmpty
	}

	item := rb.take()

	rb.stats.Read()
	rb.stats.UpdateSize(int64(rb.count))
	if rb.metrics != nil {
		rb.metrics.recordRead(rb.count, rb.capacity)
	}

	return item, nil
}

// take copies out the oldest item and advances the read cursor. Caller checks count.
func (rb *RingBuffer[T]) take() T {
	item := rb.items[rb.readPos]
	if rb.opts.zeroOnPop {
		var zero T
		rb.items[rb.readPos] = zero
	}
	rb.readPos = rb.advance(rb.readPos)
	rb.count--
	return item
}

// PopBatch removes up to max items in FIFO order.
// It returns nil when max <= 0, the buffer is empty or the buffer is closed.
func (rb *RingBuffer[T]) PopBatch(max int) []T {
	if max <= 0 || rb.closed || rb.count == 0 {
		return nil
	}

	readCount := max
	if readCount > rb.count {
		readCount = rb.count
	}

	result := make([]T, readCount)
	for i := range result {
		result[i] = rb.take()
		rb.stats.Read()
	}

	rb.stats.UpdateSize(int64(rb.count))
	if rb.metrics != nil {
		rb.metrics.recordReads(readCount, rb.count, rb.capacity)
	}

	return result
}

// Peek returns the item at the read cursor without removing it.
func (rb *RingBuffer[T]) Peek() (T, error) {
	var zero T

	if rb.closed {
		return zero, errors.ErrClosed
	}

	if rb.count == 0 {
		rb.stats.Underflow()
		if rb.metrics != nil {
			rb.metrics.recordUnderflow()
		}
		return zero, errors.ErrEmpty
	}

	rb.stats.Peek()
	if rb.metrics != nil {
		rb.metrics.recordPeek()
	}

	return rb.items[rb.readPos], nil
}

// Len returns the current number of items in the buffer.
func (rb *RingBuffer[T]) Len() int {
	return rb.count
}

// Capacity returns the maximum number of items the buffer can hold.
func (rb *RingBuffer[T]) Capacity() int {
	return rb.capacity
}

// FreeCapacity returns the number of pushes that will succeed before the buffer is full.
func (rb *RingBuffer[T]) FreeCapacity() int {
	if rb.closed {
		return 0
	}
	return rb.capacity - rb.count
}

// IsEmpty returns true if the buffer contains no items.
func (rb *RingBuffer[T]) IsEmpty() bool {
	return rb.count == 0
}

// IsFull returns true if the buffer is at maximum capacity.
func (rb *RingBuffer[T]) IsFull() bool {
	return rb.count == rb.capacity
}

// Overflowed reports whether any push was rejected since creation or the last Clear.
func (rb *RingBuffer[T]) Overflowed() bool {
	return rb.overflowed
}

// Closed reports whether Close has been called.
func (rb *RingBuffer[T]) Closed() bool {
	return rb.closed
}

// Clear discards all items, resets both cursors and lowers the overflow flag.
// Storage is kept.
func (rb *RingBuffer[T]) Clear() {
	if rb.opts.zeroOnPop {
		clear(rb.items)
	}

	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0
	rb.overflowed = false

	rb.stats.Clear()
	rb.stats.UpdateSize(0)
	if rb.metrics != nil {
		rb.metrics.recordClear(rb.capacity)
	}
}

// Status returns the full/empty/overflowed flags computed from the current state.
func (rb *RingBuffer[T]) Status() Status {
	return Status{
		Full:       rb.IsFull(),
		Empty:      rb.IsEmpty(),
		Overflowed: rb.overflowed,
	}
}

// Debug returns a snapshot of the buffer internals.
func (rb *RingBuffer[T]) Debug() DebugInfo {
	return DebugInfo{
		Capacity:   rb.capacity,
		Count:      rb.count,
		ReadPos:    rb.readPos,
		WritePos:   rb.writePos,
		Free:       rb.FreeCapacity(),
		Overflowed: rb.overflowed,
	}
}

// Stats returns buffer statistics (always available for observability).
func (rb *RingBuffer[T]) Stats() *Statistics {
	return rb.stats
}

// Close releases the storage and unregisters Prometheus metrics.
// Later Push, Pop and Peek calls return errors.ErrClosed. Statistics remain readable.
func (rb *RingBuffer[T]) Close() error {
	if rb.closed {
		return nil
	}

	rb.closed = true
	rb.items = nil
	rb.readPos = 0
	rb.writePos = 0
	rb.count = 0

	rb.stats.UpdateSize(0)
	rb.stats.UpdateMemoryUsage(0)

	if rb.metrics != nil {
		rb.metrics.unregister(rb.opts.metricsReg, rb.opts.metricsPrefix)
		rb.metrics = nil
	}

	return nil
}
