package buffer

// Buffer is the contract shared by ring buffer implementations.
// The buffer is parameterized by item type T for type safety.
type Buffer[T any] interface {
	// Push appends an item. A full buffer rejects the item with errors.ErrBufferFull
	// and raises the sticky overflow flag.
	Push(item T) error

	// Pop removes and returns the oldest item, or errors.ErrEmpty.
	Pop() (T, error)

	// PopBatch removes up to max items in FIFO order.
	PopBatch(max int) []T

	// Peek returns the oldest item without removing it, or errors.ErrEmpty.
	Peek() (T, error)

	// Len returns the current number of items in the buffer.
	Len() int

	// Capacity returns the maximum number of items the buffer can hold.
	Capacity() int

	// FreeCapacity returns Capacity() - Len().
	FreeCapacity() int

	IsFull() bool
	IsEmpty() bool

	// Overflowed reports whether a push was rejected since creation or the last Clear.
	Overflowed() bool

	// Clear discards all items and resets the overflow flag.
	Clear()

	// Status returns the full/empty/overflowed flags in one snapshot.
	Status() Status

	// Stats returns buffer statistics (always available for observability).
	Stats() *Statistics

	// Close releases storage and metrics. It is safe to call more than once.
	Close() error

	// Closed reports whether Close has been called.
	Closed() bool
}

var _ Buffer[int] = (*RingBuffer[int])(nil)

// DropCallback is called with each item rejected because the buffer was full.
type DropCallback[T any] func(item T)

// NewRingBuffer creates a ring buffer holding at most capacity items.
// Capacity is required - all other configuration is via functional options.
//
// A non-positive capacity returns errors.ErrInvalidArgument. Storage larger than the
// memory limit, or storage the runtime cannot allocate, returns errors.ErrAllocation.
// Both are wrapped as invalid classified errors. A metrics registration failure is
// returned as a transient classified error.
func NewRingBuffer[T any](capacity int, options ...Option[T]) (*RingBuffer[T], error) {
	opts := applyOptions(options...)
	return newRingBuffer(capacity, opts)
}
