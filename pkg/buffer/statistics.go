package buffer

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks buffer activity. Counters are atomic so an exporter running on
// another goroutine can read them while the owner mutates the buffer.
type Statistics struct {
	writes     atomic.Int64
	reads      atomic.Int64
	peeks      atomic.Int64
	overflows  atomic.Int64
	underflows atomic.Int64
	clears     atomic.Int64

	currentSize atomic.Int64
	maxSize     atomic.Int64
	memoryUsage atomic.Int64 // Estimated storage size in bytes

	mu        sync.RWMutex
	startTime time.Time
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Write records an accepted push.
func (s *Statistics) Write() {
	s.writes.Add(1)
}

// Read records a popped item.
func (s *Statistics) Read() {
	s.reads.Add(1)
}

// Peek records a successful peek.
func (s *Statistics) Peek() {
	s.peeks.Add(1)
}

// Overflow records a push rejected by a full buffer.
func (s *Statistics) Overflow() {
	s.overflows.Add(1)
}

// Underflow records a pop or peek on an empty buffer.
func (s *Statistics) Underflow() {
	s.underflows.Add(1)
}

// Clear records a Clear call.
func (s *Statistics) Clear() {
	s.clears.Add(1)
}

// UpdateSize updates the current buffer size and the high-water mark.
func (s *Statistics) UpdateSize(size int64) {
	s.currentSize.Store(size)
	for {
		prev := s.maxSize.Load()
		if size <= prev || s.maxSize.CompareAndSwap(prev, size) {
			return
		}
	}
}

// UpdateMemoryUsage updates the estimated memory usage.
func (s *Statistics) UpdateMemoryUsage(usage int64) {
	s.memoryUsage.Store(usage)
}

// Writes returns the total number of accepted pushes.
func (s *Statistics) Writes() int64 { return s.writes.Load() }

// Reads returns the total number of popped items.
func (s *Statistics) Reads() int64 { return s.reads.Load() }

// Peeks returns the total number of successful peeks.
func (s *Statistics) Peeks() int64 { return s.peeks.Load() }

// Overflows returns the total number of rejected pushes.
func (s *Statistics) Overflows() int64 { return s.overflows.Load() }

// Underflows returns the total number of pops and peeks on an empty buffer.
func (s *Statistics) Underflows() int64 { return s.underflows.Load() }

// Clears returns the number of Clear calls.
func (s *Statistics) Clears() int64 { return s.clears.Load() }

// CurrentSize returns the current number of items in the buffer.
func (s *Statistics) CurrentSize() int64 { return s.currentSize.Load() }

// MaxSize returns the maximum number of items the buffer has held.
func (s *Statistics) MaxSize() int64 { return s.maxSize.Load() }

// MemoryUsage returns the estimated storage size in bytes.
func (s *Statistics) MemoryUsage() int64 { return s.memoryUsage.Load() }

// Throughput returns the average number of accepted pushes per second.
func (s *Statistics) Throughput() float64 {
	elapsed := s.Uptime()
	if elapsed <= 0 {
		return 0.0
	}
	return float64(s.Writes()) / elapsed.Seconds()
}

// ReadThroughput returns the average number of pops per second.
func (s *Statistics) ReadThroughput() float64 {
	elapsed := s.Uptime()
	if elapsed <= 0 {
		return 0.0
	}
	return float64(s.Reads()) / elapsed.Seconds()
}

// OverflowRate returns the fraction of push attempts that were rejected (0.0 to 1.0).
func (s *Statistics) OverflowRate() float64 {
	overflows := s.Overflows()
	attempts := s.Writes() + overflows
	if attempts == 0 {
		return 0.0
	}
	return float64(overflows) / float64(attempts)
}

// Utilization returns the current buffer utilization as a fraction (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.CurrentSize()) / float64(capacity)
}

// Uptime returns how long the statistics have been collected.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all counters to zero. Memory usage is kept.
func (s *Statistics) Reset() {
	s.writes.Store(0)
	s.reads.Store(0)
	s.peeks.Store(0)
	s.overflows.Store(0)
	s.underflows.Store(0)
	s.clears.Store(0)
	s.maxSize.Store(s.currentSize.Load())

	s.mu.Lock()
	s.startTime = time.Now()
	s.mu.Unlock()
}

// StatsSummary is a point-in-time copy of Statistics.
type StatsSummary struct {
	Writes         int64         `json:"writes"`
	Reads          int64         `json:"reads"`
	Peeks          int64         `json:"peeks"`
	Overflows      int64         `json:"overflows"`
	Underflows     int64         `json:"underflows"`
	Clears         int64         `json:"clears"`
	CurrentSize    int64         `json:"current_size"`
	MaxSize        int64         `json:"max_size"`
	MemoryUsage    int64         `json:"memory_usage"`
	Throughput     float64       `json:"throughput"`
	ReadThroughput float64       `json:"read_throughput"`
	OverflowRate   float64       `json:"overflow_rate"`
	Uptime         time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Writes:         s.Writes(),
		Reads:          s.Reads(),
		Peeks:          s.Peeks(),
		Overflows:      s.Overflows(),
		Underflows:     s.Underflows(),
		Clears:         s.Clears(),
		CurrentSize:    s.CurrentSize(),
		MaxSize:        s.MaxSize(),
		MemoryUsage:    s.MemoryUsage(),
		Throughput:     s.Throughput(),
		ReadThroughput: s.ReadThroughput(),
		OverflowRate:   s.OverflowRate(),
		Uptime:         s.Uptime(),
	}
}

// String renders the counters on one line.
func (s StatsSummary) String() string {
	return fmt.Sprintf("writes=%d reads=%d peeks=%d overflows=%d underflows=%d clears=%d size=%d max=%d",
		s.Writes, s.Reads, s.Peeks, s.Overflows, s.Underflows, s.Clears, s.CurrentSize, s.MaxSize)
}
