package health

import (
	"fmt"
	"time"
)

// Status levels
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Status represents the health state of a buffer or of the whole driver
type Status struct {
	Component   string    `json:"component"`
	Healthy     bool      `json:"healthy"`
	Status      string    `json:"status"` // healthy, degraded, unhealthy
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	SubStatuses []Status  `json:"sub_statuses,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
}

// Metrics is the buffer occupancy attached to a status
type Metrics struct {
	Count    int `json:"count"`
	Capacity int `json:"capacity"`
}

// BufferState is the read-only view of a buffer needed to judge its health.
// *buffer.RingBuffer satisfies it.
type BufferState interface {
	Len() int
	Capacity() int
	Overflowed() bool
	Closed() bool
}

// IsHealthy returns true if the status is healthy
func (s Status) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// IsDegraded returns true if the status is degraded
func (s Status) IsDegraded() bool {
	return s.Status == StatusDegraded
}

// IsUnhealthy returns true if the status is unhealthy
func (s Status) IsUnhealthy() bool {
	return s.Status == StatusUnhealthy
}

// NewHealthy creates a new healthy status
func NewHealthy(component, message string) Status {
	return newStatus(component, StatusHealthy, message)
}

// NewDegraded creates a new degraded status
func NewDegraded(component, message string) Status {
	return newStatus(component, StatusDegraded, message)
}

// NewUnhealthy creates a new unhealthy status
func NewUnhealthy(component, message string) Status {
	return newStatus(component, StatusUnhealthy, message)
}

func newStatus(component, level, message string) Status {
	return Status{
		Component: component,
		Healthy:   level == StatusHealthy,
		Status:    level,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// FromBuffer judges a buffer. A closed buffer is unhealthy; a buffer
// that has rejected readings since its last clear is degraded.
func FromBuffer(component string, b BufferState) Status {
	count, capacity := b.Len(), b.Capacity()

	var s Status
	switch {
	case b.Closed():
		s = NewUnhealthy(component, "buffer closed")
	case b.Overflowed():
		s = NewDegraded(component, fmt.Sprintf("readings lost to overflow (%d/%d stored)", count, capacity))
	default:
		s = NewHealthy(component, fmt.Sprintf("%d/%d stored", count, capacity))
	}

	s.Metrics = &Metrics{Count: count, Capacity: capacity}
	return s
}

// Aggregate creates a status from sub-statuses: unhealthy if any is unhealthy,
// otherwise degraded if any is degraded, otherwise healthy.
func Aggregate(component string, subStatuses []Status) Status {
	if len(subStatuses) == 0 {
		return NewHealthy(component, "No buffers registered")
	}

	hasUnhealthy := false
	hasDegraded := false

	for _, sub := range subStatuses {
		if sub.IsUnhealthy() {
			hasUnhealthy = true
		} else if sub.IsDegraded() {
			hasDegraded = true
		}
	}

	var status Status
	switch {
	case hasUnhealthy:
		status = NewUnhealthy(component, "One or more buffers are unhealthy")
	case hasDegraded:
		status = NewDegraded(component, "One or more buffers are degraded")
	default:
		status = NewHealthy(component, "All buffers are healthy")
	}

	status.SubStatuses = make([]Status, len(subStatuses))
	copy(status.SubStatuses, subStatuses)

	return status
}
