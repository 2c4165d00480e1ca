// Package errors provides standardized error handling patterns for sensorbuf components.
//
// # Overview
//
// The errors package implements a three-class error classification system: Transient
// (expected and recoverable, such as backpressure), Invalid (bad input, do not retry
// unchanged), and Fatal (the caller should stop).
//
// # Standard Error Variables
//
// Buffer construction:
//
//   - ErrInvalidArgument: capacity of zero or less
//   - ErrAllocation: storage for the requested capacity could not be obtained
//
// Buffer operations:
//
//   - ErrBufferFull: push on a full buffer (reject-new policy, sets the sticky overflow flag)
//   - ErrEmpty: pop or peek on an empty buffer
//   - ErrClosed: any data operation after Close
//
// ErrBufferFull and ErrEmpty are returned as bare sentinels so the hot path never
// allocates. Compare them with errors.Is:
//
//	if err := buf.Push(r); errors.Is(err, errors.ErrBufferFull) {
//	    // backpressure: drop, drain, or retry later
//	}
//
// # Classification
//
// IsTransient, IsInvalid, IsFatal and Classify look for a ClassifiedError in the
// chain first, then for a known sentinel. Context cancellation counts as transient.
// Errors matching neither are reported as transient by Classify and false by the
// Is* helpers.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The plain Wrap() keeps the original classification, because classification of the
// sentinel is still found through the chain:
//
//	wrapped := errors.Wrap(errors.ErrBufferFull, "Recorder", "Record", "push")
//	errors.IsTransient(wrapped) // true
//
// # Thread Safety
//
// Error variables are immutable and safe for concurrent access. A ClassifiedError is
// safe to share across goroutines after creation.
package errors
