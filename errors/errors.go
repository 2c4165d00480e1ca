// Package errors provides standardized error handling patterns for sensorbuf components.
// It includes error classification, standard error variables, and helper functions
// for consistent error wrapping and classification across the module.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents expected, recoverable conditions (backpressure, underflow)
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop the caller
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Buffer construction errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAllocation      = errors.New("storage allocation failed")

	// Buffer operation errors. These are returned unwrapped from the hot path.
	ErrBufferFull = errors.New("buffer full")
	ErrEmpty      = errors.New("buffer empty")
	ErrClosed     = errors.New("buffer closed")

	// Data errors
	ErrInvalidData = errors.New("invalid data")

	// Configuration errors
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingConfig  = errors.New("missing required configuration")
	ErrConfigNotFound = errors.New("configuration not found")
)

// ClassifiedError wraps an error with its classification. Message, when set,
// replaces the wrapped error's text.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// sentinelClass maps each sentinel to its class. The first match in the chain wins.
var sentinelClass = []struct {
	err   error
	class ErrorClass
}{
	{ErrBufferFull, ErrorTransient},
	{ErrEmpty, ErrorTransient},
	{context.DeadlineExceeded, ErrorTransient},
	{context.Canceled, ErrorTransient},
	{ErrInvalidArgument, ErrorInvalid},
	{ErrAllocation, ErrorInvalid},
	{ErrClosed, ErrorInvalid},
	{ErrInvalidData, ErrorInvalid},
	{ErrInvalidConfig, ErrorFatal},
	{ErrMissingConfig, ErrorFatal},
	{ErrConfigNotFound, ErrorFatal},
}

// classOf finds the class of err: an explicit ClassifiedError first, then a known
// sentinel anywhere in the chain. ok is false for nil and unrecognized errors.
func classOf(err error) (class ErrorClass, ok bool) {
	if err == nil {
		return ErrorTransient, false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class, true
	}

	for _, sc := range sentinelClass {
		if errors.Is(err, sc.err) {
			return sc.class, true
		}
	}
	return ErrorTransient, false
}

// IsTransient reports whether err is an expected, recoverable condition such as
// backpressure, underflow or a cancelled context.
func IsTransient(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorTransient
}

// IsFatal reports whether err should stop the caller
func IsFatal(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorFatal
}

// IsInvalid reports whether err comes from bad input that will fail again unchanged
func IsInvalid(err error) bool {
	class, ok := classOf(err)
	return ok && class == ErrorInvalid
}

// Classify returns the error class for an error. Unrecognized errors are
// transient; the caller decides what to do with them.
func Classify(err error) ErrorClass {
	class, _ := classOf(err)
	return class
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	return wrapAs(ErrorTransient, err, component, method, action)
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	return wrapAs(ErrorFatal, err, component, method, action)
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	return wrapAs(ErrorInvalid, err, component, method, action)
}

func wrapAs(class ErrorClass, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return &ClassifiedError{
		Class:     class,
		Err:       wrapped,
		Message:   wrapped.Error(),
		Component: component,
		Operation: method,
	}
}
