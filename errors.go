// Package hermetica structured error types for status-code style error handling
package hermetica

import (
	"fmt"
)

// ErrorType represents categories of errors
type ErrorType int

const (
	// Memory errors
	ErrTypeMemory ErrorType = iota
	// Invalid argument errors
	ErrTypeInvalidValue
	// Execution errors
	ErrTypeExecution
	// Numerical errors
	ErrTypeNumerical
	// Handle errors
	ErrTypeHandle
	// Not implemented errors
	ErrTypeNotImplemented
)

// Error represents a structured error with context.
// Any non-nil Error from a device call is fatal for the current test
// case; the harness aborts instead of retrying.
type Error struct {
	Type    ErrorType
	Op      string      // Operation that failed
	Message string      // Human-readable message
	Err     error       // Underlying error if any
	Context interface{} // Additional context
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hermetica %s error in %s: %s (caused by: %v)",
			e.Type.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("hermetica %s error in %s: %s",
		e.Type.String(), e.Op, e.Message)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// String returns the error type as a string
func (t ErrorType) String() string {
	switch t {
	case ErrTypeMemory:
		return "Memory"
	case ErrTypeInvalidValue:
		return "InvalidValue"
	case ErrTypeExecution:
		return "Execution"
	case ErrTypeNumerical:
		return "Numerical"
	case ErrTypeHandle:
		return "Handle"
	case ErrTypeNotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Common error constructors

// NewMemoryError creates a memory-related error
func NewMemoryError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeMemory,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewInvalidValueError creates an invalid argument error.
// Kernels return these before touching any buffer, so an invalid shape
// is always a no-op on device memory.
func NewInvalidValueError(op string, message string) error {
	return &Error{
		Type:    ErrTypeInvalidValue,
		Op:      op,
		Message: message,
	}
}

// NewExecutionError creates an execution error
func NewExecutionError(op string, message string, err error) error {
	return &Error{
		Type:    ErrTypeExecution,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// NewHandleError creates a handle state error
func NewHandleError(op string, message string) error {
	return &Error{
		Type:    ErrTypeHandle,
		Op:      op,
		Message: message,
	}
}

// Common pre-defined errors

var (
	// ErrOutOfMemory indicates memory allocation failure
	ErrOutOfMemory = NewMemoryError("Malloc", "out of memory", nil)

	// ErrInvalidSize indicates invalid size parameter
	ErrInvalidSize = NewInvalidValueError("Malloc", "size must be positive")

	// ErrNullPointer indicates null pointer access
	ErrNullPointer = NewInvalidValueError("Memory", "null pointer")

	// ErrDoubleFree indicates double free attempt
	ErrDoubleFree = NewMemoryError("Free", "double free detected", nil)

	// ErrNotInitialized indicates use of a destroyed or zero Context
	ErrNotInitialized = NewHandleError("Context", "context not initialized")

	// ErrInvalidPointerMode indicates a scalar argument whose location
	// disagrees with the handle's active pointer mode
	ErrInvalidPointerMode = NewHandleError("Scalar", "scalar location does not match pointer mode")
)

// IsMemoryError checks if an error is a memory error
func IsMemoryError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrTypeMemory
	}
	return false
}

// IsInvalidValueError checks if an error is an invalid argument error
func IsInvalidValueError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrTypeInvalidValue
	}
	return false
}

// IsExecutionError checks if an error is an execution error
func IsExecutionError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrTypeExecution
	}
	return false
}

// IsHandleError checks if an error is a handle state error
func IsHandleError(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == ErrTypeHandle
	}
	return false
}
