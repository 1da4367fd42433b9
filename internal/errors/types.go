package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeTransport     ErrorType = "transport"
	ErrorTypeProtocol      ErrorType = "protocol"
	ErrorTypeNode          ErrorType = "node"
	ErrorTypeTimeout       ErrorType = "timeout"
	ErrorTypeExhausted     ErrorType = "exhausted"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// PactError is the base error type for all application errors
type PactError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface
func (e *PactError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *PactError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *PactError) WithContext(key string, value any) *PactError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New creates a new PactError
func New(errorType ErrorType, message string) *PactError {
	return &PactError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errorType ErrorType, message string) *PactError {
	return &PactError{
		Type:    errorType,
		Message: message,
		Cause:   err,
		Context: make(map[string]any),
	}
}

// Validation creates a validation error
func Validation(message string) *PactError {
	return New(ErrorTypeValidation, message)
}

// Transport creates a network-layer error
func Transport(operation string, err error) *PactError {
	return Wrap(err, ErrorTypeTransport, fmt.Sprintf("%s request failed", operation))
}

// Protocol creates a protocol mismatch error for responses that report
// success but lack an expected field
func Protocol(message string) *PactError {
	return New(ErrorTypeProtocol, message)
}

// Node creates an error for a rejection reported by the remote node
func Node(message string) *PactError {
	return New(ErrorTypeNode, message)
}

// Timeout creates a timeout error
func Timeout(operation string) *PactError {
	return New(ErrorTypeTimeout, fmt.Sprintf("operation %s timed out", operation))
}

// Exhausted creates an attempts-exhausted error
func Exhausted(operation string, attempts int) *PactError {
	return New(ErrorTypeExhausted, fmt.Sprintf("operation %s exhausted after %d attempts", operation, attempts))
}

// Configuration creates a configuration error
func Configuration(message string) *PactError {
	return New(ErrorTypeConfiguration, message)
}

// Internal creates an internal error
func Internal(message string) *PactError {
	return New(ErrorTypeInternal, message)
}

// TypeOf returns the category of err, or ErrorTypeInternal when err is not
// a PactError
func TypeOf(err error) ErrorType {
	var pe *PactError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err belongs to the given category
func IsType(err error, errorType ErrorType) bool {
	var pe *PactError
	if errors.As(err, &pe) {
		return pe.Type == errorType
	}
	return false
}

// IsFatal reports whether err should abort a retry loop instead of being
// retried. Validation and protocol errors reproduce identically on retry,
// and a failure the node has already finalized cannot change; transport
// errors are retried (a flaky connection is the dominant case).
func IsFatal(err error) bool {
	return IsType(err, ErrorTypeValidation) ||
		IsType(err, ErrorTypeProtocol) ||
		IsType(err, ErrorTypeNode)
}
