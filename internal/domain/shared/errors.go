package shared

import "fmt"

// ErrorKind classifies a domain error for propagation and display purposes.
type ErrorKind string

const (
	// ErrorKindValidation marks malformed input; never retried.
	ErrorKindValidation ErrorKind = "VALIDATION"
	// ErrorKindBusiness marks a rejected state transition; the message is safe
	// to show to the end user directly.
	ErrorKindBusiness ErrorKind = "BUSINESS_RULE"
	// ErrorKindSystem marks an infrastructure failure; surfaced as a generic
	// retryable message while the cause is logged.
	ErrorKindSystem ErrorKind = "SYSTEM"
)

// DomainError represents a typed domain-level error with a machine-readable
// code and a human-readable message.
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches domain errors by code so sentinel comparisons survive wrapping
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Retryable reports whether the caller may reasonably retry the operation
func (e *DomainError) Retryable() bool {
	return e.Kind == ErrorKindSystem
}

// NewValidationError creates a validation-kind domain error
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Code: code, Message: message}
}

// NewBusinessError creates a business-rule-kind domain error
func NewBusinessError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindBusiness, Code: code, Message: message}
}

// NewSystemError creates a system-kind domain error wrapping an underlying cause
func NewSystemError(code, message string, cause error) *DomainError {
	return &DomainError{Kind: ErrorKindSystem, Code: code, Message: message, Cause: cause}
}

// Common domain errors
var (
	ErrNotFound            = NewBusinessError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewBusinessError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewBusinessError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = NewBusinessError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
