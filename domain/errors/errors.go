package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrNotFound is returned when a requested resource does not exist or
	// has been purged
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a guarded transition's precondition
	// failed due to concurrent mutation; safe to retry after re-reading
	ErrConflict = errors.New("conflict")

	// ErrForbidden is returned when the caller lacks the role or ownership
	// required for the operation
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return e.Type.Error()
}

// Is implements errors.Is interface
func (e *DomainError) Is(target error) bool {
	return errors.Is(e.Type, target)
}

// Unwrap implements errors.Unwrap interface
func (e *DomainError) Unwrap() error {
	return e.Type
}

// NewDomainError creates a new domain error
func NewDomainError(errType error, message string) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetails adds details to the domain error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// NewNotFoundError creates a DomainError wrapping ErrNotFound
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrNotFound, message)
}

// NewConflictError creates a DomainError wrapping ErrConflict
func NewConflictError(message string) *DomainError {
	return NewDomainError(ErrConflict, message)
}

// NewForbiddenError creates a DomainError wrapping ErrForbidden
func NewForbiddenError(message string) *DomainError {
	return NewDomainError(ErrForbidden, message)
}

// NewInternalError creates a DomainError wrapping ErrInternal, carrying the
// underlying cause as a detail when present
func NewInternalError(message string, cause error) *DomainError {
	err := NewDomainError(ErrInternal, message)
	if cause != nil {
		err.WithDetails("cause", cause.Error())
	}
	return err
}

// ValidationError represents a validation error with field-specific errors
type ValidationError struct {
	Fields map[string][]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d fields", len(e.Fields))
}

// Is implements errors.Is interface
func (e *ValidationError) Is(target error) bool {
	return errors.Is(ErrInvalidInput, target)
}

// AddFieldError adds a field-specific error
func (e *ValidationError) AddFieldError(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors returns true if there are any field errors
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// RepositoryError represents a repository-specific error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s on %s: %v",
		e.Operation, e.Entity, e.Err)
}

// Unwrap implements errors.Unwrap interface
func (e *RepositoryError) Unwrap() error {
	return e.Err
}
