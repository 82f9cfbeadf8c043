// Package domain defines the core domain model for keva.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a store error with a structured error code.
//
// Codes are stable across releases so callers can match on them; the
// message is for humans and may change.
type DomainError struct {
	Code    string // Error code (e.g., "KV-KEY-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support; two DomainErrors match when their
// codes are equal, regardless of details or cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks whether the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// ErrorCode extracts the code from an error if it is a DomainError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Key and value errors (KEY, VAL)
// ============================================================================

var (
	// ErrInvalidKey indicates the key is empty or exceeds the maximum length.
	ErrInvalidKey = NewDomainError("KV-KEY-4000", "invalid key")

	// ErrKeyNotFound indicates the key is absent or its entry has expired.
	ErrKeyNotFound = NewDomainError("KV-KEY-4040", "key not found")

	// ErrKeyExists indicates the key already holds a live entry.
	ErrKeyExists = NewDomainError("KV-KEY-4090", "key already exists")

	// ErrValueTooLarge indicates the serialized value exceeds the maximum size.
	ErrValueTooLarge = NewDomainError("KV-VAL-4130", "value too large")
)

// ============================================================================
// Store lifecycle errors (STOR)
// ============================================================================

var (
	// ErrStoreClosed indicates an operation was attempted after Close.
	ErrStoreClosed = NewDomainError("KV-STOR-5030", "store is closed")

	// ErrStoreLocked indicates another process holds the writer lock.
	ErrStoreLocked = NewDomainError("KV-STOR-4230", "store file locked by another process")
)

// ============================================================================
// Persistence errors (SNAP)
// ============================================================================

var (
	// ErrPersistence indicates a snapshot load or save failed. The cause
	// carries the underlying IO or parse error.
	ErrPersistence = NewDomainError("KV-SNAP-5000", "persistence failure")

	// ErrEncryptionKey indicates the configured encryption key is missing,
	// malformed, or does not match the store file.
	ErrEncryptionKey = NewDomainError("KV-SNAP-4000", "invalid encryption key")
)
