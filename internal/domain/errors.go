package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core booking and catalog flows. Services return
// these (possibly wrapped with %w) and the API layer maps them to status
// codes with errors.Is / errors.As.
var (
	ErrNotFound           = errors.New("record not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrAlreadyRated       = errors.New("booking already rated")
	ErrCarUnavailable     = errors.New("car is not available for the requested dates")
	ErrCompanyNotVerified = errors.New("company is not verified")
)

// ValidationError reports a missing or malformed field, caught before any
// write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError wraps a failure of an external collaborator (record store,
// notification channel). Timeout distinguishes deadline expiry from outright
// failure so callers can report it as a separate kind.
type UpstreamError struct {
	System  string
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timed out: %v", e.System, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.System, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
