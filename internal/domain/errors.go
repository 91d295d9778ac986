package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation addresses a record that does not exist.
	ErrNotFound = errors.New("record was not found")
	// ErrAlreadyExists is returned when a create addresses a key that is already taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConflict is returned when a transition's status precondition no longer
	// holds at commit time. First writer wins; the second gets this.
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrPermissionDenied is returned when the caller lacks the privilege for a mutation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnauthenticated is returned when no valid caller identity accompanies a request.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports malformed or missing required input. It is raised
// before any store interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidTransitionError reports a lifecycle operation that is not permitted
// from the profile's current status. No partial state change occurs.
type InvalidTransitionError struct {
	Op   string
	From ProfileStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a profile in status %s", e.Op, e.From)
}

// StoreError wraps a failed persistence operation. It is propagated to the
// caller without retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// DeliveryError wraps a failed notification send. Lifecycle transitions log
// it and move on; contact mediation surfaces it to the caller.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
