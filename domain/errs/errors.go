// Package errs defines the error taxonomy shared by the use cases and the
// HTTP layer. Each typed error matches its sentinel through errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrSystemic        = errors.New("systemic failure")
	ErrDelivery        = errors.New("delivery failed")
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidStateError reports a transition attempted from a state that does not allow it.
type InvalidStateError struct {
	Entity  string
	ID      string
	Current string
	Want    string
}

func InvalidState(entity, id, current, want string) error {
	return &InvalidStateError{Entity: entity, ID: id, Current: current, Want: want}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s is %s, expected %s", e.Entity, e.ID, e.Current, e.Want)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type UnauthenticatedError struct{}

func (e *UnauthenticatedError) Error() string { return "caller must be authenticated" }

func (e *UnauthenticatedError) Is(target error) bool { return target == ErrUnauthenticated }

// SystemicError wraps an infrastructure failure (registry or log store
// unreachable) that aborts the current operation.
type SystemicError struct {
	Op  string
	Err error
}

func Systemic(op string, err error) error {
	return &SystemicError{Op: op, Err: err}
}

func (e *SystemicError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemicError) Unwrap() error { return e.Err }

func (e *SystemicError) Is(target error) bool { return target == ErrSystemic }

// DeliveryError is a per-recipient send failure. It is recorded, never escalated.
type DeliveryError struct {
	Recipient string
	Err       error
}

func Delivery(recipient string, err error) error {
	return &DeliveryError{Recipient: recipient, Err: err}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }
