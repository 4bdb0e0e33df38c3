package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTransient    = errors.New("transient fetch error")
	ErrMutation     = errors.New("mutation failed")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// TransientFetchError reports a network or server failure that may succeed
// when retried. Status is the HTTP status code, or 0 when no response arrived.
type TransientFetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransientFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: transient failure (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() []error { return []error{ErrTransient, e.Err} }

// MutationOp names the remote mutation that failed.
type MutationOp string

const (
	MutationCreate MutationOp = "create"
	MutationUpdate MutationOp = "update"
	MutationDelete MutationOp = "delete"
	MutationGrade  MutationOp = "grade"
)

func (o MutationOp) String() string { return string(o) }

// MutationError reports a create/update/delete/grade request the server did
// not confirm. CardID is empty for create.
type MutationError struct {
	Op     MutationOp
	CardID string
	Err    error
}

func (e *MutationError) Error() string {
	if e.CardID == "" {
		return fmt.Sprintf("%s card: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s card %s: %v", e.Op, e.CardID, e.Err)
}

func (e *MutationError) Unwrap() []error { return []error{ErrMutation, e.Err} }

// NewMutationError wraps err as a MutationError unless it already is one.
func NewMutationError(op MutationOp, cardID string, err error) error {
	if err == nil {
		return nil
	}
	var me *MutationError
	if errors.As(err, &me) {
		return err
	}
	return &MutationError{Op: op, CardID: cardID, Err: err}
}

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
