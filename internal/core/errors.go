package core

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. ValidationError and NotFoundError are raised at
// operation boundaries and carry human-readable messages; row-level CSV
// import failures are never surfaced through these types, they are
// accumulated in the import result instead.

type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string { return e.msg }

type NotFoundError struct {
	msg string
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

func (e *NotFoundError) Error() string { return e.msg }

// ConflictError signals a uniqueness violation such as a duplicate
// account or format name.
type ConflictError struct {
	msg string
}

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.msg }

// DependencyError signals an operation blocked by dependent data, such as
// deleting an account that still owns transactions.
type DependencyError struct {
	msg string
}

func NewDependencyError(format string, args ...any) *DependencyError {
	return &DependencyError{msg: fmt.Sprintf(format, args...)}
}

func (e *DependencyError) Error() string { return e.msg }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
