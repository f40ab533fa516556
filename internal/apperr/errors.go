// Package apperr holds the error taxonomy shared by every retail operation.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a sale asks for more units than are in stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStoreUnavailable is returned when a record store call fails.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrNotFound is returned when a record does not exist in its collection.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden is returned when the acting role may not perform the operation.
	ErrForbidden = errors.New("operation not allowed for role")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

// Validation builds a ValidationError for field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is reports ErrValidation as the kind of every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
