package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates a category outside the fixed vocabulary
	ErrUnknownCategory = errors.New("unknown category")
)

// ValidationError represents a validation error with detailed field information.
// It is the one error class that propagates to callers: it signals operator or
// programmer misuse rather than an expected runtime outcome.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
