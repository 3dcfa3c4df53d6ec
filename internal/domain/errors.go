package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation error")
	ErrMalformedInput = errors.New("malformed input")
)

// MalformedInputError reports a mapping key whose value has the wrong shape.
type MalformedInputError struct {
	Key  string
	Want string
	Got  string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s: want %s, got %s", e.Key, e.Want, e.Got)
}

func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

func newMalformed(key, want string, got any) *MalformedInputError {
	return &MalformedInputError{Key: key, Want: want, Got: fmt.Sprintf("%T", got)}
}

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
