package domain

import (
	"errors"
	"strings"
)

// Errors reported by the aligner pipeline and the alignment store.
var (
	// ErrNotFound: no run with that ID, or nothing stored for a spelling.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: a run ID is reused.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation: a vocabulary row or stored value breaks a column rule.
	ErrValidation = errors.New("validation error")
)

// FieldError names a vocabulary column and what is wrong with it.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + " " + f.Message
}

// ValidationError lists every column problem found in one vocabulary row.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return "validation: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError groups column problems into one error.
// A row with no problems yields nil.
func NewValidationError(errs ...FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
