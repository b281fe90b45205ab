// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrSymbolRequired          = errors.New("symbol is required")
	ErrInvalidOutcome          = errors.New("invalid trade outcome")
	ErrIncompleteQuestionnaire = errors.New("questionnaire is incomplete")
	ErrTradeNotFound           = errors.New("trade not found")
	ErrImportRejected          = errors.New("import rejected: payload is not a JSON array of trades")
	ErrComposing               = errors.New("buddy is still composing a reply")
	ErrConfigInvalid           = errors.New("invalid configuration")
	ErrDatabaseError           = errors.New("database error")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError. The sentinel, when given,
// is reachable through errors.Is.
func NewValidationError(field string, value interface{}, message string, sentinel error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     sentinel,
	}
}

// DataError represents a problem with stored or imported data.
type DataError struct {
	Source  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.Source, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(source, message string, err error) *DataError {
	return &DataError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
