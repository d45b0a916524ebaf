package messageboard

import (
	"errors"
	"fmt"
)

// Error represents a messageboard library error with categorization.
type Error struct {
	// Code is a machine-readable error code
	Code string

	// Message is a human-readable error message
	Message string

	// Err is the underlying error (if any)
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error codes for messageboard operations.
const (
	// ErrCodeNoData indicates no data was found.
	ErrCodeNoData = "NO_DATA"

	// ErrCodeValidation indicates validation failed (empty text,
	// inverted time window, non-positive duration or speed).
	ErrCodeValidation = "VALIDATION_ERROR"

	// ErrCodeNotFound indicates an unknown message id.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeConfiguration indicates invalid service configuration.
	ErrCodeConfiguration = "CONFIGURATION_ERROR"

	// ErrCodePersistence indicates a repository operation failed.
	// In-memory state is never updated when persistence fails.
	ErrCodePersistence = "PERSISTENCE_ERROR"
)

// Common errors.
var (
	// ErrNoData is returned when a query returns no results.
	// This is not necessarily an error condition in all cases.
	ErrNoData = &Error{
		Code:    ErrCodeNoData,
		Message: "no data found",
	}
)

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorWithCause creates a new Error wrapping an underlying error.
func NewErrorWithCause(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// IsNoData checks if an error is ErrNoData.
func IsNoData(err error) bool {
	var mbErr *Error
	if errors.As(err, &mbErr) {
		return mbErr.Code == ErrCodeNoData
	}
	return errors.Is(err, ErrNoData)
}

// IsValidation checks if an error carries ErrCodeValidation.
func IsValidation(err error) bool {
	var mbErr *Error
	return errors.As(err, &mbErr) && mbErr.Code == ErrCodeValidation
}

// IsNotFound checks if an error carries ErrCodeNotFound.
func IsNotFound(err error) bool {
	var mbErr *Error
	return errors.As(err, &mbErr) && mbErr.Code == ErrCodeNotFound
}

// IsPersistence checks if an error carries ErrCodePersistence.
func IsPersistence(err error) bool {
	var mbErr *Error
	return errors.As(err, &mbErr) && mbErr.Code == ErrCodePersistence
}

// ErrorCode extracts the machine-readable code from err.
// Returns an empty string for non-library errors.
func ErrorCode(err error) string {
	var mbErr *Error
	if errors.As(err, &mbErr) {
		return mbErr.Code
	}
	return ""
}
