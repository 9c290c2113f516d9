// Package utils provides shared helpers for the contentguard
// application: the error taxonomy, logging setup, response formatting,
// and request validation.
package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// Sentinel errors for the application
var (
	ErrNotFound        = errors.New("resource not found")
	ErrValidation      = errors.New("validation error")
	ErrBadRequest      = errors.New("invalid request")
	ErrUnauthorized    = errors.New("unauthorized access")
	ErrInternalServer  = errors.New("internal server error")
	ErrStorage         = errors.New("storage error")
	ErrStorageTimeout  = errors.New("storage timeout")
	ErrDecryption      = errors.New("decryption failed")
	ErrIntegrity       = errors.New("integrity verification failed")
	ErrPolicyViolation = errors.New("content policy violation")
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers
	Field      string // Field related to the error (for validation errors)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the given error and status code
func New(err error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    "An internal server error occurred",
		DevInfo:    devInfo,
	}
}

// NewStorageError wraps a storage collaborator failure
func NewStorageError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrStorage,
		StatusCode: http.StatusServiceUnavailable,
		Message:    "The storage backend is unavailable",
		DevInfo:    devInfo,
	}
}

// NewDecryptionError creates an error for a failed decryption. The
// message deliberately does not distinguish a wrong password from a
// corrupted ciphertext.
func NewDecryptionError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrDecryption,
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "Data could not be decrypted",
		DevInfo:    devInfo,
	}
}

// NewIntegrityError creates an error for a container whose integrity
// tag did not verify
func NewIntegrityError() *AppError {
	return &AppError{
		Err:        ErrIntegrity,
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "Data integrity verification failed",
	}
}

// NewPolicyViolationError creates an error for callers that want scan
// failures surfaced as errors rather than result flags
func NewPolicyViolationError(message string) *AppError {
	if message == "" {
		message = "Content violates the active policy"
	}
	return &AppError{
		Err:        ErrPolicyViolation,
		StatusCode: http.StatusForbidden,
		Message:    message,
	}
}

// ParseError attempts to normalize an arbitrary error into an AppError
func ParseError(err error) *AppError {
	// If it's already an AppError, return it
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Check for specific sentinel types
	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("Resource", "")
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("")
	case errors.Is(err, ErrIntegrity):
		return NewIntegrityError()
	case errors.Is(err, ErrDecryption):
		return NewDecryptionError(err)
	case errors.Is(err, ErrStorageTimeout), errors.Is(err, context.DeadlineExceeded):
		return &AppError{
			Err:        ErrStorageTimeout,
			StatusCode: http.StatusGatewayTimeout,
			Message:    "The storage backend did not respond in time",
			DevInfo:    err.Error(),
		}
	case errors.Is(err, ErrStorage):
		return NewStorageError(err)
	case errors.Is(err, ErrPolicyViolation):
		return NewPolicyViolationError(err.Error())
	}

	// Check for PostgreSQL driver errors from the SQL storage adapter
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return &AppError{
				Err:        ErrStorage,
				StatusCode: http.StatusConflict,
				Message:    "A record with the same key already exists",
				DevInfo:    pqErr.Error(),
			}
		case "23502": // not_null_violation
			return &AppError{
				Err:        ErrValidation,
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("The %s field cannot be empty", pqErr.Column),
				DevInfo:    pqErr.Error(),
				Field:      pqErr.Column,
			}
		default:
			return NewStorageError(pqErr)
		}
	}

	// Check for general database error patterns
	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "no rows"), strings.Contains(errMsg, "not found"):
		return NewNotFoundError("Resource", "")
	case strings.Contains(errMsg, "duplicate key"), strings.Contains(errMsg, "unique constraint"):
		return &AppError{
			Err:        ErrStorage,
			StatusCode: http.StatusConflict,
			Message:    "A record with the same key already exists",
			DevInfo:    err.Error(),
		}
	}

	// Default to internal server error
	return NewInternalServerError(err)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrValidation)
	}
	return errors.Is(err, ErrValidation)
}

// IsIntegrityError checks if an error indicates a failed integrity check
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// IsDecryptionError checks if an error indicates a failed decryption
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryption) || errors.Is(err, ErrIntegrity)
}

// IsStorageTimeout checks if an error indicates a storage timeout
func IsStorageTimeout(err error) bool {
	return errors.Is(err, ErrStorageTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
