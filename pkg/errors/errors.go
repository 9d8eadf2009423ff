package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeNetwork    ErrorType = "network"
)

// AppError is the single error type used across the portal. It wraps the
// underlying cause and records the file and line where it was raised.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	File       string    `json:"-"`
	Line       int       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("Error in [%s] at line [%d]: %s", e.File, e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Location returns "file:line" of the call site that created the error.
func (e *AppError) Location() string {
	if e.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

// caller reports the file and line skip frames above its own caller.
func caller(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 2)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func newAppError(errorType ErrorType, status int, message string, cause error) *AppError {
	// frames: caller -> newAppError -> constructor -> call site
	file, line := caller(1)
	return &AppError{
		Type:       errorType,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
		File:       file,
		Line:       line,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	e := newAppError(ErrorTypeValidation, http.StatusBadRequest, message, nil)
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return newAppError(ErrorTypeProcessing, http.StatusUnprocessableEntity, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, http.StatusInternalServerError, message, cause)
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, http.StatusServiceUnavailable, message, cause)
}

// Wrap annotates cause with message at the caller's location. When cause is
// already an AppError its type and status are kept; otherwise the result is
// an internal error.
func Wrap(cause error, message string) *AppError {
	errorType, status := ErrorTypeInternal, http.StatusInternalServerError
	var appErr *AppError
	if stderrors.As(cause, &appErr) {
		errorType, status = appErr.Type, appErr.StatusCode
	}
	return newAppError(errorType, status, message, cause)
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message of an AppError, or fallback.
func Message(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}
