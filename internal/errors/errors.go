package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeSkip       ErrorType = "skip"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDecode     ErrorType = "decode"
	ErrorTypeEncode     ErrorType = "encode"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
)

// Severity is how the pipeline reacts to an error.
type Severity int

const (
	// SeveritySkip: expected, logged as a warning, asset excluded.
	SeveritySkip Severity = iota
	// SeverityAsset: unexpected but isolated to one asset; the batch continues.
	SeverityAsset
	// SeverityFatal aborts the run with a non-zero exit.
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeveritySkip:
		return "skip"
	case SeverityAsset:
		return "asset"
	default:
		return "fatal"
	}
}

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy of the error carrying extra detail text.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func newError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewSkipError marks an asset that the pipeline deliberately ignores.
func NewSkipError(message string, cause error) *AppError {
	return newError(ErrorTypeSkip, http.StatusUnprocessableEntity, message, cause)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewDecodeError creates an error for an unreadable image.
func NewDecodeError(message string, cause error) *AppError {
	return newError(ErrorTypeDecode, http.StatusUnprocessableEntity, message, cause)
}

// NewEncodeError creates an error for a failed re-encode.
func NewEncodeError(message string, cause error) *AppError {
	return newError(ErrorTypeEncode, http.StatusInternalServerError, message, cause)
}

// NewIOError creates a filesystem error.
func NewIOError(message string, cause error) *AppError {
	return newError(ErrorTypeIO, http.StatusInternalServerError, message, cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return newError(ErrorTypeNetwork, http.StatusBadGateway, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsSkip reports whether err is a skip-level error.
func IsSkip(err error) bool {
	return IsType(err, ErrorTypeSkip)
}

// SeverityOf classifies err into the pipeline error taxonomy. Untyped
// errors are treated as fatal.
func SeverityOf(err error) Severity {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return SeverityFatal
	}
	switch appErr.Type {
	case ErrorTypeSkip:
		return SeveritySkip
	case ErrorTypeInternal:
		return SeverityFatal
	default:
		return SeverityAsset
	}
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
