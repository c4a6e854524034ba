// Package errors provides custom error types for the application.
// It defines domain-specific errors with error codes for better error handling and API responses.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

// Error codes for different error categories
const (
	// General errors (1xxx)
	ErrCodeInternal   ErrorCode = "E1000"
	ErrCodeValidation ErrorCode = "E1001"
	ErrCodeNotFound   ErrorCode = "E1002"
	ErrCodeConflict   ErrorCode = "E1003"

	// Export pipeline errors (2xxx)
	ErrCodeRasterTimeout  ErrorCode = "E2001"
	ErrCodeRasterEmpty    ErrorCode = "E2002"
	ErrCodeEncodeFailed   ErrorCode = "E2003"
	ErrCodeExportBusy     ErrorCode = "E2004"
	ErrCodeExportTimeout  ErrorCode = "E2005"
	ErrCodeBrowserLaunch  ErrorCode = "E2006"
	ErrCodePageEvaluation ErrorCode = "E2007"

	// Entitlement errors (3xxx)
	ErrCodeNoCredit      ErrorCode = "E3001"
	ErrCodeCreditConsume ErrorCode = "E3002"

	// Render errors (4xxx)
	ErrCodeTemplateNotFound ErrorCode = "E4001"
	ErrCodeRenderFailed     ErrorCode = "E4002"

	// Database errors (5xxx)
	ErrCodeDBConnection ErrorCode = "E5001"
	ErrCodeDBQuery      ErrorCode = "E5002"
	ErrCodeDBMigration  ErrorCode = "E5003"

	// Configuration errors (6xxx)
	ErrCodeConfigNotFound ErrorCode = "E6001"
	ErrCodeConfigInvalid  ErrorCode = "E6002"
	ErrCodeConfigParse    ErrorCode = "E6003"
)

// Exit codes for application startup failures
const (
	// ExitCodeConfigValidation indicates configuration validation failure
	ExitCodeConfigValidation = 2
)

// AppError represents an application-level error with code and context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound, ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeExportBusy:
		return http.StatusConflict
	case ErrCodeNoCredit:
		return http.StatusPaymentRequired
	case ErrCodeRasterTimeout, ErrCodeExportTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeBrowserLaunch:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the failure is worth retrying as-is.
// Only timeouts qualify; resource exhaustion and validation failures do not.
func (e *AppError) Retryable() bool {
	return e.Code == ErrCodeRasterTimeout || e.Code == ErrCodeExportTimeout
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// Common error constructors for convenience

// ErrInternal creates an internal server error
func ErrInternal(message string, err error) *AppError {
	return Wrap(ErrCodeInternal, message, err)
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// ErrNoCredit creates an entitlement-exhausted error.
// This represents a business-rule stop, not a failure; callers route it
// to an upsell response rather than an error log.
func ErrNoCredit() *AppError {
	return New(ErrCodeNoCredit, "no export credit available")
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError attempts to convert an error to AppError
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}
