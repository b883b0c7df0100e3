// Package errors defines the service error taxonomy and its HTTP status mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an error category in API responses.
type ErrorCode string

const (
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// ServiceError is an error with an HTTP status and a stable code.
type ServiceError struct {
	Code       ErrorCode
	Message    string
	Details    map[string]interface{}
	HTTPStatus int
	cause      error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ServiceError) Unwrap() error {
	return e.cause
}

// WithDetails attaches a key/value pair for the response body.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// InvalidInput creates a 400 error for malformed or failing-validation input.
func InvalidInput(message string) *ServiceError {
	return &ServiceError{Code: CodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "Authentication required"
	}
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *ServiceError {
	if message == "" {
		message = "Access denied"
	}
	return &ServiceError{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// NotFound creates a 404 error for single-record lookups with no match.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict creates a 409 error, e.g. duplicate registration.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// RateLimited creates a 429 error.
func RateLimited(message string) *ServiceError {
	if message == "" {
		message = "Too many requests"
	}
	return &ServiceError{Code: CodeRateLimited, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// Internal creates a 500 error wrapping the cause. The cause is logged, never
// sent to clients in production mode.
func Internal(message string, cause error) *ServiceError {
	if message == "" {
		message = "Internal Server Error"
	}
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, cause: cause}
}

// InvalidToken creates a 401 for missing, malformed or unresolvable tokens.
func InvalidToken(cause error) *ServiceError {
	return &ServiceError{
		Code:       CodeUnauthorized,
		Message:    "Invalid or expired token",
		HTTPStatus: http.StatusUnauthorized,
		cause:      cause,
	}
}

// GetServiceError returns err as a *ServiceError, or nil if it is not one.
func GetServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
