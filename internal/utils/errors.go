package utils

import (
	"errors"
	"net/http"
)

// APIError is the single error type surfaced to HTTP clients. It carries the status code the
// central error handler should respond with.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError with an explicit status.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}

// BadRequest reports malformed or semantically invalid input.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

// Unauthorized reports a missing or invalid identity.
func Unauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

// Forbidden reports an authenticated caller acting outside their permissions.
func Forbidden(message string) *APIError {
	return NewAPIError(http.StatusForbidden, message)
}

// NotFound reports a missing resource.
func NotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message)
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}

// Internal wraps an unexpected failure while keeping the cause for logs.
func Internal(message string, err error) *APIError {
	apiErr := NewAPIError(http.StatusInternalServerError, message)
	apiErr.Err = err
	return apiErr
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
