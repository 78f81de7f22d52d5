package api

import (
	"fmt"
	"net/http"
)

// ErrorCode represents error codes used in API responses.
type ErrorCode string

const (
	// ErrorCodeInvalidRequest represents invalid request parameters.
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrorCodeNotFound represents a not found error.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeInternalError represents an internal server error.
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"

	// ErrorCodeUnavailable represents an unreachable backing service.
	ErrorCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// APIError represents an API error with status code and message.
type APIError struct {
	Code       ErrorCode
	StatusCode int
	Message    string
}

// NewAPIError creates a new API error.
func NewAPIError(code ErrorCode, statusCode int, message string) *APIError {
	return &APIError{
		Code:       code,
		StatusCode: statusCode,
		Message:    message,
	}
}

// Error returns the error message.
func (e *APIError) Error() string {
	return e.Message
}

// Write sends the error as a JSON response.
func (e *APIError) Write(w http.ResponseWriter) {
	WriteError(w, e.StatusCode, string(e.Code), e.Message)
}

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeInvalidRequest,
		http.StatusBadRequest,
		fmt.Sprintf(message, args...),
	)
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeNotFound,
		http.StatusNotFound,
		fmt.Sprintf(message, args...),
	)
}

// NewInternalServerError creates an internal server error.
func NewInternalServerError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeInternalError,
		http.StatusInternalServerError,
		fmt.Sprintf(message, args...),
	)
}

// NewUnavailableError creates an unavailable backing service error.
func NewUnavailableError(message string, args ...interface{}) *APIError {
	return NewAPIError(
		ErrorCodeUnavailable,
		http.StatusServiceUnavailable,
		fmt.Sprintf(message, args...),
	)
}
