// Package adapters builds web framework handlers around autowired
// controllers: every request gets a fresh controller, injected before its
// handler runs.
package adapters

import (
	"errors"
	"fmt"
	"net/http"
)

// Injector is the part of autowire.Injector the adapters use
type Injector interface {
	Inject(obj any) error
}

// HttpError represents an HTTP error with a specific status code and message
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewHttpErrorWithDetails creates a new HttpError with additional details
func NewHttpErrorWithDetails(statusCode int, message string, details any) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
	}
}

// errorResponse returns the status and JSON body reported for err.
// Injection failures and plain errors are internal server errors.
func errorResponse(err error) (int, map[string]any) {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		body := map[string]any{"error": httpErr.Message}
		if httpErr.Details != nil {
			body["details"] = httpErr.Details
		}
		return httpErr.StatusCode, body
	}
	return http.StatusInternalServerError, map[string]any{"error": err.Error()}
}

// construct returns a new controller
func construct[T any](newFn func() *T) *T {
	if newFn == nil {
		return new(T)
	}
	return newFn()
}
