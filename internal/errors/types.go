package errors

import (
	"fmt"
	"strings"
)

// AutowireError defines the base interface for all autowire errors
type AutowireError interface {
	error
	ErrorCode() ErrorCode
	Subject() Subject
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Plan construction and injection errors
	AccessErrorCode
	ValidationErrorCode
	MissingTypeErrorCode
	MissingServiceErrorCode
	TypeMismatchErrorCode

	// Setup errors
	ConfigurationErrorCode
	FactoryErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case AccessErrorCode:
		return "AccessError"
	case ValidationErrorCode:
		return "ValidationError"
	case MissingTypeErrorCode:
		return "MissingTypeError"
	case MissingServiceErrorCode:
		return "MissingServiceError"
	case TypeMismatchErrorCode:
		return "TypeMismatchError"
	case ConfigurationErrorCode:
		return "ConfigurationError"
	case FactoryErrorCode:
		return "FactoryError"
	default:
		return "UnknownError"
	}
}

// Subject identifies the declaration an error is about
type Subject struct {
	Type       string // declaring struct type, e.g. example.com/app.HomeController
	Field      string // field name
	Annotation string // tag the problem was found in (autowire, type, return)
}

// String returns a formatted representation of the subject, e.g. app.HomeController.Logger
func (s Subject) String() string {
	switch {
	case s.Type == "" && s.Field == "":
		return "unknown field"
	case s.Field == "":
		return s.Type
	case s.Type == "":
		return s.Field
	default:
		return s.Type + "." + s.Field
	}
}

// IsEmpty returns true if the subject has no useful information
func (s Subject) IsEmpty() bool {
	return s.Type == "" && s.Field == ""
}

// BaseError provides a common implementation of the AutowireError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	Subj        Subject                // declaration the error is about
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
	Hints       []string               // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Subj.IsEmpty() {
		return msg
	}
	if e.Subj.Annotation != "" {
		return fmt.Sprintf("%s (tag %q): %s", e.Subj.String(), e.Subj.Annotation, msg)
	}
	return fmt.Sprintf("%s: %s", e.Subj.String(), msg)
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Subject returns the declaration the error is about
func (e *BaseError) Subject() Subject {
	return e.Subj
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithSubject sets the declaration the error is about
func (e *BaseError) WithSubject(subj Subject) *BaseError {
	e.Subj = subj
	if subj.Type != "" {
		e.WithContext("type", subj.Type)
	}
	if subj.Field != "" {
		e.WithContext("field", subj.Field)
	}
	if subj.Annotation != "" {
		e.WithContext("annotation", subj.Annotation)
	}
	return e
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return New(code, message).WithCause(cause)
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// MultipleErrors represents multiple errors collected together
type MultipleErrors struct {
	Errors []AutowireError
}

// Error implements the error interface
func (e *MultipleErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns all underlying errors for errors.Is / errors.As
func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add adds an error to the collection
func (e *MultipleErrors) Add(err AutowireError) {
	e.Errors = append(e.Errors, err)
}

// IsEmpty returns true if there are no errors
func (e *MultipleErrors) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Count returns the number of errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// HasCode returns true if any error of the specified type exists
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// ErrorOrNil returns nil when the collection is empty
func (e *MultipleErrors) ErrorOrNil() error {
	if e == nil || e.IsEmpty() {
		return nil
	}
	return e
}

// NewMultipleErrors creates a new MultipleErrors collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{
		Errors: make([]AutowireError, 0),
	}
}
