package errors

import (
	"fmt"
	"strings"
)

// AccessError reports a visibility or instance-type precondition violation
type AccessError struct {
	*BaseError
}

// NewAccessError creates a new access error
func NewAccessError(subj Subject, format string, args ...interface{}) *AccessError {
	return &AccessError{
		BaseError: Newf(AccessErrorCode, format, args...).WithSubject(subj),
	}
}

// ValidationError reports a malformed or miscased declarative tag
type ValidationError struct {
	*BaseError
	Expected string // what was expected, e.g. the canonical tag spelling
	Actual   string // what was provided
}

// NewValidationError creates a new validation error
func NewValidationError(subj Subject, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		BaseError: Newf(ValidationErrorCode, format, args...).WithSubject(subj),
	}
}

// WithExpected records what was expected and what was provided
func (e *ValidationError) WithExpected(expected, actual string) *ValidationError {
	e.Expected = expected
	e.Actual = actual
	e.WithContext("expected", expected)
	e.WithContext("actual", actual)
	return e
}

// MissingTypeError reports a type reference that resolves under neither rule
type MissingTypeError struct {
	*BaseError
	Reference string   // reference as written in the tag
	Tried     []string // names that were looked up, in order
}

// NewMissingTypeError creates a new missing type error for the given reference
func NewMissingTypeError(subj Subject, reference string, tried []string) *MissingTypeError {
	var message string
	if len(tried) > 1 {
		quoted := make([]string, len(tried))
		for i, name := range tried {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		message = fmt.Sprintf("neither %s was found, please check the type reference", strings.Join(quoted, " nor "))
	} else {
		message = fmt.Sprintf("type %q was not found, please check the type reference", reference)
	}

	err := &MissingTypeError{
		BaseError: New(MissingTypeErrorCode, message).WithSubject(subj),
		Reference: reference,
		Tried:     append([]string(nil), tried...),
	}
	err.WithContext("reference", reference)
	return err
}

// MissingServiceError reports a resolved type without a registered service
type MissingServiceError struct {
	*BaseError
	ServiceType string // resolved type that has no service
	Factory     bool   // true when the missing service is the factory
}

// NewMissingServiceError creates a new missing service error
func NewMissingServiceError(subj Subject, serviceType string, factory bool) *MissingServiceError {
	kind := "service"
	if factory {
		kind = "factory"
	}
	err := &MissingServiceError{
		BaseError:   Newf(MissingServiceErrorCode, "%s of type %q not found", kind, serviceType).WithSubject(subj),
		ServiceType: serviceType,
		Factory:     factory,
	}
	err.WithContext("service_type", serviceType)
	return err
}

// TypeMismatchError reports a produced type that differs from the declared one
type TypeMismatchError struct {
	*BaseError
	Expected string // type the field requires
	Produced string // type the service or factory produces
}

// NewTypeMismatchError creates a new type mismatch error
func NewTypeMismatchError(subj Subject, expected, produced, format string, args ...interface{}) *TypeMismatchError {
	err := &TypeMismatchError{
		BaseError: Newf(TypeMismatchErrorCode, format, args...).WithSubject(subj),
		Expected:  expected,
		Produced:  produced,
	}
	err.WithContext("expected", expected)
	err.WithContext("produced", produced)
	return err
}
