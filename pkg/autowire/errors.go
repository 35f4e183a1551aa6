package autowire

import (
	stderrors "errors"

	"github.com/toyz/autowire/internal/errors"
)

type (
	// Error is implemented by every error the injector returns
	Error = errors.AutowireError

	// ErrorCode tells the kind of an Error
	ErrorCode = errors.ErrorCode

	// Subject names the declaration an Error is about
	Subject = errors.Subject

	AccessError         = errors.AccessError
	ValidationError     = errors.ValidationError
	MissingTypeError    = errors.MissingTypeError
	MissingServiceError = errors.MissingServiceError
	TypeMismatchError   = errors.TypeMismatchError
)

const (
	AccessErrorCode         = errors.AccessErrorCode
	ValidationErrorCode     = errors.ValidationErrorCode
	MissingTypeErrorCode    = errors.MissingTypeErrorCode
	MissingServiceErrorCode = errors.MissingServiceErrorCode
	TypeMismatchErrorCode   = errors.TypeMismatchErrorCode
	ConfigurationErrorCode  = errors.ConfigurationErrorCode
	FactoryErrorCode        = errors.FactoryErrorCode
)

// IsAccessError reports whether err is or wraps an AccessError
func IsAccessError(err error) bool {
	var target *AccessError
	return stderrors.As(err, &target)
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsMissingTypeError reports whether err is or wraps a MissingTypeError
func IsMissingTypeError(err error) bool {
	var target *MissingTypeError
	return stderrors.As(err, &target)
}

// IsMissingServiceError reports whether err is or wraps a MissingServiceError
func IsMissingServiceError(err error) bool {
	var target *MissingServiceError
	return stderrors.As(err, &target)
}

// IsTypeMismatchError reports whether err is or wraps a TypeMismatchError
func IsTypeMismatchError(err error) bool {
	var target *TypeMismatchError
	return stderrors.As(err, &target)
}

// CodeOf returns the ErrorCode of err
func CodeOf(err error) ErrorCode {
	return errors.CodeOf(err)
}
