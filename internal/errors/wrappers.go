package errors

import (
	stderrors "errors"
	"fmt"
)

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configType, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configType, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_type", configType)
}

// WrapFactoryError wraps an error returned by a factory method
func WrapFactoryError(subj Subject, factory, method string, cause error) *BaseError {
	return Wrapf(FactoryErrorCode, cause, "factory %s::%s failed", factory, method).
		WithSubject(subj).
		WithContext("factory", factory).
		WithContext("method", method)
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err AutowireError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}

// CodeOf returns the error code of err, or UnknownErrorCode if err is not an AutowireError
func CodeOf(err error) ErrorCode {
	var ae AutowireError
	if stderrors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return UnknownErrorCode
}
