package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for mend errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// MendError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type MendError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *MendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *MendError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a MendError with the same Code.
func (e *MendError) Is(target error) bool {
	var mendErr *MendError
	if errors.As(target, &mendErr) {
		return e.Code == mendErr.Code
	}
	return false
}

// NewError creates a new non-retryable MendError with the given code and message.
func NewError(code ErrorCode, message string) *MendError {
	return &MendError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable MendError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *MendError {
	return &MendError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable MendError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *MendError {
	return &MendError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// WrapRetryableError creates a new retryable MendError that wraps an existing error.
func WrapRetryableError(code ErrorCode, message string, cause error) *MendError {
	return &MendError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// HasCode checks whether err (or anything it wraps) is a MendError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var mendErr *MendError
	if errors.As(err, &mendErr) {
		return mendErr.Code == code
	}
	return false
}

// CodeOf returns the error code of err if it is a MendError, or an empty code otherwise.
func CodeOf(err error) ErrorCode {
	var mendErr *MendError
	if errors.As(err, &mendErr) {
		return mendErr.Code
	}
	return ""
}
