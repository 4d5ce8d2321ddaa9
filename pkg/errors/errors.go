package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes, grouped by where in a run they can occur
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrExists       ErrorCode = "ALREADY_EXISTS"

	// Configuration errors are fatal before analysis starts
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Pattern compilation errors are fatal at validation time, never during matching
	ErrPatternCompile ErrorCode = "PATTERN_COMPILE"

	// Path resolution errors are scoped to a single root
	ErrPathResolve ErrorCode = "PATH_RESOLVE"

	// File errors are scoped to a single file and become diagnostics
	ErrFileRead        ErrorCode = "FILE_READ"
	ErrStructuralParse ErrorCode = "STRUCTURAL_PARSE"

	// Cache persistence errors are logged and never abort a run
	ErrCacheIO ErrorCode = "CACHE_IO"
)

// GuardError represents a structured error with code and details
type GuardError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *GuardError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *GuardError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *GuardError) Is(target error) bool {
	var targetErr *GuardError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new GuardError with the given code and message
func New(code ErrorCode, message string) *GuardError {
	return &GuardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new GuardError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GuardError {
	return &GuardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a GuardError
func Wrap(err error, code ErrorCode, message string) *GuardError {
	if err == nil {
		return nil
	}
	return &GuardError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *GuardError {
	if err == nil {
		return nil
	}
	return &GuardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *GuardError) WithDetail(key string, value interface{}) *GuardError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var guardErr *GuardError
	if errors.As(err, &guardErr) {
		return guardErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a GuardError
func GetErrorCode(err error) ErrorCode {
	var guardErr *GuardError
	if errors.As(err, &guardErr) {
		return guardErr.Code
	}
	return ErrUnknown
}

// IsFatal reports whether the error must stop a run before analysis begins.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid, ErrPatternCompile:
		return true
	}
	return false
}
