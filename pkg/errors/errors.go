package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors, surfaced when a job's templates are built
	ErrConfigLoad      ErrorCode = "CONFIG_LOAD"
	ErrConfigParse     ErrorCode = "CONFIG_PARSE"
	ErrConfigValid     ErrorCode = "CONFIG_INVALID"
	ErrPatternClash    ErrorCode = "PATTERN_CLASH"
	ErrPathTypeUnknown ErrorCode = "PATH_TYPE_UNKNOWN"
	ErrReservedWord    ErrorCode = "RESERVED_WORD"

	// Template errors
	ErrParseFailed    ErrorCode = "PARSE_FAILED"
	ErrMissingKeys    ErrorCode = "MISSING_KEYS"
	ErrTokenInvalid   ErrorCode = "TOKEN_INVALID"
	ErrTokenNotFound  ErrorCode = "TOKEN_NOT_FOUND"
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"

	// Discovery errors
	ErrRootNotAbs ErrorCode = "ROOT_NOT_ABS"
	ErrAborted    ErrorCode = "ABORTED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
)

// ForgeError represents a structured error with code and details
type ForgeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ForgeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ForgeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ForgeError) Is(target error) bool {
	var targetErr *ForgeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ForgeError with the given code and message
func New(code ErrorCode, message string) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ForgeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ForgeError {
	return &ForgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ForgeError
func Wrap(err error, code ErrorCode, message string) *ForgeError {
	if err == nil {
		return nil
	}
	return &ForgeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ForgeError {
	if err == nil {
		return nil
	}
	return &ForgeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// NewMissingKeys builds the error returned when a template is formatted
// without values for every remaining placeholder. The full sorted key set
// is reported, not just the first absent key.
func NewMissingKeys(keys []string) *ForgeError {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	err := Newf(ErrMissingKeys, "missing keys: %s", strings.Join(sorted, ", "))
	return err.WithDetail("keys", sorted)
}

// MissingKeys returns the key set carried by a MISSING_KEYS error, or nil
func MissingKeys(err error) []string {
	if !IsErrorCode(err, ErrMissingKeys) {
		return nil
	}
	details := GetErrorDetails(err)
	keys, _ := details["keys"].([]string)
	return keys
}

// WithDetail adds a detail to the error
func (e *ForgeError) WithDetail(key string, value interface{}) *ForgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ForgeError) WithDetails(details map[string]interface{}) *ForgeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ForgeError
func GetErrorCode(err error) ErrorCode {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ForgeError
func GetErrorDetails(err error) map[string]interface{} {
	var forgeErr *ForgeError
	if errors.As(err, &forgeErr) {
		return forgeErr.Details
	}
	return nil
}
