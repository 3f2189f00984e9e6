// Package errors provides structured error types for dplace.
//
// Every error carries a machine-readable category code and, where the condition
// has a stable identity, a numeric message id. The numeric ids are stable
// across releases so that regression logs can be compared by id rather than by
// message text.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: caller-supplied data is malformed (design, script, stream)
//   - NOT_FOUND_*: a referenced object does not exist
//   - INTERNAL_*: an internal consistency check failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConsistency, 101, "unexpected total node count: expected %d, got %d", want, got)
//	if errors.Is(err, errors.ErrCodeConsistency) {
//	    // the run did not complete
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDesign, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidDesign Code = "INVALID_DESIGN"
	ErrCodeInvalidScript Code = "INVALID_SCRIPT"
	ErrCodeInvalidStream Code = "INVALID_STREAM"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeConsistency Code = "INTERNAL_CONSISTENCY"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code, an optional numeric id and an
// optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Num     int    // Stable message id (0 when the condition has none)
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Num != 0 {
		prefix = fmt.Sprintf("%s[DPO-%04d]", e.Code, e.Num)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code, message id and formatted message.
func New(code Code, num int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Num:     num,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetNum extracts the numeric message id from an error.
// Returns 0 if the error is not an *Error or carries no id.
func GetNum(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Num
	}
	return 0
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
