// Package errors provides structured error types for gofund.
//
// Error codes separate the fatal failure classes of a run: configuration
// problems detected before any network call, authentication failures with
// fixed remediation text, and protocol failures talking to the forge.
// Recoverable conditions (a vanished repository, one unparseable funding
// link) are never represented as errors; they are logged and skipped.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAuth, "invalid token")
//	if errors.Is(err, errors.ErrCodeAuth) {
//	    // print remediation, exit non-zero
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the fatal failure classes.
const (
	// ErrCodeConfig: missing or invalid configuration, caught before any
	// network call is made.
	ErrCodeConfig Code = "CONFIGURATION_ERROR"

	// ErrCodeAuth: HTTP 401 or insufficient token scopes.
	ErrCodeAuth Code = "AUTHENTICATION_ERROR"

	// ErrCodeProtocol: unexpected status, malformed response shape, or an
	// unrecognized error entry from the forge.
	ErrCodeProtocol Code = "PROTOCOL_ERROR"

	// ErrCodeMetadata: the external metadata tool failed or produced
	// unparseable output.
	ErrCodeMetadata Code = "METADATA_ERROR"

	// ErrCodeInternal: unexpected internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
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

// Is reports whether err carries the given error code anywhere in its chain.
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (with cause) without the code
// prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
