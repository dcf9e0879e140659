// Package errors provides structured error types for slfkit.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the converter, verifier and harness
//   - Machine-readable error codes for programmatic handling
//   - Actionable messages that name the file and line at fault
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - MALFORMED_*, TRUNCATED_*, *_OUT_OF_RANGE: graph description parse failures
//   - IO_*: file system failures
//   - INVALID_*: configuration and input validation failures
//   - ENGINE_*: failures of the external matching engine
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedHeader, "expected marker %q, found %q", "t", tok).At(path, 1)
//	if errors.Is(err, errors.ErrCodeMalformedHeader) {
//	    // Handle header error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIOWrite, origErr, "rename %s", tmp)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph description parse errors
	ErrCodeMalformedHeader Code = "MALFORMED_HEADER"
	ErrCodeMalformedLine   Code = "MALFORMED_LINE"
	ErrCodeEdgeOutOfRange  Code = "EDGE_OUT_OF_RANGE"
	ErrCodeTruncatedFile   Code = "TRUNCATED_FILE"

	// File system errors
	ErrCodeIORead  Code = "IO_READ"
	ErrCodeIOWrite Code = "IO_WRITE"

	// Verification
	ErrCodeVerificationMismatch Code = "VERIFICATION_MISMATCH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// External engine errors
	ErrCodeEngineFailed Code = "ENGINE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, an optional source position and
// an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	File    string // File the error refers to (optional)
	Line    int    // 1-based line number within File (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
// The format is "CODE: file:line: message: cause" with absent parts omitted.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if pos := e.Position(); pos != "" {
		b.WriteString(pos)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Position returns "file:line", "file", or "" depending on which fields are set.
func (e *Error) Position() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d", e.File, e.Line)
	case e.File != "":
		return e.File
	case e.Line > 0:
		return fmt.Sprintf("line %d", e.Line)
	}
	return ""
}

// At records the file and line the error refers to and returns e.
func (e *Error) At(file string, line int) *Error {
	e.File = file
	e.Line = line
	return e
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the position, message and cause without the code
// prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		msg := e.Message
		if pos := e.Position(); pos != "" {
			msg = pos + ": " + msg
		}
		if e.Cause != nil {
			msg += ": " + UserMessage(e.Cause)
		}
		return msg
	}
	return err.Error()
}
