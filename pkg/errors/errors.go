// Package errors provides structured error types for graphmorph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - A clear split between non-fatal interaction violations and
//     structural failures
//
// # Error Codes
//
// Violation codes are reported by expand/collapse operations that were
// rejected because of the current graph state. The operation is a no-op and
// the caller may safely ignore the error:
//   - NODE_NOT_FOUND, NOT_A_GROUP, NODE_HIDDEN, ROOT_LOCKED
//   - ALREADY_EXPANDED, ALREADY_COLLAPSED
//
// Structural codes are returned by declarations and file loading and mean
// the call had no effect and must be fixed by the caller:
//   - INVALID_NAME, INVALID_PATH, GROUP_NOT_FOUND, DUPLICATE_NODE
//   - UNDECLARED_NODE, INVALID_EDGE, INVALID_CONFIG
//   - INVALID_FORMAT, FILE_NOT_FOUND, RENDER_FAILED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGroupNotFound, "group %q is not declared", path)
//	if errors.Is(err, errors.ErrCodeGroupNotFound) {
//	    // declare the group first
//	}
//
//	if errors.IsViolation(err) {
//	    // double click or stale UI state, nothing changed
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Interaction violations (non-fatal, state unchanged)
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"
	ErrCodeNotAGroup        Code = "NOT_A_GROUP"
	ErrCodeNodeHidden       Code = "NODE_HIDDEN"
	ErrCodeRootLocked       Code = "ROOT_LOCKED"
	ErrCodeAlreadyExpanded  Code = "ALREADY_EXPANDED"
	ErrCodeAlreadyCollapsed Code = "ALREADY_COLLAPSED"

	// Structural errors
	ErrCodeInvalidName    Code = "INVALID_NAME"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeGroupNotFound  Code = "GROUP_NOT_FOUND"
	ErrCodeDuplicateNode  Code = "DUPLICATE_NODE"
	ErrCodeUndeclaredNode Code = "UNDECLARED_NODE"
	ErrCodeInvalidEdge    Code = "INVALID_EDGE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeRenderFailed   Code = "RENDER_FAILED"
	ErrCodeInconsistent   Code = "INCONSISTENT_STATE"
	ErrCodeInternal       Code = "INTERNAL_ERROR"
	ErrCodeUnsupported    Code = "UNSUPPORTED"
)

var violations = map[Code]bool{
	ErrCodeNodeNotFound:     true,
	ErrCodeNotAGroup:        true,
	ErrCodeNodeHidden:       true,
	ErrCodeRootLocked:       true,
	ErrCodeAlreadyExpanded:  true,
	ErrCodeAlreadyCollapsed: true,
}

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

// IsViolation reports whether err is a rejected interaction: the operation
// was a no-op and all state is unchanged.
func IsViolation(err error) bool {
	return violations[GetCode(err)]
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
