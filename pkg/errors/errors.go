// Package errors provides structured error types for ptplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the plotting core, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Non-fatal warnings collected alongside successful results
//
// # Error Codes
//
// The plotting core raises a small, fixed taxonomy:
//   - CONFIGURATION: duplicate facet/aesthetics/animation layers, mutually
//     exclusive parameters, protected style attributes
//   - MAPPING: an expression references an unknown column or fails to evaluate
//   - LENGTH_MISMATCH: an externally supplied series has the wrong row count
//   - LOOKUP: an unknown key against an injected lookup table
//   - EMPTY_RESULT: a filter produced no rows where rows were required
//
// The remaining codes are used by the outer surfaces (CLI, HTTP API, storage).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfiguration, "only one of num_col or num_row may be set")
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMapping, origErr, "evaluate %q", expr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Plot composition errors
	ErrCodeConfiguration  Code = "CONFIGURATION"
	ErrCodeMapping        Code = "MAPPING"
	ErrCodeLengthMismatch Code = "LENGTH_MISMATCH"
	ErrCodeLookup         Code = "LOOKUP"
	ErrCodeEmptyResult    Code = "EMPTY_RESULT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodePlotNotFound Code = "PLOT_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// LengthMismatch reports that a supplied series named name has got rows
// while the dataset it is aligned with has want rows.
func LengthMismatch(name string, got, want int) *Error {
	return New(ErrCodeLengthMismatch,
		"lengths must match: %s has length %d but the dataset has length %d", name, got, want)
}

// Warning is a non-fatal condition surfaced next to a successful result.
// Warnings are collected, never returned as errors.
type Warning struct {
	Code    Code
	Message string
}

// NewWarning creates a warning with the given code and formatted message.
func NewWarning(code Code, format string, args ...any) *Warning {
	return &Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// String formats the warning the same way Error formats errors.
func (w *Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// EmptyResult creates the warning emitted when a partition step yields no rows.
func EmptyResult(format string, args ...any) *Warning {
	return NewWarning(ErrCodeEmptyResult, format, args...)
}
