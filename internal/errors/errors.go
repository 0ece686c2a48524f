// Package errors defines stable error codes for recase failure modes.
package errors

import "fmt"

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseFailure indicates the source could not be parsed; the file is
	// skipped and its original text preserved.
	ParseFailure ErrorCode = "PARSE_FAILURE"
	// PolicyInvalid indicates the naming policy failed validation.
	PolicyInvalid ErrorCode = "POLICY_INVALID"
	// WriteFailed indicates a rewritten file could not be written back.
	WriteFailed ErrorCode = "WRITE_FAILED"
	// HistoryUnavailable indicates the history database could not be opened.
	HistoryUnavailable ErrorCode = "HISTORY_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Position identifies a location in a source file, when known.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// RecaseError represents a recase error with code, message, and the file
// it concerns.
type RecaseError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	File     string    `json:"file,omitempty"`
	Position *Position `json:"position,omitempty"`
	cause    error     // Underlying error (not exported to JSON)
}

// New creates a new RecaseError
func New(code ErrorCode, message string, cause error) *RecaseError {
	return &RecaseError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// NewFileError creates a RecaseError tied to a file, with an optional
// position.
func NewFileError(code ErrorCode, message, file string, pos *Position, cause error) *RecaseError {
	return &RecaseError{
		Code:     code,
		Message:  message,
		File:     file,
		Position: pos,
		cause:    cause,
	}
}

// Error implements the error interface
func (e *RecaseError) Error() string {
	loc := e.File
	if e.Position != nil {
		loc = fmt.Sprintf("%s:%d:%d", e.File, e.Position.Line, e.Position.Column)
	}
	if loc != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, loc, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *RecaseError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the error code from an error, or InternalError when
// the error is not a RecaseError.
func CodeOf(err error) ErrorCode {
	if re, ok := err.(*RecaseError); ok {
		return re.Code
	}
	return InternalError
}
