package types

import "fmt"

// ErrorCode identifies a class of parse, type, evaluation, or resolution error.
type ErrorCode string

const (
	// S0xxx: Parser/Syntax errors
	ErrStringNotClosed ErrorCode = "S0101"
	ErrBadNumber       ErrorCode = "S0102"
	ErrBadIdentifier   ErrorCode = "S0103"
	ErrUnexpectedEnd   ErrorCode = "S0104"
	ErrSyntaxError     ErrorCode = "S0201"
	ErrExpectedToken   ErrorCode = "S0202"
	ErrUnknownAxis     ErrorCode = "S0203"
	ErrSpaceInName     ErrorCode = "S0204"

	// T1xxx: Type errors
	ErrNotANumber  ErrorCode = "T1001"
	ErrNotANodeSet ErrorCode = "T1003"

	// D3xxx: Evaluation errors
	ErrAxisNotSupported ErrorCode = "D3001"
	ErrDepthExceeded    ErrorCode = "D3020"

	// U1xxx: Resolution errors
	ErrUndefinedPrefix ErrorCode = "U1001"
	ErrUnknownModule   ErrorCode = "U1002"
)

// Error is a structured error carrying a stable code and, where known,
// the offset into the expression source at which the problem was detected.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new Error. Pass position -1 when no source offset applies.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}
