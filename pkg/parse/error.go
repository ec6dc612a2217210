package parse

import (
	"errors"

	"src.rho.sh/pkg/diag"
)

// Error is a parse error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "parse error" }

// Causes of parse errors. Use errors.Is to classify an *Error.
var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrMalformedNumber    = errors.New("malformed number")
	ErrMalformedSymbol    = errors.New("malformed symbol")
	ErrIllegalDeclaration = errors.New("illegal declaration")
)

// NewError builds a parse error at pos. The message is the text of cause,
// followed by detail if it is not empty.
func NewError(pos diag.Position, cause error, detail string) *Error {
	msg := cause.Error()
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{Message: msg, Pos: pos, Cause: cause}
}

// GetError returns the parse error in the chain of err, or nil.
func GetError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
