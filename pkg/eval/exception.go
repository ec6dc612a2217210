package eval

import (
	"errors"
	"fmt"
	"strings"

	"src.rho.sh/pkg/diag"
)

// Exception represents an error raised while evaluating code. It is returned
// by methods like (*Engine).Eval.
type Exception interface {
	error
	diag.Shower
	diag.Positioner
	Reason() error
	StackTrace() *StackTrace
	// Makes sure that there is only one implementation of Exception.
	isException()
}

// NewException creates a new Exception raised at pos.
func NewException(reason error, pos diag.Position) Exception {
	return &exception{reason, pos, nil}
}

type exception struct {
	reason     error
	pos        diag.Position
	stackTrace *StackTrace
}

// StackTrace is a linked list of the call sites of the functions that were
// active when an exception was raised. The head is the innermost call.
type StackTrace struct {
	Name string
	Pos  diag.Position
	Next *StackTrace
}

// Reason returns the reason of err if it is an Exception. Otherwise it returns
// err itself.
func Reason(err error) error {
	if exc, ok := err.(*exception); ok {
		return exc.reason
	}
	return err
}

// GetException returns the Exception in the chain of err, or nil.
func GetException(err error) Exception {
	var exc *exception
	if errors.As(err, &exc) {
		return exc
	}
	return nil
}

func (exc *exception) isException() {}

func (exc *exception) Reason() error { return exc.reason }

func (exc *exception) Unwrap() error { return exc.reason }

func (exc *exception) Position() diag.Position { return exc.pos }

func (exc *exception) StackTrace() *StackTrace { return exc.stackTrace }

// Error returns the message of the reason, prefixed with the position.
func (exc *exception) Error() string { return exc.pos.Prefix() + exc.reason.Error() }

// Show shows the exception.
func (exc *exception) Show(indent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Exception: \033[31;1m%s\033[m", exc.reason.Error())
	if !exc.pos.IsZero() {
		sb.WriteString("\n" + indent + "  at " + exc.pos.String())
	}
	if exc.stackTrace != nil {
		sb.WriteString("\n" + indent + "Traceback:")
		for tb := exc.stackTrace; tb != nil; tb = tb.Next {
			fmt.Fprintf(&sb, "\n%s  %s called at %s", indent, tb.Name, tb.Pos)
		}
	}
	return sb.String()
}

// Adds a call site to the outer end of the stack trace.
func (exc *exception) addCallSite(name string, pos diag.Position) {
	entry := &StackTrace{Name: name, Pos: pos}
	if exc.stackTrace == nil {
		exc.stackTrace = entry
		return
	}
	tb := exc.stackTrace
	for tb.Next != nil {
		tb = tb.Next
	}
	tb.Next = entry
}
