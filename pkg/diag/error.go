package diag

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrorTag is used to parameterize [Error] into different concrete types. The
// ErrorTag method is called with a zero receiver, and its return value is used
// in [Error.Show].
type ErrorTag interface {
	ErrorTag() string
}

// Error represents an error with a position that can be showed.
type Error[T ErrorTag] struct {
	Message string
	Pos     Position
	// Optional extended description, shown on lines after the message.
	Details string
	// Optional underlying error, returned by Unwrap. Packages use it to expose
	// sentinel errors that classify the failure.
	Cause error
}

// Error returns the message prefixed with the position, in the form
// "line:col: [in function NAME: ]message".
func (e *Error[T]) Error() string {
	return e.Pos.Prefix() + e.Message
}

// Unwrap returns the cause of the error.
func (e *Error[T]) Unwrap() error { return e.Cause }

// Position returns the position of the error.
func (e *Error[T]) Position() Position { return e.Pos }

var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error.
func (e *Error[T]) Show(indent string) string {
	var tag T
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s%s%s", title(tag.ErrorTag()),
		messageStart, e.Message, messageEnd)
	if !e.Pos.IsZero() {
		sb.WriteString("\n" + indent + "  at " + e.Pos.String())
	}
	if e.Details != "" {
		for _, line := range strings.Split(e.Details, "\n") {
			sb.WriteString("\n" + indent + "  " + line)
		}
	}
	return sb.String()
}

// Returns s with the first codepoint changed to title case.
func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}
