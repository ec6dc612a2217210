package diag

import "fmt"

// Position identifies a point in a named source, optionally qualified with
// the name of the function whose body contains it.
type Position struct {
	Source string
	// 1-based. A zero Line means the position is unknown.
	Line, Col int
	FnName    string
}

// Positioner wraps the Position method.
type Positioner interface {
	Position() Position
}

// Position returns p itself, so that Position satisfies Positioner.
func (p Position) Position() Position { return p }

// IsZero reports whether p carries no location.
func (p Position) IsZero() bool { return p.Line == 0 }

// WithFn returns a copy of p attributed to the named function.
func (p Position) WithFn(name string) Position {
	p.FnName = name
	return p
}

// Prefix returns the prefix used when p is attached to a message, in the form
// "line:col: " or "line:col: in function NAME: ". It returns an empty string
// for the zero Position.
func (p Position) Prefix() string {
	if p.IsZero() {
		return ""
	}
	if p.FnName != "" {
		return fmt.Sprintf("%d:%d: in function %s: ", p.Line, p.Col, p.FnName)
	}
	return fmt.Sprintf("%d:%d: ", p.Line, p.Col)
}

// String returns "source:line:col", with the function name appended in
// parentheses when known.
func (p Position) String() string {
	s := fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
	if p.FnName != "" {
		s += " (" + p.FnName + ")"
	}
	return s
}
