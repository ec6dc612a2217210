// Package errs declares the reasons for errors raised while evaluating code.
//
// None of them carry a position; the evaluator attaches one when it wraps a
// reason into an exception.
package errs

import (
	"fmt"
	"strconv"
	"strings"
)

// IncompatibleType is returned when a value has a type or a magnitude that an
// operation cannot handle.
type IncompatibleType struct {
	Message string
}

func (e IncompatibleType) Error() string {
	return "incompatible type: " + e.Message
}

// Domain is returned when a value has an acceptable type but is outside the
// domain of an operation, for example a division by zero.
type Domain struct {
	What   string
	Actual string
}

func (e Domain) Error() string {
	return fmt.Sprintf("domain error: %s, but is %s", e.What, e.Actual)
}

// DimensionMismatch is returned when the shapes of values are incompatible.
// A is the shape that was expected or the shape of the first operand, and B
// the shape that was given or the shape of the second operand.
type DimensionMismatch struct {
	What string
	A, B []int
}

func (e DimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: %s: %s and %s",
		e.What, showShape(e.A), showShape(e.B))
}

func showShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// InvalidAxis is returned when an axis argument does not name an axis of the
// value it is applied to.
type InvalidAxis struct {
	Axis, Rank int
}

func (e InvalidAxis) Error() string {
	return fmt.Sprintf("invalid axis: %d is not an axis of a rank %d value", e.Axis, e.Rank)
}

// IndexOutOfBounds is returned when an index is outside its valid range,
// which is [0, Bound).
type IndexOutOfBounds struct {
	What         string
	Index, Bound int
}

func (e IndexOutOfBounds) Error() string {
	if e.Bound <= 0 {
		return fmt.Sprintf("index out of bounds: %s has no valid value, but is %d",
			e.What, e.Index)
	}
	return fmt.Sprintf("index out of bounds: %s must be from 0 to %d, but is %d",
		e.What, e.Bound-1, e.Index)
}

// Unassigned is returned when a variable is referenced before it has a value.
type Unassigned struct {
	Name string
}

func (e Unassigned) Error() string {
	return "variable not assigned: " + e.Name
}

// ArityMismatch is returned when a function is called with a wrong number of
// arguments. A negative ValidHigh means there is no upper limit.
type ArityMismatch struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    int
}

func (e ArityMismatch) Error() string {
	switch {
	case e.ValidHigh == e.ValidLow:
		return fmt.Sprintf("arity mismatch: %v must be %v, but is %v",
			e.What, nValues(e.ValidLow), nValues(e.Actual))
	case e.ValidHigh == -1:
		return fmt.Sprintf("arity mismatch: %v must be %v or more values, but is %v",
			e.What, e.ValidLow, nValues(e.Actual))
	default:
		return fmt.Sprintf("arity mismatch: %v must be %v to %v values, but is %v",
			e.What, e.ValidLow, e.ValidHigh, nValues(e.Actual))
	}
}

func nValues(n int) string {
	if n == 1 {
		return "1 value"
	}
	return strconv.Itoa(n) + " values"
}

// Unsupported is returned when a function is called in a way it does not
// support, for example with one argument when it only takes two.
type Unsupported struct {
	What string
}

func (e Unsupported) Error() string {
	return "unsupported: " + e.What
}

// MagnitudeOverflow is returned when a number does not fit the width an
// operation requires.
type MagnitudeOverflow struct {
	Value string
}

func (e MagnitudeOverflow) Error() string {
	return "magnitude overflow: " + e.Value + " does not fit in an integer"
}
