// Package vals contains the value model of the language: scalars, arrays,
// lazy array views and the operations on them.
//
// Every value implements Value. Arrays report ArrayKind from Kind; all other
// kinds are scalars, which have an empty shape and a single element, namely
// themselves.
//
// Most arrays are lazy views: their elements are computed on each call to
// ValueAt, which may fail. Collapse forces an array into a concrete one.
package vals

import (
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
)

// Value is the interface implemented by all values.
type Value interface {
	Kind() Kind
	// Dims returns the shape of the value. Scalars have an empty shape.
	Dims() dims.Dims
	// ValueAt returns the element at the given index in row-major order.
	ValueAt(p int) (Value, error)
}

// Kind classifies values.
type Kind uint8

// Possible values of Kind.
const (
	IntKind Kind = iota
	FloatKind
	ComplexKind
	CharKind
	SymbolKind
	LambdaKind
	ListKind
	InternalKind
	NilKind
	ArrayKind
)

var kindNames = [...]string{
	IntKind: "integer", FloatKind: "float", ComplexKind: "complex",
	CharKind: "char", SymbolKind: "symbol", LambdaKind: "function",
	ListKind: "list", InternalKind: "internal", NilKind: "null",
	ArrayKind: "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsArray reports whether v is an array, including rank-0 arrays.
func IsArray(v Value) bool { return v.Kind() == ArrayKind }

// IsNumber reports whether v is a numeric scalar.
func IsNumber(v Value) bool {
	switch v.Kind() {
	case IntKind, FloatKind, ComplexKind:
		return true
	}
	return false
}

// Size returns the number of elements of v.
func Size(v Value) int { return v.Dims().ContentSize() }

// Rank returns the number of axes of v.
func Rank(v Value) int { return v.Dims().Rank() }

// Elements returns all the elements of v in row-major order.
func Elements(v Value) ([]Value, error) {
	n := Size(v)
	out := make([]Value, n)
	for i := range out {
		e, err := v.ValueAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// Unwrap returns the content of a rank-0 array, and v itself for any other
// value.
func Unwrap(v Value) (Value, error) {
	if IsArray(v) && Rank(v) == 0 {
		return v.ValueAt(0)
	}
	return v, nil
}

func scalarAt(v Value, p int) (Value, error) {
	if p != 0 {
		return nil, errs.IndexOutOfBounds{What: "index into scalar", Index: p, Bound: 1}
	}
	return v, nil
}

func checkIndex(p, size int) error {
	if p < 0 || p >= size {
		return errs.IndexOutOfBounds{What: "index", Index: p, Bound: size}
	}
	return nil
}
