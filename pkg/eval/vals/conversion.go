package vals

import (
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
)

// StringOf returns the content of a character array as a Go string. A single
// character and the empty array are also accepted.
func StringOf(v Value) (string, error) {
	switch v := v.(type) {
	case *String:
		return v.String(), nil
	case Char:
		return string(rune(v)), nil
	}
	if IsArray(v) && Rank(v) == 1 {
		if Size(v) == 0 {
			return "", nil
		}
		s, ok, err := charsOf(v)
		if err != nil {
			return "", err
		}
		if ok {
			return s, nil
		}
	}
	return "", errs.IncompatibleType{Message: "expected a string, got " + describe(v)}
}

// FromStrings returns a vector of strings.
func FromStrings(ss ...string) Value {
	if len(ss) == 0 {
		return Zilde
	}
	elems := make([]Value, len(ss))
	for i, s := range ss {
		elems[i] = FromString(s)
	}
	return &Concrete{dims: dims.Of(len(ss)), elems: elems, collapsed: true}
}

// Truthy reports whether a value counts as true in a conditional: it must be
// a number, or an array whose first element is a number, and non-zero.
func Truthy(v Value) (bool, error) {
	if IsArray(v) {
		if Size(v) == 0 {
			return false, nil
		}
		first, err := v.ValueAt(0)
		if err != nil {
			return false, err
		}
		return Truthy(first)
	}
	if !IsNumber(v) {
		return false, errs.IncompatibleType{Message: "condition must be a number, got " + v.Kind().String()}
	}
	return !isZero(v), nil
}

func describe(v Value) string {
	if IsArray(v) {
		return "array of shape " + v.Dims().String()
	}
	return v.Kind().String()
}

// FromInt converts a Go int to a value.
func FromInt(i int) Value { return Int(i) }

// FromFloat converts a Go float to a value. Floats with an integral value
// stay floats.
func FromFloat(f float64) Value { return Float(f) }

// EnsureNumber returns v if it is a numeric scalar, the sole element of v if
// it is a rank-0 array holding one, and an error otherwise.
func EnsureNumber(v Value) (Value, error) {
	v, err := Unwrap(v)
	if err != nil {
		return nil, err
	}
	if !IsNumber(v) {
		return nil, errs.IncompatibleType{Message: "expected a number, got " + describe(v)}
	}
	return v, nil
}
