package vals

import (
	"math"
	"math/cmplx"
	"strconv"

	"src.rho.sh/pkg/eval/errs"
)

// The numeric tower is Int ⊂ Float ⊂ Complex. Binary operations convert both
// operands to the wider of the two types. Integer operations that overflow
// produce a Float, and complex results with a zero imaginary part are
// narrowed to Float.

func numberKind(v Value, op string) (Kind, error) {
	switch k := v.Kind(); k {
	case IntKind, FloatKind, ComplexKind:
		return k, nil
	default:
		return 0, errs.IncompatibleType{Message: op + " requires numbers, got " + k.String()}
	}
}

func unify(a, b Value, op string) (Kind, error) {
	ka, err := numberKind(a, op)
	if err != nil {
		return 0, err
	}
	kb, err := numberKind(b, op)
	if err != nil {
		return 0, err
	}
	if ka > kb {
		return ka, nil
	}
	return kb, nil
}

func toFloat(v Value) float64 {
	switch v := v.(type) {
	case Int:
		return float64(v)
	case Float:
		return float64(v)
	case Complex:
		return real(v)
	}
	return math.NaN()
}

func toComplex(v Value) complex128 {
	if c, ok := v.(Complex); ok {
		return complex128(c)
	}
	return complex(toFloat(v), 0)
}

// FromComplex returns c as a number, narrowed to a Float when its imaginary
// part is zero.
func FromComplex(c complex128) Value {
	if imag(c) == 0 {
		return Float(real(c))
	}
	return Complex(c)
}

func realOnly(op string) error {
	return errs.IncompatibleType{Message: op + " is not defined for complex numbers"}
}

// Add returns a+b.
func Add(a, b Value) (Value, error) {
	k, err := unify(a, b, "+")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x, y := a.(Int), b.(Int)
		s := x + y
		if (s > x) != (y > 0) {
			return Float(float64(x) + float64(y)), nil
		}
		return s, nil
	case FloatKind:
		return Float(toFloat(a) + toFloat(b)), nil
	default:
		return FromComplex(toComplex(a) + toComplex(b)), nil
	}
}

// Sub returns a-b.
func Sub(a, b Value) (Value, error) {
	k, err := unify(a, b, "-")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x, y := a.(Int), b.(Int)
		s := x - y
		if (s < x) != (y > 0) {
			return Float(float64(x) - float64(y)), nil
		}
		return s, nil
	case FloatKind:
		return Float(toFloat(a) - toFloat(b)), nil
	default:
		return FromComplex(toComplex(a) - toComplex(b)), nil
	}
}

// Mul returns a×b.
func Mul(a, b Value) (Value, error) {
	k, err := unify(a, b, "×")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x, y := a.(Int), b.(Int)
		if x == 0 || y == 0 {
			return Int(0), nil
		}
		p := x * y
		if p/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return Float(float64(x) * float64(y)), nil
		}
		return p, nil
	case FloatKind:
		return Float(toFloat(a) * toFloat(b)), nil
	default:
		return FromComplex(toComplex(a) * toComplex(b)), nil
	}
}

// Div returns a÷b. Dividing integers exactly yields an Int. 0÷0 is 1; any
// other division by zero is a domain error.
func Div(a, b Value) (Value, error) {
	k, err := unify(a, b, "÷")
	if err != nil {
		return nil, err
	}
	if isZero(b) {
		if isZero(a) {
			return Int(1), nil
		}
		return nil, errs.Domain{What: "divisor must be nonzero", Actual: "0"}
	}
	switch k {
	case IntKind:
		x, y := a.(Int), b.(Int)
		if x%y == 0 && !(x == math.MinInt64 && y == -1) {
			return x / y, nil
		}
		return Float(float64(x) / float64(y)), nil
	case FloatKind:
		return Float(toFloat(a) / toFloat(b)), nil
	default:
		return FromComplex(toComplex(a) / toComplex(b)), nil
	}
}

func isZero(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v == 0
	case Float:
		return v == 0
	case Complex:
		return v == 0
	}
	return false
}

// Pow returns a raised to the power b.
func Pow(a, b Value) (Value, error) {
	k, err := unify(a, b, "⋆")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x, y := a.(Int), b.(Int)
		if y >= 0 {
			if r, ok := intPow(int64(x), int64(y)); ok {
				return Int(r), nil
			}
		}
		return Float(math.Pow(float64(x), float64(y))), nil
	case FloatKind:
		x, y := toFloat(a), toFloat(b)
		r := math.Pow(x, y)
		if math.IsNaN(r) && x < 0 {
			return FromComplex(cmplx.Pow(complex(x, 0), complex(y, 0))), nil
		}
		return Float(r), nil
	default:
		return FromComplex(cmplx.Pow(toComplex(a), toComplex(b))), nil
	}
}

func intPow(x, y int64) (int64, bool) {
	result := int64(1)
	for y > 0 {
		if y&1 == 1 {
			r := result * x
			if x != 0 && r/x != result {
				return 0, false
			}
			result = r
		}
		y >>= 1
		if y > 0 {
			sq := x * x
			if x != 0 && sq/x != x {
				return 0, false
			}
			x = sq
		}
	}
	return result, true
}

// Residue returns b modulo a, with the sign of a. 0|b is b.
func Residue(a, b Value) (Value, error) {
	k, err := unify(a, b, "|")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x, y := a.(Int), b.(Int)
		if x == 0 {
			return y, nil
		}
		if x == -1 {
			return Int(0), nil
		}
		r := y % x
		if r != 0 && (r < 0) != (x < 0) {
			r += x
		}
		return r, nil
	case FloatKind:
		x, y := toFloat(a), toFloat(b)
		if x == 0 {
			return Float(y), nil
		}
		r := math.Mod(y, x)
		if r != 0 && (r < 0) != (x < 0) {
			r += x
		}
		return Float(r), nil
	default:
		return nil, realOnly("|")
	}
}

// Max returns the larger of two real numbers.
func Max(a, b Value) (Value, error) {
	c, err := compareNumbers(a, b)
	if err != nil {
		return nil, err
	}
	if c >= 0 {
		return a, nil
	}
	return b, nil
}

// Min returns the smaller of two real numbers.
func Min(a, b Value) (Value, error) {
	c, err := compareNumbers(a, b)
	if err != nil {
		return nil, err
	}
	if c <= 0 {
		return a, nil
	}
	return b, nil
}

// Log returns the logarithm of b in base a.
func Log(a, b Value) (Value, error) {
	la, err := Ln(a)
	if err != nil {
		return nil, err
	}
	lb, err := Ln(b)
	if err != nil {
		return nil, err
	}
	return Div(lb, la)
}

// Negate returns -a.
func Negate(a Value) (Value, error) {
	return Sub(Int(0), a)
}

// Conjugate returns the complex conjugate of a; real numbers are returned
// unchanged.
func Conjugate(a Value) (Value, error) {
	if _, err := numberKind(a, "+"); err != nil {
		return nil, err
	}
	if c, ok := a.(Complex); ok {
		return FromComplex(cmplx.Conj(complex128(c))), nil
	}
	return a, nil
}

// Signum returns the sign of a; for complex numbers, the unit number in the
// same direction.
func Signum(a Value) (Value, error) {
	k, err := numberKind(a, "×")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x := a.(Int)
		switch {
		case x > 0:
			return Int(1), nil
		case x < 0:
			return Int(-1), nil
		}
		return Int(0), nil
	case FloatKind:
		x := toFloat(a)
		switch {
		case x > 0:
			return Int(1), nil
		case x < 0:
			return Int(-1), nil
		}
		return Int(0), nil
	default:
		c := toComplex(a)
		if c == 0 {
			return Int(0), nil
		}
		return FromComplex(c / complex(cmplx.Abs(c), 0)), nil
	}
}

// Reciprocal returns 1÷a.
func Reciprocal(a Value) (Value, error) { return Div(Int(1), a) }

// Exp returns e raised to the power a.
func Exp(a Value) (Value, error) {
	k, err := numberKind(a, "⋆")
	if err != nil {
		return nil, err
	}
	if k == ComplexKind {
		return FromComplex(cmplx.Exp(toComplex(a))), nil
	}
	return Float(math.Exp(toFloat(a))), nil
}

// Ln returns the natural logarithm of a.
func Ln(a Value) (Value, error) {
	k, err := numberKind(a, "⍟")
	if err != nil {
		return nil, err
	}
	if k == ComplexKind || toFloat(a) < 0 {
		return FromComplex(cmplx.Log(toComplex(a))), nil
	}
	return Float(math.Log(toFloat(a))), nil
}

// Magnitude returns the absolute value of a.
func Magnitude(a Value) (Value, error) {
	k, err := numberKind(a, "|")
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		x := a.(Int)
		if x == math.MinInt64 {
			return Float(-float64(x)), nil
		}
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case FloatKind:
		return Float(math.Abs(toFloat(a))), nil
	default:
		return Float(cmplx.Abs(toComplex(a))), nil
	}
}

// Ceil rounds a towards positive infinity.
func Ceil(a Value) (Value, error) { return round(a, "⌈", math.Ceil) }

// Floor rounds a towards negative infinity.
func Floor(a Value) (Value, error) { return round(a, "⌊", math.Floor) }

func round(a Value, op string, f func(float64) float64) (Value, error) {
	k, err := numberKind(a, op)
	if err != nil {
		return nil, err
	}
	switch k {
	case IntKind:
		return a, nil
	case FloatKind:
		r := f(toFloat(a))
		if r >= math.MinInt64 && r < math.MaxInt64 {
			return Int(int64(r)), nil
		}
		return Float(r), nil
	default:
		return nil, realOnly(op)
	}
}

// compareNumbers compares two real numbers.
func compareNumbers(a, b Value) (int, error) {
	k, err := unify(a, b, "comparison")
	if err != nil {
		return 0, err
	}
	switch k {
	case IntKind:
		return cmpOrdered(a.(Int), b.(Int)), nil
	case FloatKind:
		return cmpOrdered(toFloat(a), toFloat(b)), nil
	default:
		return 0, realOnly("comparison")
	}
}

func cmpOrdered[T int | int64 | Int | float64 | rune | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// numbersEqual compares two numbers of any kinds by value.
func numbersEqual(a, b Value) bool {
	k, _ := unify(a, b, "=")
	switch k {
	case IntKind:
		return a.(Int) == b.(Int)
	case FloatKind:
		return toFloat(a) == toFloat(b)
	default:
		return toComplex(a) == toComplex(b)
	}
}

// AsInt converts a value to an int. Floats must be integral. Rank-0 arrays
// are unwrapped.
func AsInt(v Value) (int, error) {
	v, err := Unwrap(v)
	if err != nil {
		return 0, err
	}
	switch v := v.(type) {
	case Int:
		if int64(int(v)) != int64(v) {
			return 0, errs.MagnitudeOverflow{Value: strconv.FormatInt(int64(v), 10)}
		}
		return int(v), nil
	case Float:
		f := float64(v)
		if f != math.Trunc(f) {
			return 0, errs.IncompatibleType{Message: "expected an integer, got " +
				strconv.FormatFloat(f, 'g', -1, 64)}
		}
		if f < math.MinInt64 || f >= math.MaxInt64 || float64(int(f)) != f {
			return 0, errs.MagnitudeOverflow{Value: strconv.FormatFloat(f, 'g', -1, 64)}
		}
		return int(f), nil
	default:
		return 0, errs.IncompatibleType{Message: "expected an integer, got " + v.Kind().String()}
	}
}

// AsFloat converts a real number to a float64.
func AsFloat(v Value) (float64, error) {
	v, err := Unwrap(v)
	if err != nil {
		return 0, err
	}
	switch v := v.(type) {
	case Int:
		return float64(v), nil
	case Float:
		return float64(v), nil
	default:
		return 0, errs.IncompatibleType{Message: "expected a real number, got " + v.Kind().String()}
	}
}

// AsBool converts 0 or 1 to a bool. Other values are a domain error.
func AsBool(v Value) (bool, error) {
	v, err := Unwrap(v)
	if err != nil {
		return false, err
	}
	switch v := v.(type) {
	case Int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case Float:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	default:
		return false, errs.IncompatibleType{Message: "expected a boolean, got " + v.Kind().String()}
	}
	return false, errs.Domain{What: "boolean must be 0 or 1", Actual: Plain.mustFormat(v)}
}

// FromBool returns 1 for true and 0 for false.
func FromBool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}
