package eval

import (
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// Scalar functions apply pervasively: they descend into nested arrays and
// pair up corresponding elements, extending rank-0 operands.

func scalar1(name string, op func(vals.Value) (vals.Value, error)) Fn1 {
	var pervade func(vals.Value) (vals.Value, error)
	pervade = func(a vals.Value) (vals.Value, error) {
		if vals.IsArray(a) {
			return vals.NewMapped1(a, pervade), nil
		}
		return op(a)
	}
	return func(_ *Frame, a, axis vals.Value) (vals.Value, error) {
		if axis != nil {
			return nil, errs.Unsupported{What: "axis argument to " + name}
		}
		return pervade(a)
	}
}

func scalar2(name string, op func(a, b vals.Value) (vals.Value, error)) Fn2 {
	var pervade func(a, b vals.Value) (vals.Value, error)
	pervade = func(a, b vals.Value) (vals.Value, error) {
		if !vals.IsArray(a) && !vals.IsArray(b) {
			return op(a, b)
		}
		return vals.Each2(a, b, pervade)
	}
	return func(_ *Frame, a, b, axis vals.Value) (vals.Value, error) {
		if axis != nil {
			return nil, errs.Unsupported{What: "axis argument to " + name}
		}
		return pervade(a, b)
	}
}

func scalarFn(name string, op1 func(vals.Value) (vals.Value, error), op2 func(a, b vals.Value) (vals.Value, error)) FunctionDescriptor {
	var fn1 Fn1
	var fn2 Fn2
	if op1 != nil {
		fn1 = scalar1(name, op1)
	}
	if op2 != nil {
		fn2 = scalar2(name, op2)
	}
	return NewGoFn(name, fn1, fn2)
}

func comparison(pred func(c int) bool) func(a, b vals.Value) (vals.Value, error) {
	return func(a, b vals.Value) (vals.Value, error) {
		c, err := vals.Compare(a, b)
		if err != nil {
			return nil, err
		}
		return vals.FromBool(pred(c)), nil
	}
}

func equals(a, b vals.Value) (vals.Value, error) {
	eq, err := vals.Equal(a, b)
	if err != nil {
		return nil, err
	}
	return vals.FromBool(eq), nil
}

func notEquals(a, b vals.Value) (vals.Value, error) {
	eq, err := vals.Equal(a, b)
	if err != nil {
		return nil, err
	}
	return vals.FromBool(!eq), nil
}

func logical(f func(x, y bool) bool) func(a, b vals.Value) (vals.Value, error) {
	return func(a, b vals.Value) (vals.Value, error) {
		x, err := vals.AsBool(a)
		if err != nil {
			return nil, err
		}
		y, err := vals.AsBool(b)
		if err != nil {
			return nil, err
		}
		return vals.FromBool(f(x, y)), nil
	}
}

func not(a vals.Value) (vals.Value, error) {
	x, err := vals.AsBool(a)
	if err != nil {
		return nil, err
	}
	return vals.FromBool(!x), nil
}

var numFns = map[string]FunctionDescriptor{
	"+": scalarFn("+", vals.Conjugate, vals.Add),
	"-": scalarFn("-", vals.Negate, vals.Sub),
	"×": scalarFn("×", vals.Signum, vals.Mul),
	"÷": scalarFn("÷", vals.Reciprocal, vals.Div),
	"⋆": scalarFn("⋆", vals.Exp, vals.Pow),
	"⍟": scalarFn("⍟", vals.Ln, vals.Log),
	"|": scalarFn("|", vals.Magnitude, vals.Residue),
	"⌈": scalarFn("⌈", vals.Ceil, vals.Max),
	"⌊": scalarFn("⌊", vals.Floor, vals.Min),

	"=": scalarFn("=", nil, equals),
	"≠": scalarFn("≠", nil, notEquals),
	"<": scalarFn("<", nil, comparison(func(c int) bool { return c < 0 })),
	">": scalarFn(">", nil, comparison(func(c int) bool { return c > 0 })),
	"≤": scalarFn("≤", nil, comparison(func(c int) bool { return c <= 0 })),
	"≥": scalarFn("≥", nil, comparison(func(c int) bool { return c >= 0 })),

	"∧": scalarFn("∧", nil, logical(func(x, y bool) bool { return x && y })),
	"∨": scalarFn("∨", nil, logical(func(x, y bool) bool { return x || y })),
	"~": scalarFn("~", not, nil),
}
