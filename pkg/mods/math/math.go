// Package math implements the math module, with elementary functions that
// are not builtins and some constants.
//
// All functions are scalar functions and apply to each element of an array.
// Functions of a real argument switch to the complex version when the real
// result is undefined, so that math:sqrt ¯4 is 0J2.
package math

import (
	"math"
	"math/cmplx"
	"strconv"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// Module is the math module.
var Module eval.Module = module{}

type module struct{}

func (module) Name() string { return "math" }

func (module) Init(e *eval.Engine) error {
	fns := make(map[string]eval.FunctionDescriptor)
	for name, f := range elementary {
		fns[name] = scalarFn(name, f.apply(name))
	}
	fns["round"] = scalarFn("round", toInt(math.RoundToEven))
	fns["trunc"] = scalarFn("trunc", toInt(math.Trunc))
	fns["isNaN"] = scalarFn("isNaN", test(math.IsNaN))
	fns["isInf"] = scalarFn("isInf", test(func(f float64) bool { return math.IsInf(f, 0) }))
	ns := e.AddGoFns("math", fns)

	e.SetGlobal(ns.InternAndExport("pi"), vals.Float(math.Pi))
	e.SetGlobal(ns.InternAndExport("e"), vals.Float(math.E))
	e.SetGlobal(ns.InternAndExport("inf"), vals.Float(math.Inf(1)))
	e.SetGlobal(ns.InternAndExport("nan"), vals.Float(math.NaN()))
	return nil
}

type fn struct {
	real func(float64) float64
	cplx func(complex128) complex128
}

var elementary = map[string]fn{
	"sqrt":  {math.Sqrt, cmplx.Sqrt},
	"sin":   {math.Sin, cmplx.Sin},
	"cos":   {math.Cos, cmplx.Cos},
	"tan":   {math.Tan, cmplx.Tan},
	"asin":  {math.Asin, cmplx.Asin},
	"acos":  {math.Acos, cmplx.Acos},
	"atan":  {math.Atan, cmplx.Atan},
	"sinh":  {math.Sinh, cmplx.Sinh},
	"cosh":  {math.Cosh, cmplx.Cosh},
	"tanh":  {math.Tanh, cmplx.Tanh},
	"log10": {math.Log10, cmplx.Log10},
	"log2":  {math.Log2, func(c complex128) complex128 { return cmplx.Log(c) / math.Ln2 }},
}

func (f fn) apply(name string) func(vals.Value) (vals.Value, error) {
	return func(v vals.Value) (vals.Value, error) {
		n, err := vals.EnsureNumber(v)
		if err != nil {
			return nil, err
		}
		if c, ok := n.(vals.Complex); ok {
			return vals.FromComplex(f.cplx(complex128(c))), nil
		}
		x, err := vals.AsFloat(n)
		if err != nil {
			return nil, err
		}
		if r := f.real(x); !math.IsNaN(r) || math.IsNaN(x) {
			return vals.Float(r), nil
		}
		if math.IsInf(x, 0) {
			return nil, errs.Domain{What: "argument to math:" + name, Actual: formatFloat(x)}
		}
		return vals.FromComplex(f.cplx(complex(x, 0))), nil
	}
}

func toInt(round func(float64) float64) func(vals.Value) (vals.Value, error) {
	return func(v vals.Value) (vals.Value, error) {
		x, err := vals.AsFloat(v)
		if err != nil {
			return nil, err
		}
		r := round(x)
		if math.Abs(r) < 1<<63 {
			return vals.Int(r), nil
		}
		return vals.Float(r), nil
	}
}

func test(pred func(float64) bool) func(vals.Value) (vals.Value, error) {
	return func(v vals.Value) (vals.Value, error) {
		x, err := vals.AsFloat(v)
		if err != nil {
			return nil, err
		}
		return vals.FromBool(pred(x)), nil
	}
}

func scalarFn(name string, op func(vals.Value) (vals.Value, error)) eval.FunctionDescriptor {
	var pervade func(vals.Value) (vals.Value, error)
	pervade = func(a vals.Value) (vals.Value, error) {
		if vals.IsArray(a) {
			return vals.NewMapped1(a, pervade), nil
		}
		return op(a)
	}
	return eval.NewGoFn("math:"+name, func(_ *eval.Frame, a, axis vals.Value) (vals.Value, error) {
		if axis != nil {
			return nil, errs.Unsupported{What: "axis argument to math:" + name}
		}
		return pervade(a)
	}, nil)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
