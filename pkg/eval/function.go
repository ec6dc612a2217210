package eval

import (
	"fmt"

	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/sym"
)

// Function is a function bound to the position it is called from. The axis
// argument is nil when no axis was given.
type Function interface {
	Call1(fm *Frame, a, axis vals.Value) (vals.Value, error)
	Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error)
	Pos() diag.Position
}

// FunctionDescriptor is what the function registry holds. The parser calls
// Make for each place the function is called from.
type FunctionDescriptor interface {
	Make(pos diag.Position) Function
}

// Fn1 implements the one-argument form of a Go function.
type Fn1 func(fm *Frame, a, axis vals.Value) (vals.Value, error)

// Fn2 implements the two-argument form of a Go function.
type Fn2 func(fm *Frame, a, b, axis vals.Value) (vals.Value, error)

// NewGoFn returns a descriptor for a function implemented in Go. Either form
// may be nil, in which case calling the function in that form is an error.
func NewGoFn(name string, fn1 Fn1, fn2 Fn2) FunctionDescriptor {
	return &goFn{name: name, fn1: fn1, fn2: fn2}
}

type goFn struct {
	name string
	fn1  Fn1
	fn2  Fn2
	pos  diag.Position
}

func (f *goFn) Make(pos diag.Position) Function {
	c := *f
	c.pos = pos
	return &c
}

func (f *goFn) Pos() diag.Position { return f.pos }

func (f *goFn) Call1(fm *Frame, a, axis vals.Value) (vals.Value, error) {
	if f.fn1 == nil {
		return nil, errs.Unsupported{What: f.name + " called with one argument"}
	}
	return f.fn1(fm, a, axis)
}

func (f *goFn) Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	if f.fn2 == nil {
		return nil, errs.Unsupported{What: f.name + " called with two arguments"}
	}
	return f.fn2(fm, a, b, axis)
}

// A function declared with ∇. Its body is set once the parser has read it,
// so that it can call itself.
type userFn struct {
	name        string
	left, right []*sym.Symbol
	body        Instruction
}

func (d *userFn) Make(pos diag.Position) Function { return &userFnCall{d, pos} }

type userFnCall struct {
	*userFn
	pos diag.Position
}

func (c *userFnCall) Pos() diag.Position { return c.pos }

func (c *userFnCall) Call1(fm *Frame, a, axis vals.Value) (vals.Value, error) {
	return c.call(fm, nil, a, axis)
}

func (c *userFnCall) Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	if len(c.left) == 0 {
		return nil, errs.Unsupported{What: "function " + c.name + " called with a left argument"}
	}
	return c.call(fm, a, b, axis)
}

func (c *userFnCall) call(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	if axis != nil {
		return nil, errs.Unsupported{What: "axis argument to function " + c.name}
	}
	env := fm.root.Child()
	if a != nil {
		if err := bindParams(env, c.name, c.left, a); err != nil {
			return nil, err
		}
	}
	if err := bindParams(env, c.name, c.right, b); err != nil {
		return nil, err
	}
	v, err := c.body.Eval(&Frame{fm.Engine, env, c.name})
	if err != nil {
		if exc, ok := err.(*exception); ok {
			exc.addCallSite(c.name, c.pos.WithFn(fm.fnName))
		}
		return nil, err
	}
	return v, nil
}

// Binds the parameters of a function. A single parameter receives the whole
// argument; several parameters require a list with one element for each.
func bindParams(env *Env, fnName string, params []*sym.Symbol, v vals.Value) error {
	if len(params) == 1 {
		env.Set(params[0], v)
		return nil
	}
	l, ok := v.(*vals.List)
	if !ok || l.Len() != len(params) {
		n := 1
		if ok {
			n = l.Len()
		}
		return errs.ArityMismatch{What: "arguments of " + fnName,
			ValidLow: len(params), ValidHigh: len(params), Actual: n}
	}
	for i, p := range params {
		env.Set(p, l.At(i))
	}
	return nil
}

// A function written inline as {…}. The body runs in a new frame whose
// parent is the frame of the caller, with ⍵ and ⍺ bound to the arguments.
type dfn struct {
	alpha, omega *sym.Symbol
	body         Instruction
	pos          diag.Position
}

func (d *dfn) Pos() diag.Position { return d.pos }

func (d *dfn) Call1(fm *Frame, a, axis vals.Value) (vals.Value, error) {
	inner := fm.child()
	inner.env.Set(d.omega, a)
	return d.call(inner, axis)
}

func (d *dfn) Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	inner := fm.child()
	inner.env.Set(d.alpha, a)
	inner.env.Set(d.omega, b)
	return d.call(inner, axis)
}

func (d *dfn) call(fm *Frame, axis vals.Value) (vals.Value, error) {
	if axis != nil {
		return nil, errs.Unsupported{What: "axis argument to an inline function"}
	}
	return d.body.Eval(fm)
}

// Lambda is a function captured as a value with λ, together with the frame
// it was created in.
type Lambda struct {
	fn     Function
	env    *Env
	fnName string
}

func (*Lambda) Kind() vals.Kind { return vals.LambdaKind }
func (*Lambda) Dims() dims.Dims { return dims.Scalar }
func (l *Lambda) ValueAt(p int) (vals.Value, error) {
	if p != 0 {
		return nil, errs.IndexOutOfBounds{What: "index into scalar", Index: p, Bound: 1}
	}
	return l, nil
}

// FormatValue formats the lambda as an opaque marker. Lambdas have no
// readable form.
func (l *Lambda) FormatValue(s vals.Style) (string, error) {
	if s == vals.Readable {
		return "", vals.ErrNotReadable
	}
	pos := l.fn.Pos()
	return fmt.Sprintf("λ(%d:%d)", pos.Line, pos.Col), nil
}

// Call1 calls the lambda with one argument.
func (l *Lambda) Call1(fm *Frame, a, axis vals.Value) (vals.Value, error) {
	return l.fn.Call1(l.frame(fm), a, axis)
}

// Call2 calls the lambda with two arguments.
func (l *Lambda) Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	return l.fn.Call2(l.frame(fm), a, b, axis)
}

func (l *Lambda) frame(fm *Frame) *Frame {
	return &Frame{fm.Engine, l.env, l.fnName}
}

// The function called by ⍞expr: it evaluates expr on each call and calls the
// lambda it yields.
type applyFn struct {
	expr Instruction
	pos  diag.Position
}

func (f *applyFn) Pos() diag.Position { return f.pos }

func (f *applyFn) lambda(fm *Frame) (*Lambda, error) {
	v, err := f.expr.Eval(fm)
	if err != nil {
		return nil, err
	}
	v, err = vals.Unwrap(v)
	if err != nil {
		return nil, err
	}
	l, ok := v.(*Lambda)
	if !ok {
		return nil, errs.IncompatibleType{Message: "⍞ needs a function, got " + v.Kind().String()}
	}
	return l, nil
}

func (f *applyFn) Call1(fm *Frame, a, axis vals.Value) (vals.Value, error) {
	l, err := f.lambda(fm)
	if err != nil {
		return nil, err
	}
	return l.Call1(fm, a, axis)
}

func (f *applyFn) Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	l, err := f.lambda(fm)
	if err != nil {
		return nil, err
	}
	return l.Call2(fm, a, b, axis)
}
