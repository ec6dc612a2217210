package eval

import (
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// Operator derives a new function from one or two function operands.
type Operator interface {
	// Operands returns the number of function operands, 1 or 2.
	Operands() int
	// Combine returns the derived function. The right operand is nil for
	// operators taking one operand; axis is nil unless an axis was written
	// after the operator.
	Combine(left, right Function, axis Instruction, pos diag.Position) Function
}

type operator struct {
	operands int
	combine  func(left, right Function, axis Instruction, pos diag.Position) Function
}

func (op operator) Operands() int { return op.operands }

func (op operator) Combine(left, right Function, axis Instruction, pos diag.Position) Function {
	return op.combine(left, right, axis, pos)
}

// NewOperator returns an Operator from a function that builds the derived
// function.
func NewOperator(operands int, combine func(left, right Function, axis Instruction, pos diag.Position) Function) Operator {
	return operator{operands, combine}
}

// A function derived by an operator, built from Go closures.
type derivedFn struct {
	pos diag.Position
	fn1 Fn1
	fn2 Fn2
}

func (f *derivedFn) Pos() diag.Position { return f.pos }

func (f *derivedFn) Call1(fm *Frame, a, axis vals.Value) (vals.Value, error) {
	if f.fn1 == nil {
		return nil, errs.Unsupported{What: "derived function called with one argument"}
	}
	return f.fn1(fm, a, axis)
}

func (f *derivedFn) Call2(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
	if f.fn2 == nil {
		return nil, errs.Unsupported{What: "derived function called with two arguments"}
	}
	return f.fn2(fm, a, b, axis)
}

var builtinOperators = map[string]Operator{
	"¨": NewOperator(1, eachOp),
	"⍨": NewOperator(1, commuteOp),
	"/": NewOperator(1, reduceOp),
	"∘": NewOperator(2, composeOp),
}

// f¨ applies f to each element. The result is a lazy view, so f is called
// when the elements are accessed.
func eachOp(f, _ Function, _ Instruction, pos diag.Position) Function {
	return &derivedFn{
		pos: pos,
		fn1: func(fm *Frame, a, axis vals.Value) (vals.Value, error) {
			return vals.Each1(a, func(x vals.Value) (vals.Value, error) {
				return f.Call1(fm, x, axis)
			})
		},
		fn2: func(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
			return vals.Each2(a, b, func(x, y vals.Value) (vals.Value, error) {
				return f.Call2(fm, x, y, axis)
			})
		},
	}
}

// f⍨ swaps the arguments of f, or duplicates the argument when called with
// one.
func commuteOp(f, _ Function, _ Instruction, pos diag.Position) Function {
	return &derivedFn{
		pos: pos,
		fn1: func(fm *Frame, a, axis vals.Value) (vals.Value, error) {
			return f.Call2(fm, a, a, axis)
		},
		fn2: func(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
			return f.Call2(fm, b, a, axis)
		},
	}
}

// f∘g calls f with the result of g.
func composeOp(f, g Function, _ Instruction, pos diag.Position) Function {
	return &derivedFn{
		pos: pos,
		fn1: func(fm *Frame, a, axis vals.Value) (vals.Value, error) {
			x, err := g.Call1(fm, a, nil)
			if err != nil {
				return nil, err
			}
			return f.Call1(fm, x, axis)
		},
		fn2: func(fm *Frame, a, b, axis vals.Value) (vals.Value, error) {
			y, err := g.Call1(fm, b, nil)
			if err != nil {
				return nil, err
			}
			return f.Call2(fm, a, y, axis)
		},
	}
}

// f/ folds f from the right along an axis, the last one by default.
func reduceOp(f, _ Function, opAxis Instruction, pos diag.Position) Function {
	return &derivedFn{
		pos: pos,
		fn1: func(fm *Frame, a, axis vals.Value) (vals.Value, error) {
			if opAxis != nil {
				var err error
				if axis, err = opAxis.Eval(fm); err != nil {
					return nil, err
				}
			}
			return reduce(fm, f, a, axis)
		},
	}
}

func reduce(fm *Frame, f Function, v, axisArg vals.Value) (vals.Value, error) {
	if vals.Rank(v) == 0 {
		return v, nil
	}
	d := v.Dims()
	axis := d.Rank() - 1
	if axisArg != nil {
		var err error
		if axis, err = vals.AsInt(axisArg); err != nil {
			return nil, err
		}
		if axis < 0 || axis >= d.Rank() {
			return nil, errs.InvalidAxis{Axis: axis, Rank: d.Rank()}
		}
	}
	n := d.At(axis)
	resultDims, err := d.Remove(axis)
	if err != nil {
		return nil, err
	}
	stride := d.Multipliers()[axis]
	block := stride * n
	cell := func(i int) (vals.Value, error) {
		if n == 0 {
			return reductionIdentity(f)
		}
		base := (i/stride)*block + i%stride
		acc, err := v.ValueAt(base + (n-1)*stride)
		if err != nil {
			return nil, err
		}
		for k := n - 2; k >= 0; k-- {
			x, err := v.ValueAt(base + k*stride)
			if err != nil {
				return nil, err
			}
			if acc, err = f.Call2(fm, x, acc, nil); err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
	if resultDims.Rank() == 0 {
		return cell(0)
	}
	return vals.Make(resultDims, cell)
}

// Reducing an empty axis only works for functions with an identity element.
func reductionIdentity(f Function) (vals.Value, error) {
	if g, ok := f.(*goFn); ok {
		switch g.name {
		case "+", "-", "∨", "≠", "|":
			return vals.Int(0), nil
		case "×", "÷", "∧", "=", "⋆":
			return vals.Int(1), nil
		}
	}
	return nil, errs.Domain{What: "reduction of an empty axis needs a function with an identity",
		Actual: "a function without one"}
}
