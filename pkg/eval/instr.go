package eval

import (
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/sym"
)

// Instruction is a node of a parsed program.
type Instruction interface {
	Eval(fm *Frame) (vals.Value, error)
	Pos() diag.Position
}

type literal struct {
	v   vals.Value
	pos diag.Position
}

func (l *literal) Pos() diag.Position { return l.pos }

func (l *literal) Eval(*Frame) (vals.Value, error) { return l.v, nil }

type varRef struct {
	sym *sym.Symbol
	pos diag.Position
}

func (r *varRef) Pos() diag.Position { return r.pos }

func (r *varRef) Eval(fm *Frame) (vals.Value, error) {
	v, err := fm.env.Lookup(r.sym)
	return v, fm.errorAt(err, r.pos)
}

type assignment struct {
	sym   *sym.Symbol
	value Instruction
	pos   diag.Position
}

func (a *assignment) Pos() diag.Position { return a.pos }

func (a *assignment) Eval(fm *Frame) (vals.Value, error) {
	v, err := a.value.Eval(fm)
	if err != nil {
		return nil, err
	}
	fm.env.Set(a.sym, v)
	return v, nil
}

// A sequence of statements. The value is that of the last statement, or ⍬ if
// there is none.
type statements struct {
	list []Instruction
	pos  diag.Position
}

func (s *statements) Pos() diag.Position { return s.pos }

func (s *statements) Eval(fm *Frame) (vals.Value, error) {
	var v vals.Value = vals.Zilde
	for _, instr := range s.list {
		var err error
		if v, err = instr.Eval(fm); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// A strand of juxtaposed values, such as 1 2 3. The elements are evaluated
// from right to left.
type strand struct {
	elems []Instruction
	pos   diag.Position
}

func (s *strand) Pos() diag.Position { return s.pos }

func (s *strand) Eval(fm *Frame) (vals.Value, error) {
	values := make([]vals.Value, len(s.elems))
	for i := len(s.elems) - 1; i >= 0; i-- {
		v, err := s.elems[i].Eval(fm)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return vals.Vector(values...), nil
}

// A list built with the ; separator.
type listInstr struct {
	elems []Instruction
	pos   diag.Position
}

func (l *listInstr) Pos() diag.Position { return l.pos }

func (l *listInstr) Eval(fm *Frame) (vals.Value, error) {
	values := make([]vals.Value, len(l.elems))
	for i, instr := range l.elems {
		v, err := instr.Eval(fm)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return vals.NewList(values...), nil
}

type call1 struct {
	fn    Function
	right Instruction
	axis  Instruction
	pos   diag.Position
}

func (c *call1) Pos() diag.Position { return c.pos }

func (c *call1) Eval(fm *Frame) (vals.Value, error) {
	a, err := c.right.Eval(fm)
	if err != nil {
		return nil, err
	}
	axis, err := evalAxis(fm, c.axis)
	if err != nil {
		return nil, err
	}
	v, err := c.fn.Call1(fm, a, axis)
	return v, fm.errorAt(err, c.pos)
}

type call2 struct {
	fn          Function
	left, right Instruction
	axis        Instruction
	pos         diag.Position
}

func (c *call2) Pos() diag.Position { return c.pos }

func (c *call2) Eval(fm *Frame) (vals.Value, error) {
	b, err := c.right.Eval(fm)
	if err != nil {
		return nil, err
	}
	a, err := c.left.Eval(fm)
	if err != nil {
		return nil, err
	}
	axis, err := evalAxis(fm, c.axis)
	if err != nil {
		return nil, err
	}
	v, err := c.fn.Call2(fm, a, b, axis)
	return v, fm.errorAt(err, c.pos)
}

func evalAxis(fm *Frame, instr Instruction) (vals.Value, error) {
	if instr == nil {
		return nil, nil
	}
	return instr.Eval(fm)
}

// Bracket indexing, as in a[1;2]. A nil entry in indices selects a whole
// axis.
type indexInstr struct {
	value   Instruction
	indices []Instruction
	pos     diag.Position
}

func (x *indexInstr) Pos() diag.Position { return x.pos }

func (x *indexInstr) Eval(fm *Frame) (vals.Value, error) {
	indices := make([]vals.Value, len(x.indices))
	for i := len(x.indices) - 1; i >= 0; i-- {
		if x.indices[i] == nil {
			continue
		}
		v, err := x.indices[i].Eval(fm)
		if err != nil {
			return nil, err
		}
		indices[i] = v
	}
	v, err := x.value.Eval(fm)
	if err != nil {
		return nil, err
	}
	result, err := vals.Index(v, indices)
	return result, fm.errorAt(err, x.pos)
}

type ifInstr struct {
	cond      Instruction
	then, els Instruction
	pos       diag.Position
}

func (x *ifInstr) Pos() diag.Position { return x.pos }

func (x *ifInstr) Eval(fm *Frame) (vals.Value, error) {
	c, err := x.cond.Eval(fm)
	if err != nil {
		return nil, err
	}
	ok, err := vals.Truthy(c)
	if err != nil {
		return nil, fm.errorAt(err, x.cond.Pos())
	}
	switch {
	case ok:
		return x.then.Eval(fm)
	case x.els != nil:
		return x.els.Eval(fm)
	default:
		return vals.Zilde, nil
	}
}

// A λ expression, which evaluates to a Lambda closing over the current
// frame.
type lambdaInstr struct {
	fn  Function
	pos diag.Position
}

func (l *lambdaInstr) Pos() diag.Position { return l.pos }

func (l *lambdaInstr) Eval(fm *Frame) (vals.Value, error) {
	return &Lambda{fn: l.fn, env: fm.env, fnName: fm.fnName}, nil
}
