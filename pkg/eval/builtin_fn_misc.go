package eval

import (
	"io"

	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// Named functions that are not about arrays.

var miscFns = map[string]FunctionDescriptor{
	"print":          NewGoFn("print", printFn, nil),
	"println":        NewGoFn("println", printlnFn, nil),
	"format":         NewGoFn("format", format, nil),
	"typeof":         NewGoFn("typeof", typeOf, nil),
	"isLocallyBound": NewGoFn("isLocallyBound", isLocallyBound, nil),
	"collapse":       NewGoFn("collapse", collapse, nil),
	"close":          NewGoFn("close", closeFn, nil),
	"labels":         NewGoFn("labels", labels, withLabels),
}

var builtinFns = mergeFns(numFns, structFns, miscFns)

func mergeFns(tables ...map[string]FunctionDescriptor) map[string]FunctionDescriptor {
	all := make(map[string]FunctionDescriptor)
	for _, table := range tables {
		for name, d := range table {
			all[name] = d
		}
	}
	return all
}

// printFn writes the plain form of its argument, without a trailing newline,
// and returns the argument.
func printFn(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	s, err := vals.Format(a, vals.Plain)
	if err != nil {
		return nil, err
	}
	return a, fm.Print(s)
}

func printlnFn(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	s, err := vals.Format(a, vals.Plain)
	if err != nil {
		return nil, err
	}
	return a, fm.Print(s + "\n")
}

// format returns the readable form of a value as a string.
func format(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	s, err := vals.Format(a, vals.Readable)
	if err != nil {
		return nil, err
	}
	return vals.FromString(s), nil
}

// typeof returns the kind of a value as a keyword, such as :integer.
func typeOf(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.Sym{Symbol: fm.symbols.Keyword(a.Kind().String())}, nil
}

func isLocallyBound(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	a, err := vals.Unwrap(a)
	if err != nil {
		return nil, err
	}
	s, ok := a.(vals.Sym)
	if !ok {
		return nil, errs.IncompatibleType{Message: "isLocallyBound needs a symbol, got " + a.Kind().String()}
	}
	return vals.FromBool(fm.env.IsLocallyBound(s.Symbol)), nil
}

func collapse(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	return fm.Collapse(a)
}

// close releases a resource opened by a module.
func closeFn(fm *Frame, a, _ vals.Value) (vals.Value, error) {
	a, err := vals.Unwrap(a)
	if err != nil {
		return nil, err
	}
	c, ok := a.(io.Closer)
	if !ok {
		return nil, errs.IncompatibleType{Message: "close needs a resource, got " + a.Kind().String()}
	}
	return vals.Nil, fm.Release(c)
}

// labels returns the labels of an axis, the last one by default.
func labels(_ *Frame, a, axisArg vals.Value) (vals.Value, error) {
	axis, err := axisOr(axisArg, lastAxis(a))
	if err != nil {
		return nil, err
	}
	return vals.FromStrings(vals.Labels(a, axis)...), nil
}

// withLabels implements names labels b, which attaches a vector of strings as
// the labels of an axis of b, the last one by default.
func withLabels(_ *Frame, a, b, axisArg vals.Value) (vals.Value, error) {
	rank := vals.Rank(b)
	if rank == 0 {
		return nil, errs.Domain{What: "only arrays can be labelled", Actual: "a scalar"}
	}
	axis, err := axisOr(axisArg, rank-1)
	if err != nil {
		return nil, err
	}
	if axis < 0 || axis >= rank {
		return nil, errs.InvalidAxis{Axis: axis, Rank: rank}
	}
	elems, err := vals.Elements(a)
	if err != nil {
		return nil, err
	}
	if n := b.Dims().At(axis); len(elems) != n {
		return nil, errs.DimensionMismatch{What: "labels must name every position of the axis",
			A: []int{n}, B: []int{len(elems)}}
	}
	names := make([]string, len(elems))
	for i, e := range elems {
		if names[i], err = vals.StringOf(e); err != nil {
			return nil, err
		}
	}
	all := make([][]string, rank)
	for i := range all {
		all[i] = vals.Labels(b, i)
	}
	all[axis] = names
	return vals.WithLabels(b, all), nil
}
