package vals

import (
	"sort"

	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
)

// Reshape returns v with the shape d, reusing its elements cyclically. If v
// already has the shape d, v itself is returned.
func Reshape(v Value, d dims.Dims) (Value, error) {
	if v.Dims().Equal(d) {
		return v, nil
	}
	if d.ContentSize() == 0 {
		return NewArray(d, []Value{}), nil
	}
	n := Size(v)
	if n == 0 {
		return nil, errs.Domain{What: "cannot reshape an empty value to a non-empty shape",
			Actual: "shape " + d.String()}
	}
	return &Resized{d, v, n}, nil
}

// DimsFromValue interprets a scalar or a rank-1 array of non-negative
// integers as a shape.
func DimsFromValue(v Value) (dims.Dims, error) {
	if Rank(v) > 1 {
		return dims.Dims{}, errs.DimensionMismatch{
			What: "shape must be a scalar or a vector", A: []int{1}, B: v.Dims().Ints()}
	}
	elems, err := Elements(v)
	if err != nil {
		return dims.Dims{}, err
	}
	ds := make([]int, len(elems))
	for i, e := range elems {
		n, err := AsInt(e)
		if err != nil {
			return dims.Dims{}, err
		}
		if n < 0 {
			return dims.Dims{}, errs.Domain{What: "axis length must be non-negative",
				Actual: Plain.mustFormat(e)}
		}
		ds[i] = n
	}
	return dims.Of(ds...), nil
}

// Concatenate joins a and b along axis. A rank-0 operand is extended to the
// shape of the other operand with a length of 1 along the axis; an operand
// whose rank is one lower than the other has a length-1 axis inserted at
// axis. All other axis lengths must then agree.
//
// When one operand has no elements, the other one is returned unchanged,
// unless the result has no elements either.
func Concatenate(a, b Value, axis int) (Value, error) {
	ra, rb := Rank(a), Rank(b)
	if ra == 0 && rb == 0 {
		x, err := Disclose(a)
		if err != nil {
			return nil, err
		}
		y, err := Disclose(b)
		if err != nil {
			return nil, err
		}
		if axis != 0 {
			return nil, errs.InvalidAxis{Axis: axis, Rank: 1}
		}
		return Vector(x, y), nil
	}
	var err error
	switch {
	case ra == 0:
		a, err = extendScalar(a, b.Dims(), axis)
	case rb == 0:
		b, err = extendScalar(b, a.Dims(), axis)
	case ra == rb+1:
		b, err = insertAxis(b, axis)
	case rb == ra+1:
		a, err = insertAxis(a, axis)
	}
	if err != nil {
		return nil, err
	}

	da, db := a.Dims(), b.Dims()
	if da.Rank() != db.Rank() {
		return nil, errs.DimensionMismatch{What: "ranks of concatenated values",
			A: da.Ints(), B: db.Ints()}
	}
	if axis < 0 || axis >= da.Rank() {
		return nil, errs.InvalidAxis{Axis: axis, Rank: da.Rank()}
	}
	for i := 0; i < da.Rank(); i++ {
		if i != axis && da.At(i) != db.At(i) {
			return nil, errs.DimensionMismatch{What: "shapes of concatenated values",
				A: da.Ints(), B: db.Ints()}
		}
	}

	d := da.Replace(axis, da.At(axis)+db.At(axis))
	switch {
	case d.ContentSize() == 0:
		return NewArray(d, []Value{}), nil
	case da.ContentSize() == 0:
		return b, nil
	case db.ContentSize() == 0:
		return a, nil
	}
	if d.Rank() == 1 {
		return &Concat1D{a, b, da.At(0), db.At(0)}, nil
	}
	return newConcatAxis(a, b, d, axis), nil
}

func extendScalar(v Value, other dims.Dims, axis int) (Value, error) {
	if axis < 0 || axis >= other.Rank() {
		return nil, errs.InvalidAxis{Axis: axis, Rank: other.Rank()}
	}
	e, err := Disclose(v)
	if err != nil {
		return nil, err
	}
	return Constant{other.Replace(axis, 1), e}, nil
}

func insertAxis(v Value, axis int) (Value, error) {
	d, err := v.Dims().Insert(axis, 1)
	if err != nil {
		return nil, err
	}
	return Reshape(v, d)
}

// Each1 returns the result of applying fn to each element of v. For a
// scalar, fn is applied to the scalar itself.
func Each1(v Value, fn func(Value) (Value, error)) (Value, error) {
	if !IsArray(v) {
		r, err := fn(v)
		if err != nil {
			return nil, err
		}
		return Enclose(r), nil
	}
	return &Mapped1{v, fn}, nil
}

// Each2 returns the result of applying fn to corresponding elements of a
// and b. The shapes must agree, unless one of them has rank 0.
func Each2(a, b Value, fn func(Value, Value) (Value, error)) (Value, error) {
	ra, rb := Rank(a), Rank(b)
	if ra == 0 && rb == 0 && !IsArray(a) && !IsArray(b) {
		r, err := fn(a, b)
		if err != nil {
			return nil, err
		}
		return Enclose(r), nil
	}
	var d dims.Dims
	switch {
	case ra == 0:
		d = b.Dims()
	case rb == 0:
		d = a.Dims()
	default:
		if !a.Dims().Equal(b.Dims()) {
			return nil, errs.DimensionMismatch{What: "shapes of arguments",
				A: a.Dims().Ints(), B: b.Dims().Ints()}
		}
		d = a.Dims()
	}
	return &Mapped2{a: a, b: b, d: d, fn: fn, aAll: ra == 0, bAll: rb == 0}, nil
}

// Grade returns the permutation of the first-axis indices of v that sorts
// its major cells in ascending order, or in descending order if desc is
// true. The order of equal cells is unspecified.
func Grade(v Value, desc bool) (Value, error) {
	if Rank(v) == 0 {
		return nil, errs.Domain{What: "only arrays can be sorted", Actual: "a scalar"}
	}
	d := v.Dims()
	n := d.At(0)
	if n <= 1 {
		return NewIota(n), nil
	}
	cell := d.Multipliers()[0]
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	var sortErr error
	sort.SliceStable(perm, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := compareCells(v, perm[i]*cell, perm[j]*cell, cell)
		if err != nil {
			sortErr = err
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return Ints(perm...), nil
}

func compareCells(v Value, a, b, n int) (int, error) {
	for k := 0; k < n; k++ {
		x, err := v.ValueAt(a + k)
		if err != nil {
			return 0, err
		}
		y, err := v.ValueAt(b + k)
		if err != nil {
			return 0, err
		}
		c, err := Compare(x, y)
		if err != nil || c != 0 {
			return c, err
		}
	}
	return 0, nil
}

// Pick descends into v once for each element of sel, using it as a position
// in the value at that level; a scalar element is a position of length 1. A
// scalar sel is treated as a single level.
func Pick(sel, v Value) (Value, error) {
	var levels []Value
	if Rank(sel) == 0 {
		s, err := Disclose(sel)
		if err != nil {
			return nil, err
		}
		levels = []Value{s}
	} else {
		if Rank(sel) != 1 {
			return nil, errs.DimensionMismatch{What: "selector must be a vector",
				A: []int{Size(sel)}, B: sel.Dims().Ints()}
		}
		var err error
		if levels, err = Elements(sel); err != nil {
			return nil, err
		}
	}

	curr := v
	for _, level := range levels {
		pos, err := intElements(level)
		if err != nil {
			return nil, err
		}
		d := curr.Dims()
		if len(pos) != d.Rank() {
			return nil, errs.DimensionMismatch{What: "position must have one coordinate per axis",
				A: d.Ints(), B: []int{len(pos)}}
		}
		index, err := d.IndexFromPosition(pos)
		if err != nil {
			return nil, err
		}
		if curr, err = curr.ValueAt(index); err != nil {
			return nil, err
		}
	}
	return curr, nil
}

func intElements(v Value) ([]int, error) {
	elems, err := Elements(v)
	if err != nil {
		return nil, err
	}
	ns := make([]int, len(elems))
	for i, e := range elems {
		if ns[i], err = AsInt(e); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

// MajorCell selects major cells of v: each element of pos selects along one
// leading axis. When pos selects along every axis, the element itself is
// returned.
func MajorCell(pos []int, v Value) (Value, error) {
	d := v.Dims()
	if len(pos) > d.Rank() {
		return nil, errs.DimensionMismatch{What: "too many coordinates",
			A: d.Ints(), B: []int{len(pos)}}
	}
	full := append(append([]int(nil), pos...), make([]int, d.Rank()-len(pos))...)
	offset, err := d.IndexFromPosition(full)
	if err != nil {
		return nil, err
	}
	rest := dims.Of(d.Ints()[len(pos):]...)
	if rest.Rank() == 0 {
		return v.ValueAt(offset)
	}
	return &Slice{v, rest, offset}, nil
}

// Index selects elements of v with one index list per axis; a nil entry
// selects the whole axis.
func Index(v Value, indices []Value) (Value, error) {
	d := v.Dims()
	if len(indices) != d.Rank() {
		return nil, errs.DimensionMismatch{What: "index needs one entry per axis",
			A: d.Ints(), B: []int{len(indices)}}
	}
	s := &Selected{src: v, srcMult: d.Multipliers()}
	var resultDims []int
	for axis, index := range indices {
		var id dims.Dims
		var ns []int
		if index == nil {
			n := d.At(axis)
			id = dims.Of(n)
			ns = make([]int, n)
			for i := range ns {
				ns[i] = i
			}
		} else {
			id = index.Dims()
			var err error
			if ns, err = intElements(index); err != nil {
				return nil, err
			}
			for _, k := range ns {
				if k < 0 || k >= d.At(axis) {
					return nil, errs.IndexOutOfBounds{What: "index", Index: k, Bound: d.At(axis)}
				}
			}
		}
		s.idxDims = append(s.idxDims, id)
		s.idx = append(s.idx, ns)
		resultDims = append(resultDims, id.Ints()...)
	}
	s.d = dims.Of(resultDims...)
	if s.d.Rank() == 0 {
		return s.ValueAt(0)
	}
	return s, nil
}

// First returns the first element of v, or the fill element of v when it is
// empty.
func First(v Value) (Value, error) {
	if !IsArray(v) {
		return v, nil
	}
	if Size(v) == 0 {
		return fillOf(v), nil
	}
	return v.ValueAt(0)
}

func fillOf(v Value) Value {
	if Size(v) > 0 {
		if e, err := v.ValueAt(0); err == nil && e.Kind() == CharKind {
			return Char(' ')
		}
	}
	return Int(0)
}

func asVector(v Value, op string) (Value, error) {
	switch Rank(v) {
	case 0:
		e, err := Disclose(v)
		if err != nil {
			return nil, err
		}
		return Vector(e), nil
	case 1:
		return v, nil
	}
	return nil, errs.Unsupported{What: op + " on arrays of rank " + itoa(Rank(v))}
}

// Take returns the first n elements of a vector, or the last -n elements
// when n is negative. Taking more elements than there are pads the result
// with the fill element.
func Take(n int, v Value) (Value, error) {
	v, err := asVector(v, "take")
	if err != nil {
		return nil, err
	}
	size := Size(v)
	fill := fillOf(v)
	if n >= 0 {
		return &Padded{src: v, n: n, start: 0, srcN: size, fill: fill}, nil
	}
	return &Padded{src: v, n: -n, start: size + n, srcN: size, fill: fill}, nil
}

// Drop removes the first n elements of a vector, or the last -n elements
// when n is negative.
func Drop(n int, v Value) (Value, error) {
	v, err := asVector(v, "drop")
	if err != nil {
		return nil, err
	}
	size := Size(v)
	if n >= size || -n >= size {
		return NewArray(dims.Of(0), []Value{}), nil
	}
	if n >= 0 {
		return &Padded{src: v, n: size - n, start: n, srcN: size}, nil
	}
	return &Padded{src: v, n: size + n, start: 0, srcN: size}, nil
}

// Reverse reverses v along axis. Scalars are returned unchanged.
func Reverse(v Value, axis int) (Value, error) {
	if Rank(v) == 0 {
		return v, nil
	}
	d := v.Dims()
	if axis < 0 || axis >= d.Rank() {
		return nil, errs.InvalidAxis{Axis: axis, Rank: d.Rank()}
	}
	if d.At(axis) <= 1 || d.ContentSize() == 0 {
		return v, nil
	}
	return &Reversed{v, d.At(axis), d.Multipliers()[axis]}, nil
}

// Rotate rotates v by n positions along axis.
func Rotate(n int, v Value, axis int) (Value, error) {
	if Rank(v) == 0 {
		return v, nil
	}
	d := v.Dims()
	if axis < 0 || axis >= d.Rank() {
		return nil, errs.InvalidAxis{Axis: axis, Rank: d.Rank()}
	}
	if d.At(axis) <= 1 || d.ContentSize() == 0 || n%d.At(axis) == 0 {
		return v, nil
	}
	return &Rotated{v, d.At(axis), d.Multipliers()[axis], n}, nil
}
