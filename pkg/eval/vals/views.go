package vals

import (
	"src.rho.sh/pkg/eval/dims"
)

// Resized presents the elements of another value, reused cyclically, under
// a new shape.
type Resized struct {
	d   dims.Dims
	src Value
	n   int
}

func (*Resized) Kind() Kind        { return ArrayKind }
func (r *Resized) Dims() dims.Dims { return r.d }

func (r *Resized) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, r.d.ContentSize()); err != nil {
		return nil, err
	}
	return r.src.ValueAt(p % r.n)
}

// Concat1D joins two rank-1 arrays.
type Concat1D struct {
	a, b   Value
	na, nb int
}

func (*Concat1D) Kind() Kind        { return ArrayKind }
func (c *Concat1D) Dims() dims.Dims { return dims.Of(c.na + c.nb) }

func (c *Concat1D) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, c.na+c.nb); err != nil {
		return nil, err
	}
	if p < c.na {
		return c.a.ValueAt(p)
	}
	return c.b.ValueAt(p - c.na)
}

// ConcatAxis joins two arrays of the same rank along an axis.
type ConcatAxis struct {
	a, b         Value
	d            dims.Dims
	axisA, axisB int
	// The stride of the join axis, and the distance between consecutive
	// blocks of the join axis, in the result.
	bottomStride, topStride int
}

func newConcatAxis(a, b Value, d dims.Dims, axis int) *ConcatAxis {
	m := d.Multipliers()
	return &ConcatAxis{
		a: a, b: b, d: d,
		axisA: a.Dims().At(axis), axisB: b.Dims().At(axis),
		bottomStride: m[axis], topStride: m[axis] * d.At(axis),
	}
}

func (*ConcatAxis) Kind() Kind        { return ArrayKind }
func (c *ConcatAxis) Dims() dims.Dims { return c.d }

func (c *ConcatAxis) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, c.d.ContentSize()); err != nil {
		return nil, err
	}
	high := p / c.topStride
	coord := (p % c.topStride) / c.bottomStride
	low := p % c.bottomStride
	if coord < c.axisA {
		return c.a.ValueAt((high*c.axisA+coord)*c.bottomStride + low)
	}
	return c.b.ValueAt((high*c.axisB+coord-c.axisA)*c.bottomStride + low)
}

// Mapped1 applies a function to each element of an array on access.
type Mapped1 struct {
	src Value
	fn  func(Value) (Value, error)
}

// NewMapped1 returns a view of src with fn applied to each element.
func NewMapped1(src Value, fn func(Value) (Value, error)) *Mapped1 {
	return &Mapped1{src, fn}
}

func (*Mapped1) Kind() Kind        { return ArrayKind }
func (m *Mapped1) Dims() dims.Dims { return m.src.Dims() }

func (m *Mapped1) ValueAt(p int) (Value, error) {
	v, err := m.src.ValueAt(p)
	if err != nil {
		return nil, err
	}
	return m.fn(v)
}

// Mapped2 applies a function to corresponding elements of two values on
// access. An operand of rank 0 is paired with every element of the other.
type Mapped2 struct {
	a, b       Value
	d          dims.Dims
	fn         func(Value, Value) (Value, error)
	aAll, bAll bool
}

func (*Mapped2) Kind() Kind        { return ArrayKind }
func (m *Mapped2) Dims() dims.Dims { return m.d }

func (m *Mapped2) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, m.d.ContentSize()); err != nil {
		return nil, err
	}
	pa, pb := p, p
	if m.aAll {
		pa = 0
	}
	if m.bAll {
		pb = 0
	}
	x, err := m.a.ValueAt(pa)
	if err != nil {
		return nil, err
	}
	y, err := m.b.ValueAt(pb)
	if err != nil {
		return nil, err
	}
	return m.fn(x, y)
}

// Labelled attaches labels to the positions along the axes of an array.
type Labelled struct {
	Value
	labels [][]string
}

// WithLabels returns v with labels attached; labels[axis] names the
// positions along axis and may be nil.
func WithLabels(v Value, labels [][]string) *Labelled {
	if l, ok := v.(*Labelled); ok {
		v = l.Value
	}
	return &Labelled{v, labels}
}

// Labels returns the labels of an axis of v, or nil.
func Labels(v Value, axis int) []string {
	if l, ok := v.(*Labelled); ok && axis < len(l.labels) {
		return l.labels[axis]
	}
	return nil
}

// Reversed reverses the order of elements along an axis.
type Reversed struct {
	src  Value
	len  int
	step int
}

func (*Reversed) Kind() Kind        { return ArrayKind }
func (r *Reversed) Dims() dims.Dims { return r.src.Dims() }

func (r *Reversed) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, Size(r.src)); err != nil {
		return nil, err
	}
	c := (p / r.step) % r.len
	return r.src.ValueAt(p + (r.len-1-2*c)*r.step)
}

// Rotated rotates the elements along an axis.
type Rotated struct {
	src  Value
	len  int
	step int
	n    int
}

func (*Rotated) Kind() Kind        { return ArrayKind }
func (r *Rotated) Dims() dims.Dims { return r.src.Dims() }

func (r *Rotated) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, Size(r.src)); err != nil {
		return nil, err
	}
	c := (p / r.step) % r.len
	target := ((c+r.n)%r.len + r.len) % r.len
	return r.src.ValueAt(p + (target-c)*r.step)
}

// Slice is a contiguous range of the elements of another array, under a new
// shape.
type Slice struct {
	src    Value
	d      dims.Dims
	offset int
}

func (*Slice) Kind() Kind        { return ArrayKind }
func (s *Slice) Dims() dims.Dims { return s.d }

func (s *Slice) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, s.d.ContentSize()); err != nil {
		return nil, err
	}
	return s.src.ValueAt(s.offset + p)
}

// Padded is a rank-1 window of another rank-1 array, with positions outside
// the source filled with a fill value.
type Padded struct {
	src   Value
	n     int
	start int
	srcN  int
	fill  Value
}

func (*Padded) Kind() Kind        { return ArrayKind }
func (s *Padded) Dims() dims.Dims { return dims.Of(s.n) }

func (s *Padded) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, s.n); err != nil {
		return nil, err
	}
	q := s.start + p
	if q < 0 || q >= s.srcN {
		return s.fill, nil
	}
	return s.src.ValueAt(q)
}

// Selected picks elements of an array with one list of indices per axis.
// The shape of the result is the concatenation of the shapes of the index
// lists.
type Selected struct {
	src     Value
	d       dims.Dims
	srcMult []int
	// Per axis of src: the shape of the index list and its values.
	idxDims []dims.Dims
	idx     [][]int
}

func (*Selected) Kind() Kind        { return ArrayKind }
func (s *Selected) Dims() dims.Dims { return s.d }

func (s *Selected) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, s.d.ContentSize()); err != nil {
		return nil, err
	}
	pos := s.d.PositionFromIndex(p)
	srcIndex := 0
	for axis, id := range s.idxDims {
		r := id.Rank()
		k := 0
		if r > 0 {
			k, _ = id.IndexFromPosition(pos[:r])
		}
		pos = pos[r:]
		srcIndex += s.idx[axis][k] * s.srcMult[axis]
	}
	return s.src.ValueAt(srcIndex)
}
