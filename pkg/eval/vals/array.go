package vals

import (
	"src.rho.sh/pkg/eval/dims"
)

// Concrete is an array backed by a slice of elements.
type Concrete struct {
	dims  dims.Dims
	elems []Value
	// Set when every element is known to be collapsed.
	collapsed bool
}

// NewArray returns an array of the given shape backed by elems, which must
// have exactly as many elements as the shape requires. The array takes
// ownership of elems.
func NewArray(d dims.Dims, elems []Value) *Concrete {
	if len(elems) != d.ContentSize() {
		panic("NewArray: element count does not match shape")
	}
	return &Concrete{dims: d, elems: elems}
}

// Make builds an array of the given shape, calling f for each index.
func Make(d dims.Dims, f func(i int) (Value, error)) (*Concrete, error) {
	elems := make([]Value, d.ContentSize())
	for i := range elems {
		v, err := f(i)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return &Concrete{dims: d, elems: elems}, nil
}

// Vector returns a rank-1 array of the given elements.
func Vector(elems ...Value) *Concrete {
	return &Concrete{dims: dims.Of(len(elems)), elems: elems}
}

// Ints returns a rank-1 array of integers.
func Ints(ns ...int) *Concrete {
	elems := make([]Value, len(ns))
	for i, n := range ns {
		elems[i] = Int(n)
	}
	return &Concrete{dims: dims.Of(len(ns)), elems: elems, collapsed: true}
}

func (*Concrete) Kind() Kind        { return ArrayKind }
func (a *Concrete) Dims() dims.Dims { return a.dims }

func (a *Concrete) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, len(a.elems)); err != nil {
		return nil, err
	}
	return a.elems[p], nil
}

// Constant is an array in which every element is the same value.
type Constant struct {
	d dims.Dims
	v Value
}

// NewConstant returns an array of the given shape filled with v.
func NewConstant(d dims.Dims, v Value) Constant { return Constant{d, v} }

func (Constant) Kind() Kind        { return ArrayKind }
func (c Constant) Dims() dims.Dims { return c.d }

func (c Constant) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, c.d.ContentSize()); err != nil {
		return nil, err
	}
	return c.v, nil
}

type zilde struct{}

// Zilde is the empty array: rank 1, length 0.
var Zilde Value = zilde{}

var zildeDims = dims.Of(0)

func (zilde) Kind() Kind      { return ArrayKind }
func (zilde) Dims() dims.Dims { return zildeDims }

func (zilde) ValueAt(p int) (Value, error) { return nil, checkIndex(p, 0) }

// String is a rank-1 array of characters.
type String struct {
	runes []rune
}

// FromString returns s as a character array.
func FromString(s string) *String { return &String{[]rune(s)} }

func (*String) Kind() Kind        { return ArrayKind }
func (s *String) Dims() dims.Dims { return dims.Of(len(s.runes)) }

func (s *String) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, len(s.runes)); err != nil {
		return nil, err
	}
	return Char(s.runes[p]), nil
}

// String returns the content as a Go string.
func (s *String) String() string { return string(s.runes) }

// Iota is the array 0 1 2 … n-1.
type Iota struct {
	n int
}

// NewIota returns the array of the first n non-negative integers.
func NewIota(n int) Iota { return Iota{n} }

func (Iota) Kind() Kind        { return ArrayKind }
func (r Iota) Dims() dims.Dims { return dims.Of(r.n) }

func (r Iota) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, r.n); err != nil {
		return nil, err
	}
	return Int(p), nil
}

// Enclosed is a rank-0 array holding another array, which makes the array
// behave as a single element.
type Enclosed struct {
	v Value
}

func (*Enclosed) Kind() Kind      { return ArrayKind }
func (*Enclosed) Dims() dims.Dims { return dims.Scalar }

func (e *Enclosed) ValueAt(p int) (Value, error) {
	if err := checkIndex(p, 1); err != nil {
		return nil, err
	}
	return e.v, nil
}

// Enclose wraps an array into a rank-0 array. Scalars are returned
// unchanged.
func Enclose(v Value) Value {
	if !IsArray(v) {
		return v
	}
	return &Enclosed{v}
}

// Disclose removes one level of nesting: the sole element of a rank-0 array
// is returned, and any other value is returned unchanged.
func Disclose(v Value) (Value, error) {
	if IsArray(v) && Rank(v) == 0 {
		return v.ValueAt(0)
	}
	return v, nil
}
