// Package dims implements the shapes of array values.
package dims

import (
	"strconv"
	"strings"

	"src.rho.sh/pkg/eval/errs"
)

// Dims is an immutable shape: the length of each axis of an array. The zero
// value is the shape of a scalar.
type Dims struct {
	ds []int
}

// Of returns the shape with the given axis lengths. It panics if any length
// is negative.
func Of(ds ...int) Dims {
	for _, d := range ds {
		if d < 0 {
			panic("negative axis length " + strconv.Itoa(d))
		}
	}
	return Dims{append([]int(nil), ds...)}
}

// Scalar is the shape of a scalar.
var Scalar = Dims{}

// Rank returns the number of axes.
func (d Dims) Rank() int { return len(d.ds) }

// At returns the length of the given axis.
func (d Dims) At(axis int) int { return d.ds[axis] }

// Last returns the length of the last axis. It panics for a scalar shape.
func (d Dims) Last() int { return d.ds[len(d.ds)-1] }

// Ints returns a copy of the axis lengths.
func (d Dims) Ints() []int { return append([]int(nil), d.ds...) }

// ContentSize returns the number of elements of an array with this shape.
// Scalars have a content size of 1.
func (d Dims) ContentSize() int {
	n := 1
	for _, v := range d.ds {
		n *= v
	}
	return n
}

// Multipliers returns the row-major strides of the shape: the distance in
// the flat element order between neighbours along each axis.
func (d Dims) Multipliers() []int {
	m := make([]int, len(d.ds))
	curr := 1
	for i := len(d.ds) - 1; i >= 0; i-- {
		m[i] = curr
		curr *= d.ds[i]
	}
	return m
}

// IndexFromPosition converts a position, one coordinate per axis, into an
// index in the flat element order.
func (d Dims) IndexFromPosition(p []int) (int, error) {
	if len(p) != len(d.ds) {
		return 0, errs.DimensionMismatch{
			What: "position and shape", A: d.Ints(), B: []int{len(p)}}
	}
	m := d.Multipliers()
	index := 0
	for i, c := range p {
		if c < 0 || c >= d.ds[i] {
			return 0, errs.IndexOutOfBounds{
				What: "position on axis " + strconv.Itoa(i), Index: c, Bound: d.ds[i]}
		}
		index += c * m[i]
	}
	return index, nil
}

// PositionFromIndex is the inverse of IndexFromPosition. The index must be
// in [0, ContentSize()).
func (d Dims) PositionFromIndex(index int) []int {
	m := d.Multipliers()
	p := make([]int, len(d.ds))
	for i, stride := range m {
		p[i] = index / stride
		index %= stride
	}
	return p
}

// Insert returns a shape with a new axis of length n inserted before axis
// pos. pos may equal the rank, in which case the axis is appended.
func (d Dims) Insert(pos, n int) (Dims, error) {
	if pos < 0 || pos > len(d.ds) {
		return Dims{}, errs.InvalidAxis{Axis: pos, Rank: len(d.ds)}
	}
	ds := make([]int, 0, len(d.ds)+1)
	ds = append(ds, d.ds[:pos]...)
	ds = append(ds, n)
	ds = append(ds, d.ds[pos:]...)
	return Dims{ds}, nil
}

// Remove returns a shape with the given axis removed.
func (d Dims) Remove(axis int) (Dims, error) {
	if axis < 0 || axis >= len(d.ds) {
		return Dims{}, errs.InvalidAxis{Axis: axis, Rank: len(d.ds)}
	}
	ds := make([]int, 0, len(d.ds)-1)
	ds = append(ds, d.ds[:axis]...)
	ds = append(ds, d.ds[axis+1:]...)
	return Dims{ds}, nil
}

// Replace returns a shape with the length of the given axis changed to n.
func (d Dims) Replace(axis, n int) Dims {
	ds := d.Ints()
	ds[axis] = n
	return Dims{ds}
}

// Equal reports whether two shapes are identical.
func (d Dims) Equal(other Dims) bool {
	if len(d.ds) != len(other.ds) {
		return false
	}
	for i, v := range d.ds {
		if other.ds[i] != v {
			return false
		}
	}
	return true
}

// String returns the shape in the form "[2, 3]".
func (d Dims) String() string {
	parts := make([]string, len(d.ds))
	for i, v := range d.ds {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
