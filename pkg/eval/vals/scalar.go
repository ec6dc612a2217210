package vals

import (
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/sym"
)

// Int is an integer scalar.
type Int int64

// Float is a floating-point scalar.
type Float float64

// Complex is a complex scalar.
type Complex complex128

// Char is a character scalar.
type Char rune

// Sym is a symbol scalar.
type Sym struct{ *sym.Symbol }

// NilValue is the type of Nil.
type NilValue struct{}

// Nil is the empty marker, used for absent values such as null in JSON
// documents.
var Nil = NilValue{}

// List is an ordered collection of values, built with the ; separator. Unlike
// an array, it is a single scalar that does not take part in scalar
// extension.
type List struct {
	elems []Value
}

// Internal is implemented by scalars wrapping native resources of modules.
// Internal values that also implement io.Closer can be closed explicitly or
// when the engine is closed.
type Internal interface {
	Value
	// TypeName describes the resource, for example "store".
	TypeName() string
}

func (Int) Kind() Kind      { return IntKind }
func (Float) Kind() Kind    { return FloatKind }
func (Complex) Kind() Kind  { return ComplexKind }
func (Char) Kind() Kind     { return CharKind }
func (Sym) Kind() Kind      { return SymbolKind }
func (NilValue) Kind() Kind { return NilKind }
func (*List) Kind() Kind    { return ListKind }

func (Int) Dims() dims.Dims      { return dims.Scalar }
func (Float) Dims() dims.Dims    { return dims.Scalar }
func (Complex) Dims() dims.Dims  { return dims.Scalar }
func (Char) Dims() dims.Dims     { return dims.Scalar }
func (Sym) Dims() dims.Dims      { return dims.Scalar }
func (NilValue) Dims() dims.Dims { return dims.Scalar }
func (*List) Dims() dims.Dims    { return dims.Scalar }

func (v Int) ValueAt(p int) (Value, error)      { return scalarAt(v, p) }
func (v Float) ValueAt(p int) (Value, error)    { return scalarAt(v, p) }
func (v Complex) ValueAt(p int) (Value, error)  { return scalarAt(v, p) }
func (v Char) ValueAt(p int) (Value, error)     { return scalarAt(v, p) }
func (v Sym) ValueAt(p int) (Value, error)      { return scalarAt(v, p) }
func (v NilValue) ValueAt(p int) (Value, error) { return scalarAt(v, p) }
func (v *List) ValueAt(p int) (Value, error)    { return scalarAt(v, p) }

// NewList returns a list of the given values.
func NewList(elems ...Value) *List { return &List{elems} }

// Len returns the number of elements of the list.
func (l *List) Len() int { return len(l.elems) }

// At returns the i-th element of the list.
func (l *List) At(i int) Value { return l.elems[i] }
