package vals

import (
	"reflect"

	"src.rho.sh/pkg/eval/errs"
)

// Equaler wraps the Equal method. Scalars defined outside this package may
// implement it to customize equality; other scalars compare by identity.
type Equaler interface {
	Equal(other Value) bool
}

// Equal reports whether two values are equal. Numbers are equal when they
// have the same value regardless of their kinds; arrays are equal when they
// have the same shape and equal elements. It only fails when computing an
// element fails.
func Equal(a, b Value) (bool, error) {
	if IsArray(a) || IsArray(b) {
		if !IsArray(a) || !IsArray(b) || !a.Dims().Equal(b.Dims()) {
			return false, nil
		}
		n := Size(a)
		for i := 0; i < n; i++ {
			x, err := a.ValueAt(i)
			if err != nil {
				return false, err
			}
			y, err := b.ValueAt(i)
			if err != nil {
				return false, err
			}
			if eq, err := Equal(x, y); err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	if IsNumber(a) && IsNumber(b) {
		return numbersEqual(a, b), nil
	}
	switch a := a.(type) {
	case Char, Sym, NilValue:
		return a == b, nil
	case *List:
		b, ok := b.(*List)
		if !ok || a.Len() != b.Len() {
			return false, nil
		}
		for i := range a.elems {
			if eq, err := Equal(a.elems[i], b.elems[i]); err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Equaler:
		return a.Equal(b), nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false, nil
	}
	return a == b, nil
}

// Compare defines a total order on values that are not complex numbers. It
// returns -1, 0 or 1.
//
// Values of lower rank sort first. Vectors compare lexicographically; arrays
// of higher rank compare first by shape, then element by element. Among
// rank-0 values, simple scalars sort before enclosed arrays.
func Compare(a, b Value) (int, error) {
	ra, rb := Rank(a), Rank(b)
	if ra != rb {
		return cmpOrdered(ra, rb), nil
	}
	switch ra {
	case 0:
		switch aa, ba := IsArray(a), IsArray(b); {
		case !aa && !ba:
			return compareScalars(a, b)
		case aa && ba:
			x, err := a.ValueAt(0)
			if err != nil {
				return 0, err
			}
			y, err := b.ValueAt(0)
			if err != nil {
				return 0, err
			}
			return Compare(x, y)
		case aa:
			return 1, nil
		default:
			return -1, nil
		}
	case 1:
		na, nb := Size(a), Size(b)
		n := na
		if nb < n {
			n = nb
		}
		for i := 0; i < n; i++ {
			if c, err := compareAt(a, b, i); err != nil || c != 0 {
				return c, err
			}
		}
		return cmpOrdered(na, nb), nil
	default:
		da, db := a.Dims(), b.Dims()
		for i := 0; i < ra; i++ {
			if c := cmpOrdered(da.At(i), db.At(i)); c != 0 {
				return c, nil
			}
		}
		n := da.ContentSize()
		for i := 0; i < n; i++ {
			if c, err := compareAt(a, b, i); err != nil || c != 0 {
				return c, err
			}
		}
		return 0, nil
	}
}

func compareAt(a, b Value, i int) (int, error) {
	x, err := a.ValueAt(i)
	if err != nil {
		return 0, err
	}
	y, err := b.ValueAt(i)
	if err != nil {
		return 0, err
	}
	return Compare(x, y)
}

func compareScalars(a, b Value) (int, error) {
	if IsNumber(a) && IsNumber(b) {
		if a.Kind() == ComplexKind || b.Kind() == ComplexKind {
			return 0, errs.IncompatibleType{Message: "complex numbers cannot be compared"}
		}
		return compareNumbers(a, b)
	}
	switch a := a.(type) {
	case Char:
		if b, ok := b.(Char); ok {
			return cmpOrdered(rune(a), rune(b)), nil
		}
	case Sym:
		if b, ok := b.(Sym); ok {
			return cmpOrdered(a.String(), b.String()), nil
		}
	}
	return 0, errs.IncompatibleType{
		Message: "cannot compare " + a.Kind().String() + " with " + b.Kind().String()}
}
