package structured

import (
	"fmt"
	"math"
	"sort"
	"time"

	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// FromDocument converts a decoded document to a value.
func FromDocument(doc any) (vals.Value, error) {
	switch doc := doc.(type) {
	case nil:
		return vals.Nil, nil
	case bool:
		return vals.FromBool(doc), nil
	case string:
		return vals.FromString(doc), nil
	case int:
		return vals.Int(doc), nil
	case int64:
		return vals.Int(doc), nil
	case uint64:
		if doc > math.MaxInt64 {
			return vals.Float(doc), nil
		}
		return vals.Int(doc), nil
	case float64:
		if doc == math.Trunc(doc) && math.Abs(doc) < 1<<53 {
			return vals.Int(doc), nil
		}
		return vals.Float(doc), nil
	case time.Time:
		return vals.FromString(doc.Format(time.RFC3339)), nil
	case []any:
		elems := make([]vals.Value, len(doc))
		for i, e := range doc {
			v, err := FromDocument(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return vals.Vector(elems...), nil
	case map[string]any:
		return fromObject(len(doc), func(yield func(string, any)) {
			for k, v := range doc {
				yield(k, v)
			}
		})
	case map[any]any:
		return fromObject(len(doc), func(yield func(string, any)) {
			for k, v := range doc {
				yield(fmt.Sprint(k), v)
			}
		})
	}
	return nil, fmt.Errorf("unsupported document element of type %T", doc)
}

func fromObject(n int, each func(func(string, any))) (vals.Value, error) {
	keys := make([]string, 0, n)
	values := make(map[string]any, n)
	each(func(k string, v any) {
		keys = append(keys, k)
		values[k] = v
	})
	sort.Strings(keys)
	elems := make([]vals.Value, 0, 2*n)
	for _, k := range keys {
		v, err := FromDocument(values[k])
		if err != nil {
			return nil, err
		}
		elems = append(elems, vals.FromString(k), v)
	}
	return vals.NewArray(dims.Of(n, 2), elems), nil
}

// ToDocument converts a value to a document that can be marshalled.
func ToDocument(v vals.Value) (any, error) {
	switch v := v.(type) {
	case vals.Int:
		return int64(v), nil
	case vals.Float:
		return float64(v), nil
	case vals.Char:
		return string(rune(v)), nil
	case vals.Sym:
		return v.Name(), nil
	case vals.NilValue:
		return nil, nil
	case *vals.List:
		out := make([]any, v.Len())
		for i := range out {
			e, err := ToDocument(v.At(i))
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	}
	if !vals.IsArray(v) {
		return nil, errs.IncompatibleType{Message: "cannot convert " + v.Kind().String() + " to a document"}
	}
	switch vals.Rank(v) {
	case 0:
		e, err := v.ValueAt(0)
		if err != nil {
			return nil, err
		}
		return ToDocument(e)
	case 1:
		if vals.Size(v) > 0 {
			if s, err := vals.StringOf(v); err == nil {
				return s, nil
			}
		}
		return listOf(v, 0, vals.Size(v), 1)
	}
	if obj, ok, err := objectOf(v); ok || err != nil {
		return obj, err
	}
	d := v.Dims()
	return majorCells(v, d.Ints(), 0, 0)
}

func listOf(v vals.Value, from, n, step int) ([]any, error) {
	out := make([]any, n)
	for i := range out {
		e, err := v.ValueAt(from + i*step)
		if err != nil {
			return nil, err
		}
		if out[i], err = ToDocument(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Converts arrays of rank 2 and above to nested lists, one level per axis.
func majorCells(v vals.Value, shape []int, axis, offset int) (any, error) {
	stride := 1
	for _, n := range shape[axis+1:] {
		stride *= n
	}
	if axis == len(shape)-1 {
		return listOf(v, offset, shape[axis], 1)
	}
	out := make([]any, shape[axis])
	for i := range out {
		cell, err := majorCells(v, shape, axis+1, offset+i*stride)
		if err != nil {
			return nil, err
		}
		out[i] = cell
	}
	return out, nil
}

// An n×2 array whose first column only holds non-empty strings converts to an
// object.
func objectOf(v vals.Value) (map[string]any, bool, error) {
	d := v.Dims()
	if d.Rank() != 2 || d.At(1) != 2 || d.At(0) == 0 {
		return nil, false, nil
	}
	obj := make(map[string]any, d.At(0))
	for i := 0; i < d.At(0); i++ {
		k, err := v.ValueAt(2 * i)
		if err != nil {
			return nil, false, err
		}
		if !vals.IsArray(k) || vals.Size(k) == 0 {
			return nil, false, nil
		}
		key, err := vals.StringOf(k)
		if err != nil {
			return nil, false, nil
		}
		e, err := v.ValueAt(2*i + 1)
		if err != nil {
			return nil, false, err
		}
		if obj[key], err = ToDocument(e); err != nil {
			return nil, false, err
		}
	}
	return obj, true, nil
}
