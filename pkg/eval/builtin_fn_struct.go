package eval

import (
	"strconv"

	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// Structural functions.

var structFns = map[string]FunctionDescriptor{
	"⍴": NewGoFn("⍴", shape, reshape),
	"⍳": NewGoFn("⍳", interval, indexOf),
	",": NewGoFn(",", ravel, concatenate),
	"⊂": NewGoFn("⊂", enclose, nil),
	"⊃": NewGoFn("⊃", disclose, pick),
	"⌷": NewGoFn("⌷", nil, squad),
	"≡": NewGoFn("≡", depth, match),
	"≢": NewGoFn("≢", tally, notMatch),
	"∊": NewGoFn("∊", enlist, member),
	"⍋": NewGoFn("⍋", gradeUp, nil),
	"⍒": NewGoFn("⍒", gradeDown, nil),
	"⊢": NewGoFn("⊢", identity, rightArg),
	"⊣": NewGoFn("⊣", identity, leftArg),
	"↑": NewGoFn("↑", first, take),
	"↓": NewGoFn("↓", nil, drop),
	"⌽": NewGoFn("⌽", reverse, rotate),
}

// Returns the axis argument, or def if none was given.
func axisOr(axis vals.Value, def int) (int, error) {
	if axis == nil {
		return def, nil
	}
	return vals.AsInt(axis)
}

func lastAxis(v vals.Value) int {
	if r := vals.Rank(v); r > 0 {
		return r - 1
	}
	return 0
}

func ints(v vals.Value) ([]int, error) {
	elems, err := vals.Elements(v)
	if err != nil {
		return nil, err
	}
	ns := make([]int, len(elems))
	for i, e := range elems {
		if ns[i], err = vals.AsInt(e); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

func shape(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	if !vals.IsArray(a) {
		return vals.Zilde, nil
	}
	return vals.Ints(a.Dims().Ints()...), nil
}

func reshape(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	d, err := vals.DimsFromValue(a)
	if err != nil {
		return nil, err
	}
	return vals.Reshape(b, d)
}

func interval(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	n, err := vals.AsInt(a)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.Domain{What: "argument to ⍳ must be non-negative", Actual: strconv.Itoa(n)}
	}
	return vals.NewIota(n), nil
}

// a⍳b finds the index of the first occurrence in a of each element of b, or
// the length of a if there is none.
func indexOf(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	if vals.Rank(a) > 1 {
		return nil, errs.DimensionMismatch{What: "left argument of ⍳ must be a vector",
			A: []int{vals.Size(a)}, B: a.Dims().Ints()}
	}
	elems, err := vals.Elements(a)
	if err != nil {
		return nil, err
	}
	index := make(map[vals.Key]int, len(elems))
	for i := len(elems) - 1; i >= 0; i-- {
		k, err := vals.KeyOf(elems[i])
		if err != nil {
			return nil, err
		}
		index[k] = i
	}
	return vals.Each1(b, func(x vals.Value) (vals.Value, error) {
		k, err := vals.KeyOf(x)
		if err != nil {
			return nil, err
		}
		if i, ok := index[k]; ok {
			return vals.Int(i), nil
		}
		return vals.Int(len(elems)), nil
	})
}

func ravel(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	if !vals.IsArray(a) {
		return vals.Vector(a), nil
	}
	return vals.Reshape(a, dims.Of(vals.Size(a)))
}

func concatenate(_ *Frame, a, b, axisArg vals.Value) (vals.Value, error) {
	def := lastAxis(a)
	if r := lastAxis(b); r > def {
		def = r
	}
	axis, err := axisOr(axisArg, def)
	if err != nil {
		return nil, err
	}
	return vals.Concatenate(a, b, axis)
}

func enclose(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.Enclose(a), nil
}

func disclose(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.Disclose(a)
}

func pick(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	return vals.Pick(a, b)
}

// a⌷b selects major cells of b, one leading axis for each element of a.
func squad(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	pos, err := ints(a)
	if err != nil {
		return nil, err
	}
	return vals.MajorCell(pos, b)
}

func depth(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	n, err := depthOf(a)
	if err != nil {
		return nil, err
	}
	return vals.Int(n), nil
}

func depthOf(v vals.Value) (int, error) {
	if !vals.IsArray(v) {
		return 0, nil
	}
	deepest := 0
	for i := 0; i < vals.Size(v); i++ {
		e, err := v.ValueAt(i)
		if err != nil {
			return 0, err
		}
		d, err := depthOf(e)
		if err != nil {
			return 0, err
		}
		if d > deepest {
			deepest = d
		}
	}
	return deepest + 1, nil
}

func match(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	eq, err := vals.Equal(a, b)
	if err != nil {
		return nil, err
	}
	return vals.FromBool(eq), nil
}

func notMatch(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	eq, err := vals.Equal(a, b)
	if err != nil {
		return nil, err
	}
	return vals.FromBool(!eq), nil
}

func tally(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	if vals.Rank(a) == 0 {
		return vals.Int(1), nil
	}
	return vals.Int(a.Dims().At(0)), nil
}

// ∊a lists all the scalars of a, descending into nested arrays.
func enlist(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	var out []vals.Value
	var walk func(v vals.Value) error
	walk = func(v vals.Value) error {
		if !vals.IsArray(v) {
			out = append(out, v)
			return nil
		}
		for i := 0; i < vals.Size(v); i++ {
			e, err := v.ValueAt(i)
			if err != nil {
				return err
			}
			if err := walk(e); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(a); err != nil {
		return nil, err
	}
	return vals.Vector(out...), nil
}

// a∊b tells for each element of a whether it occurs in b.
func member(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	elems, err := vals.Elements(b)
	if err != nil {
		return nil, err
	}
	set := make(map[vals.Key]struct{}, len(elems))
	for _, e := range elems {
		k, err := vals.KeyOf(e)
		if err != nil {
			return nil, err
		}
		set[k] = struct{}{}
	}
	return vals.Each1(a, func(x vals.Value) (vals.Value, error) {
		k, err := vals.KeyOf(x)
		if err != nil {
			return nil, err
		}
		_, ok := set[k]
		return vals.FromBool(ok), nil
	})
}

func gradeUp(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.Grade(a, false)
}

func gradeDown(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.Grade(a, true)
}

func identity(_ *Frame, a, _ vals.Value) (vals.Value, error) { return a, nil }

func rightArg(_ *Frame, _, b, _ vals.Value) (vals.Value, error) { return b, nil }

func leftArg(_ *Frame, a, _, _ vals.Value) (vals.Value, error) { return a, nil }

func first(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.First(a)
}

func take(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	n, err := vals.AsInt(a)
	if err != nil {
		return nil, err
	}
	return vals.Take(n, b)
}

func drop(_ *Frame, a, b, _ vals.Value) (vals.Value, error) {
	n, err := vals.AsInt(a)
	if err != nil {
		return nil, err
	}
	return vals.Drop(n, b)
}

func reverse(_ *Frame, a, axisArg vals.Value) (vals.Value, error) {
	axis, err := axisOr(axisArg, lastAxis(a))
	if err != nil {
		return nil, err
	}
	return vals.Reverse(a, axis)
}

func rotate(_ *Frame, a, b, axisArg vals.Value) (vals.Value, error) {
	n, err := vals.AsInt(a)
	if err != nil {
		return nil, err
	}
	axis, err := axisOr(axisArg, lastAxis(b))
	if err != nil {
		return nil, err
	}
	return vals.Rotate(n, b, axis)
}
