package evaltest

import (
	"math"
	"regexp"

	"src.rho.sh/pkg/eval/vals"
)

// ValueMatcher is a value that can be passed to [Case.Puts] and has its own
// matching semantics.
type ValueMatcher interface{ matchValue(any) bool }

// Anything matches anything. It is useful when the value contains information
// that is useful when the test fails.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(any) bool { return true }

// OfKind matches any value of the given kind.
func OfKind(k vals.Kind) ValueMatcher { return ofKind{k} }

type ofKind struct{ k vals.Kind }

func (o ofKind) matchValue(v any) bool {
	if v, ok := v.(vals.Value); ok {
		return v.Kind() == o.k
	}
	return false
}

// Shaped matches an array with the given shape whose elements, in row-major
// order, match elems. The elements may be anything that Puts accepts.
func Shaped(shape []int, elems ...any) ValueMatcher { return shaped{shape, elems} }

type shaped struct {
	shape []int
	elems []any
}

func (s shaped) matchValue(v any) bool {
	a, ok := v.(vals.Value)
	if !ok || !vals.IsArray(a) {
		return false
	}
	got := a.Dims().Ints()
	if len(got) != len(s.shape) {
		return false
	}
	for i := range got {
		if got[i] != s.shape[i] {
			return false
		}
	}
	if vals.Size(a) != len(s.elems) {
		return false
	}
	for i, want := range s.elems {
		e, err := a.ValueAt(i)
		if err != nil || !match(e, want) {
			return false
		}
	}
	return true
}

// ApproximatelyThreshold defines the threshold for matching float values when
// using [Approximately].
const ApproximatelyThreshold = 1e-12

// Approximately matches a real number within the threshold defined by
// [ApproximatelyThreshold].
func Approximately(f float64) ValueMatcher { return approximately{f} }

type approximately struct{ value float64 }

func (a approximately) matchValue(value any) bool {
	v, ok := value.(vals.Value)
	if !ok || !vals.IsNumber(v) || v.Kind() == vals.ComplexKind {
		return false
	}
	f, err := vals.AsFloat(v)
	return err == nil && matchFloat64(a.value, f, ApproximatelyThreshold)
}

func matchFloat64(a, b, threshold float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 0) && math.IsInf(b, 0) &&
		math.Signbit(a) == math.Signbit(b) {
		return true
	}
	return math.Abs(a-b) <= threshold
}

// StringMatching matches any character vector matching a regexp pattern. If
// the pattern is not a valid regexp, the function panics.
func StringMatching(p string) ValueMatcher { return stringMatching{regexp.MustCompile(p)} }

type stringMatching struct{ pattern *regexp.Regexp }

func (s stringMatching) matchValue(value any) bool {
	v, ok := value.(vals.Value)
	if !ok {
		return false
	}
	str, err := vals.StringOf(v)
	return err == nil && s.pattern.MatchString(str)
}
