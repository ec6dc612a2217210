// Package re implements the re module, which works with regular expressions
// in the syntax of Go's regexp package.
package re

import (
	"regexp"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
)

// Module is the re module.
var Module eval.Module = module{}

type module struct{}

func (module) Name() string { return "re" }

func (module) Init(e *eval.Engine) error {
	e.AddGoFns("re", map[string]eval.FunctionDescriptor{
		"quote":   eval.NewGoFn("re:quote", quote, nil),
		"match":   eval.NewGoFn("re:match", nil, match),
		"find":    eval.NewGoFn("re:find", nil, find),
		"replace": eval.NewGoFn("re:replace", nil, replace),
		"split":   eval.NewGoFn("re:split", nil, split),
	})
	return nil
}

func quote(_ *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	s, err := vals.StringOf(a)
	if err != nil {
		return nil, err
	}
	return vals.FromString(regexp.QuoteMeta(s)), nil
}

func compile(v vals.Value) (*regexp.Regexp, error) {
	p, err := vals.StringOf(v)
	if err != nil {
		return nil, err
	}
	return regexp.Compile(p)
}

// Returns the pattern and the source string of a dyadic call.
func args(a, b vals.Value) (*regexp.Regexp, string, error) {
	pattern, err := compile(a)
	if err != nil {
		return nil, "", err
	}
	source, err := vals.StringOf(b)
	if err != nil {
		return nil, "", err
	}
	return pattern, source, nil
}

// pattern re:match source
func match(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	pattern, source, err := args(a, b)
	if err != nil {
		return nil, err
	}
	return vals.FromBool(pattern.MatchString(source)), nil
}

// pattern re:find source returns an n×3 array with the text, start and end of
// each match.
func find(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	pattern, source, err := args(a, b)
	if err != nil {
		return nil, err
	}
	matches := pattern.FindAllStringIndex(source, -1)
	elems := make([]vals.Value, 0, 3*len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]
		elems = append(elems, vals.FromString(source[start:end]), vals.Int(start), vals.Int(end))
	}
	table := vals.NewArray(dims.Of(len(matches), 3), elems)
	return vals.WithLabels(table, [][]string{nil, {"text", "start", "end"}}), nil
}

// (pattern;replacement) re:replace source. The replacement is either a
// string, which may refer to submatches as $1, or a function called with the
// text of each match.
func replace(fm *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	l, ok := a.(*vals.List)
	if !ok || l.Len() != 2 {
		return nil, errs.IncompatibleType{Message: "re:replace needs a (pattern;replacement) list"}
	}
	pattern, source, err := args(l.At(0), b)
	if err != nil {
		return nil, err
	}
	if fn, ok := l.At(1).(*eval.Lambda); ok {
		var errReplace error
		out := pattern.ReplaceAllStringFunc(source, func(s string) string {
			if errReplace != nil {
				return ""
			}
			v, err := fn.Call1(fm, vals.FromString(s), nil)
			if err == nil {
				v, err = fm.Collapse(v)
			}
			if err != nil {
				errReplace = err
				return ""
			}
			repl, err := vals.StringOf(v)
			if err != nil {
				errReplace = err
			}
			return repl
		})
		return vals.FromString(out), errReplace
	}
	repl, err := vals.StringOf(l.At(1))
	if err != nil {
		return nil, err
	}
	return vals.FromString(pattern.ReplaceAllString(source, repl)), nil
}

func split(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	pattern, source, err := args(a, b)
	if err != nil {
		return nil, err
	}
	return vals.FromStrings(pattern.Split(source, -1)...), nil
}
