// Package evaltest provides a framework for testing rho code.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//	    That("2 3 4+5").Puts([]any{7, 8, 9}),
//	    That(`print "x"`).Prints("x"))
//
// If some setup is needed, use the TestWithSetup function instead.
package evaltest

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/parse"
)

// Case is a test case that can be used in Test.
type Case struct {
	codes  []string
	setup  func(e *eval.Engine)
	verify func(t *testing.T, e *eval.Engine)
	want   result
}

type result struct {
	ValueOut []any
	BytesOut []byte

	ParseError error
	Exception  error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines. To specify multiple pieces of code that are
// evaluated separately, use the Then method to append code pieces.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "2+3" evaluates to 5 reads:
//
//	That("2+3").Puts(5)
func That(lines ...string) Case {
	return Case{codes: []string{strings.Join(lines, "\n")}}
}

// Then returns a new Case that evaluates the given code in addition, using the
// same Engine. Multiple arguments are joined with newlines.
func (c Case) Then(lines ...string) Case {
	c.codes = append(c.codes, strings.Join(lines, "\n"))
	return c
}

// WithSetup returns a new Case with the given setup function executed on the
// Engine before the code is evaluated.
func (c Case) WithSetup(f func(*eval.Engine)) Case {
	c.setup = f
	return c
}

// Passes returns an altered Case that runs an additional verification
// function after the code is evaluated.
func (c Case) Passes(f func(t *testing.T, e *eval.Engine)) Case {
	c.verify = f
	return c
}

// Puts returns an altered Case that requires the code pieces that evaluate
// successfully to produce the given values, in order.
//
// Besides vals.Value, the wanted values may be Go ints, float64s and strings,
// which match the equivalent rho scalars and character vectors, []any, which
// matches a vector with matching elements, and ValueMatcher values.
func (c Case) Puts(vs ...any) Case {
	c.want.ValueOut = vs
	return c
}

// Prints returns an altered Case that requires the code to print the given
// text.
func (c Case) Prints(s string) Case {
	c.want.BytesOut = []byte(s)
	return c
}

// Throws returns an altered Case that requires the code to raise an exception
// with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithMessage.
//
// If at least one stack trace entry is given, the exception must also have a
// stack trace with the given function names, innermost call first.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Exception = exc{reason, stacks}
	return c
}

// DoesNotParse returns an altered Case that requires the code to fail to
// parse. If a cause is given, the parse error must have it.
func (c Case) DoesNotParse(cause ...error) Case {
	c.want.ParseError = parseError{cause}
	return c
}

// Test runs test cases. For each test case, a new Engine is created with
// eval.NewEngine.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithSetup(t, func(*eval.Engine) {}, tests...)
}

// TestWithSetup runs test cases. For each test case, a new Engine is created
// and passed to the setup function.
func TestWithSetup(t *testing.T, setup func(*eval.Engine), tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		t.Run(strings.Join(tc.codes, "\n"), func(t *testing.T) {
			t.Helper()
			var out bytes.Buffer
			e := eval.NewEngine(eval.Config{Stdout: &out})
			defer e.Close()
			setup(e)
			if tc.setup != nil {
				tc.setup(e)
			}

			r := evalAndCollect(e, tc.codes)
			r.BytesOut = out.Bytes()

			if tc.verify != nil {
				tc.verify(t, e)
			}
			if !matchOut(tc.want.ValueOut, r.ValueOut) {
				t.Errorf("got value out (-want +got):\n%s",
					cmp.Diff(showAll(tc.want.ValueOut), showAll(r.ValueOut)))
			}
			if !bytes.Equal(tc.want.BytesOut, r.BytesOut) {
				t.Errorf("got bytes out %q, want %q", r.BytesOut, tc.want.BytesOut)
			}
			if !matchErr(tc.want.ParseError, r.ParseError) {
				t.Errorf("got parse error %v, want %v", r.ParseError, tc.want.ParseError)
			}
			if !matchErr(tc.want.Exception, r.Exception) {
				t.Errorf("unexpected exception")
				if exc := eval.GetException(r.Exception); exc != nil {
					t.Logf("got: %T: %v", exc.Reason(), exc)
					t.Logf("stack trace: %#v", getStackNames(exc.StackTrace()))
				} else {
					t.Logf("got: %T: %v", r.Exception, r.Exception)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

func evalAndCollect(e *eval.Engine, texts []string) result {
	var r result
	for _, text := range texts {
		v, err := e.Eval(parse.NewStringSource("[test]", text))
		switch {
		case parse.GetError(err) != nil:
			// NOTE: If multiple code pieces fail to parse, only the last
			// error is saved.
			r.ParseError = err
		case err != nil:
			r.Exception = err
		default:
			r.ValueOut = append(r.ValueOut, v)
		}
	}
	return r
}

func matchOut(want, got []any) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !match(got[i], want[i]) {
			return false
		}
	}
	return true
}

func match(got, want any) bool {
	if m, ok := want.(ValueMatcher); ok {
		return m.matchValue(got)
	}
	gotValue, ok := got.(vals.Value)
	if !ok {
		return false
	}
	switch want := want.(type) {
	case int:
		return matchValue(gotValue, vals.Int(want))
	case float64:
		return Approximately(want).matchValue(gotValue)
	case string:
		s, err := vals.StringOf(gotValue)
		return err == nil && s == want
	case []any:
		return Shaped([]int{len(want)}, want...).matchValue(gotValue)
	case vals.Value:
		return matchValue(gotValue, want)
	}
	return false
}

func matchValue(got, want vals.Value) bool {
	eq, err := vals.Equal(got, want)
	return err == nil && eq
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}

func showAll(vs []any) []string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = show(v)
	}
	return s
}

func show(v any) string {
	if v, ok := v.(vals.Value); ok {
		if s, err := vals.Format(v, vals.Readable); err == nil {
			return s
		}
		if s, err := vals.Format(v, vals.Plain); err == nil {
			return s
		}
	}
	return fmt.Sprintf("%#v", v)
}
