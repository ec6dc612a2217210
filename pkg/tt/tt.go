// Package tt runs table-driven tests of plain functions.
//
// A table lists argument tuples and the return tuples they must produce:
//
//	tt.Test(t, tt.Fn("Add", Add), tt.Table{
//		tt.Args(1, 2).Rets(3),
//	})
package tt

import (
	"fmt"
	"reflect"
	"strings"
)

// Table is a list of test cases.
type Table []*Case

// Case holds the arguments of one call and the return tuples it must match.
type Case struct {
	args  []any
	wants [][]any
}

// Args starts a Case with the given arguments.
func Args(args ...any) *Case { return &Case{args: args} }

// Rets adds a tuple of expected return values and returns c. Each element
// may be a Matcher; other elements are compared with reflect.DeepEqual.
func (c *Case) Rets(matchers ...any) *Case {
	c.wants = append(c.wants, matchers)
	return c
}

// FnToTest is a function under test, along with how to show its arguments
// and return values in failure messages.
type FnToTest struct {
	name    string
	body    any
	argsFmt string
	retsFmt string
}

// Fn wraps a function for Test. The name is only used in failure messages.
func Fn(name string, body any) *FnToTest { return &FnToTest{name: name, body: body} }

// ArgsFmt sets the format string for arguments in failure messages.
func (fn *FnToTest) ArgsFmt(s string) *FnToTest {
	fn.argsFmt = s
	return fn
}

// RetsFmt sets the format string for return values in failure messages.
func (fn *FnToTest) RetsFmt(s string) *FnToTest {
	fn.retsFmt = s
	return fn
}

// T is the subset of testing.TB used by Test.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test calls fn with the arguments of each case and reports every return
// tuple that does not match.
func Test(t T, fn *FnToTest, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, want := range test.wants {
			if match(want, rets) {
				continue
			}
			t.Errorf("%s(%s) returns (-Wanted +Actual):\n-%s\n+%s",
				fn.name, fn.formatArgs(test.args), fn.formatRets(want), fn.formatRets(rets))
		}
	}
}

func (fn *FnToTest) formatArgs(args []any) string {
	if fn.argsFmt != "" {
		return fmt.Sprintf(fn.argsFmt, args...)
	}
	return join(args)
}

func (fn *FnToTest) formatRets(rets []any) string {
	switch {
	case fn.retsFmt != "":
		return fmt.Sprintf(fn.retsFmt, rets...)
	case len(rets) == 1:
		return fmt.Sprint(rets[0])
	}
	return "(" + join(rets) + ")"
}

func join(vs []any) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, v)
	}
	return sb.String()
}

// RetValue is the argument type of Matcher.Match. It is a distinct type so
// that Matcher is not satisfied by accident.
type RetValue any

// Matcher decides whether a return value is acceptable.
type Matcher interface {
	Match(RetValue) bool
}

// Any matches every value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

func match(want, got []any) bool {
	for i, w := range want {
		if m, ok := w.(Matcher); ok {
			if !m.Match(got[i]) {
				return false
			}
		} else if !reflect.DeepEqual(w, got[i]) {
			return false
		}
	}
	return true
}

func call(fn any, args []any) []any {
	in := make([]reflect.Value, len(args))
	fnType := reflect.TypeOf(fn)
	for i, arg := range args {
		if arg == nil {
			// A nil argument gets the zero value of the parameter type.
			in[i] = reflect.Zero(paramType(fnType, i))
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}
	out := reflect.ValueOf(fn).Call(in)
	rets := make([]any, len(out))
	for i, v := range out {
		rets[i] = v.Interface()
	}
	return rets
}

func paramType(fnType reflect.Type, i int) reflect.Type {
	if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
		return fnType.In(fnType.NumIn() - 1).Elem()
	}
	return fnType.In(i)
}
