package eval_test

import (
	"errors"
	"testing"

	. "src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/parse"
)

func evalErr(t *testing.T, code string) error {
	t.Helper()
	e := NewEngine(Config{})
	defer e.Close()
	_, err := e.Eval(parse.NewStringSource("src", code))
	if err == nil {
		t.Fatalf("no error from %q", code)
	}
	return err
}

func TestException_Error(t *testing.T) {
	err := evalErr(t, "∇ foo (x) { y }\nfoo 1")
	want := "1:13: in function foo: variable not assigned: y"
	if got := err.Error(); got != want {
		t.Errorf("got message %q, want %q", got, want)
	}

	err = evalErr(t, "1 2+3 4 5")
	if got := err.Error(); got[:4] != "1:4:" {
		t.Errorf("got message %q, want prefix 1:4:", got)
	}
}

func TestException_Show(t *testing.T) {
	err := evalErr(t, "∇ foo (x) { y }\nfoo 1")
	exc := GetException(err)
	if exc == nil {
		t.Fatalf("got %T, want an Exception", err)
	}
	want := "Exception: \033[31;1mvariable not assigned: y\033[m\n" +
		"  at src:1:13 (foo)\n" +
		"Traceback:\n" +
		"  foo called at src:2:1"
	if got := exc.Show(""); got != want {
		t.Errorf("Show got\n%s\nwant\n%s", got, want)
	}
}

func TestException_Reason(t *testing.T) {
	err := evalErr(t, "⍳¯1")
	var domain errs.Domain
	if !errors.As(err, &domain) {
		t.Errorf("errors.As could not find errs.Domain in %v", err)
	}
	if _, ok := Reason(err).(errs.Domain); !ok {
		t.Errorf("Reason returned %T, want errs.Domain", Reason(err))
	}
	plain := errors.New("plain")
	if Reason(plain) != plain {
		t.Errorf("Reason of a non-exception should be the error itself")
	}
	if GetException(plain) != nil {
		t.Errorf("GetException of a non-exception should be nil")
	}
}

func TestException_StackTrace(t *testing.T) {
	err := evalErr(t, "∇ foo (x) { 1÷0 }\n∇ bar (x) { foo x }\nbar 1")
	tb := GetException(err).StackTrace()
	var names []string
	var lines []int
	for ; tb != nil; tb = tb.Next {
		names = append(names, tb.Name)
		lines = append(lines, tb.Pos.Line)
	}
	if len(names) != 2 || names[0] != "foo" || names[1] != "bar" {
		t.Errorf("got stack names %v, want [foo bar]", names)
	}
	if len(lines) == 2 && (lines[0] != 2 || lines[1] != 3) {
		t.Errorf("got call site lines %v, want [2 3]", lines)
	}
}
