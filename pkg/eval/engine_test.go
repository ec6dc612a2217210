package eval_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/errs"
	. "src.rho.sh/pkg/eval/evaltest"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/parse"
)

func double(_ *Frame, a, _ vals.Value) (vals.Value, error) {
	return vals.Mul(a, vals.Int(2))
}

func registerLib(e *Engine) {
	ns := e.MakeNamespace("lib")
	e.RegisterFunction(ns.InternAndExport("double"), NewGoFn("double", double, nil))
	e.RegisterFunction(ns.Intern("hidden"), NewGoFn("hidden", double, nil))
}

func TestNamespaces(t *testing.T) {
	Test(t,
		That(`namespace("foo") ◊ ∇ bar (x) { x+1 } ◊ bar 1`).
			Then(`namespace("default")`).
			Then(`foo:bar 2`).Puts(2, "default", 3),
		// The namespace stays in effect for later evaluations.
		That(`namespace("foo") ◊ a←10`).Then(`a`).Puts(10, 10),
		// Builtins are visible from every namespace and can be qualified.
		That(`namespace("foo") ◊ 1+2`).Puts(3),
		That(`namespace("foo") ◊ rho:collapse 1 2`).Puts([]any{1, 2}),
		That(`rho:`).DoesNotParse(parse.ErrMalformedSymbol),
		That(`namespace("")`).DoesNotParse(parse.ErrIllegalDeclaration),
		That(`namespace("keyword")`).DoesNotParse(parse.ErrIllegalDeclaration),
		That(`namespace(1)`).DoesNotParse(parse.ErrUnexpectedToken),
	)
	TestWithSetup(t, registerLib,
		That(`lib:double 4`).Puts(8),
		That(`import("lib") ◊ double 4`).Puts(8),
		// Only exported symbols are imported.
		That(`import("lib") ◊ hidden 4`).Throws(errs.Unassigned{Name: "hidden"}),
		That(`lib:hidden 4`).Puts(8),
	)
}

func TestKeywords(t *testing.T) {
	Test(t,
		That(`:foo`).Puts(OfKind(vals.SymbolKind)),
		That(`:foo ≡ :foo`).Puts(1),
		That(`:foo ≡ 'foo`).Puts(0),
		// Keywords are the same in every namespace.
		That(`k←:foo`).Then(`namespace("other") ◊ default:k ≡ :foo`).Puts(Anything, 1),
		That(`:a:b`).DoesNotParse(parse.ErrMalformedSymbol),
	)
}

func TestEval_FailedParseRegistersNothing(t *testing.T) {
	Test(t,
		That("∇ foo (x) { x+1 }\n)").Then("foo 1").
			DoesNotParse(parse.ErrUnexpectedToken).
			Throws(errs.Unassigned{Name: "foo"}),
		That("defsyntax foo (:value x) { x }\n)").Then("foo 1").
			DoesNotParse(parse.ErrUnexpectedToken).
			Throws(errs.Unassigned{Name: "foo"}),
		// A namespace switch is also rolled back.
		That(`namespace("foo") ◊ )`).Then("a←1").Then("default:a").
			DoesNotParse().Puts(1, 1),
		// So is an import, although names after it resolve through it.
		That("import(\"lib\") ◊ double 4\n)").Then("double 4").WithSetup(registerLib).
			DoesNotParse(parse.ErrUnexpectedToken).
			Throws(errs.Unassigned{Name: "double"}),
		That(`import("lib") ◊ double 4`).Then("double 5").WithSetup(registerLib).
			Puts(8, 10),
	)
}

func TestEngine_Parse(t *testing.T) {
	e := NewEngine(Config{})
	defer e.Close()
	if err := e.Parse(parse.NewStringSource("src", "∇ foo (x) { x }")); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if names := e.FunctionNames(); contains(names, "foo") {
		t.Errorf("Parse registered foo")
	}
	err := e.Parse(parse.NewStringSource("src", "1 2)"))
	if parse.GetError(err) == nil {
		t.Errorf("got %v, want a parse error", err)
	}
}

func TestEngine_FunctionNames(t *testing.T) {
	e := NewEngine(Config{})
	defer e.Close()
	mustEval(t, e, "∇ zzz (x) { x }")
	names := e.FunctionNames()
	for _, name := range []string{"+", "⍴", "print", "labels", "zzz"} {
		if !contains(names, name) {
			t.Errorf("FunctionNames missing %q", name)
		}
	}
	if !sortedStrings(names) {
		t.Errorf("FunctionNames not sorted: %v", names)
	}
}

func TestEngine_Globals(t *testing.T) {
	e := NewEngine(Config{})
	defer e.Close()
	x := e.CurrentNamespace().Intern("x")
	e.SetGlobal(x, vals.Int(20))
	v := mustEval(t, e, "x+1")
	if eq, _ := vals.Equal(v, vals.Int(21)); !eq {
		t.Errorf("got %v, want 21", v)
	}
	mustEval(t, e, "x←5")
	v, err := e.Global(x)
	if err != nil {
		t.Fatal(err)
	}
	if eq, _ := vals.Equal(v, vals.Int(5)); !eq {
		t.Errorf("got %v, want 5", v)
	}
	if _, err := e.Global(e.CurrentNamespace().Intern("nope")); err == nil {
		t.Errorf("want error for unassigned global")
	}
}

func TestEngine_RegisterGlyph(t *testing.T) {
	e := NewEngine(Config{})
	defer e.Close()
	if e.IsGlyph('∆') {
		t.Fatalf("∆ is a glyph before registration")
	}
	e.RegisterGlyph('∆')
	e.RegisterFunction(e.CurrentNamespace().Intern("∆"), NewGoFn("∆", double, nil))
	v := mustEval(t, e, "∆∆3")
	if eq, _ := vals.Equal(v, vals.Int(12)); !eq {
		t.Errorf("got %v, want 12", v)
	}
}

type closer struct {
	name   string
	closed *[]string
	err    error
}

func (c *closer) Close() error {
	*c.closed = append(*c.closed, c.name)
	return c.err
}

func TestEngine_Closables(t *testing.T) {
	e := NewEngine(Config{})
	var closed []string
	a := &closer{"a", &closed, nil}
	b := &closer{"b", &closed, errors.New("b failed")}
	c := &closer{"c", &closed, nil}
	e.AddClosable(a)
	e.AddClosable(b)
	e.AddClosable(c)

	if err := e.Release(a); err != nil {
		t.Errorf("Release: %v", err)
	}
	if err := e.Release(a); err != nil {
		t.Errorf("second Release: %v", err)
	}
	err := e.Close()
	if err == nil || !strings.Contains(err.Error(), "b failed") {
		t.Errorf("Close returned %v, want the error of b", err)
	}
	if diff := cmp.Diff([]string{"a", "c", "b"}, closed); diff != "" {
		t.Errorf("close order (-want +got):\n%s", diff)
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

type testModule struct {
	name  string
	inits int
	err   error
}

func (m *testModule) Name() string { return m.name }

func (m *testModule) Init(e *Engine) error {
	m.inits++
	if m.err != nil {
		return m.err
	}
	ns := e.MakeNamespace(m.name)
	e.RegisterFunction(ns.InternAndExport("double"), NewGoFn("double", double, nil))
	return nil
}

func TestEngine_AddModule(t *testing.T) {
	e := NewEngine(Config{})
	defer e.Close()
	m := &testModule{name: "twice"}
	for i := 0; i < 2; i++ {
		if err := e.AddModule(m); err != nil {
			t.Fatalf("AddModule: %v", err)
		}
	}
	if m.inits != 1 {
		t.Errorf("Init called %d times, want 1", m.inits)
	}
	v := mustEval(t, e, "twice:double 5")
	if eq, _ := vals.Equal(v, vals.Int(10)); !eq {
		t.Errorf("got %v, want 10", v)
	}

	bad := &testModule{name: "bad", err: errors.New("cannot init")}
	if err := e.AddModule(bad); err == nil {
		t.Errorf("AddModule of failing module returned nil")
	}
	if diff := cmp.Diff([]string{"twice"}, e.ModuleNames()); diff != "" {
		t.Errorf("ModuleNames (-want +got):\n%s", diff)
	}
}

func TestEngine_ConcurrentPrint(t *testing.T) {
	var out bytes.Buffer
	e := NewEngine(Config{Stdout: &out})
	defer e.Close()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Print("abc")
		}()
	}
	wg.Wait()
	if got := out.String(); got != strings.Repeat("abc", 10) {
		t.Errorf("got output %q", got)
	}
}

func TestEngine_ParallelCollapse(t *testing.T) {
	e := NewEngine(Config{ParallelThreshold: 4, ParallelBlocks: 3})
	defer e.Close()
	v := mustEval(t, e, "+/1+⍳100")
	if eq, _ := vals.Equal(v, vals.Int(5050)); !eq {
		t.Errorf("got %v, want 5050", v)
	}
	v = mustEval(t, e, "(⍳10)×2")
	want := vals.Ints(0, 2, 4, 6, 8, 10, 12, 14, 16, 18)
	if eq, _ := vals.Equal(v, want); !eq {
		t.Errorf("got %v, want %v", v, want)
	}
}

func mustEval(t *testing.T, e *Engine, code string) vals.Value {
	t.Helper()
	v, err := e.Eval(parse.NewStringSource("src", code))
	if err != nil {
		t.Fatalf("eval %q: %v", code, err)
	}
	return v
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}

func TestReadableRoundTrip(t *testing.T) {
	for _, code := range []string{
		"¯3", "1 2.5 ¯4", ",5", "2 3⍴⍳6", `"ab\"c"`, "⍬", "0 3⍴⍬",
		"(1 2) 3", ",⊂1 2", "1 1⍴⊂1 2", `,⊂"ab"`, "⊂1 2", "2 2⍴(1 2) (3 4) 5 6",
	} {
		e := NewEngine(Config{})
		v, err := e.Eval(parse.NewStringSource("[test]", code))
		if err != nil {
			t.Fatalf("eval %q: %v", code, err)
		}
		s, err := vals.Format(v, vals.Readable)
		if err != nil {
			t.Fatalf("format %q: %v", code, err)
		}
		back, err := e.Eval(parse.NewStringSource("[test]", s))
		if err != nil {
			t.Errorf("%q formats as %q, which does not evaluate: %v", code, s, err)
		} else if eq, _ := vals.Equal(v, back); !eq {
			t.Errorf("%q formats as %q, which reads back as a different value", code, s)
		}
		e.Close()
	}
}

func TestEngine_CollapseConfigIsPerEngine(t *testing.T) {
	before := vals.GetCollapseConfig()
	par := NewEngine(Config{ParallelThreshold: 1, ParallelBlocks: 7})
	defer par.Close()
	seq := NewEngine(Config{ParallelThreshold: 1 << 20, ParallelBlocks: 2})
	defer seq.Close()
	if got := vals.GetCollapseConfig(); got != before {
		t.Errorf("NewEngine changed the global collapse config to %+v", got)
	}

	code := parse.NewStringSource("[test]", "(⍳50)×¨2")
	a, err := par.Eval(code)
	if err != nil {
		t.Fatal(err)
	}
	b, err := seq.Eval(code)
	if err != nil {
		t.Fatal(err)
	}
	if eq, _ := vals.Equal(a, b); !eq || vals.Size(a) != 50 {
		t.Errorf("engines with different collapse configs disagree")
	}
}
