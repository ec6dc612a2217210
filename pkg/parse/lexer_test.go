package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rho.sh/pkg/sym"
)

type testResolver struct {
	table  *sym.Table
	ns     *sym.Namespace
	glyphs string
}

func newTestResolver() *testResolver {
	table := sym.NewTable()
	return &testResolver{table, table.Namespace("default"), "+-×÷⍴⍳,¨"}
}

func (r *testResolver) Symbols() *sym.Table             { return r.table }
func (r *testResolver) Resolve(name string) *sym.Symbol { return r.ns.ResolveOrIntern(name) }
func (r *testResolver) IsGlyph(c rune) bool             { return strings.ContainsRune(r.glyphs, c) }

// A simplified view of a token, for comparing in tests.
type tok struct {
	Kind TokenKind
	Text string
}

func lexAll(t *testing.T, res *testResolver, code string) ([]tok, error) {
	t.Helper()
	lx := NewLexer("[test]", strings.NewReader(code), res)
	var toks []tok
	for {
		token, err := lx.Next()
		if err != nil {
			return toks, err
		}
		if token.Kind == EOF {
			return toks, nil
		}
		text := ""
		switch token.Kind {
		case SymbolToken, StringToken, IntToken, FloatToken, ComplexToken, CharToken:
			text = token.String()
		}
		toks = append(toks, tok{token.Kind, text})
	}
}

var lexerTests = []struct {
	code string
	want []tok
}{
	{"1 2 3", []tok{{IntToken, "1"}, {IntToken, "2"}, {IntToken, "3"}}},
	{"¯12 1.5 ¯0.25", []tok{{IntToken, "-12"}, {FloatToken, "1.5"}, {FloatToken, "-0.25"}}},
	{"1E3 2.5e¯2", []tok{{FloatToken, "1000"}, {FloatToken, "0.025"}}},
	{"2J3 1.5j¯2", []tok{{ComplexToken, "(2+3i)"}, {ComplexToken, "(1.5-2i)"}}},
	{"foo+bar", []tok{{SymbolToken, "default:foo"}, {SymbolToken, "default:+"}, {SymbolToken, "default:bar"}}},
	{"3 4⍴⍳12", []tok{{IntToken, "3"}, {IntToken, "4"}, {SymbolToken, "default:⍴"}, {SymbolToken, "default:⍳"}, {IntToken, "12"}}},
	{`"ab\"c\\d\n"`, []tok{{StringToken, `"ab\"c\\d\n"`}}},
	{"@a @ @⍴", []tok{{CharToken, "@a"}, {CharToken, "@ "}, {CharToken, "@⍴"}}},
	{":value ns:name", []tok{{SymbolToken, "keyword:value"}, {SymbolToken, "ns:name"}}},
	{"a ⍝ comment ⍴⍴⍴\nb", []tok{{SymbolToken, "default:a"}, {Newline, ""}, {SymbolToken, "default:b"}}},
	{"a `  \nb", []tok{{SymbolToken, "default:a"}, {SymbolToken, "default:b"}}},
	{"( ) { } [ ] ◊ ⋄ ← ∇ ⍬ λ ⍞ ; '", []tok{
		{OpenParen, ""}, {CloseParen, ""}, {OpenBrace, ""}, {CloseBrace, ""},
		{OpenBracket, ""}, {CloseBracket, ""}, {StatementSep, ""}, {StatementSep, ""},
		{LeftArrow, ""}, {FnDef, ""}, {Null, ""}, {Lambda, ""}, {Apply, ""},
		{ListSep, ""}, {QuotePrefix, ""}}},
	{"namespace import defsyntax if else", []tok{
		{NamespaceKw, ""}, {ImportKw, ""}, {DefsyntaxKw, ""}, {IfKw, ""}, {ElseKw, ""}}},
	{"⍺+⍵", []tok{{SymbolToken, "default:⍺"}, {SymbolToken, "default:+"}, {SymbolToken, "default:⍵"}}},
	{"x_1∆", []tok{{SymbolToken, "default:x_1∆"}}},
}

func TestLexer(t *testing.T) {
	for _, test := range lexerTests {
		t.Run(test.code, func(t *testing.T) {
			got, err := lexAll(t, newTestResolver(), test.code)
			if err != nil {
				t.Fatalf("got error %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("tokens (-want +got):\n%s", diff)
			}
		})
	}
}

var lexerErrorTests = []struct {
	code  string
	cause error
	line  int
	col   int
}{
	{"1 2a", ErrMalformedNumber, 1, 3},
	{"¯", ErrMalformedNumber, 1, 1},
	{"1.2.3", ErrMalformedNumber, 1, 1},
	{"99999999999999999999", ErrMalformedNumber, 1, 1},
	{"a:b:c", ErrMalformedSymbol, 1, 1},
	{"\n  foo:", ErrMalformedSymbol, 2, 3},
	{`"abc`, ErrUnexpectedChar, 1, 1},
	{"@", ErrUnexpectedChar, 1, 1},
	{"a ` b", ErrUnexpectedChar, 1, 5},
	{"a $", ErrUnexpectedChar, 1, 3},
}

func TestLexer_Errors(t *testing.T) {
	for _, test := range lexerErrorTests {
		t.Run(test.code, func(t *testing.T) {
			_, err := lexAll(t, newTestResolver(), test.code)
			perr := GetError(err)
			if perr == nil || !errors.Is(err, test.cause) {
				t.Fatalf("got error %v, want parse error caused by %v", err, test.cause)
			}
			if perr.Pos.Line != test.line || perr.Pos.Col != test.col {
				t.Errorf("error at %d:%d, want %d:%d",
					perr.Pos.Line, perr.Pos.Col, test.line, test.col)
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	lx := NewLexer("[test]", strings.NewReader("ab ◊\n  12"), newTestResolver())
	var got [][2]int
	for {
		token, err := lx.Next()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, [2]int{token.Pos.Line, token.Pos.Col})
		if token.Kind == EOF {
			break
		}
	}
	want := [][2]int{{1, 1}, {1, 4}, {1, 5}, {2, 3}, {2, 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
}

func TestLexer_PushBack(t *testing.T) {
	lx := NewLexer("[test]", strings.NewReader("1 2"), newTestResolver())
	first, _ := lx.Next()
	second, _ := lx.Next()
	lx.PushBack(second)
	lx.PushBack(first)
	peeked, _ := lx.Peek()
	if peeked.Int != 1 {
		t.Errorf("Peek -> %v, want 1", peeked)
	}
	for _, want := range []int64{1, 2} {
		token, _ := lx.Next()
		if token.Int != want {
			t.Errorf("Next -> %v, want %v", token, want)
		}
	}
	for i := 0; i < 2; i++ {
		if token, _ := lx.Next(); token.Kind != EOF {
			t.Errorf("Next after end -> %v, want EOF", token)
		}
	}
}

func TestLexer_ImportedSymbols(t *testing.T) {
	res := newTestResolver()
	lib := res.table.Namespace("lib")
	exported := lib.InternAndExport("f")
	lib.Intern("g")
	res.ns.AddImport(lib)

	lx := NewLexer("[test]", strings.NewReader("f g"), res)
	f, _ := lx.Next()
	g, _ := lx.Next()
	if f.Sym != exported {
		t.Errorf("f resolved to %v, want %v", f.Sym, exported)
	}
	if g.Sym.Namespace() != res.ns {
		t.Errorf("unexported g resolved to %v, want a symbol in default", g.Sym)
	}
}

func TestSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.rho")
	if err := os.WriteFile(path, []byte("1+2"), 0600); err != nil {
		t.Fatal(err)
	}
	for _, src := range []Source{NewStringSource("[s]", "1+2"), FileSource{path}} {
		text, err := src.Text()
		if text != "1+2" || err != nil {
			t.Errorf("%s: Text() -> (%q, %v)", src.Name(), text, err)
		}
		stream, err := src.Open()
		if err != nil {
			t.Fatal(err)
		}
		toks, err := lexAll(t, newTestResolver(), text)
		if err != nil || len(toks) != 3 {
			t.Errorf("%s: lexed %v, %v", src.Name(), toks, err)
		}
		r, _, _ := stream.ReadRune()
		if r != '1' {
			t.Errorf("%s: first rune %q, want '1'", src.Name(), r)
		}
		stream.Close()
	}
	if _, err := (FileSource{filepath.Join(t.TempDir(), "missing")}).Open(); err == nil {
		t.Errorf("opening a missing file succeeded")
	}
}
