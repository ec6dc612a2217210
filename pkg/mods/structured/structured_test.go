package structured_test

import (
	"os"
	"path/filepath"
	"testing"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/errs"
	. "src.rho.sh/pkg/eval/evaltest"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/mods/structured"
	"src.rho.sh/pkg/must"
	"src.rho.sh/pkg/tt"
)

func setup(e *eval.Engine) {
	must.OK(e.AddModule(structured.JSON))
	must.OK(e.AddModule(structured.YAML))
}

func TestJSON(t *testing.T) {
	TestWithSetup(t, setup,
		That(`json:readString "[1, 2.5, \"x\", true, null]"`).
			Puts([]any{1, 2.5, "x", 1, OfKind(vals.NilKind)}),
		That(`json:readString "{\"b\": [1, 2], \"a\": \"x\"}"`).
			Puts(Shaped([]int{2, 2}, "a", "x", "b", []any{1, 2})),
		That(`json:readString "{}"`).Puts(Shaped([]int{0, 2})),
		That(`json:readString "[1,"`).Throws(AnyError),

		That(`json:writeString 1 2 3`).Puts(`[1,2,3]`),
		That(`json:writeString "hello"`).Puts(`"hello"`),
		That(`json:writeString 2 2⍴"a" 1 "b" 2`).Puts(`{"a":1,"b":2}`),
		That(`json:writeString 2 3⍴⍳6`).Puts(`[[0,1,2],[3,4,5]]`),
		That(`json:writeString (1;"x";⍬)`).Puts(`[1,"x",[]]`),
		That(`json:writeString 1.5 ¯2`).Puts(`[1.5,-2]`),
		That(`json:writeString λ{⍵}`).Throws(ErrorWithType(errs.IncompatibleType{})),

		// Round trip.
		That(`json:readString json:writeString 2 2⍴"k" (1 2) "v" "s"`).
			Puts(Shaped([]int{2, 2}, "k", []any{1, 2}, "v", "s")),
	)
}

func TestYAML(t *testing.T) {
	TestWithSetup(t, setup,
		That(`yaml:readString "a: 1\nb: [x, y]\nc: 2.5"`).
			Puts(Shaped([]int{3, 2}, "a", 1, "b", []any{"x", "y"}, "c", 2.5)),
		That(`yaml:readString "- true\n- ~"`).Puts([]any{1, OfKind(vals.NilKind)}),
		That(`yaml:writeString 1 2`).Puts("- 1\n- 2\n"),
		That(`yaml:writeString 1 2⍴"name" "rho"`).Puts("name: rho\n"),
		That(`yaml:readString "a: ["`).Throws(AnyError),
	)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "a.json")
	yamlFile := filepath.Join(dir, "a.yaml")
	must.OK(os.WriteFile(jsonFile, []byte(`{"x": [1, 2, 3]}`), 0o644))
	must.OK(os.WriteFile(yamlFile, []byte("x: 10\n"), 0o644))

	TestWithSetup(t, setup,
		That(`json:read "`+jsonFile+`"`).Puts(Shaped([]int{1, 2}, "x", []any{1, 2, 3})),
		That(`yaml:read "`+yamlFile+`"`).Puts(Shaped([]int{1, 2}, "x", 10)),
		That(`json:read "`+filepath.Join(dir, "missing")+`"`).Throws(AnyError),
	)
}

func TestToDocument(t *testing.T) {
	tt.Test(t, tt.Fn("ToDocument", structured.ToDocument), tt.Table{
		tt.Args(vals.Int(1)).Rets(int64(1), nil),
		tt.Args(vals.Float(0.5)).Rets(0.5, nil),
		tt.Args(vals.Char('x')).Rets("x", nil),
		tt.Args(vals.Nil).Rets(nil, nil),
		tt.Args(vals.FromString("abc")).Rets("abc", nil),
		tt.Args(vals.Ints(1, 2)).Rets([]any{int64(1), int64(2)}, nil),
		tt.Args(vals.Zilde).Rets([]any{}, nil),
		tt.Args(vals.Enclose(vals.Ints(3))).Rets([]any{int64(3)}, nil),
	})
}

func TestFromDocument(t *testing.T) {
	tt.Test(t, tt.Fn("FromDocument", structured.FromDocument), tt.Table{
		tt.Args(nil).Rets(vals.Nil, nil),
		tt.Args(true).Rets(vals.Int(1), nil),
		tt.Args(3.0).Rets(vals.Int(3), nil),
		tt.Args(3.25).Rets(vals.Float(3.25), nil),
		tt.Args(7).Rets(vals.Int(7), nil),
	})
}
