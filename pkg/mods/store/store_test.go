package store_test

import (
	"path/filepath"
	"testing"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/errs"
	. "src.rho.sh/pkg/eval/evaltest"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/mods/store"
	"src.rho.sh/pkg/must"
)

func TestStore(t *testing.T) {
	dir := t.TempDir()
	db := func(name string) string {
		return `s←store:open "` + filepath.Join(dir, name) + `"`
	}
	TestWithSetup(t, func(e *eval.Engine) { must.OK(e.AddModule(store.Module)) },
		That(db("put"), `s store:put ("a";1 2 3)`, `s store:get "a"`).
			Puts([]any{1, 2, 3}),
		That(db("string"), `s store:put ("k";"hello")`, `s store:get "k"`).
			Puts("hello"),
		That(db("missing"), `s store:get "nope"`).Puts(OfKind(vals.NilKind)),
		That(db("keys"), `s store:put ("b";1)`, `s store:put ("a";2)`, `store:keys s`).
			Puts([]any{"a", "b"}),
		That(db("empty"), `store:keys s`).Puts(Shaped([]int{0})),
		That(db("del"), `s store:put ("a";1)`, `s store:del "a"`, `s store:get "a"`).
			Puts(OfKind(vals.NilKind)),
		That(db("kind"), `(typeof s) ≡ :internal`).Puts(1),

		// Values persist after the database is closed and opened again.
		That(db("persist"), `s store:put ("x";42)`).Puts(42),
		That(db("persist"), `s store:get "x"`).Puts(42),
		That(db("reopen"), `s store:put ("x";1) ◊ close s`, db("reopen"), `s store:get "x"`).Puts(1),

		That(db("closed"), `store:close s`, `s store:get "a"`).Throws(AnyError),
		That(`1 store:get "a"`).Throws(ErrorWithType(errs.IncompatibleType{})),
		That(db("badput"), `s store:put 1`).Throws(ErrorWithType(errs.IncompatibleType{})),
		That(db("badvalue"), `s store:put ("f";λ{⍵})`).Throws(ErrorWithType(errs.IncompatibleType{})),
		That(`store:open "`+filepath.Join(dir, "no", "such", "dir")+`"`).Throws(AnyError),
	)
}
