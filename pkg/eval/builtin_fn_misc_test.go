package eval_test

import (
	"testing"

	"src.rho.sh/pkg/eval/errs"
	. "src.rho.sh/pkg/eval/evaltest"
)

func TestPrint(t *testing.T) {
	Test(t,
		That(`print "hello"`).Puts("hello").Prints("hello"),
		That("print ¯1 2").Puts([]any{-1, 2}).Prints("-1 2"),
		That(`println "a" ◊ println "b"`).Prints("a\nb\n").Puts("b"),
		That("print 2 2⍴⍳4").Prints("0 1\n2 3").Puts(Anything),
	)
}

func TestFormatFn(t *testing.T) {
	Test(t,
		That("format 1 ¯2").Puts("1 ¯2"),
		That("format 2 3⍴⍳6").Puts("2 3⍴0 1 2 3 4 5"),
		That("format λ{⍵}").Throws(AnyError),
	)
}

func TestTypeof(t *testing.T) {
	Test(t,
		That("(typeof 1) ≡ :integer").Puts(1),
		That("(typeof 1.5) ≡ :float").Puts(1),
		That("(typeof 1J1) ≡ :complex").Puts(1),
		That("(typeof @a) ≡ :char").Puts(1),
		That("(typeof 'x) ≡ :symbol").Puts(1),
		That("(typeof λ{⍵}) ≡ :function").Puts(1),
		That("(typeof (1;2)) ≡ :list").Puts(1),
		That("(typeof 1 2) ≡ :array").Puts(1),
	)
}

func TestIsLocallyBound(t *testing.T) {
	Test(t,
		That("a←1 ◊ isLocallyBound 'a").Puts(1),
		That("isLocallyBound 'a").Puts(0),
		That("a←1 ◊ {isLocallyBound 'a} 0").Puts(0),
		That("{b←1 ◊ isLocallyBound 'b} 0").Puts(1),
		That("isLocallyBound 1").Throws(ErrorWithType(errs.IncompatibleType{})),
	)
}

func TestCollapseFn(t *testing.T) {
	Test(t,
		That("collapse 1 2 3+1").Puts([]any{2, 3, 4}),
		That("collapse 1÷0 1").Throws(ErrorWithType(errs.Domain{})),
	)
}

func TestLabels(t *testing.T) {
	Test(t,
		That(`x ← ("a" "b") labels 1 2 ◊ labels x`).Puts([]any{"a", "b"}),
		That(`x ← ("r1" "r2") labels[0] 2 3⍴⍳6 ◊ labels[0] x`).Puts([]any{"r1", "r2"}),
		That(`labels 1 2`).Puts(Shaped([]int{0})),
		That(`("a" "b" "c") labels 1 2`).Throws(ErrorWithType(errs.DimensionMismatch{})),
		That(`("a") labels 1`).Throws(ErrorWithType(errs.Domain{})),
		That(`close 1`).Throws(ErrorWithType(errs.IncompatibleType{})),
	)
}
