package eval_test

import (
	"testing"

	"src.rho.sh/pkg/eval/errs"
	. "src.rho.sh/pkg/eval/evaltest"
	"src.rho.sh/pkg/parse"
)

func TestEach(t *testing.T) {
	Test(t,
		That("1 2 3 4+¨1").Puts([]any{2, 3, 4, 5}),
		That("1+¨1 2 3 4").Puts([]any{2, 3, 4, 5}),
		That("1 2 3+¨10 20 30").Puts([]any{11, 22, 33}),
		That("{⍵×2}¨1 2 3").Puts([]any{2, 4, 6}),
		That("≢¨(1 2) (3 4 5)").Puts([]any{2, 3}),
		That("-¨5").Puts(-5),
		That("1 2+¨1 2 3").Throws(ErrorWithType(errs.DimensionMismatch{})),
	)
}

func TestCommute(t *testing.T) {
	Test(t,
		That("4÷⍨160").Puts(40),
		That("1-⍨10").Puts(9),
		That("+⍨3").Puts(6),
		That("×⍨1 2 3").Puts([]any{1, 4, 9}),
	)
}

func TestReduce(t *testing.T) {
	Test(t,
		That("+/1 2 3 4").Puts(10),
		That("-/1 2 3").Puts(2),
		That("×/⍳0").Puts(1),
		That("+/⍬").Puts(0),
		That("+/5").Puts(5),
		That("+/2 3⍴⍳6").Puts([]any{3, 12}),
		That("+/[0] 2 3⍴⍳6").Puts([]any{3, 5, 7}),
		That("⌈/3 1 4 1 5").Puts(5),
		That("{⍺+⍵×10}/1 2 3").Puts(321),
		That("⌈/⍬").Throws(ErrorWithType(errs.Domain{})),
		That("+/[2] 2 3⍴⍳6").Throws(errs.InvalidAxis{Axis: 2, Rank: 2}),
		That("1 +/ 2").Throws(ErrorWithType(errs.Unsupported{})),
	)
}

func TestCompose(t *testing.T) {
	Test(t,
		That("-∘| ¯3").Puts(-3),
		That("10 -∘| ¯3").Puts(7),
		That("{⍵+1}∘{⍵×2} 5").Puts(11),
		That("+∘").DoesNotParse(parse.ErrUnexpectedToken),
		That("+∘1 2").DoesNotParse(parse.ErrUnexpectedToken),
	)
}

func TestOperatorChains(t *testing.T) {
	Test(t,
		That("+/¨(1 2) (3 4 5)").Puts([]any{3, 12}),
		That("1 2 3-⍨¨10").Puts([]any{9, 8, 7}),
	)
}
