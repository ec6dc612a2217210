package eval_test

import (
	"testing"

	"src.rho.sh/pkg/eval/errs"
	. "src.rho.sh/pkg/eval/evaltest"
	"src.rho.sh/pkg/eval/vals"
)

func TestShape(t *testing.T) {
	Test(t,
		That("⍴3 4⍴⍳12").Puts([]any{3, 4}),
		That("⍴5").Puts(vals.Zilde),
		That("⍴⍬").Puts([]any{0}),
		That("2 2⍴1 2 3").Puts(Shaped([]int{2, 2}, 1, 2, 3, 1)),
		That("0⍴1 2 3").Puts(Shaped([]int{0})),
		That("3⍴⍬").Throws(ErrorWithType(errs.Domain{})),
		That("⍳3").Puts([]any{0, 1, 2}),
		That("⍳0").Puts(Shaped([]int{0})),
		That("⍳¯1").Throws(errs.Domain{What: "argument to ⍳ must be non-negative", Actual: "-1"}),
		That("3 1 2⍳2").Puts(2),
		That("3 1 2⍳2 5 3").Puts([]any{2, 3, 0}),
	)
}

func TestCatenate(t *testing.T) {
	Test(t,
		That(",2 2⍴⍳4").Puts([]any{0, 1, 2, 3}),
		That(",5").Puts([]any{5}),
		That("1 2,3 4").Puts([]any{1, 2, 3, 4}),
		That("1 2,3").Puts([]any{1, 2, 3}),
		That("⍬,⍬").Puts(Shaped([]int{0})),
		That("(2 2⍴⍳4),(2 2⍴⍳4)").Puts(Shaped([]int{2, 4},
			0, 1, 0, 1, 2, 3, 2, 3)),
		That("(2 2⍴⍳4),[0]2 2⍴⍳4").Puts(Shaped([]int{4, 2},
			0, 1, 2, 3, 0, 1, 2, 3)),
		That("(2 2⍴⍳4),1 2 3").Throws(ErrorWithType(errs.DimensionMismatch{})),
		// A scalar is extended to a cell of the join axis.
		That("5,[1]2 3⍴⍳6").Puts(Shaped([]int{2, 4},
			5, 0, 1, 2, 5, 3, 4, 5)),
		That("(2 3⍴⍳6),[0]9").Puts(Shaped([]int{3, 3},
			0, 1, 2, 3, 4, 5, 9, 9, 9)),
	)
}

func TestEncloseDisclose(t *testing.T) {
	Test(t,
		That("⍴⊂1 2").Puts(vals.Zilde),
		That("⊃⊂1 2").Puts([]any{1, 2}),
		That("⊂5").Puts(5),
		That("1⊃10 20 30").Puts(20),
		That("(0 1)⊃(10 20) 30").Puts(20),
		That("5⊃1 2").Throws(ErrorWithType(errs.IndexOutOfBounds{})),
		That("2⌷10 20 30").Puts(30),
		That("1⌷2 3⍴⍳6").Puts([]any{3, 4, 5}),
		That("1 2⌷2 3⍴⍳6").Puts(5),
	)
}

func TestMatch(t *testing.T) {
	Test(t,
		That("≡1").Puts(0),
		That("≡1 2").Puts(1),
		That("≡⊂1 2").Puts(2),
		That("≡(1 2) 3").Puts(2),
		That("1 2 3≡1 2 3").Puts(1),
		That("1 2≡1 2 3").Puts(0),
		That("≢1 2 3 4").Puts(4),
		That("≢3 4⍴⍳12").Puts(3),
		That("≢5").Puts(1),
		That("1 2≢1 2").Puts(0),
	)
}

func TestMembership(t *testing.T) {
	Test(t,
		That("1 2 3∊2").Puts([]any{0, 1, 0}),
		That("1 2 3∊3 1").Puts([]any{1, 0, 1}),
		That("∊(1 2) (3 (4 5))").Puts([]any{1, 2, 3, 4, 5}),
	)
}

func TestGrade(t *testing.T) {
	Test(t,
		That("⍋3 1 2").Puts([]any{1, 2, 0}),
		That("⍒3 1 2").Puts([]any{0, 2, 1}),
		That("a←5 2 8 1 ◊ a[⍋a]").Puts([]any{1, 2, 5, 8}),
		That("⍋2 2⍴3 4 1 2").Puts([]any{1, 0}),
		That("⍋5").Throws(ErrorWithType(errs.Domain{})),
		That("⍋1J2 3").Throws(AnyError),
	)
}

func TestIdentities(t *testing.T) {
	Test(t,
		That("⊢5").Puts(5),
		That("⊣5").Puts(5),
		That("1⊢2").Puts(2),
		That("1⊣2").Puts(1),
	)
}

func TestTakeDrop(t *testing.T) {
	Test(t,
		That("↑3 4 5").Puts(3),
		That("↑⍬").Puts(0),
		That("2↑1 2 3").Puts([]any{1, 2}),
		That("¯1↑1 2 3").Puts([]any{3}),
		That("5↑1 2").Puts([]any{1, 2, 0, 0, 0}),
		That(`4↑"ab"`).Puts("ab  "),
		That("1↓1 2 3").Puts([]any{2, 3}),
		That("¯1↓1 2 3").Puts([]any{1, 2}),
		That("5↓1 2 3").Puts(Shaped([]int{0})),
		That("↓1 2").Throws(ErrorWithType(errs.Unsupported{})),
	)
}

func TestReverseRotate(t *testing.T) {
	Test(t,
		That("⌽1 2 3").Puts([]any{3, 2, 1}),
		That("⌽5").Puts(5),
		That("1⌽1 2 3").Puts([]any{2, 3, 1}),
		That("¯1⌽1 2 3").Puts([]any{3, 1, 2}),
		That("⌽2 2⍴⍳4").Puts(Shaped([]int{2, 2}, 1, 0, 3, 2)),
		That("⌽[0] 2 2⍴⍳4").Puts(Shaped([]int{2, 2}, 2, 3, 0, 1)),
		That("⌽[2] 2 2⍴⍳4").Throws(errs.InvalidAxis{Axis: 2, Rank: 2}),
	)
}
