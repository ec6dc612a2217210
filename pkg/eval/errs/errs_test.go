package errs

import (
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		IndexOutOfBounds{What: "index", Index: 5, Bound: 4},
		"index out of bounds: index must be from 0 to 3, but is 5",
	},
	{
		IndexOutOfBounds{What: "index", Index: 0, Bound: 0},
		"index out of bounds: index has no valid value, but is 0",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 2, Actual: 3},
		"arity mismatch: arguments must be 2 values, but is 3 values",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: -1, Actual: 1},
		"arity mismatch: arguments must be 2 or more values, but is 1 value",
	},
	{
		ArityMismatch{What: "arguments", ValidLow: 2, ValidHigh: 3, Actual: 1},
		"arity mismatch: arguments must be 2 to 3 values, but is 1 value",
	},
	{
		DimensionMismatch{What: "arguments of +", A: []int{3}, B: []int{2, 2}},
		"dimension mismatch: arguments of +: [3] and [2, 2]",
	},
	{
		InvalidAxis{Axis: 3, Rank: 2},
		"invalid axis: 3 is not an axis of a rank 2 value",
	},
	{
		Unassigned{Name: "default:x"},
		"variable not assigned: default:x",
	},
	{
		Domain{What: "divisor must be nonzero", Actual: "0"},
		"domain error: divisor must be nonzero, but is 0",
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}
