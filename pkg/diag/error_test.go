package diag

import (
	"errors"
	"testing"

	"src.rho.sh/pkg/testutil"
)

type testErrorTag struct{}

func (testErrorTag) ErrorTag() string { return "some error" }

var errTestCause = errors.New("cause")

func setMessageMarkers(t *testing.T, start, end string) {
	testutil.Set(t, &messageStart, start)
	testutil.Set(t, &messageEnd, end)
}

func TestError(t *testing.T) {
	setMessageMarkers(t, "{", "}")

	err := &Error[testErrorTag]{
		Message: "bad list",
		Pos:     Position{Source: "[test]", Line: 1, Col: 6},
		Cause:   errTestCause,
	}

	wantErrorString := "1:6: bad list"
	if got := err.Error(); got != wantErrorString {
		t.Errorf("Error() -> %q, want %q", got, wantErrorString)
	}
	if !errors.Is(err, errTestCause) {
		t.Errorf("errors.Is(err, cause) -> false, want true")
	}

	// Type is capitalized in return value of Show
	wantShow := "Some error: {bad list}\n  at [test]:1:6"
	if got := err.Show(""); got != wantShow {
		t.Errorf("Show() -> %q, want %q", got, wantShow)
	}
}

func TestError_WithFunctionAndDetails(t *testing.T) {
	setMessageMarkers(t, "", "")

	err := &Error[testErrorTag]{
		Message: "oops",
		Pos:     Position{Source: "a.rho", Line: 3, Col: 2, FnName: "foo"},
		Details: "first\nsecond",
	}
	if got, want := err.Error(), "3:2: in function foo: oops"; got != want {
		t.Errorf("Error() -> %q, want %q", got, want)
	}
	wantShow := "Some error: oops\n  at a.rho:3:2 (foo)\n  first\n  second"
	if got := err.Show(""); got != wantShow {
		t.Errorf("Show() -> %q, want %q", got, wantShow)
	}
}

func TestError_NoPosition(t *testing.T) {
	err := &Error[testErrorTag]{Message: "internal"}
	if got := err.Error(); got != "internal" {
		t.Errorf("Error() -> %q, want %q", got, "internal")
	}
}
