package diag

import (
	"testing"

	. "src.rho.sh/pkg/tt"
)

func TestPosition_Prefix(t *testing.T) {
	Test(t, Fn("Prefix", Position.Prefix), Table{
		Args(Position{}).Rets(""),
		Args(Position{Line: 2, Col: 7}).Rets("2:7: "),
		Args(Position{Line: 2, Col: 7, FnName: "f"}).Rets("2:7: in function f: "),
	})
}

func TestPosition_WithFn(t *testing.T) {
	p := Position{Source: "x", Line: 1, Col: 1}
	q := p.WithFn("g")
	if p.FnName != "" || q.FnName != "g" {
		t.Errorf("WithFn mutated the receiver or did not set the name")
	}
}
