package testutil

import (
	"testing"

	"src.rho.sh/pkg/tt"
)

func TestDedent(t *testing.T) {
	tt.Test(t, tt.Fn("Dedent", Dedent), tt.Table{
		tt.Args(" \n  foo\n bar").Rets("\n foo\nbar"),
		tt.Args(`
			a
			 b
			c`).Rets("a\n b\nc"),
		// The indentation of the closing backtick only leaves a newline.
		tt.Args(`
			a
			 b
			c
			`).Rets("a\n b\nc\n"),
		// Tabs and spaces never match each other.
		tt.Args("\t a\n\t  b\n  c").Rets("\t a\n\t  b\n  c"),
		tt.Args(`
				a
			b`).Rets("\ta\nb"),
		tt.Args("x\n\n  y").Rets("x\n\n  y"),
	})
}
