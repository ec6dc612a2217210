// Rho is an interpreter for an array programming language in the APL family.
// It runs scripts, offers a REPL, and can act as a language server.
package main

import (
	"os"

	"src.rho.sh/pkg/buildinfo"
	"src.rho.sh/pkg/lsp"
	"src.rho.sh/pkg/pprof"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{},
			&shell.Program{})))
}
