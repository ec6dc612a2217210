//go:build unix

package shell

import (
	"os"
	"testing"

	"github.com/creack/pty"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/must"
)

func TestInteract_PromptOnTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()
	outCh, errCh := readAll(r1), readAll(r2)

	must.OK1(ptmx.WriteString("1+2\nquit\n"))
	e := eval.NewEngine(eval.Config{Stdout: w1})
	defer e.Close()
	Interact([3]*os.File{tty, w1, w2}, e, &InteractConfig{Prompt: "rho> "})
	w1.Close()
	w2.Close()

	if stdout := <-outCh; stdout != "3\n" {
		t.Errorf("stdout = %q, want %q", stdout, "3\n")
	}
	// The prompt is written once for each line read.
	if stderr := <-errCh; stderr != "rho> rho> " {
		t.Errorf("stderr = %q, want %q", stderr, "rho> rho> ")
	}
}
