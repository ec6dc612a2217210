package shell

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/must"
	"src.rho.sh/pkg/store"
	"src.rho.sh/pkg/store/storedefs"
)

// Runs a REPL session with the given input, and returns what it writes to
// stdout and stderr.
func interact(t *testing.T, input string, cfg *InteractConfig) (string, string) {
	t.Helper()
	r0, w0 := must.Pipe()
	must.OK1(w0.WriteString(input))
	w0.Close()
	defer r0.Close()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()
	outCh, errCh := readAll(r1), readAll(r2)

	e := eval.NewEngine(eval.Config{Stdout: w1})
	defer e.Close()
	Interact([3]*os.File{r0, w1, w2}, e, cfg)
	w1.Close()
	w2.Close()
	return <-outCh, <-errCh
}

func readAll(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}

func TestInteract(t *testing.T) {
	for _, test := range []struct {
		name       string
		input      string
		wantStdout string
		// Compared as a prefix when not empty.
		wantStderr string
	}{
		{"result", "1+2\n", "3\n", ""},
		{"last line without newline", "1+2", "3\n", ""},
		{"CRLF", "1+2\r\n", "3\n", ""},
		{"state persists", "a←5 ◊ 0\na+1\n", "0\n6\n", ""},
		{"print", "print 7\n", "77\n", ""},
		{"quit", "1\nquit\n2\n", "1\n", ""},
		{"blank lines", "\n  \n1\n", "1\n", ""},
		{"error", "1 2+3 4 5\n7\n", "7\n", "1:4: "},
		{"error in function", "∇ foo (x) { y } ◊ 0\nfoo 1\n", "0\n",
			"1:13: in function foo: variable not assigned: y\n"},
		{"parse error", "(1\n2\n", "2\n", "1:"},
	} {
		t.Run(test.name, func(t *testing.T) {
			stdout, stderr := interact(t, test.input, &InteractConfig{Prompt: "> "})
			if stdout != test.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout, test.wantStdout)
			}
			if !strings.HasPrefix(stderr, test.wantStderr) || (test.wantStderr == "") != (stderr == "") {
				t.Errorf("stderr = %q, want %q", stderr, test.wantStderr)
			}
		})
	}
}

func TestInteract_History(t *testing.T) {
	history := store.MustTempStore(t)
	interact(t, "1\n\n2+3\nquit\n4\n", &InteractConfig{History: history})

	cmds, err := history.CmdsWithSeq(1, 100)
	if err != nil {
		t.Fatal(err)
	}
	want := []storedefs.Cmd{{Text: "1", Seq: 1}, {Text: "2+3", Seq: 2}}
	if diff := cmp.Diff(want, cmds); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}
