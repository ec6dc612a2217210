package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/store/storedefs"
	"src.rho.sh/pkg/sys"
	"src.rho.sh/pkg/wcwidth"
)

// QuitCommand is the line that ends a REPL session.
const QuitCommand = "quit"

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	Prompt string
	// Where lines are recorded. May be nil.
	History storedefs.Store
}

// Interact reads lines from fds[0] and evaluates each of them with the
// engine, until the input ends or a line is the quit command. Results are
// written to fds[1] and errors to fds[2]. A failing line doesn't end the
// session.
func Interact(fds [3]*os.File, e *eval.Engine, cfg *InteractConfig) {
	ed := newMinEditor(fds[0], fds[2], cfg.Prompt)
	width := -1
	if sys.IsATTY(fds[1].Fd()) {
		_, width = sys.WinSize(fds[1])
	}
	colorErrors := sys.IsATTY(fds[2].Fd())

	for cmdNum := 1; ; cmdNum++ {
		line, err := ed.ReadCode()
		if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(fds[2], "Cannot read input:", err)
			break
		}
		if strings.TrimSpace(line) == QuitCommand {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if cfg.History != nil {
			if _, err := cfg.History.AddCmd(line); err != nil {
				logger.Println("cannot add to history:", err)
			}
		}

		src := parse.NewStringSource(fmt.Sprintf("[tty %v]", cmdNum), line)
		v, err := e.Eval(src)
		if err != nil {
			showError(fds[2], err, colorErrors)
			continue
		}
		s, err := vals.Format(v, vals.Pretty)
		if err != nil {
			showError(fds[2], err, colorErrors)
			continue
		}
		if width > 0 {
			s = wcwidth.TrimEachLine(s, width)
		}
		fmt.Fprintln(fds[1], s)
	}
}

// Errors are shown in one line, in the form "line:col: [in function NAME:]
// message".
func showError(w io.Writer, err error, color bool) {
	if color {
		diag.Complain(w, err.Error())
	} else {
		fmt.Fprintln(w, err.Error())
	}
}
