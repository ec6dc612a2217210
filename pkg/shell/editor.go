package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"src.rho.sh/pkg/sys"
)

// A line reader for the REPL. The prompt is only written when the input is a
// terminal.
type minEditor struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

func newMinEditor(in, out *os.File, prompt string) *minEditor {
	if !sys.IsATTY(in.Fd()) {
		prompt = ""
	}
	return &minEditor{bufio.NewReader(in), out, prompt}
}

func (ed *minEditor) ReadCode() (string, error) {
	if ed.prompt != "" {
		fmt.Fprint(ed.out, ed.prompt)
	}
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		// The last line doesn't end in a newline.
		err = nil
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), err
}
