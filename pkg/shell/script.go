package shell

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/parse"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd       bool
	ParseOnly bool
	JSON      bool
}

// Executes a script, and returns the exit status.
func script(e *eval.Engine, fds [3]*os.File, args []string, cfg *scriptCfg) int {
	arg0 := args[0]
	e.SetGlobal(e.CurrentNamespace().Intern("args"), vals.FromStrings(args[1:]...))

	var name, code string
	if cfg.Cmd {
		name = "code from -c"
		code = arg0
	} else {
		var err error
		name, err = filepath.Abs(arg0)
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of script %q: %v\n", arg0, err)
			return 2
		}
		code, err = parse.FileSource{Path: name}.Text()
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
	}

	src := parse.NewStringSource(name, code)
	if cfg.ParseOnly {
		err := e.Parse(src)
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(name, err))
		} else if err != nil {
			diag.ShowError(fds[2], err)
		}
		if err != nil {
			return 2
		}
		return 0
	}

	logger.Println("running script", name)
	if _, err := e.Eval(src); err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	return 0
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Message  string `json:"message"`
}

// Converts a parse error into JSON. A nil error is converted to an empty list.
func errorsToJSON(name string, err error) []byte {
	converted := []errorInJSON{}
	if err != nil {
		if pe := parse.GetError(err); pe != nil {
			converted = append(converted,
				errorInJSON{pe.Pos.Source, pe.Pos.Line, pe.Pos.Col, pe.Message})
		} else {
			converted = append(converted, errorInJSON{name, 0, 0, err.Error()})
		}
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
