// Package shell is the entry point for the terminal interface of rho: the
// script mode and the REPL.
package shell

import (
	"fmt"
	"os"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/mods"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/store"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram. It is always run if all previous
// subprograms in the suite delegate to it.
type Program struct {
	codeInArg  bool
	parseOnly  bool
	configPath string
	json       *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Treat the first argument as code to execute")
	fs.BoolVar(&p.parseOnly, "parseonly", false,
		"Parse the code and report errors without executing it")
	fs.StringVar(&p.configPath, "config", "",
		"Path to the configuration file; defaults to $XDG_CONFIG_HOME/rho/rc.yaml")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if p.codeInArg && len(args) == 0 {
		return prog.BadUsage("-c requires an argument")
	}
	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}

	e, err := NewEngine(cfg, fds[1])
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Close(); err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot release resources:", err)
		}
	}()

	if len(args) > 0 {
		exit := script(e, fds, args, &scriptCfg{
			Cmd: p.codeInArg, ParseOnly: p.parseOnly, JSON: *p.json})
		return prog.Exit(exit)
	}
	if p.parseOnly {
		return prog.BadUsage("-parseonly requires a script or -c")
	}

	icfg := &InteractConfig{Prompt: cfg.Prompt}
	if !cfg.NoHistory {
		history, err := openHistory()
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot open history:", err)
		} else {
			defer history.Close()
			icfg.History = history
		}
	}
	logger.Println("starting REPL")
	Interact(fds, e, icfg)
	return nil
}

func (p *Program) loadConfig() (*Config, error) {
	if p.configPath != "" {
		return LoadConfig(p.configPath, true)
	}
	path, err := ConfigPath()
	if err != nil {
		logger.Println("no config path:", err)
		return DefaultConfig(), nil
	}
	return LoadConfig(path, false)
}

// NewEngine creates an engine tuned by the configuration, with the modules it
// names. Output of the engine goes to stdout.
func NewEngine(cfg *Config, stdout *os.File) (*eval.Engine, error) {
	ecfg := cfg.EngineConfig()
	ecfg.Stdout = stdout
	e := eval.NewEngine(ecfg)
	if cfg.Modules == nil || len(cfg.Modules) > 0 {
		if err := mods.AddTo(e, cfg.Modules...); err != nil {
			e.Close()
			return nil, err
		}
	}
	return e, nil
}

func openHistory() (store.DBStore, error) {
	path, err := HistoryPath()
	if err != nil {
		return nil, err
	}
	return store.NewStore(path)
}
