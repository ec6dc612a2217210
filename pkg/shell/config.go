package shell

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
	"src.rho.sh/pkg/eval"
)

// Config is the configuration of the shell, read from a YAML file.
type Config struct {
	// Arrays with at least this many elements are collapsed in parallel.
	ParallelThreshold int `yaml:"parallel-threshold"`
	// Number of blocks a parallel collapse is split into.
	ParallelBlocks int `yaml:"parallel-blocks"`
	// Modules to add to the engine. All modules are added when this is
	// absent, and none when it is an empty list.
	Modules []string `yaml:"modules"`
	// Prompt shown by the REPL when reading from a terminal.
	Prompt string `yaml:"prompt"`
	// Don't record the REPL history.
	NoHistory bool `yaml:"no-history"`
}

const defaultPrompt = "> "

// DefaultConfig returns the configuration used when there is no
// configuration file.
func DefaultConfig() *Config {
	return &Config{Prompt: defaultPrompt}
}

// EngineConfig returns the part of the configuration that tunes the engine.
func (c *Config) EngineConfig() eval.Config {
	return eval.Config{
		ParallelThreshold: c.ParallelThreshold,
		ParallelBlocks:    c.ParallelBlocks,
	}
}

// LoadConfig reads the configuration from the named file. If the file doesn't
// exist and mustExist is false, it returns the default configuration.
func LoadConfig(path string, mustExist bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !mustExist {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return ReadConfig(f, path)
}

// ReadConfig reads the configuration from r. Fields that don't exist in
// Config are rejected. The name is used in error messages.
func ReadConfig(r io.Reader, name string) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid config %s: %w", name, err)
	}
	switch {
	case cfg.ParallelThreshold < 0:
		return nil, fmt.Errorf("invalid config %s: parallel-threshold must be non-negative", name)
	case cfg.ParallelBlocks < 0:
		return nil, fmt.Errorf("invalid config %s: parallel-blocks must be non-negative", name)
	}
	return cfg, nil
}
