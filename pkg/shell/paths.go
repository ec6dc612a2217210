package shell

import (
	"errors"
	"os"
	"path/filepath"

	"src.rho.sh/pkg/env"
)

// ConfigPath returns the path of the configuration file read when -config is
// not given.
func ConfigPath() (string, error) {
	dir, err := homeDir(env.XDG_CONFIG_HOME, defaultConfigHome)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rho", "rc.yaml"), nil
}

// HistoryPath returns the path of the database keeping the REPL history. The
// directory containing it is created if needed.
func HistoryPath() (string, error) {
	dir, err := homeDir(env.XDG_STATE_HOME, defaultStateHome)
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "rho")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

var errNoHome = errors.New("cannot determine home directory")

// Returns the value of the environment variable if it is an absolute path,
// and the default otherwise. This follows the XDG base directory
// specification, which says relative paths are invalid.
func homeDir(name string, def func() (string, error)) (string, error) {
	if dir := os.Getenv(name); filepath.IsAbs(dir) {
		return dir, nil
	}
	return def()
}
