//go:build unix

package shell

import (
	"os"
	"path/filepath"

	"src.rho.sh/pkg/env"
)

var (
	defaultConfigHome = func() (string, error) { return inHome(".config") }
	defaultStateHome  = func() (string, error) { return inHome(".local", "state") }
)

func inHome(elems ...string) (string, error) {
	home := os.Getenv(env.HOME)
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil || home == "" {
			return "", errNoHome
		}
	}
	return filepath.Join(append([]string{home}, elems...)...), nil
}
