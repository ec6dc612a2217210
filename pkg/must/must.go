// Package must turns errors into panics. It is meant for tests and for setup
// code whose errors can only come from programming mistakes.
package must

import (
	"os"
	"path/filepath"
)

// OK panics if err is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 returns v, or panics if err is not nil.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// Pipe is like os.Pipe.
func Pipe() (r, w *os.File) {
	r, w, err := os.Pipe()
	OK(err)
	return r, w
}

// Chdir is like os.Chdir.
func Chdir(dir string) { OK(os.Chdir(dir)) }

// MkdirAll creates each directory along with its missing parents.
func MkdirAll(names ...string) {
	for _, name := range names {
		OK(os.MkdirAll(name, 0o700))
	}
}

// WriteFile writes a file, creating the missing directories leading to it.
func WriteFile(name, data string) {
	MkdirAll(filepath.Dir(name))
	OK(os.WriteFile(name, []byte(data), 0o600))
}
