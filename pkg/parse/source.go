package parse

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Source is a named piece of code.
type Source interface {
	// Name identifies the source in positions and error messages.
	Name() string
	// Text returns the entire content.
	Text() (string, error)
	// Open returns a stream of the characters of the source. The caller
	// must close it.
	Open() (CharStream, error)
}

// CharStream is a stream of characters that must be closed after use.
type CharStream interface {
	io.RuneReader
	io.Closer
}

// StringSource is a Source backed by a string.
type StringSource struct {
	SrcName string
	Code    string
}

// NewStringSource returns a StringSource with the given name and code.
func NewStringSource(name, code string) StringSource {
	return StringSource{name, code}
}

func (s StringSource) Name() string          { return s.SrcName }
func (s StringSource) Text() (string, error) { return s.Code, nil }

func (s StringSource) Open() (CharStream, error) {
	return nopCloser{strings.NewReader(s.Code)}, nil
}

type nopCloser struct{ io.RuneReader }

func (nopCloser) Close() error { return nil }

// FileSource is a Source backed by a file, which is read when the source is
// opened.
type FileSource struct {
	Path string
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Text() (string, error) {
	bs, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bs) {
		return "", errSourceNotUTF8
	}
	return string(bs), nil
}

func (s FileSource) Open() (CharStream, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	return fileStream{bufio.NewReader(f), f}, nil
}

type fileStream struct {
	*bufio.Reader
	f *os.File
}

func (s fileStream) Close() error { return s.f.Close() }
