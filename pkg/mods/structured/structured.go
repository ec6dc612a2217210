// Package structured implements the json and yaml modules, which convert
// between structured documents and values.
//
// Documents map to values as follows:
//
//   - An object becomes an n×2 array of keys and values, sorted by key
//   - A list becomes a vector
//   - A string becomes a character vector
//   - A number becomes an integer if it has no fraction and a float otherwise
//   - A boolean becomes 1 or 0
//   - null becomes the null value
//
// The conversion back accepts the same shapes, so that documents round-trip.
package structured

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/vals"
)

// A Format is a document syntax.
type Format struct {
	name      string
	unmarshal func([]byte) (any, error)
	marshal   func(any) ([]byte, error)
}

// JSON is the module for JSON documents.
var JSON = &Format{"json", unmarshalJSON, json.Marshal}

// YAML is the module for YAML documents.
var YAML = &Format{"yaml", unmarshalYAML, yaml.Marshal}

func unmarshalJSON(data []byte) (any, error) {
	var doc any
	err := json.Unmarshal(data, &doc)
	return doc, err
}

func unmarshalYAML(data []byte) (any, error) {
	var doc any
	err := yaml.Unmarshal(data, &doc)
	return doc, err
}

// Name returns the name of the format, which is also the namespace of its
// functions.
func (f *Format) Name() string { return f.name }

// Init registers the read, readString and writeString functions.
func (f *Format) Init(e *eval.Engine) error {
	e.AddGoFns(f.name, map[string]eval.FunctionDescriptor{
		"read":        eval.NewGoFn(f.name+":read", f.read, nil),
		"readString":  eval.NewGoFn(f.name+":readString", f.readString, nil),
		"writeString": eval.NewGoFn(f.name+":writeString", f.writeString, nil),
	})
	return nil
}

// Decode parses a document into a value.
func (f *Format) Decode(data []byte) (vals.Value, error) {
	doc, err := f.unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s document: %w", f.name, err)
	}
	return FromDocument(doc)
}

// Encode renders a value as a document.
func (f *Format) Encode(v vals.Value) ([]byte, error) {
	doc, err := ToDocument(v)
	if err != nil {
		return nil, err
	}
	return f.marshal(doc)
}

func (f *Format) read(_ *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	path, err := vals.StringOf(a)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return f.Decode(data)
}

func (f *Format) readString(_ *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	s, err := vals.StringOf(a)
	if err != nil {
		return nil, err
	}
	return f.Decode([]byte(s))
}

func (f *Format) writeString(_ *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	data, err := f.Encode(a)
	if err != nil {
		return nil, err
	}
	return vals.FromString(string(data)), nil
}
