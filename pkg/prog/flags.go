package prog

import "flag"

// FlagSet wraps a [flag.FlagSet], and provides methods for registering flags
// that are shared by several subprograms.
type FlagSet struct {
	*flag.FlagSet
	json *bool
}

// JSON returns a pointer to the value of the -json flag, registering it on the
// first call.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -parseonly or -version in JSON")
		fs.json = &json
	}
	return fs.json
}
