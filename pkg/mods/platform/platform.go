// Package platform implements the platform module, which describes the
// platform rho runs on.
package platform

import (
	"os"
	"runtime"
	"strings"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/vals"
)

// Module is the platform module. It defines the variables platform:os,
// platform:arch, platform:isUnix and platform:isWindows, and the function
// platform:hostname.
var Module eval.Module = module{}

type module struct{}

func (module) Name() string { return "platform" }

const (
	isWindows = runtime.GOOS == "windows"
	isUnix    = runtime.GOOS != "windows" && runtime.GOOS != "plan9" && runtime.GOOS != "js"
)

func (module) Init(e *eval.Engine) error {
	ns := e.AddGoFns("platform", map[string]eval.FunctionDescriptor{
		"hostname": eval.NewGoFn("platform:hostname", hostname, nil),
	})
	e.SetGlobal(ns.InternAndExport("os"), vals.FromString(runtime.GOOS))
	e.SetGlobal(ns.InternAndExport("arch"), vals.FromString(runtime.GOARCH))
	e.SetGlobal(ns.InternAndExport("isUnix"), vals.FromBool(isUnix))
	e.SetGlobal(ns.InternAndExport("isWindows"), vals.FromBool(isWindows))
	return nil
}

var osHostname = os.Hostname // to allow mocking in unit tests

// platform:hostname stripDomain returns the hostname of the system, without
// the part after the first dot if stripDomain is true.
func hostname(_ *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	strip, err := vals.AsBool(a)
	if err != nil {
		return nil, err
	}
	name, err := osHostname()
	if err != nil {
		return nil, err
	}
	if strip {
		name, _, _ = strings.Cut(name, ".")
	}
	return vals.FromString(name), nil
}
