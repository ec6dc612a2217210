package platform

import (
	"errors"
	"runtime"
	"testing"

	"src.rho.sh/pkg/eval"
	. "src.rho.sh/pkg/eval/evaltest"
	"src.rho.sh/pkg/must"
	"src.rho.sh/pkg/testutil"
)

func setup(e *eval.Engine) { must.OK(e.AddModule(Module)) }

func TestPlatform(t *testing.T) {
	testutil.Set(t, &osHostname, func() (string, error) {
		return "mach1.domain.tld", nil
	})
	TestWithSetup(t, setup,
		That(`platform:arch`).Puts(runtime.GOARCH),
		That(`platform:os`).Puts(runtime.GOOS),
		That(`platform:isWindows`).Puts(boolInt(runtime.GOOS == "windows")),
		That(`platform:isUnix`).Puts(
			boolInt(runtime.GOOS != "windows" && runtime.GOOS != "plan9" && runtime.GOOS != "js")),
		That(`platform:hostname 0`).Puts("mach1.domain.tld"),
		That(`platform:hostname 1`).Puts("mach1"),
	)
}

func TestPlatform_HostNameError(t *testing.T) {
	errNoHostname := errors.New("hostname cannot be determined")
	testutil.Set(t, &osHostname, func() (string, error) {
		return "", errNoHostname
	})
	TestWithSetup(t, setup,
		That(`platform:hostname 0`).Throws(errNoHostname),
	)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
