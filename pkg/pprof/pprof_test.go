package pprof_test

import (
	"os"
	"testing"

	"src.rho.sh/pkg/pprof"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/prog/progtest"
	"src.rho.sh/pkg/testutil"
)

var (
	Test    = progtest.Test
	ThatRho = progtest.ThatRho
)

func TestProgram(t *testing.T) {
	testutil.InTempDir(t)

	Test(t, prog.Composite(&pprof.Program{}, noopProgram{}),
		ThatRho("-cpuprofile", "cpuprof").DoesNothing(),
		ThatRho("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),
		ThatRho("-memprofile", "memprof").DoesNothing(),
		ThatRho("-memprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create heap profile:"),
	)

	// Check for the effect of the flags. There isn't much to test beyond a
	// sanity check that the profile files now exist.
	for _, name := range []string{"cpuprof", "memprof"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("profile file %s does not exist: %v", name, err)
		}
	}
}

type noopProgram struct{}

func (noopProgram) RegisterFlags(*prog.FlagSet)     {}
func (noopProgram) Run([3]*os.File, []string) error { return nil }
