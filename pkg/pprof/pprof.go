// Package pprof adds profiling support to the rho program.
package pprof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"src.rho.sh/pkg/prog"
)

// Program adds support for the -cpuprofile and -memprofile flags. It always
// delegates to the next program, and writes the profiles when that program
// finishes.
type Program struct {
	cpuProfile string
	memProfile string
}

func (p *Program) RegisterFlags(f *prog.FlagSet) {
	f.StringVar(&p.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	f.StringVar(&p.memProfile, "memprofile", "", "Write heap profile to file on exit")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var cleanups []func([3]*os.File)
	if p.cpuProfile != "" {
		f, err := os.Create(p.cpuProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
			fmt.Fprintln(fds[2], "Continuing without CPU profiling.")
		} else {
			pprof.StartCPUProfile(f)
			cleanups = append(cleanups, func([3]*os.File) {
				pprof.StopCPUProfile()
				f.Close()
			})
		}
	}
	if p.memProfile != "" {
		f, err := os.Create(p.memProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create heap profile:", err)
			fmt.Fprintln(fds[2], "Continuing without heap profiling.")
		} else {
			cleanups = append(cleanups, func(fds [3]*os.File) {
				// Get up-to-date statistics.
				runtime.GC()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintln(fds[2], "Warning: cannot write heap profile:", err)
				}
				f.Close()
			})
		}
	}
	return prog.NextProgram(cleanups...)
}
