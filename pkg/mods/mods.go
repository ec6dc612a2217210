// Package mods collects the modules that can be added to an engine.
package mods

import (
	"fmt"
	"sort"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/mods/db"
	"src.rho.sh/pkg/mods/math"
	"src.rho.sh/pkg/mods/platform"
	"src.rho.sh/pkg/mods/re"
	"src.rho.sh/pkg/mods/store"
	"src.rho.sh/pkg/mods/structured"
)

var all = []eval.Module{
	math.Module,
	platform.Module,
	re.Module,
	structured.JSON,
	structured.YAML,
	store.Module,
	db.Module,
}

// Names returns the sorted names of all modules.
func Names() []string {
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name()
	}
	sort.Strings(names)
	return names
}

// ByName returns the module with the given name.
func ByName(name string) (eval.Module, bool) {
	for _, m := range all {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// AddTo adds the named modules to the engine, or all of them if names is
// empty.
func AddTo(e *eval.Engine, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}
	for _, name := range names {
		m, ok := ByName(name)
		if !ok {
			return fmt.Errorf("unknown module %q, known modules are %v", name, Names())
		}
		if err := e.AddModule(m); err != nil {
			return fmt.Errorf("initialize module %s: %w", name, err)
		}
	}
	return nil
}
