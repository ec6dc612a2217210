// Package sym implements interned symbols and the namespaces that own them.
//
// All types in this package are safe for concurrent use.
package sym

import (
	"sort"
	"sync"
)

// Symbol is an interned (name, namespace) pair. Two symbols are the same
// symbol if and only if they are the same pointer.
type Symbol struct {
	name string
	ns   *Namespace
}

// Name returns the unqualified name of the symbol.
func (s *Symbol) Name() string { return s.name }

// Namespace returns the namespace that owns the symbol.
func (s *Symbol) Namespace() *Namespace { return s.ns }

// String returns the qualified name, "ns:name".
func (s *Symbol) String() string { return s.ns.name + ":" + s.name }

// Namespace owns a set of symbols, some of which are exported, and a list of
// namespaces it imports.
type Namespace struct {
	name string

	mu      sync.RWMutex
	entries map[string]*entry
	imports []*Namespace
}

type entry struct {
	sym      *Symbol
	exported bool
}

func newNamespace(name string) *Namespace {
	return &Namespace{name: name, entries: make(map[string]*entry)}
}

// Name returns the name of the namespace.
func (ns *Namespace) Name() string { return ns.name }

// Find looks up a symbol owned by the namespace. Unexported symbols are only
// returned when includePrivate is true.
func (ns *Namespace) Find(name string, includePrivate bool) *Symbol {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	e := ns.entries[name]
	if e == nil || !(e.exported || includePrivate) {
		return nil
	}
	return e.sym
}

// Intern returns the symbol with the given name owned by the namespace,
// creating it if needed. The exported flag of an existing symbol is left
// unchanged.
func (ns *Namespace) Intern(name string) *Symbol {
	return ns.intern(name, false)
}

// InternAndExport is like Intern, but also marks the symbol exported.
func (ns *Namespace) InternAndExport(name string) *Symbol {
	return ns.intern(name, true)
}

func (ns *Namespace) intern(name string, export bool) *Symbol {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	e := ns.entries[name]
	if e == nil {
		e = &entry{sym: &Symbol{name, ns}}
		ns.entries[name] = e
	}
	if export {
		e.exported = true
	}
	return e.sym
}

// Export marks a symbol owned by the namespace as exported. It does nothing
// for symbols of other namespaces.
func (ns *Namespace) Export(s *Symbol) {
	if s.ns != ns {
		return
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if e := ns.entries[s.name]; e != nil {
		e.exported = true
	}
}

// IsExported reports whether the symbol is exported by its namespace.
func (s *Symbol) IsExported() bool {
	s.ns.mu.RLock()
	defer s.ns.mu.RUnlock()
	e := s.ns.entries[s.name]
	return e != nil && e.exported
}

// AddImport makes the exported symbols of other visible to unqualified
// lookups in ns. Importing a namespace twice has no effect. Import cycles are
// allowed, since lookups only consult direct imports.
func (ns *Namespace) AddImport(other *Namespace) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	for _, imp := range ns.imports {
		if imp == other {
			return
		}
	}
	ns.imports = append(ns.imports, other)
}

// Imports returns a copy of the list of imported namespaces.
func (ns *Namespace) Imports() []*Namespace {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return append([]*Namespace(nil), ns.imports...)
}

// Names returns the sorted names of the symbols in the namespace. Unexported
// symbols are only included when includePrivate is true.
func (ns *Namespace) Names(includePrivate bool) []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	var names []string
	for name, e := range ns.entries {
		if e.exported || includePrivate {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve looks up an unqualified name as seen from ns: first among all the
// symbols of ns, then among the exported symbols of each directly imported
// namespace, in import order. It returns nil if no symbol is found.
func (ns *Namespace) Resolve(name string) *Symbol {
	if s := ns.Find(name, true); s != nil {
		return s
	}
	for _, imp := range ns.Imports() {
		if s := imp.Find(name, false); s != nil {
			return s
		}
	}
	return nil
}

// ResolveOrIntern is like Resolve, but interns the name in ns when no symbol
// is found.
func (ns *Namespace) ResolveOrIntern(name string) *Symbol {
	if s := ns.Resolve(name); s != nil {
		return s
	}
	return ns.Intern(name)
}
