package sym

import (
	"sort"
	"sync"
)

// KeywordNamespace is the name of the namespace holding keyword symbols,
// written as ":name" in source code.
const KeywordNamespace = "keyword"

// Table owns all the namespaces of an engine.
type Table struct {
	mu         sync.RWMutex
	namespaces map[string]*Namespace
	keyword    *Namespace
}

// NewTable creates a Table containing only the keyword namespace.
func NewTable() *Table {
	kw := newNamespace(KeywordNamespace)
	return &Table{namespaces: map[string]*Namespace{KeywordNamespace: kw}, keyword: kw}
}

// Namespace returns the namespace with the given name, creating it if it
// doesn't exist yet.
func (t *Table) Namespace(name string) *Namespace {
	t.mu.RLock()
	ns := t.namespaces[name]
	t.mu.RUnlock()
	if ns != nil {
		return ns
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ns = t.namespaces[name]; ns == nil {
		ns = newNamespace(name)
		t.namespaces[name] = ns
	}
	return ns
}

// Lookup returns the namespace with the given name, or nil.
func (t *Table) Lookup(name string) *Namespace {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.namespaces[name]
}

// Names returns the sorted names of all namespaces.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.namespaces))
	for name := range t.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keyword returns the keyword symbol with the given name.
func (t *Table) Keyword(name string) *Symbol {
	return t.keyword.InternAndExport(name)
}

// IsKeyword reports whether s is a keyword symbol.
func (t *Table) IsKeyword(s *Symbol) bool { return s.ns == t.keyword }

// Qualified interns name in the named namespace and returns the symbol. The
// namespace is created if needed.
func (t *Table) Qualified(ns, name string) *Symbol {
	return t.Namespace(ns).Intern(name)
}
