// Package eval implements the evaluation engine: the parser that turns tokens
// into instructions, the instructions themselves, and the builtin functions
// and operators.
package eval

import (
	"errors"
	"io"
	"os"
	"sort"
	"sync"

	"src.rho.sh/pkg/conc"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/sym"
)

var logger = logutil.GetLogger("[eval] ")

const (
	// CoreNamespace holds the builtin functions. Every namespace created with
	// MakeNamespace imports it.
	CoreNamespace = "rho"
	// DefaultNamespace is the namespace code is read in until it switches to
	// another one with namespace("name").
	DefaultNamespace = "default"
)

// Config tunes an Engine. Zero fields take default values.
type Config struct {
	// Arrays with at least this many elements are collapsed in parallel.
	ParallelThreshold int
	// Number of blocks a parallel collapse is split into.
	ParallelBlocks int
	// Where print and println write. Defaults to os.Stdout.
	Stdout io.Writer
}

// Engine holds the state shared by all evaluations: the symbol table, the
// registries of functions, operators and custom syntax, and the global
// variables.
type Engine struct {
	symbols *sym.Table
	core    *sym.Namespace
	root    *Env

	mu        sync.RWMutex
	ns        *sym.Namespace
	functions map[*sym.Symbol]FunctionDescriptor
	operators map[*sym.Symbol]Operator
	syntax    map[*sym.Symbol]*customSyntax
	glyphs    map[rune]struct{}

	outLock conc.Lock
	out     io.Writer

	collapseCfg vals.CollapseConfig

	resMu     sync.Mutex
	closables []io.Closer
	modules   map[string]Module
}

// NewEngine creates an Engine with the builtin functions and operators.
func NewEngine(cfg Config) *Engine {
	symbols := sym.NewTable()
	e := &Engine{
		symbols:   symbols,
		core:      symbols.Namespace(CoreNamespace),
		root:      NewEnv(nil),
		functions: make(map[*sym.Symbol]FunctionDescriptor),
		operators: make(map[*sym.Symbol]Operator),
		syntax:    make(map[*sym.Symbol]*customSyntax),
		glyphs:    make(map[rune]struct{}),
		out:       cfg.Stdout,
		modules:   make(map[string]Module),
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	e.ns = e.MakeNamespace(DefaultNamespace)

	e.collapseCfg = vals.DefaultCollapseConfig
	if cfg.ParallelThreshold > 0 {
		e.collapseCfg.Threshold = cfg.ParallelThreshold
	}
	if cfg.ParallelBlocks > 0 {
		e.collapseCfg.Blocks = cfg.ParallelBlocks
	}

	for name, d := range builtinFns {
		e.registerCore(name)
		e.functions[e.core.InternAndExport(name)] = d
	}
	for name, op := range builtinOperators {
		e.registerCore(name)
		e.operators[e.core.InternAndExport(name)] = op
	}
	return e
}

func (e *Engine) registerCore(name string) {
	if r := []rune(name); len(r) == 1 && !isWordRune(r[0]) {
		e.glyphs[r[0]] = struct{}{}
	}
}

func isWordRune(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// Symbols returns the symbol table.
func (e *Engine) Symbols() *sym.Table { return e.symbols }

// CurrentNamespace returns the namespace in which unqualified names are
// resolved.
func (e *Engine) CurrentNamespace() *sym.Namespace {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ns
}

// IsGlyph reports whether r is a single-character function or operator name.
func (e *Engine) IsGlyph(r rune) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.glyphs[r]
	return ok
}

// RegisterGlyph makes the lexer read r as a symbol on its own.
func (e *Engine) RegisterGlyph(r rune) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.glyphs[r] = struct{}{}
}

// MakeNamespace returns the namespace with the given name, creating it if
// needed. The namespace imports the builtins.
func (e *Engine) MakeNamespace(name string) *sym.Namespace {
	ns := e.symbols.Namespace(name)
	if ns != e.core {
		ns.AddImport(e.core)
	}
	return ns
}

// RegisterFunction binds a function to a symbol.
func (e *Engine) RegisterFunction(s *sym.Symbol, d FunctionDescriptor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.functions[s] = d
}

// AddGoFns registers functions under the given names in a namespace, made
// with MakeNamespace, and exports them. It returns the namespace.
func (e *Engine) AddGoFns(nsName string, fns map[string]FunctionDescriptor) *sym.Namespace {
	ns := e.MakeNamespace(nsName)
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, d := range fns {
		e.functions[ns.InternAndExport(name)] = d
	}
	return ns
}

// RegisterOperator binds an operator to a symbol.
func (e *Engine) RegisterOperator(s *sym.Symbol, op Operator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.operators[s] = op
}

func (e *Engine) function(s *sym.Symbol) FunctionDescriptor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.functions[s]
}

func (e *Engine) operator(s *sym.Symbol) Operator {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.operators[s]
}

func (e *Engine) customSyntax(s *sym.Symbol) *customSyntax {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.syntax[s]
}

// FunctionNames returns the sorted names of the functions visible from the
// current namespace without qualification.
func (e *Engine) FunctionNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var names []string
	for s := range e.functions {
		if e.ns.Resolve(s.Name()) == s {
			names = append(names, s.Name())
		}
	}
	sort.Strings(names)
	return names
}

func (e *Engine) commit(ns *sym.Namespace, imports map[*sym.Namespace][]*sym.Namespace,
	fns map[*sym.Symbol]FunctionDescriptor, syntax map[*sym.Symbol]*customSyntax) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ns = ns
	for ns, others := range imports {
		for _, other := range others {
			ns.AddImport(other)
		}
	}
	for s, d := range fns {
		e.functions[s] = d
	}
	for s, syn := range syntax {
		if _, ok := e.syntax[s]; ok {
			logger.Printf("custom syntax %s redefined", s)
		}
		e.syntax[s] = syn
	}
}

// Collapse is like vals.Collapse, but uses the parallelism settings of the
// engine.
func (e *Engine) Collapse(v vals.Value) (vals.Value, error) {
	return vals.CollapseWith(v, e.collapseCfg)
}

// Global returns the value of a global variable.
func (e *Engine) Global(s *sym.Symbol) (vals.Value, error) {
	return e.root.Lookup(s)
}

// SetGlobal sets a global variable.
func (e *Engine) SetGlobal(s *sym.Symbol, v vals.Value) {
	e.root.Set(s, v)
}

// Parse parses a source without evaluating it. Definitions in the source are
// not registered.
func (e *Engine) Parse(src parse.Source) error {
	_, err := e.parse(src)
	return err
}

func (e *Engine) parse(src parse.Source) (*parser, error) {
	stream, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	p := newParser(e, src.Name(), stream)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	p.prog = prog
	return p, nil
}

// Eval parses and evaluates a source, and returns the collapsed value of its
// last statement. Definitions made by the source are registered only if all
// of it parses.
func (e *Engine) Eval(src parse.Source) (vals.Value, error) {
	p, err := e.parse(src)
	if err != nil {
		return nil, err
	}
	p.commit()
	fm := &Frame{e, e.root, ""}
	v, err := p.prog.Eval(fm)
	if err != nil {
		return nil, err
	}
	collapsed, err := e.Collapse(v)
	if err != nil {
		return nil, fm.errorAt(err, lastPos(p.prog))
	}
	return collapsed, nil
}

func lastPos(s *statements) diag.Position {
	if n := len(s.list); n > 0 {
		return s.list[n-1].Pos()
	}
	return s.pos
}

// Print writes s to the output of the engine. Writes from concurrent
// evaluations are not interleaved.
func (e *Engine) Print(s string) error {
	_, err := conc.WithLock(&e.outLock, func() (int, error) {
		return io.WriteString(e.out, s)
	})
	return err
}

// AddClosable registers a resource to be closed by Close, unless it is
// released before.
func (e *Engine) AddClosable(c io.Closer) {
	e.resMu.Lock()
	defer e.resMu.Unlock()
	e.closables = append(e.closables, c)
}

// Release closes a resource registered with AddClosable and forgets about it.
// Releasing a resource twice is a no-op.
func (e *Engine) Release(c io.Closer) error {
	e.resMu.Lock()
	found := false
	for i, r := range e.closables {
		if r == c {
			e.closables = append(e.closables[:i], e.closables[i+1:]...)
			found = true
			break
		}
	}
	e.resMu.Unlock()
	if !found {
		return nil
	}
	return c.Close()
}

// Close closes all the resources that are still registered, in reverse order
// of registration.
func (e *Engine) Close() error {
	e.resMu.Lock()
	closables := e.closables
	e.closables = nil
	e.resMu.Unlock()
	var errs []error
	for i := len(closables) - 1; i >= 0; i-- {
		if err := closables[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(closables) > 0 {
		logger.Printf("closed %d resources", len(closables))
	}
	return errors.Join(errs...)
}

// Module is a library that registers functions in the engine.
type Module interface {
	// Name returns the name of the module, which is also the name of the
	// namespace it registers its functions in.
	Name() string
	Init(e *Engine) error
}

// AddModule initializes a module. Adding a module with the name of one that
// was already added is a no-op.
func (e *Engine) AddModule(m Module) error {
	e.resMu.Lock()
	_, ok := e.modules[m.Name()]
	if !ok {
		e.modules[m.Name()] = m
	}
	e.resMu.Unlock()
	if ok {
		return nil
	}
	if err := m.Init(e); err != nil {
		e.resMu.Lock()
		delete(e.modules, m.Name())
		e.resMu.Unlock()
		return err
	}
	logger.Printf("initialized module %s", m.Name())
	return nil
}

// ModuleNames returns the sorted names of the added modules.
func (e *Engine) ModuleNames() []string {
	e.resMu.Lock()
	defer e.resMu.Unlock()
	names := make([]string, 0, len(e.modules))
	for name := range e.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
