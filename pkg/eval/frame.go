package eval

import (
	"errors"
	"sync"

	"src.rho.sh/pkg/conc"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/sym"
)

// Env is a frame of variable bindings. Lookups that miss in a frame continue
// in its parent.
//
// An Env may be shared by closures running on different goroutines, so all
// access is guarded.
type Env struct {
	parent *Env
	mu     sync.RWMutex
	vars   map[*sym.Symbol]binding
}

// A binding holds either a value or a thunk that computes it on first use.
type binding struct {
	v  vals.Value
	th *thunk
}

// A thunk is an unevaluated expression captured together with the frame it
// must be evaluated in. The result is memoized in a slot shared by all the
// thunks created for one evaluation of a syntax expansion.
type thunk struct {
	instr Instruction
	fm    *Frame
	slots *conc.AtomicSlots[vals.Value]
	i     int
}

func (th *thunk) force() (vals.Value, error) {
	p, err := th.slots.CheckOrUpdate(th.i, func() (*vals.Value, error) {
		v, err := th.instr.Eval(th.fm)
		if err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return nil, err
	}
	return *p, nil
}

// NewEnv creates an empty Env whose lookups fall back to parent, which may be
// nil.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[*sym.Symbol]binding)}
}

// Child returns a new empty Env whose parent is e.
func (e *Env) Child() *Env { return NewEnv(e) }

// Set binds s to v in this frame.
func (e *Env) Set(s *sym.Symbol, v vals.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[s] = binding{v: v}
}

func (e *Env) setThunk(s *sym.Symbol, th *thunk) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[s] = binding{th: th}
}

func (e *Env) local(s *sym.Symbol) (binding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.vars[s]
	return b, ok
}

// IsLocallyBound reports whether s is bound in this frame, not counting the
// parent frames.
func (e *Env) IsLocallyBound(s *sym.Symbol) bool {
	_, ok := e.local(s)
	return ok
}

// Lookup finds the value bound to s in this frame or the nearest ancestor
// that binds it, forcing a thunk if needed. It returns errs.Unassigned if s is
// not bound anywhere.
func (e *Env) Lookup(s *sym.Symbol) (vals.Value, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.local(s); ok {
			if b.th != nil {
				return b.th.force()
			}
			return b.v, nil
		}
	}
	return nil, errs.Unassigned{Name: s.Name()}
}

// Frame is the context an instruction is evaluated in.
type Frame struct {
	*Engine
	env *Env
	// Name of the innermost named function being executed, used to qualify
	// the positions of errors.
	fnName string
}

// Env returns the variable frame.
func (fm *Frame) Env() *Env { return fm.env }

func (fm *Frame) withEnv(env *Env) *Frame {
	return &Frame{fm.Engine, env, fm.fnName}
}

func (fm *Frame) child() *Frame { return fm.withEnv(fm.env.Child()) }

// Wraps an error into an Exception raised at pos, unless it already is one.
func (fm *Frame) errorAt(err error, pos diag.Position) error {
	if err == nil {
		return nil
	}
	var exc *exception
	if errors.As(err, &exc) {
		return err
	}
	return NewException(err, pos.WithFn(fm.fnName))
}
