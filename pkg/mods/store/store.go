// Package store implements the store module, which saves values in a
// persistent key-value database.
//
// A database is opened with store:open, which returns a handle. Values are
// saved in their JSON form, so only values that convert to documents can be
// stored.
package store

import (
	"errors"

	"src.rho.sh/pkg/eval"
	"src.rho.sh/pkg/eval/dims"
	"src.rho.sh/pkg/eval/errs"
	"src.rho.sh/pkg/eval/vals"
	"src.rho.sh/pkg/mods/structured"
	"src.rho.sh/pkg/store"
	"src.rho.sh/pkg/store/storedefs"
)

// Module is the store module.
var Module eval.Module = module{}

type module struct{}

func (module) Name() string { return "store" }

func (module) Init(e *eval.Engine) error {
	e.AddGoFns("store", map[string]eval.FunctionDescriptor{
		"open":  eval.NewGoFn("store:open", open, nil),
		"put":   eval.NewGoFn("store:put", nil, put),
		"get":   eval.NewGoFn("store:get", nil, get),
		"del":   eval.NewGoFn("store:del", nil, del),
		"keys":  eval.NewGoFn("store:keys", keys, nil),
		"close": eval.NewGoFn("store:close", closeStore, nil),
	})
	return nil
}

// Handle is an open database.
type Handle struct {
	st   store.DBStore
	path string
}

func (*Handle) Kind() vals.Kind  { return vals.InternalKind }
func (*Handle) Dims() dims.Dims  { return dims.Scalar }
func (*Handle) TypeName() string { return "store" }
func (h *Handle) Close() error   { return h.st.Close() }
func (h *Handle) Path() string   { return h.path }

func (h *Handle) ValueAt(p int) (vals.Value, error) {
	if p != 0 {
		return nil, errs.IndexOutOfBounds{What: "index into store", Index: p, Bound: 1}
	}
	return h, nil
}

func handleOf(v vals.Value) (*Handle, error) {
	v, err := vals.Unwrap(v)
	if err != nil {
		return nil, err
	}
	h, ok := v.(*Handle)
	if !ok {
		return nil, errs.IncompatibleType{Message: "expected a store, got " + v.Kind().String()}
	}
	return h, nil
}

func open(fm *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	path, err := vals.StringOf(a)
	if err != nil {
		return nil, err
	}
	st, err := store.NewStore(path)
	if err != nil {
		return nil, err
	}
	h := &Handle{st, path}
	fm.AddClosable(h)
	return h, nil
}

// h store:put (key;value)
func put(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	h, err := handleOf(a)
	if err != nil {
		return nil, err
	}
	l, ok := b.(*vals.List)
	if !ok || l.Len() != 2 {
		return nil, errs.IncompatibleType{Message: "store:put needs a (key;value) list"}
	}
	key, err := vals.StringOf(l.At(0))
	if err != nil {
		return nil, err
	}
	data, err := structured.JSON.Encode(l.At(1))
	if err != nil {
		return nil, err
	}
	return l.At(1), h.st.SetValue(key, data)
}

// h store:get key returns the value saved under key, or null.
func get(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	h, err := handleOf(a)
	if err != nil {
		return nil, err
	}
	key, err := vals.StringOf(b)
	if err != nil {
		return nil, err
	}
	data, err := h.st.Value(key)
	if errors.Is(err, storedefs.ErrNoValue) {
		return vals.Nil, nil
	} else if err != nil {
		return nil, err
	}
	return structured.JSON.Decode(data)
}

func del(_ *eval.Frame, a, b, _ vals.Value) (vals.Value, error) {
	h, err := handleOf(a)
	if err != nil {
		return nil, err
	}
	key, err := vals.StringOf(b)
	if err != nil {
		return nil, err
	}
	return vals.Nil, h.st.DelValue(key)
}

func keys(_ *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	h, err := handleOf(a)
	if err != nil {
		return nil, err
	}
	ks, err := h.st.Keys()
	if err != nil {
		return nil, err
	}
	return vals.FromStrings(ks...), nil
}

func closeStore(fm *eval.Frame, a, _ vals.Value) (vals.Value, error) {
	h, err := handleOf(a)
	if err != nil {
		return nil, err
	}
	return vals.Nil, fm.Release(h)
}
