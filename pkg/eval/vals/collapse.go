package vals

import (
	"sync"

	"src.rho.sh/pkg/conc"
	"src.rho.sh/pkg/logutil"
)

var logger = logutil.GetLogger("[vals] ")

// CollapseConfig controls when Collapse computes elements in parallel.
type CollapseConfig struct {
	// Arrays with fewer elements than this are collapsed sequentially.
	Threshold int
	// The number of blocks a large array is split into. Each block is
	// computed in its own thread.
	Blocks int
}

// DefaultCollapseConfig is the initial configuration used by Collapse.
var DefaultCollapseConfig = CollapseConfig{Threshold: 16, Blocks: 16}

var (
	collapseConfigMutex sync.RWMutex
	collapseConfig      = DefaultCollapseConfig
)

// SetCollapseConfig sets the configuration used by Collapse.
func SetCollapseConfig(c CollapseConfig) {
	collapseConfigMutex.Lock()
	defer collapseConfigMutex.Unlock()
	logger.Printf("collapse threshold %d, blocks %d", c.Threshold, c.Blocks)
	collapseConfig = c
}

// GetCollapseConfig returns the configuration used by Collapse.
func GetCollapseConfig() CollapseConfig {
	collapseConfigMutex.RLock()
	defer collapseConfigMutex.RUnlock()
	return collapseConfig
}

// Collapse computes every element of v, recursively, and returns a value
// that no longer depends on lazy views. Errors raised while computing
// elements are returned.
func Collapse(v Value) (Value, error) {
	return CollapseWith(v, GetCollapseConfig())
}

// CollapseWith is like Collapse, but uses the given configuration.
func CollapseWith(v Value, c CollapseConfig) (Value, error) {
	switch v := v.(type) {
	case *Concrete:
		if v.collapsed {
			return v, nil
		}
	case *String, zilde, Iota:
		return v, nil
	case *Labelled:
		inner, err := CollapseWith(v.Value, c)
		if err != nil {
			return nil, err
		}
		return &Labelled{inner, v.labels}, nil
	}
	if !IsArray(v) {
		return v, nil
	}
	if Rank(v) == 0 {
		e, err := v.ValueAt(0)
		if err != nil {
			return nil, err
		}
		e, err = CollapseWith(e, c)
		if err != nil {
			return nil, err
		}
		return Enclose(e), nil
	}

	n := Size(v)
	elems := make([]Value, n)
	fill := func(from, to int) error {
		for i := from; i < to; i++ {
			e, err := v.ValueAt(i)
			if err != nil {
				return err
			}
			if elems[i], err = CollapseWith(e, c); err != nil {
				return err
			}
		}
		return nil
	}
	if n < c.Threshold || c.Blocks < 2 {
		if err := fill(0, n); err != nil {
			return nil, err
		}
	} else if err := fillParallel(n, c.Blocks, fill); err != nil {
		return nil, err
	}
	return &Concrete{dims: v.Dims(), elems: elems, collapsed: true}, nil
}

// fillParallel splits [0, n) into the given number of blocks, the first
// n%blocks of which have one extra element, and calls fill on each block in
// its own thread. It returns the first error in block order.
func fillParallel(n, blocks int, fill func(from, to int) error) error {
	if n == 0 {
		return nil
	}
	if blocks > n {
		blocks = n
	}
	size, extra := n/blocks, n%blocks
	threads := make([]*conc.Thread, blocks)
	start := 0
	for b := range threads {
		end := start + size
		if b < extra {
			end++
		}
		from, to := start, end
		threads[b] = conc.Spawn("collapse", func() error { return fill(from, to) })
		start = end
	}
	var first error
	for _, t := range threads {
		if err := t.Join(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
