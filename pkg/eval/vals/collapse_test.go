package vals

import (
	"errors"
	"sync/atomic"
	"testing"

	"src.rho.sh/pkg/testutil"
)

func TestCollapse_ParallelMatchesSequential(t *testing.T) {
	const threshold, blocks = 8, 7
	for n := 0; n <= 8*threshold; n++ {
		v, err := Each2(NewIota(n), Int(3), Mul)
		if err != nil {
			t.Fatal(err)
		}
		seq, err := CollapseWith(v, CollapseConfig{Threshold: n + 1, Blocks: blocks})
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range []CollapseConfig{
			{Threshold: threshold, Blocks: blocks},
			{Threshold: 0, Blocks: blocks},
			{Threshold: 0, Blocks: 2},
			{Threshold: 0, Blocks: n + 3},
		} {
			par, err := CollapseWith(v, c)
			if err != nil {
				t.Fatalf("n = %d, %+v: %v", n, c, err)
			}
			if Size(par) != n {
				t.Errorf("n = %d, %+v: got %d elements", n, c, Size(par))
			}
			assertEqual(t, par, seq)
		}
	}
}

func TestFillParallel_CoversRangeOnce(t *testing.T) {
	for n := 0; n <= 20; n++ {
		for blocks := 1; blocks <= 9; blocks++ {
			counts := make([]atomic.Int32, n)
			err := fillParallel(n, blocks, func(from, to int) error {
				for i := from; i < to; i++ {
					counts[i].Add(1)
				}
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
			for i := range counts {
				if c := counts[i].Load(); c != 1 {
					t.Errorf("n = %d, blocks = %d: index %d filled %d times", n, blocks, i, c)
				}
			}
		}
	}
}

func TestCollapse_ComputesEachElementOnce(t *testing.T) {
	var calls atomic.Int64
	v := NewMapped1(NewIota(50), func(v Value) (Value, error) {
		calls.Add(1)
		return v, nil
	})
	c, err := CollapseWith(v, CollapseConfig{Threshold: 10, Blocks: 4})
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 50 {
		t.Errorf("element function called %d times, want 50", calls.Load())
	}
	Elements(c)
	if calls.Load() != 50 {
		t.Errorf("reading a collapsed array called the element function")
	}
	if again, _ := Collapse(c); again != c {
		t.Errorf("collapsing a collapsed array made a copy")
	}
}

func TestCollapse_PropagatesErrors(t *testing.T) {
	errBoom := errors.New("boom")
	v := NewMapped1(NewIota(40), func(v Value) (Value, error) {
		if v == Int(33) {
			return nil, errBoom
		}
		return v, nil
	})
	for _, c := range []CollapseConfig{{Threshold: 100, Blocks: 1}, {Threshold: 1, Blocks: 8}} {
		if _, err := CollapseWith(v, c); err != errBoom {
			t.Errorf("config %v: got error %v, want %v", c, err, errBoom)
		}
	}
}

func TestCollapse_Nested(t *testing.T) {
	inner := NewMapped1(NewIota(3), Negate)
	v, err := Collapse(Vector(inner, Enclose(inner), Int(1)))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := v.ValueAt(0)
	if _, ok := e.(*Concrete); !ok {
		t.Errorf("nested array was not collapsed: %T", e)
	}
	assertEqual(t, e, Ints(0, -1, -2))
}

func TestSetCollapseConfig(t *testing.T) {
	testutil.Set(t, &collapseConfig, collapseConfig)
	SetCollapseConfig(CollapseConfig{Threshold: 2, Blocks: 2})
	if GetCollapseConfig() != (CollapseConfig{Threshold: 2, Blocks: 2}) {
		t.Errorf("config not set")
	}
}
