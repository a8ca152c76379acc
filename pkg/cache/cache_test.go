package cache

import (
	"testing"

	"vela/pkg/value"
)

func TestNegativeCachingShortCircuits(t *testing.T) {
	c := New()
	calls := 0
	hash := CombineHash(1, TypesHash(nil))
	lookup := func() (bool, bool) {
		e, ok := c.Lookup(hash)
		if !ok {
			calls++
			c.InsertNegative(hash)
			return false, false
		}
		return !e.Negative, true
	}
	for i := 0; i < 5; i++ {
		lookup()
	}
	if calls != 1 {
		t.Fatalf("expected the registry to be consulted exactly once, got %d", calls)
	}
	e, ok := c.Lookup(hash)
	if !ok || !e.Negative {
		t.Fatalf("expected a negative cache entry")
	}
}

func TestCacheTransparency(t *testing.T) {
	run := func(useCache bool) value.DynVal {
		c := New()
		hash := CombineHash(42, TypesHash([]value.DynVal{value.NewInt(1), value.NewInt(2)}))
		if !useCache {
			c.Clear()
		}
		if e, ok := c.Lookup(hash); ok && !e.Negative {
			r, _ := e.Target(nil, 0)
			return r
		}
		target := func(args []value.DynVal, depth int) (value.DynVal, error) {
			return value.NewInt(3), nil
		}
		c.Insert(hash, Entry{Target: target})
		r, _ := target(nil, 0)
		return r
	}
	a := run(true)
	b := run(false)
	av, _ := value.AsInt(a)
	bv, _ := value.AsInt(b)
	if av != bv {
		t.Fatalf("cached and uncached runs must agree: %d != %d", av, bv)
	}
}
