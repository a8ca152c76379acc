// Package cache implements the per-evaluation resolution cache
// (spec.md §3, §4.7): a mapping from a composite call-site hash to a
// resolved callable, or a negative marker meaning "no such function".
package cache

import (
	"hash/fnv"

	"vela/pkg/value"
)

// Target is whatever the cache resolved to: an operator implementation,
// a script function, a builtin, or a module function. The cache itself
// doesn't care which — it just replays the closure on a hit. depth is
// the caller's call depth, passed at invocation time (not resolution
// time) since a cached target is replayed from different depths on
// successive hits.
type Target func(args []value.DynVal, depth int) (value.DynVal, error)

// Entry is one resolution cache slot.
type Entry struct {
	Target Target
	// Module optionally records the source module identity the target
	// was resolved from, per spec.md §3.
	Module   string
	Negative bool
}

// Cache holds the resolutions made during one top-level evaluation. Its
// scope is exactly one evaluate() call; the caller discards it
// afterwards.
type Cache struct {
	entries map[uint64]Entry
}

func New() *Cache {
	return &Cache{entries: make(map[uint64]Entry)}
}

func (c *Cache) Lookup(hash uint64) (Entry, bool) {
	e, ok := c.entries[hash]
	return e, ok
}

func (c *Cache) Insert(hash uint64, e Entry) {
	c.entries[hash] = e
}

// InsertNegative records a failed lookup so repeated calls to the same
// signature short-circuit without re-walking the function registry.
func (c *Cache) InsertNegative(hash uint64) {
	c.entries[hash] = Entry{Negative: true}
}

func (c *Cache) Clear() {
	c.entries = make(map[uint64]Entry)
}

func (c *Cache) Len() int { return len(c.entries) }

// CombineHash folds a call-site hash with an argument-types hash into
// the single key the cache is keyed by.
func CombineHash(callSiteHash, argTypesHash uint64) uint64 {
	h := fnv.New64a()
	var buf [16]byte
	putU64(buf[0:8], callSiteHash)
	putU64(buf[8:16], argTypesHash)
	h.Write(buf[:])
	return h.Sum64()
}

// TypesHash hashes the ordered Kind sequence of a flattened argument
// list, used to distinguish overloads at the same call site.
func TypesHash(args []value.DynVal) uint64 {
	h := fnv.New64a()
	for _, a := range args {
		h.Write([]byte{byte(a.Kind())})
	}
	return h.Sum64()
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
