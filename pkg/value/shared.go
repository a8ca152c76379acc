package value

import "sync"

// SharedVal is an interior-mutable, reference-counted-by-GC cell
// wrapping another DynVal. It is the sole mechanism for mutable
// aliasing (closures' captured variables). Access always goes through
// Read/Write/Update so a single call frame acquires, operates, and
// releases the lock without risk of recursive-lock deadlock.
//
// In a build configured for multi-threaded hosts this is a real
// sync.RWMutex; Vela always runs one evaluation per goroutine (§5), so
// the mutex here exists for the embedding host's benefit (e.g. a
// websocket handler goroutine racing the main script goroutine) rather
// than for the interpreter's own single-threaded walk.
type SharedVal struct {
	meta
	mu    sync.RWMutex
	inner DynVal
}

// NewShared wraps v in a Shared cell. Nested sharing is flattened on
// construction per the invariant in spec.md §3: wrapping an existing
// Shared just returns it rather than wrapping a Shared-in-a-Shared.
func NewShared(v DynVal) *SharedVal {
	if s, ok := v.(*SharedVal); ok {
		return s
	}
	return &SharedVal{inner: v}
}

func (s *SharedVal) Kind() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Kind()
}

// Clone on a Shared value returns the same cell: cloning is supposed to
// be cheap and sharing is the entire point of this variant.
func (s *SharedVal) Clone() DynVal { return s }

func (s *SharedVal) Flatten() DynVal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Flatten()
}

func (s *SharedVal) IsReadOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.IsReadOnly()
}

func (s *SharedVal) MarkReadOnly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner.MarkReadOnly()
}

func (s *SharedVal) Inspect() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Inspect()
}

// Read returns the pierced underlying value under a read lock.
func (s *SharedVal) Read() DynVal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner
}

// Write replaces the underlying value, piercing any Shared passed in
// (flatten-on-observation: a Shared can never end up nested).
func (s *SharedVal) Write(v DynVal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inner, ok := v.(*SharedVal); ok {
		v = inner.Read()
	}
	s.inner = v
}

// Update performs an atomic read-modify-write: f observes the current
// value and returns the next one, all under a single write lock so
// callers never need to pair a separate Read+Write across which
// another goroutine could interleave.
func (s *SharedVal) Update(f func(DynVal) DynVal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = f(s.inner)
}

// Unwrap pierces any number of Shared layers (defensive; construction
// already prevents nesting) and returns the concrete inner value.
func Unwrap(v DynVal) DynVal {
	for {
		s, ok := v.(*SharedVal)
		if !ok {
			return v
		}
		v = s.Read()
	}
}
