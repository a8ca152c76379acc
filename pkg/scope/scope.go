// Package scope implements the ordered binding stack consulted by
// variable resolution (spec.md §4.2, §4.3).
package scope

import "vela/pkg/value"

// Scope is an ordered sequence of (name, value, const) bindings. Names
// may repeat; lookups return the highest index with a matching name,
// which is how shadowing works.
type Scope struct {
	names  []string
	values []value.DynVal
	consts []bool

	// alwaysSearch disables the parser-provided reverse-index hints and
	// forces a name lookup on every variable reference. It exists for
	// an interactive REPL, where the AST was parsed against a smaller
	// scope than the one it ultimately evaluates against.
	alwaysSearch bool
}

func New() *Scope {
	return &Scope{}
}

// AlwaysSearchScope reports whether index hints should be ignored.
func (s *Scope) AlwaysSearchScope() bool { return s.alwaysSearch }

func (s *Scope) SetAlwaysSearchScope(v bool) { s.alwaysSearch = v }

// Len returns the current height of the stack.
func (s *Scope) Len() int { return len(s.names) }

// Push adds a new binding and returns its index.
func (s *Scope) Push(name string, v value.DynVal, isConst bool) int {
	s.names = append(s.names, name)
	s.values = append(s.values, v)
	s.consts = append(s.consts, isConst)
	return len(s.names) - 1
}

// PopTo shrinks the stack back to the given height, discarding
// everything pushed since. Evaluating any AST node must restore the
// scope to its entry height whether it succeeds or fails (§8 property
// 1), so callers always pair a Push-based growth with a deferred
// PopTo(height-at-entry).
func (s *Scope) PopTo(height int) {
	s.names = s.names[:height]
	s.values = s.values[:height]
	s.consts = s.consts[:height]
}

// GetIndex returns the highest index with a matching name.
func (s *Scope) GetIndex(name string) (int, bool) {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return i, true
		}
	}
	return 0, false
}

// IndexFromReverse converts a parser-supplied reverse-index hint (the
// distance from the top of the stack at parse time) into an absolute
// index, per spec.md §4.3 step 2.
func (s *Scope) IndexFromReverse(reverseIndex int) int {
	return len(s.names) - reverseIndex
}

// Get returns the value at an absolute index.
func (s *Scope) Get(idx int) value.DynVal {
	return s.values[idx]
}

// IsConst reports whether the binding at idx was declared with const.
func (s *Scope) IsConst(idx int) bool {
	return s.consts[idx]
}

// Name returns the binding name at idx, for error messages.
func (s *Scope) Name(idx int) string {
	return s.names[idx]
}

// ErrAssignmentToConstant is returned by Set when the target index was
// declared const or otherwise marked read-only.
type ErrAssignmentToConstant struct {
	Name string
}

func (e *ErrAssignmentToConstant) Error() string {
	return "assignment to constant: " + e.Name
}

// Set writes a new value into an existing binding, honouring
// const-ness and the value's own access mode. If a closure has
// promoted this slot to a *value.SharedVal cell (NewShared), the write
// goes through the cell via Write rather than replacing the slot, so
// the closure's capture keeps aliasing the binding instead of
// silently diverging from it.
func (s *Scope) Set(idx int, v value.DynVal) error {
	if s.consts[idx] || s.values[idx].IsReadOnly() {
		return &ErrAssignmentToConstant{Name: s.names[idx]}
	}
	if shared, ok := s.values[idx].(*value.SharedVal); ok {
		shared.Write(v)
		return nil
	}
	s.values[idx] = v
	return nil
}

// SetRaw overwrites a binding unconditionally, bypassing the
// const/read-only check. Used by the statement evaluator to rebind a
// for-loop variable on each iteration, and by pkg/eval to replace a
// captured binding with its Shared cell when a closure is created.
func (s *Scope) SetRaw(idx int, v value.DynVal) {
	s.values[idx] = v
}
