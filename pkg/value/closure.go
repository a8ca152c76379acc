package value

import "vela/pkg/ast"

// ClosureVal is a first-class function value produced by evaluating an
// anonymous `fn(...) {...}` literal: its parameter list, its body, and
// the bindings it captured from the enclosing scope at the point it
// was created. Each captured binding is a *SharedVal cell, so mutating
// a captured variable after the closure exists — from either side —
// is visible to both (spec.md §9).
type ClosureVal struct {
	meta
	Params   []*ast.Identifier
	Body     *ast.BlockStatement
	Captured map[string]DynVal
}

func NewClosure(params []*ast.Identifier, body *ast.BlockStatement, captured map[string]DynVal) *ClosureVal {
	return &ClosureVal{Params: params, Body: body, Captured: captured}
}

func (c *ClosureVal) Kind() Kind { return KindClosure }

// Clone shares the same captured cells and body — a closure's identity
// is its captures, so there is nothing cheaper to copy than the
// pointer itself.
func (c *ClosureVal) Clone() DynVal { n := *c; return &n }

// Flatten detaches the access-mode copy from the original but keeps
// sharing the captured cells; a closure has no owned data to deep-copy.
func (c *ClosureVal) Flatten() DynVal {
	return &ClosureVal{Params: c.Params, Body: c.Body, Captured: c.Captured}
}

func (c *ClosureVal) Inspect() string { return "fn(<closure>)" }
