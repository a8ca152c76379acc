package eval

import (
	"vela/pkg/ast"
	"vela/pkg/cache"
	"vela/pkg/scope"
	"vela/pkg/value"
)

// EvalFnCallExpr resolves and invokes a function call (spec.md §4.3
// step 3, §4.7). Arguments are always evaluated strictly left-to-right
// first. A bare identifier callee bound in scope to a closure or
// function-pointer value is then invoked directly — the first-class
// function path spec.md's closing paragraph of §4.3 and the `let f =
// fn(x){x*x}; f(5)` scenario in §8 exercise — bypassing name
// resolution and the cache entirely, since the callable a variable
// holds can change between calls at the same call site. Otherwise
// resolution order is: the per-call-site cache, then the injected
// FunctionRegistry, with the registry's answer written back into the
// cache (positive or negative) so the next visit to this call site is
// O(1).
func (ev *Evaluator) EvalFnCallExpr(n *ast.CallExpression, sc *scope.Scope, ctx *Context) (value.DynVal, error) {
	if ctx.MaxDepth > 0 && ctx.CallDepth >= ctx.MaxDepth {
		return nil, newError("Runtime", n, "recursion ceiling reached (%d)", ctx.MaxDepth)
	}

	args := make([]value.DynVal, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		v, err := ev.Eval(a, sc, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	if ident, ok := n.Function.(*ast.Identifier); ok {
		if idx, found := sc.GetIndex(ident.Value); found {
			switch callee := value.Unwrap(sc.Get(idx)).(type) {
			case *value.ClosureVal:
				return ev.callClosure(callee, args, n, ctx)
			case *value.FnPtrVal:
				return ev.callFnPtr(callee, args, n, ctx)
			}
		}
	}

	name, ok := calleeName(n.Function)
	if !ok {
		return nil, newError("Runtime", n, "call target must be a plain or namespaced function name")
	}

	callSiteHash := callSiteKey(n)
	hash := cache.CombineHash(callSiteHash, cache.TypesHash(args))

	if ev.Cache != nil {
		if entry, found := ev.Cache.Lookup(hash); found {
			if entry.Negative {
				return nil, newError("FunctionNotFound", n, "function %q not found for the given argument types", name)
			}
			return ev.invoke(entry.Target, args, n, ctx)
		}
	}

	if ev.Functions == nil {
		return nil, newError("FunctionNotFound", n, "no function registry configured")
	}
	if ns, isNS := n.Function.(*ast.NamespaceExpression); isNS && ev.Modules != nil {
		// Looking the path up registers a module function under its
		// qualified name, so the Resolve below can find `mod::fn`.
		ev.Modules.ResolveNamespace(ns.Parts)
	}
	target, found := ev.Functions.Resolve(name, args)
	if !found {
		if ev.Cache != nil {
			ev.Cache.InsertNegative(hash)
		}
		return nil, newError("FunctionNotFound", n, "function %q not found for the given argument types", name)
	}
	if ev.Cache != nil {
		ev.Cache.Insert(hash, cache.Entry{Target: target})
	}
	return ev.invoke(target, args, n, ctx)
}

func (ev *Evaluator) invoke(target cache.Target, args []value.DynVal, n ast.Node, ctx *Context) (value.DynVal, error) {
	out, err := target(args, ctx.CallDepth+1)
	if err != nil {
		if v, isReturn := IsReturn(err); isReturn {
			// A bare return at function top-level unwraps to its value;
			// the statement evaluator normally absorbs this itself, but
			// host-registered Go functions may propagate it directly.
			return v, nil
		}
		return nil, err
	}
	return out, nil
}

// callClosure runs a closure's captured body directly against a fresh
// scope seeded with its captured cells followed by its parameters —
// params are pushed after captures so a parameter shadows a captured
// variable of the same name, matching ordinary block-scoping rules.
// This bypasses the resolution cache, which is keyed by call-site plus
// argument types and assumes a call site always resolves to the same
// callable; a variable's closure value can change between calls.
func (ev *Evaluator) callClosure(fn *value.ClosureVal, args []value.DynVal, n ast.Node, ctx *Context) (value.DynVal, error) {
	if ev.Statements == nil {
		return nil, newError("Runtime", n, "no statement evaluator configured")
	}
	callSc := scope.New()
	for name, v := range fn.Captured {
		callSc.Push(name, v, false)
	}
	for i, p := range fn.Params {
		var v value.DynVal = value.NewUnit()
		if i < len(args) {
			v = args[i]
		}
		callSc.Push(p.Value, v, false)
	}
	childCtx := &Context{CallDepth: ctx.CallDepth + 1, MaxDepth: ctx.MaxDepth, Ops: ctx.Ops, Data: ctx.Data}
	out, err := ev.Statements.EvalBlock(fn.Body, callSc, ev, childCtx)
	if err != nil {
		if v, isReturn := IsReturn(err); isReturn {
			return v, nil
		}
		return nil, err
	}
	return out, nil
}

// callFnPtr calls the script/native function a bound FnPtrVal names,
// prepending any curried arguments ahead of the call's own — the
// partial-application path a FnPtr's Curried slice exists to support.
func (ev *Evaluator) callFnPtr(fn *value.FnPtrVal, args []value.DynVal, n ast.Node, ctx *Context) (value.DynVal, error) {
	if ev.Functions == nil {
		return nil, newError("FunctionNotFound", n, "no function registry configured")
	}
	allArgs := make([]value.DynVal, 0, len(fn.Curried)+len(args))
	allArgs = append(allArgs, fn.Curried...)
	allArgs = append(allArgs, args...)
	target, found := ev.Functions.Resolve(fn.Name, allArgs)
	if !found {
		return nil, newError("FunctionNotFound", n, "function %q not found for the given argument types", fn.Name)
	}
	return ev.invoke(target, allArgs, n, ctx)
}

func calleeName(fn ast.Expression) (string, bool) {
	switch f := fn.(type) {
	case *ast.Identifier:
		return f.Value, true
	case *ast.NamespaceExpression:
		return f.String(), true
	default:
		return "", false
	}
}

// callSiteKey derives a stable per-call-site hash from the call
// expression's source token position, per spec.md §4.7 ("derived from
// source text position, stable across repeated evaluations of the
// same AST node").
func callSiteKey(n *ast.CallExpression) uint64 {
	h := uint64(1469598103934665603)
	mix := func(v uint64) {
		h ^= v
		h *= 1099511628211
	}
	for _, b := range []byte(n.TokenLiteral()) {
		mix(uint64(b))
	}
	if ident, ok := n.Function.(*ast.Identifier); ok {
		for _, b := range []byte(ident.Value) {
			mix(uint64(b))
		}
		mix(uint64(ident.Token.Line)<<32 | uint64(uint32(ident.Token.Column)))
	} else if ns, ok := n.Function.(*ast.NamespaceExpression); ok {
		for _, b := range []byte(ns.String()) {
			mix(uint64(b))
		}
		mix(uint64(n.Token.Line)<<32 | uint64(uint32(n.Token.Column)))
	}
	return h
}
