// Package registry implements the function registry and module store
// spec.md §9 calls the "global constants table" and the external
// FunctionRegistry/ModuleStore collaborators spec.md §6 describes.
// It holds script-defined functions (by name and arity), natively
// implemented Go functions, imported modules, and the `global::`
// constants table.
package registry

import (
	"vela/pkg/ast"
	"vela/pkg/cache"
	"vela/pkg/eval"
	"vela/pkg/scope"
	"vela/pkg/value"
)

// NativeFn is a function implemented directly in Go and exposed to
// scripts — the shape pkg/stdlib registers its module functions with.
type NativeFn func(args []value.DynVal) (value.DynVal, error)

type scriptFn struct {
	params []*ast.Identifier
	body   *ast.BlockStatement
}

// Module is a named bag of functions and constants, reached through
// `name::member` namespace syntax.
type Module struct {
	Functions map[string]NativeFn
	Constants map[string]value.DynVal
}

func NewModule() *Module {
	return &Module{Functions: make(map[string]NativeFn), Constants: make(map[string]value.DynVal)}
}

// Registry is the concrete eval.FunctionRegistry / eval.ModuleStore
// implementation. It is constructed before the Evaluator and wired in
// afterward via SetEvaluator, since script functions need an Evaluator
// to run their bodies and the Evaluator needs a FunctionRegistry at
// construction time.
type Registry struct {
	scriptFns map[string][]*scriptFn // keyed by name; overloads distinguished by arity
	natives   map[string]NativeFn
	modules   map[string]*Module
	globals   map[string]value.DynVal

	evaluator *eval.Evaluator
	maxDepth  int
	ops       *eval.OpCounter
	data      *eval.DataBudget
}

func New() *Registry {
	return &Registry{
		scriptFns: make(map[string][]*scriptFn),
		natives:   make(map[string]NativeFn),
		modules:   make(map[string]*Module),
		globals:   make(map[string]value.DynVal),
	}
}

// SetEvaluator completes the wiring cycle; pkg/engine calls this once
// both the Registry and the Evaluator exist.
func (r *Registry) SetEvaluator(ev *eval.Evaluator) { r.evaluator = ev }

// SetMaxDepth sets the recursion ceiling script-to-script calls
// enforce; pkg/engine propagates its Limits.MaxCallDepth here before
// each run, since a cached cache.Target is replayed across many
// depths and can't bake a ceiling in at resolution time.
func (r *Registry) SetMaxDepth(n int) { r.maxDepth = n }

// SetOpCounter/SetDataBudget wire the top-level evaluation's shared
// operation counter and data-size budget into every Context
// callScript builds, so a script-to-script call chain shares the same
// ceiling the top-level Context was given rather than resetting it at
// every call boundary. pkg/engine constructs a fresh counter/budget per
// RunProgram call and calls these before running, matching SetMaxDepth.
func (r *Registry) SetOpCounter(c *eval.OpCounter)   { r.ops = c }
func (r *Registry) SetDataBudget(d *eval.DataBudget) { r.data = d }

// DefineFunction registers a script-level `fn name(params) { body }`.
// A later definition with the same name and arity replaces the earlier
// one in place (a script redefining a function, or a second Run on the
// same Engine re-declaring it, should see the new body take effect —
// spec.md §4.7's cache-invalidation guarantee would otherwise be
// defeated by Resolve always matching the first same-arity overload).
func (r *Registry) DefineFunction(name string, params []*ast.Identifier, body *ast.BlockStatement) {
	fn := &scriptFn{params: params, body: body}
	for i, existing := range r.scriptFns[name] {
		if len(existing.params) == len(params) {
			r.scriptFns[name][i] = fn
			return
		}
	}
	r.scriptFns[name] = append(r.scriptFns[name], fn)
}

// DefineNative registers a Go-implemented global function, e.g. the
// `print`/`len`/`type_of` builtins pkg/stdlib installs.
func (r *Registry) DefineNative(name string, fn NativeFn) { r.natives[name] = fn }

// DefineModule registers (or replaces) a namespace module, e.g. `auth`,
// `ws`, `mail`, `json`.
func (r *Registry) DefineModule(name string, m *Module) { r.modules[name] = m }

// DefineGlobalConst sets a `global::name` constant.
func (r *Registry) DefineGlobalConst(name string, v value.DynVal) {
	v.MarkReadOnly()
	r.globals[name] = v
}

// Resolve implements eval.FunctionRegistry. It tries, in order: a
// matching-arity script function, then a native function. Module
// functions are found only under the qualified `mod::fn` name that
// ResolveNamespace registers among the natives.
func (r *Registry) Resolve(name string, args []value.DynVal) (cache.Target, bool) {
	if overloads, ok := r.scriptFns[name]; ok {
		for _, fn := range overloads {
			if len(fn.params) == len(args) {
				captured := fn
				return func(callArgs []value.DynVal, depth int) (value.DynVal, error) {
					return r.callScript(captured, callArgs, depth)
				}, true
			}
		}
	}
	if native, ok := r.natives[name]; ok {
		return func(callArgs []value.DynVal, _ int) (value.DynVal, error) {
			return native(callArgs)
		}, true
	}
	return nil, false
}

// HasFunction implements eval.FunctionRegistry: existence by name,
// independent of arity or argument types.
func (r *Registry) HasFunction(name string) bool {
	if _, ok := r.scriptFns[name]; ok {
		return true
	}
	_, ok := r.natives[name]
	return ok
}

func (r *Registry) callScript(fn *scriptFn, args []value.DynVal, depth int) (value.DynVal, error) {
	if r.evaluator == nil {
		return nil, &eval.EvalError{Kind: "Runtime", Message: "registry has no evaluator attached"}
	}
	sc := scope.New()
	for i, p := range fn.params {
		var v value.DynVal = value.NewUnit()
		if i < len(args) {
			v = args[i]
		}
		sc.Push(p.Value, v, false)
	}
	ctx := &eval.Context{CallDepth: depth, MaxDepth: r.maxDepth, Ops: r.ops, Data: r.data}
	out, err := r.evaluator.Statements.EvalBlock(fn.body, sc, r.evaluator, ctx)
	if err != nil {
		if v, ok := eval.IsReturn(err); ok {
			return v, nil
		}
		return nil, err
	}
	return out, nil
}

// ResolveNamespace implements eval.ModuleStore: `global::x` constants
// and `module::member` lookups.
func (r *Registry) ResolveNamespace(parts []string) (value.DynVal, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	if parts[0] == "global" && len(parts) == 2 {
		v, ok := r.globals[parts[1]]
		return v, ok
	}
	if len(parts) == 2 {
		mod, ok := r.modules[parts[0]]
		if !ok {
			return nil, false
		}
		if c, ok := mod.Constants[parts[1]]; ok {
			return c, true
		}
		if fn, ok := mod.Functions[parts[1]]; ok {
			return value.NewFnPtr(parts[0] + "::" + parts[1]), wrapModuleFnForNamespace(r, parts[0], parts[1], fn)
		}
	}
	return nil, false
}

// wrapModuleFnForNamespace registers a module function under its
// fully-qualified name so a later call expression (`mod::fn(...)`)
// resolves through the normal Resolve path, and reports whether the
// registration — and therefore the namespace lookup itself —
// succeeded.
func wrapModuleFnForNamespace(r *Registry, mod, name string, fn NativeFn) bool {
	qualified := mod + "::" + name
	if _, exists := r.natives[qualified]; !exists {
		r.natives[qualified] = fn
	}
	return true
}

// ModuleFunc looks up a registered module function directly by module
// and function name, without registering it under its qualified name.
func (r *Registry) ModuleFunc(mod, name string) (NativeFn, bool) {
	m, ok := r.modules[mod]
	if !ok {
		return nil, false
	}
	fn, ok := m.Functions[name]
	return fn, ok
}
