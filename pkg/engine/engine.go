// Package engine is the host-facing entry point: it wires the scope,
// resolution cache, operator dispatch table, module store, function
// registry, and statement evaluator together behind Run/Eval, and
// owns the engine-wide flags spec.md leaves to the embedding host
// (checked arithmetic, a recursion/operation ceiling, data-size limits).
package engine

import (
	"vela/pkg/ast"
	"vela/pkg/eval"
	"vela/pkg/lexer"
	"vela/pkg/operators"
	"vela/pkg/parser"
	"vela/pkg/registry"
	"vela/pkg/scope"
	"vela/pkg/stmt"
	"vela/pkg/value"
)

// Limits bounds a single evaluation: the recursion ceiling, the
// operation ceiling, and (MaxArrayLen) the cumulative number of array
// elements and map entries that literals may construct in one run;
// string sizes are not limited. Zero means "no limit", matching an
// embedder that trusts its own scripts.
type Limits struct {
	MaxCallDepth  int
	MaxArrayLen   int
	MaxOperations int
}

// Engine is the embeddable scripting engine. A zero-value Engine is
// not usable; construct one with New.
type Engine struct {
	Registry  *registry.Registry
	Evaluator *eval.Evaluator
	Stmt      *stmt.Evaluator
	Global    *scope.Scope
	Limits    Limits
}

// New builds a fully wired Engine: checked arithmetic on by default
// (spec.md §4.4's safer default), no recursion ceiling.
func New() *Engine {
	reg := registry.New()
	stmtEval := stmt.New(reg)
	ev := eval.New(reg, reg, stmtEval, stmtEval)
	reg.SetEvaluator(ev)

	global := scope.New()
	// The parser computes reverse-index hints assuming an identifier's
	// AST was parsed against the same scope shape it will evaluate
	// against. The top-level global scope doesn't honor that: a host may
	// DefineGlobal before Run, and one Engine is reused across many Run
	// calls, either of which shifts the global scope's height relative
	// to what the parser saw. Force a name search at that level; nested
	// function/block scopes (built fresh per call, matching the
	// parser's local numbering) still take the fast path.
	global.SetAlwaysSearchScope(true)

	return &Engine{
		Registry:  reg,
		Evaluator: ev,
		Stmt:      stmtEval,
		Global:    global,
	}
}

// SetCheckedArithmetic toggles the package-level operators.CheckedArithmetic
// flag spec.md §4.4 calls a per-build option.
func (e *Engine) SetCheckedArithmetic(on bool) { operators.CheckedArithmetic = on }

// DefineGlobal binds a name in the engine's top-level scope, for host
// values exposed to every script run on this Engine.
func (e *Engine) DefineGlobal(name string, v value.DynVal, isConst bool) {
	e.Global.Push(name, v, isConst)
}

// Parse lexes and parses source into a Program, surfacing parser
// errors as a single joined Go error.
func Parse(source string) (*ast.Program, error) {
	l := lexer.New(source)
	program, errs := parser.ParseProgram(l)
	if len(errs) > 0 {
		return nil, &ParseError{Messages: errs}
	}
	return program, nil
}

// ParseError aggregates every error the parser collected before
// giving up, rather than surfacing only the first.
type ParseError struct{ Messages []string }

func (e *ParseError) Error() string {
	out := "parse error:"
	for _, m := range e.Messages {
		out += "\n  " + m
	}
	return out
}

// Run parses and evaluates a full script against the Engine's global
// scope, returning the value of its final statement.
func (e *Engine) Run(source string) (value.DynVal, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return e.RunProgram(program)
}

// RunProgram evaluates an already-parsed Program. The resolution cache
// is scoped to exactly one top-level evaluation call (spec.md §3,
// §4.7): a cache.Target closes over a specific script function's AST,
// so without clearing it here, redefining a function between two Run
// calls on the same Engine would keep replaying the stale first-run
// body. The operation counter and data-size budget are likewise fresh
// per call, sharing a single pointer across every Context built for
// this run (including the ones callScript builds per script-function
// call) so the ceiling applies to the whole evaluation.
func (e *Engine) RunProgram(program *ast.Program) (value.DynVal, error) {
	e.Evaluator.Cache.Clear()
	e.Registry.SetMaxDepth(e.Limits.MaxCallDepth)
	ops := &eval.OpCounter{Max: e.Limits.MaxOperations}
	data := &eval.DataBudget{Max: e.Limits.MaxArrayLen}
	e.Registry.SetOpCounter(ops)
	e.Registry.SetDataBudget(data)
	ctx := &eval.Context{MaxDepth: e.Limits.MaxCallDepth, Ops: ops, Data: data}
	block := &ast.BlockStatement{Statements: program.Statements}
	return e.Stmt.EvalBlock(block, e.Global, e.Evaluator, ctx)
}

// Eval parses and evaluates a single expression string — the
// convenience entry point a REPL or a `eval()` builtin would use.
func (e *Engine) Eval(source string) (value.DynVal, error) {
	return e.Run(source)
}
