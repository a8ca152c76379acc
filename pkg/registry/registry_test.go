package registry

import (
	"testing"

	"vela/pkg/ast"
	"vela/pkg/eval"
	"vela/pkg/lexer"
	"vela/pkg/parser"
	"vela/pkg/scope"
	"vela/pkg/stmt"
	"vela/pkg/value"
)

func newWiredRegistry() (*Registry, *eval.Evaluator) {
	reg := New()
	stmtEval := stmt.New(reg)
	ev := eval.New(reg, reg, stmtEval, stmtEval)
	reg.SetEvaluator(ev)
	return reg, ev
}

func defineFn(t *testing.T, reg *Registry, src string) {
	t.Helper()
	l := lexer.New(src)
	program, errs := parser.ParseProgram(l)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	for _, s := range program.Statements {
		fn, ok := s.(*ast.FunctionStatement)
		if !ok {
			t.Fatalf("expected a function statement, got %T", s)
		}
		reg.DefineFunction(fn.Name.Value, fn.Parameters, fn.Body)
	}
}

func TestResolveScriptFunctionByArity(t *testing.T) {
	reg, _ := newWiredRegistry()
	defineFn(t, reg, `fn add(a, b) { return a + b; }`)

	target, ok := reg.Resolve("add", []value.DynVal{value.NewInt(1), value.NewInt(2)})
	if !ok {
		t.Fatalf("expected add/2 to resolve")
	}
	result, err := target([]value.DynVal{value.NewInt(3), value.NewInt(4)}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := value.AsInt(result)
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}

	if _, ok := reg.Resolve("add", []value.DynVal{value.NewInt(1)}); ok {
		t.Fatalf("expected add/1 not to resolve when only add/2 is defined")
	}
}

func TestResolveNativeFunction(t *testing.T) {
	reg, _ := newWiredRegistry()
	reg.DefineNative("double", func(args []value.DynVal) (value.DynVal, error) {
		n, _ := value.AsInt(args[0])
		return value.NewInt(n * 2), nil
	})
	target, ok := reg.Resolve("double", []value.DynVal{value.NewInt(5)})
	if !ok {
		t.Fatalf("expected double to resolve")
	}
	result, _ := target([]value.DynVal{value.NewInt(5)}, 0)
	n, _ := value.AsInt(result)
	if n != 10 {
		t.Fatalf("expected 10, got %d", n)
	}
}

func TestModuleConstantAndFunctionResolution(t *testing.T) {
	reg, _ := newWiredRegistry()
	mod := NewModule()
	mod.Constants["PI"] = value.NewFloat(3.14)
	mod.Functions["square"] = func(args []value.DynVal) (value.DynVal, error) {
		n, _ := value.AsInt(args[0])
		return value.NewInt(n * n), nil
	}
	reg.DefineModule("math", mod)

	v, ok := reg.ResolveNamespace([]string{"math", "PI"})
	if !ok {
		t.Fatalf("expected math::PI to resolve")
	}
	f, _ := value.AsFloat(v)
	if f != 3.14 {
		t.Fatalf("expected 3.14, got %v", f)
	}

	if _, ok := reg.ResolveNamespace([]string{"math", "square"}); !ok {
		t.Fatalf("expected math::square to resolve as a namespace reference")
	}
	target, ok := reg.Resolve("math::square", []value.DynVal{value.NewInt(4)})
	if !ok {
		t.Fatalf("expected math::square to resolve through Resolve after namespace lookup")
	}
	result, _ := target([]value.DynVal{value.NewInt(4)}, 0)
	n, _ := value.AsInt(result)
	if n != 16 {
		t.Fatalf("expected 16, got %d", n)
	}
}

func TestGlobalConstIsReadOnly(t *testing.T) {
	reg, _ := newWiredRegistry()
	reg.DefineGlobalConst("MAX", value.NewInt(100))
	v, ok := reg.ResolveNamespace([]string{"global", "MAX"})
	if !ok {
		t.Fatalf("expected global::MAX to resolve")
	}
	if !v.IsReadOnly() {
		t.Fatalf("expected global constant to be read-only")
	}
}

func TestRecursiveScriptFunctionRespectsCallDepth(t *testing.T) {
	reg, ev := newWiredRegistry()
	defineFn(t, reg, `fn count_down(n) { if n <= 0 { return 0; } return count_down(n - 1); }`)

	sc := scope.New()
	l := lexer.New(`count_down(2)`)
	program, _ := parser.ParseProgram(l)
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression

	// Recursive calls run inside callScript's self-built Context, which
	// reads the registry's own depth ceiling rather than the ceiling on
	// whatever Context the original top-level Eval call used — so the
	// ceiling is configured on the registry, matching how pkg/engine's
	// RunProgram wires Limits.MaxCallDepth through SetMaxDepth.
	reg.SetMaxDepth(5)
	result, err := ev.Eval(expr, sc, &eval.Context{})
	if err != nil {
		t.Fatalf("unexpected error within the depth ceiling: %v", err)
	}
	n, _ := value.AsInt(result)
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}

	reg.SetMaxDepth(1)
	if _, err := ev.Eval(expr, sc, &eval.Context{}); err == nil {
		t.Fatalf("expected a recursion ceiling error with MaxDepth 1")
	}
}
