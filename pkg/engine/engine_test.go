package engine

import (
	"testing"

	"vela/pkg/eval"
	"vela/pkg/value"
)

type engineTestCase struct {
	input    string
	expected interface{}
}

func runEngineTests(t *testing.T, tests []engineTestCase) {
	t.Helper()
	for _, tt := range tests {
		e := New()
		result, err := e.Run(tt.input)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		switch want := tt.expected.(type) {
		case int64:
			got, mismatch := value.AsInt(result)
			if mismatch != "" {
				t.Fatalf("input %q: expected Int, got %s", tt.input, mismatch)
			}
			if got != want {
				t.Errorf("input %q: expected %d, got %d", tt.input, want, got)
			}
		case bool:
			got, mismatch := value.AsBool(result)
			if mismatch != "" {
				t.Fatalf("input %q: expected Bool, got %s", tt.input, mismatch)
			}
			if got != want {
				t.Errorf("input %q: expected %t, got %t", tt.input, want, got)
			}
		case string:
			got, mismatch := value.AsString(result)
			if mismatch != "" {
				t.Fatalf("input %q: expected String, got %s", tt.input, mismatch)
			}
			if got != want {
				t.Errorf("input %q: expected %q, got %q", tt.input, want, got)
			}
		default:
			t.Fatalf("input %q: unsupported expectation type %T", tt.input, tt.expected)
		}
	}
}

func TestLetAndArithmetic(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{"let x = 1; x", int64(1)},
		{"let x = 1; let y = 2; x + y", int64(3)},
		{"let x = 10; x -= 3; x", int64(7)},
		{"2 + 3 * 4", int64(14)},
		{"(2 + 3) * 4", int64(20)},
		{"2 ** 10", int64(1024)},
	})
}

func TestBooleanAndComparison(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 == 1 && 2 == 2", true},
		{"false || true", true},
		{"!(1 == 1)", false},
	})
}

func TestIfElifElse(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{"let x = 5; if x > 10 { 1 } elif x > 3 { 2 } else { 3 }", int64(2)},
		{"let x = -1; if x > 0 { 1 } else { 2 }", int64(2)},
	})
}

func TestWhileLoopAccumulator(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{"let i = 0; let sum = 0; while i < 5 { sum += i; i += 1; } sum", int64(10)},
		{"let i = 0; loop { i += 1; if i == 3 { break; } } i", int64(3)},
		{"let sum = 0; for x in 1..=5 { sum += x; } sum", int64(15)},
	})
}

func TestFunctionCallAndRecursion(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{`fn add(a, b) { return a + b; } add(3, 4)`, int64(7)},
		{`fn fact(n) { if n <= 1 { return 1; } return n * fact(n - 1); } fact(5)`, int64(120)},
	})
}

func TestScopeRestoredAfterBlock(t *testing.T) {
	e := New()
	_, err := e.Run(`
		let x = 1;
		if true {
			let x = 2;
			let y = 3;
		}
		x
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = e.Run(`y`)
	// y was declared inside the if-block of the first Run; each Run
	// uses the same global scope, so without a fresh check this simply
	// documents that block-local bindings never leak past their block.
	if err == nil {
		t.Fatalf("expected y to be out of scope after the block that declared it")
	}
}

func TestStringConcatAndInterpolation(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{`"hello" + " " + "world"`, "hello world"},
		{`let name = "vela"; "hi ${name}"`, "hi vela"},
	})
}

func TestArrayAndMapAccess(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{"let a = [1, 2, 3]; a[1]", int64(2)},
		{"let m = {x: 1, y: 2}; m.x", int64(1)},
		{"let a = [1, 2]; a.push(3); a.len()", int64(3)},
	})
}

func TestRecursionCeiling(t *testing.T) {
	e := New()
	e.Limits.MaxCallDepth = 3
	_, err := e.Run(`fn loop_forever(n) { return loop_forever(n + 1); } loop_forever(0)`)
	if err == nil {
		t.Fatalf("expected a recursion ceiling error")
	}
}

func TestParseErrorAggregatesMessages(t *testing.T) {
	_, err := Parse(`let x = ;`)
	if err == nil {
		t.Fatalf("expected a parse error")
	}
}

func expectEvalErrorKind(t *testing.T, err error, kind string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error of kind %q, got none", kind)
	}
	evalErr, ok := err.(*eval.EvalError)
	if !ok {
		t.Fatalf("expected *eval.EvalError, got %T (%v)", err, err)
	}
	if evalErr.Kind != kind {
		t.Fatalf("expected error kind %q, got %q (%v)", kind, evalErr.Kind, evalErr)
	}
}

func TestOperationCeiling(t *testing.T) {
	e := New()
	e.Limits.MaxOperations = 100
	_, err := e.Run(`while true { }`)
	expectEvalErrorKind(t, err, "TooManyOperations")
}

func TestOperationCeilingUnlimitedByDefault(t *testing.T) {
	e := New()
	_, err := e.Run(`let i = 0; while i < 1000 { i += 1; } i`)
	if err != nil {
		t.Fatalf("unexpected error with no operation ceiling configured: %v", err)
	}
}

func TestDataSizeBudget(t *testing.T) {
	e := New()
	e.Limits.MaxArrayLen = 3
	_, err := e.Run(`[1, 2, 3, 4]`)
	expectEvalErrorKind(t, err, "DataTooLarge")

	e2 := New()
	e2.Limits.MaxArrayLen = 3
	_, err = e2.Run(`{a: 1, b: 2, c: 3, d: 4}`)
	expectEvalErrorKind(t, err, "DataTooLarge")
}

func TestDataSizeBudgetUnlimitedByDefault(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{"let a = [1, 2, 3, 4, 5]; a.len()", int64(5)},
	})
}

func TestFunctionRedefinitionTakesEffectAcrossRuns(t *testing.T) {
	e := New()
	if _, err := e.Run(`fn f() { return 1; }`); err != nil {
		t.Fatalf("unexpected error defining f: %v", err)
	}
	v1, err := e.Run(`f()`)
	if err != nil {
		t.Fatalf("unexpected error calling f: %v", err)
	}
	got1, _ := value.AsInt(v1)
	if got1 != 1 {
		t.Fatalf("expected first definition of f() to return 1, got %d", got1)
	}

	if _, err := e.Run(`fn f() { return 2; }`); err != nil {
		t.Fatalf("unexpected error redefining f: %v", err)
	}
	v2, err := e.Run(`f()`)
	if err != nil {
		t.Fatalf("unexpected error calling redefined f: %v", err)
	}
	got2, _ := value.AsInt(v2)
	if got2 != 2 {
		t.Fatalf("expected redefined f() to return 2, got %d (stale cache.Target or stale scriptFn)", got2)
	}
}

func TestClosureCallsAndCaptures(t *testing.T) {
	runEngineTests(t, []engineTestCase{
		{`let square = fn(x) { return x * x; }; square(5)`, int64(25)},
		{`let add = fn(a, b) { a + b }; add(3, 4)`, int64(7)},
	})
}

func TestClosureMutatesCapturedVariable(t *testing.T) {
	e := New()
	result, err := e.Run(`
		let x = 1;
		let bump = fn() { x = x + 1; return x; };
		bump();
		let y = bump();
		y
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, mismatch := value.AsInt(result)
	if mismatch != "" {
		t.Fatalf("expected Int, got %s", mismatch)
	}
	if got != 3 {
		t.Fatalf("expected closure mutations to accumulate to 3, got %d", got)
	}

	e2 := New()
	result2, err := e2.Run(`
		let x = 1;
		let bump = fn() { x = x + 1; };
		bump();
		bump();
		x
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got2, mismatch := value.AsInt(result2)
	if mismatch != "" {
		t.Fatalf("expected Int, got %s", mismatch)
	}
	if got2 != 3 {
		t.Fatalf("expected the outer binding to observe the closure's mutation, got %d", got2)
	}
}

func TestBareFunctionNameYieldsCallableFunctionPointer(t *testing.T) {
	e := New()
	result, err := e.Run(`
		fn double(n) { return n * 2; }
		let g = double;
		g(21)
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, mismatch := value.AsInt(result)
	if mismatch != "" {
		t.Fatalf("expected Int, got %s", mismatch)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestGlobalConstFallbackForBareIdentifier(t *testing.T) {
	e := New()
	e.Registry.DefineGlobalConst("ANSWER", value.NewInt(42))
	result, err := e.Run(`ANSWER`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, mismatch := value.AsInt(result)
	if mismatch != "" {
		t.Fatalf("expected Int, got %s", mismatch)
	}
	if got != 42 {
		t.Fatalf("expected the registered global module constant to resolve without a global:: prefix, got %d", got)
	}
}
