package benchmarks

import (
	"testing"

	"vela/pkg/engine"
)

// Go native benchmarks, for comparison against the tree-walking engine.
func BenchmarkGoAddition(b *testing.B) {
	var result int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result = 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5
	}
	_ = result
}

func BenchmarkGoComparison(b *testing.B) {
	var result bool
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result = 1 < 2
	}
	_ = result
}

// BenchmarkParseOnly isolates lex+parse cost from evaluation cost.
func BenchmarkParseOnly(b *testing.B) {
	src := `5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Parse(src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEngineAdditionFreshEngine pays for a fresh Engine (registry,
// global scope, evaluator wiring) on every iteration, the cost a host
// that spins up one Engine per request would see.
func BenchmarkEngineAdditionFreshEngine(b *testing.B) {
	src := `5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := engine.New()
		if _, err := e.Run(src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEngineAdditionReuse parses once and re-evaluates the parsed
// Program against a single long-lived Engine, the path a host that
// caches parsed scripts would exercise.
func BenchmarkEngineAdditionReuse(b *testing.B) {
	src := `5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5 + 5`
	program, err := engine.Parse(src)
	if err != nil {
		b.Fatal(err)
	}
	e := engine.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.RunProgram(program); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineComparison(b *testing.B) {
	program, err := engine.Parse("1 < 2")
	if err != nil {
		b.Fatal(err)
	}
	e := engine.New()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.RunProgram(program); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEngineRecursiveFunctionCall exercises function resolution
// caching and call-depth bookkeeping on every call.
func BenchmarkEngineRecursiveFunctionCall(b *testing.B) {
	program, err := engine.Parse(`fn fib(n) { if n < 2 { return n; } return fib(n - 1) + fib(n - 2); } fib(15)`)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := engine.New()
		if _, err := e.RunProgram(program); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEngineLoopAccumulator exercises scope push/pop discipline
// and operator dispatch inside a tight while loop.
func BenchmarkEngineLoopAccumulator(b *testing.B) {
	program, err := engine.Parse(`let i = 0; let sum = 0; while i < 1000 { sum += i; i += 1; } sum`)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := engine.New()
		if _, err := e.RunProgram(program); err != nil {
			b.Fatal(err)
		}
	}
}
