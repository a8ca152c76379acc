package parser

import (
	"testing"

	"vela/pkg/ast"
	"vela/pkg/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	program, errs := ParseProgram(l)
	if len(errs) != 0 {
		t.Fatalf("parser errors for %q: %v", input, errs)
	}
	return program
}

func TestLetStatements(t *testing.T) {
	program := parseProgram(t, `let x = 5; const y = 10;`)
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	let, ok := program.Statements[0].(*ast.LetStatement)
	if !ok || let.Const {
		t.Fatalf("expected a non-const let statement, got %#v", program.Statements[0])
	}
	if let.Name.Value != "x" {
		t.Fatalf("expected name x, got %s", let.Name.Value)
	}
	konst, ok := program.Statements[1].(*ast.LetStatement)
	if !ok || !konst.Const {
		t.Fatalf("expected a const let statement, got %#v", program.Statements[1])
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a + b == c - d", "((a + b) == (c - d))"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-a * b", "((-a) * b)"},
		{"a || b && c", "(a || (b && c))"},
		{"a ?? b ?? c", "(a ?? (b ?? c))"},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("expected an expression statement for %q", tt.input)
		}
		if got := stmt.Expression.String(); got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestIfElifElse(t *testing.T) {
	program := parseProgram(t, `
		if x > 0 {
			y = 1;
		} elif x < 0 {
			y = -1;
		} else {
			y = 0;
		}
	`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", stmt.Expression)
	}
	if len(ifExpr.Elifs) != 1 {
		t.Fatalf("expected 1 elif branch, got %d", len(ifExpr.Elifs))
	}
	if ifExpr.Alternative == nil {
		t.Fatalf("expected an else block")
	}
}

func TestWhileLoopFor(t *testing.T) {
	program := parseProgram(t, `
		while i < 10 { i = i + 1; }
		loop { break; }
		for item in [1, 2, 3] { print(item); }
	`)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ast.WhileStatement); !ok {
		t.Fatalf("expected *ast.WhileStatement, got %T", program.Statements[0])
	}
	if _, ok := program.Statements[1].(*ast.LoopStatement); !ok {
		t.Fatalf("expected *ast.LoopStatement, got %T", program.Statements[1])
	}
	forStmt, ok := program.Statements[2].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected *ast.ForStatement, got %T", program.Statements[2])
	}
	if forStmt.Variable.Value != "item" {
		t.Fatalf("expected loop variable item, got %s", forStmt.Variable.Value)
	}
}

func TestFunctionStatementAndCall(t *testing.T) {
	program := parseProgram(t, `
		fn add(a, b) { return a + b; }
		add(1, 2);
	`)
	fn, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("expected *ast.FunctionStatement, got %T", program.Statements[0])
	}
	if fn.Name.Value != "add" || len(fn.Parameters) != 2 {
		t.Fatalf("unexpected function signature: %+v", fn)
	}
	call := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 call arguments, got %d", len(call.Arguments))
	}
}

func TestNamespaceAndDotCall(t *testing.T) {
	program := parseProgram(t, `
		auth::sign(payload, secret, "24h");
		arr.push(1);
		global::MAX;
	`)
	call := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	ns, ok := call.Function.(*ast.NamespaceExpression)
	if !ok || ns.String() != "auth::sign" {
		t.Fatalf("expected auth::sign namespace call, got %#v", call.Function)
	}

	dot := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.DotExpression)
	if dot.Field != "push" || dot.Call == nil {
		t.Fatalf("expected a .push(...) call, got %#v", dot)
	}

	global := program.Statements[2].(*ast.ExpressionStatement).Expression.(*ast.NamespaceExpression)
	if global.String() != "global::MAX" {
		t.Fatalf("expected global::MAX, got %s", global.String())
	}
}

func TestRangeAndAssignOperators(t *testing.T) {
	program := parseProgram(t, `let r = 1..10; let s = 1..=10; x += 1; y **= 2;`)
	let := program.Statements[0].(*ast.LetStatement)
	rng, ok := let.Value.(*ast.RangeExpression)
	if !ok || rng.Inclusive {
		t.Fatalf("expected exclusive range, got %#v", let.Value)
	}
	let2 := program.Statements[1].(*ast.LetStatement)
	rng2, ok := let2.Value.(*ast.RangeExpression)
	if !ok || !rng2.Inclusive {
		t.Fatalf("expected inclusive range, got %#v", let2.Value)
	}
	assign := program.Statements[2].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if assign.Operator != "+=" {
		t.Fatalf("expected +=, got %s", assign.Operator)
	}
	assign2 := program.Statements[3].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if assign2.Operator != "**=" {
		t.Fatalf("expected **=, got %s", assign2.Operator)
	}
}

func TestStringInterpolation(t *testing.T) {
	program := parseProgram(t, `let msg = "hello ${name}!";`)
	let := program.Statements[0].(*ast.LetStatement)
	str, ok := let.Value.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected *ast.StringLiteral, got %T", let.Value)
	}
	if len(str.Parts) == 0 {
		t.Fatalf("expected interpolation parts to be populated")
	}
	found := false
	for _, part := range str.Parts {
		if part.Expr != nil {
			if ident, ok := part.Expr.(*ast.Identifier); ok && ident.Value == "name" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected an interpolated identifier \"name\", parts=%+v", str.Parts)
	}
}

func TestArrayAndMapLiterals(t *testing.T) {
	program := parseProgram(t, `let a = [1, 2, 3]; let m = {x: 1, y: 2};`)
	let := program.Statements[0].(*ast.LetStatement)
	arr, ok := let.Value.(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("expected a 3-element array, got %#v", let.Value)
	}
	let2 := program.Statements[1].(*ast.LetStatement)
	m, ok := let2.Value.(*ast.MapLiteral)
	if !ok || len(m.Pairs) != 2 {
		t.Fatalf("expected a 2-pair map, got %#v", let2.Value)
	}
}

func TestParserErrorsReported(t *testing.T) {
	l := lexer.New(`let x = ;`)
	_, errs := ParseProgram(l)
	if len(errs) == 0 {
		t.Fatalf("expected parser errors for malformed input")
	}
}
