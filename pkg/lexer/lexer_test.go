package lexer

import (
	"testing"

	"vela/pkg/token"
)

func TestNextToken(t *testing.T) {
	input := `fn add(x, y) {
	return x + y;
}
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.FN, "fn"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q, literal=%q",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `a += 1; b **= 2; c <<= 1; d ..= 10; e::f; g ?? h; i && j || !k`
	tests := []token.TokenType{
		token.IDENT, token.PLUS_EQ, token.INT, token.SEMICOLON,
		token.IDENT, token.POW_EQ, token.INT, token.SEMICOLON,
		token.IDENT, token.SHL_EQ, token.INT, token.SEMICOLON,
		token.IDENT, token.DOTDOTEQ, token.INT, token.SEMICOLON,
		token.IDENT, token.DCOLON, token.IDENT, token.SEMICOLON,
		token.IDENT, token.QQ, token.IDENT, token.SEMICOLON,
		token.IDENT, token.AND, token.IDENT, token.OR, token.BANG, token.IDENT,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestStringAndCharEscapes(t *testing.T) {
	input := `"line\nbreak" 'a' '\t'`
	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.STRING || tok.Literal != "line\nbreak" {
		t.Fatalf("string literal wrong: %q", tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.CHAR || tok.Literal != "a" {
		t.Fatalf("char literal wrong: %q", tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != token.CHAR || tok.Literal != "\t" {
		t.Fatalf("char escape wrong: %q", tok.Literal)
	}
}

func TestNumberKinds(t *testing.T) {
	input := `42 3.14 1_000 2.5e3 7d`
	tests := []struct {
		typ  token.TokenType
		lit  string
	}{
		{token.INT, "42"},
		{token.FLOAT, "3.14"},
		{token.INT, "1000"},
		{token.FLOAT, "2.5e3"},
		{token.DECIMAL, "7"},
	}
	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - expected (%q,%q), got (%q,%q)", i, tt.typ, tt.lit, tok.Type, tok.Literal)
		}
	}
}

func TestComments(t *testing.T) {
	input := "let a = 1; // trailing comment\n/* block\ncomment */ let b = 2;"
	tests := []token.TokenType{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.EOF,
	}
	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, expected, tok.Type)
		}
	}
}
