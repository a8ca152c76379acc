// Package parser builds an *ast.Program from a token stream using a
// Pratt parser (precedence-climbing), the same technique the teacher
// uses, extended with the operator and statement set SPEC_FULL.md's
// language surface calls for.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"vela/pkg/ast"
	"vela/pkg/lexer"
	"vela/pkg/token"
)

const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // = += -= ...
	COALESCE    // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == !=
	LESSGREATER // < > <= >= contains
	SHIFT       // << >>
	RANGE       // .. ..=
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -x !x
	CALL        // f(x)
	MEMBER      // x.y  x[y]
)

var precedences = map[token.TokenType]int{
	token.QQ:       COALESCE,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.PIPE:     BITWISE_OR,
	token.CARET:    BITWISE_XOR,
	token.AMP:      BITWISE_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.CONTAINS: LESSGREATER,
	token.SHL:      SHIFT,
	token.SHR:      SHIFT,
	token.DOTDOT:   RANGE,
	token.DOTDOTEQ: RANGE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.PERCENT:  PRODUCT,
	token.POW:      POWER,
	token.LPAREN:   CALL,
	token.DOT:      MEMBER,
	token.LBRACKET: MEMBER,
}

var assignOps = map[token.TokenType]bool{
	token.ASSIGN: true, token.PLUS_EQ: true, token.MINUS_EQ: true,
	token.STAR_EQ: true, token.SLASH_EQ: true, token.PERCENT_EQ: true,
	token.POW_EQ: true, token.SHL_EQ: true, token.SHR_EQ: true,
	token.AND_EQ: true, token.OR_EQ: true, token.XOR_EQ: true,
}

func init() {
	for t := range assignOps {
		precedences[t] = ASSIGNMENT
	}
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	// bindings is a parse-time shadow stack of local binding names,
	// pushed/popped in parallel with how pkg/scope's Scope grows and
	// shrinks at runtime (let statements, function parameters, for-loop
	// variables; block boundaries pop back to their entry height). It
	// lets identifier references carry a reverse-index hint (spec.md
	// §4.3 step 2) without a full symbol-table pass.
	bindings []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.DECIMAL, p.parseDecimalLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.UNIT, p.parseUnit)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.GLOBAL, p.parseNamespaceFromIdent)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseMapLiteral)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.FN, p.parseFunctionLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.SLASH, token.ASTERISK, token.PERCENT, token.POW,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE, token.CONTAINS,
		token.SHL, token.SHR, token.AMP, token.PIPE, token.CARET,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.QQ, p.parseCoalesceExpression)
	p.registerInfix(token.DOTDOT, p.parseRangeExpression)
	p.registerInfix(token.DOTDOTEQ, p.parseRangeExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)
	p.registerInfix(token.DCOLON, p.parseNamespaceInfix)
	for t := range assignOps {
		p.registerInfix(t, p.parseAssignExpression)
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

// pushBinding records name as the newest entry on the shadow stack.
func (p *Parser) pushBinding(name string) { p.bindings = append(p.bindings, name) }

// bindingHeight is the shadow stack's current height, saved before
// parsing a block/function body and restored after, mirroring how
// runtime Scope.PopTo undoes a block's own bindings.
func (p *Parser) bindingHeight() int { return len(p.bindings) }

func (p *Parser) popBindingsTo(height int) { p.bindings = p.bindings[:height] }

// reverseIndexOf returns the 1-based distance from the top of the
// shadow stack to the most recent binding named name, or 0 if none is
// tracked (a global, a forward reference, or a name introduced by a
// construct this pass doesn't model) — zero is the "no hint, fall back
// to a name search" sentinel ast.Identifier.ReverseIndex documents.
func (p *Parser) reverseIndexOf(name string) int {
	for i := len(p.bindings) - 1; i >= 0; i-- {
		if p.bindings[i] == name {
			return len(p.bindings) - i
		}
	}
	return 0
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: expected next token to be %s, got %s instead",
		p.peekToken.Line, t, p.peekToken.Type))
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: no prefix parse function for %s found", p.curToken.Line, t))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses a full source file.
func ParseProgram(l *lexer.Lexer) (*ast.Program, []string) {
	p := New(l)
	prog := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	return prog, p.errors
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement(false)
	case token.CONST:
		return p.parseLetStatement(true)
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.WHILE:
		return p.parseWhileStatement()
	case token.LOOP:
		return p.parseLoopStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FN:
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func (p *Parser) parseLetStatement(isConst bool) ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken, Const: isConst}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	// Pushed after the value is parsed: `let x = x + 1` resolves the
	// right-hand `x` against whatever bound it before this statement,
	// not against the binding it's about to create.
	p.pushBinding(stmt.Name.Value)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) {
		p.skipSemicolon()
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseLoopStatement() ast.Statement {
	stmt := &ast.LoopStatement{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	height := p.bindingHeight()
	p.pushBinding(stmt.Variable.Value)
	stmt.Body = p.parseBlockStatement()
	p.popBindingsTo(height)
	return stmt
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseFunctionParameters()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseFunctionBody(stmt.Parameters)
	return stmt
}

// parseFunctionBody parses a function/closure body with the shadow
// stack reset to just its parameters: a script-defined function's
// runtime scope (pkg/registry's callScript) always starts fresh with
// only its parameters pushed, and a closure's runtime scope (pkg/eval's
// callClosure) starts with its captured cells followed by parameters —
// neither carries the enclosing scope's bindings in parser declaration
// order, so reusing the outer shadow stack here would produce hints
// that are wrong as often as right. Resetting to empty is exact for
// named functions and a harmless, always-verified miss for closures
// referencing a capture (evalIdentifier checks the name at the hinted
// slot before trusting it).
func (p *Parser) parseFunctionBody(params []*ast.Identifier) *ast.BlockStatement {
	saved := p.bindings
	p.bindings = nil
	for _, param := range params {
		p.pushBinding(param.Value)
	}
	body := p.parseBlockStatement()
	p.bindings = saved
	return body
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if !p.expectPeek(token.STRING) {
		return nil
	}
	stmt.Path = p.curToken.Literal
	if p.peekTokenIs(token.IDENT) && p.peekToken.Literal == "as" {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Alias = p.curToken.Literal
	}
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	height := p.bindingHeight()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	p.popBindingsTo(height)
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{
		Token:        p.curToken,
		Value:        p.curToken.Literal,
		ReverseIndex: p.reverseIndexOf(p.curToken.Literal),
	}
	if p.peekTokenIs(token.DCOLON) {
		return p.parseNamespaceInfix(ident)
	}
	return ident
}

func (p *Parser) parseNamespaceFromIdent() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.peekTokenIs(token.DCOLON) {
		return p.parseNamespaceInfix(ident)
	}
	return ident
}

func (p *Parser) parseNamespaceInfix(left ast.Expression) ast.Expression {
	ns := &ast.NamespaceExpression{Token: p.curToken}
	if id, ok := left.(*ast.Identifier); ok {
		ns.Parts = append(ns.Parts, id.Value)
	} else if prior, ok := left.(*ast.NamespaceExpression); ok {
		ns.Parts = append(ns.Parts, prior.Parts...)
	}
	for p.peekTokenIs(token.DCOLON) {
		p.nextToken() // consume '::'
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ns.Parts = append(ns.Parts, p.curToken.Literal)
	}
	return ns
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("line %d: could not parse %q as integer", p.curToken.Line, p.curToken.Literal))
		return nil
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("line %d: could not parse %q as float", p.curToken.Line, p.curToken.Literal))
		return nil
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseDecimalLiteral() ast.Expression {
	return &ast.DecimalLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseStringLiteral splits `${expr}` interpolation segments out of
// the literal text, recursively re-lexing/parsing each one.
func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	if !strings.Contains(lit.Value, "${") {
		return lit
	}
	raw := lit.Value
	var parts []ast.StringPart
	for {
		idx := strings.Index(raw, "${")
		if idx < 0 {
			parts = append(parts, ast.StringPart{Literal: raw})
			break
		}
		end := strings.Index(raw[idx:], "}")
		if end < 0 {
			parts = append(parts, ast.StringPart{Literal: raw})
			break
		}
		exprSrc := raw[idx+2 : idx+end]
		sub := New(lexer.New(exprSrc))
		expr := sub.parseExpression(LOWEST)
		parts = append(parts, ast.StringPart{Literal: raw[:idx], Expr: expr})
		raw = raw[idx+end+1:]
	}
	lit.Parts = parts
	return lit
}

func (p *Parser) parseCharLiteral() ast.Expression {
	runes := []rune(p.curToken.Literal)
	var v rune
	if len(runes) > 0 {
		v = runes[0]
	}
	return &ast.CharLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseUnit() ast.Expression { return &ast.UnitLiteral{Token: p.curToken} }
func (p *Parser) parseThis() ast.Expression { return &ast.ThisExpression{Token: p.curToken} }

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	if expr.Operator == "**" {
		precedence-- // right-associative
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expr := &ast.LogicalExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseCoalesceExpression(left ast.Expression) ast.Expression {
	expr := &ast.CoalesceExpression{Token: p.curToken, Left: left}
	precedence := p.curPrecedence() - 1 // right-associative
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpression{Token: p.curToken, Start: left, Inclusive: p.curTokenIs(token.DOTDOTEQ)}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.End = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	expr := &ast.AssignExpression{Token: p.curToken, Target: left, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Value = p.parseExpression(LOWEST)
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken}
	arr.Elements = p.parseExpressionList(token.RBRACKET)
	return arr
}

func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

// parseMapLiteral parses `{ key: value, ... }`. A `{` that starts a
// statement also parses as a map literal; blocks are parsed by
// parseBlockStatement only where a construct expects a body.
func (p *Parser) parseMapLiteral() ast.Expression {
	m := &ast.MapLiteral{Token: p.curToken}
	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) && !p.expectPeek(token.STRING) {
			return nil
		}
		key := p.curToken.Literal
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		m.Pairs = append(m.Pairs, ast.MapPair{Key: key, Value: val})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return m
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()

	for p.peekTokenIs(token.ELIF) {
		p.nextToken()
		branch := ast.ElifBranch{}
		p.nextToken()
		branch.Condition = p.parseExpression(LOWEST)
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		branch.Body = p.parseBlockStatement()
		expr.Elifs = append(expr.Elifs, branch)
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Alternative = p.parseBlockStatement()
	}
	return expr
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	lit.Parameters = p.parseFunctionParameters()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lit.Body = p.parseFunctionBody(lit.Parameters)
	return lit
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	var params []*ast.Identifier
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Function: fn}
	expr.Arguments = p.parseExpressionList(token.RPAREN)
	return expr
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	dotTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	field := p.curToken.Literal
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		call := p.parseCallExpression(&ast.Identifier{Token: p.curToken, Value: field}).(*ast.CallExpression)
		return &ast.DotExpression{Token: dotTok, Left: left, Field: field, Call: call}
	}
	return &ast.DotExpression{Token: dotTok, Left: left, Field: field}
}
