package parser

import (
	"strconv"

	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/token"
)

// parseExpression is the entry point for the full precedence ladder,
// lowest (assignment/range) to highest (postfix/primary), per spec §4.2.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment handles `target = value`, right-associative.
func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseRange()
	if p.at(token.EQ) {
		p.advance()
		value := p.parseAssignment()
		if !isAssignable(left) {
			p.errorf(left.Span(), "assignment target must be an identifier or field access")
		}
		return &ast.AssignmentExpr{Target: left, Value: value, Spn: left.Span().Merge(value.Span())}
	}
	return left
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IdentifierExpr, *ast.FieldAccessExpr:
		return true
	default:
		return false
	}
}

// parseRange handles `a..b` (exclusive) and `a to b` (inclusive,
// desugared to `a..(b+1)`).
func (p *Parser) parseRange() ast.Expression {
	left := p.parseOr()
	switch p.cur().Type {
	case token.DOT_DOT:
		p.advance()
		right := p.parseOr()
		return &ast.RangeExpr{Start: left, End: right, Spn: left.Span().Merge(right.Span())}
	case token.TO:
		p.advance()
		right := p.parseOr()
		plusOne := &ast.BinaryOpExpr{Left: right, Op: ast.OpAdd, Right: oneLiteral(right), Spn: right.Span()}
		return &ast.RangeExpr{Start: left, End: plusOne, Spn: left.Span().Merge(right.Span())}
	}
	return left
}

func oneLiteral(around ast.Expression) ast.Expression {
	return &ast.Literal{Kind: ast.LitInt, Int: 1, Spn: around.Span()}
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.at(token.PIPE_PIPE) || p.at(token.OR) {
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryOpExpr{Left: left, Op: ast.OpOr, Right: right, Spn: left.Span().Merge(right.Span())}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.at(token.AMP_AMP) || p.at(token.AND) {
		p.advance()
		right := p.parseEquality()
		left = &ast.BinaryOpExpr{Left: left, Op: ast.OpAnd, Right: right, Spn: left.Span().Merge(right.Span())}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.at(token.EQ_EQ) || p.at(token.BANG_EQ) {
		op := ast.OpEq
		if p.cur().Type == token.BANG_EQ {
			op = ast.OpNeq
		}
		p.advance()
		right := p.parseComparison()
		left = &ast.BinaryOpExpr{Left: left, Op: op, Right: right, Spn: left.Span().Merge(right.Span())}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for {
		var op ast.BinaryOp
		switch p.cur().Type {
		case token.LT:
			op = ast.OpLt
		case token.GT:
			op = ast.OpGt
		case token.LT_EQ:
			op = ast.OpLe
		case token.GT_EQ:
			op = ast.OpGe
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryOpExpr{Left: left, Op: op, Right: right, Spn: left.Span().Merge(right.Span())}
	}
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.OpAdd
		if p.cur().Type == token.MINUS {
			op = ast.OpSub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryOpExpr{Left: left, Op: op, Right: right, Spn: left.Span().Merge(right.Span())}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		var op ast.BinaryOp
		switch p.cur().Type {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.BinaryOpExpr{Left: left, Op: op, Right: right, Spn: left.Span().Merge(right.Span())}
	}
	return left
}

// parseUnary handles `!`/`not`/`-`, right-recursive so `--x` and `not not x`
// both parse.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case token.BANG, token.NOT:
		start := p.advance().Span
		operand := p.parseUnary()
		return &ast.UnaryOpExpr{Op: ast.OpNot, Operand: operand, Spn: start.Merge(operand.Span())}
	case token.MINUS:
		start := p.advance().Span
		operand := p.parseUnary()
		return &ast.UnaryOpExpr{Op: ast.OpNeg, Operand: operand, Spn: start.Merge(operand.Span())}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix chains `(args)`, `[index]`, and `.field` onto a primary
// expression.
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.cur().Type {
		case token.LPAREN:
			p.advance()
			args := p.parseArgs()
			end, _ := p.expect(token.RPAREN, "')'")
			expr = &ast.CallExpr{Callee: expr, Args: args, Spn: expr.Span().Merge(end.Span)}
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpression()
			end, _ := p.expect(token.RBRACKET, "']'")
			expr = &ast.IndexExpr{Object: expr, Index: idx, Spn: expr.Span().Merge(end.Span)}
		case token.DOT:
			p.advance()
			fieldTok, ok := p.expect(token.IDENT, "field name")
			if !ok {
				return expr
			}
			expr = &ast.FieldAccessExpr{
				Object: expr,
				Field:  &ast.Identifier{Name: fieldTok.Literal, Spn: fieldTok.Span},
				Spn:    expr.Span().Merge(fieldTok.Span),
			}
		default:
			return expr
		}
	}
}

// parseArgs parses a comma-separated argument list up to (but not
// consuming) the closing `)`.
func (p *Parser) parseArgs() []ast.Expression {
	var args []ast.Expression
	if p.at(token.RPAREN) {
		return args
	}
	args = append(args, p.parseExpression())
	for p.at(token.COMMA) {
		p.advance()
		args = append(args, p.parseExpression())
	}
	return args
}

func (p *Parser) parseLiteralToken() *ast.Literal {
	tok := p.advance()
	switch tok.Type {
	case token.INT:
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return &ast.Literal{Kind: ast.LitInt, Int: v, Spn: tok.Span}
	case token.FLOAT:
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.Literal{Kind: ast.LitFloat, Float: v, Spn: tok.Span}
	case token.STRING:
		return &ast.Literal{Kind: ast.LitString, String: tok.Literal, Spn: tok.Span}
	case token.TRUE:
		return &ast.Literal{Kind: ast.LitBool, Bool: true, Spn: tok.Span}
	case token.FALSE:
		return &ast.Literal{Kind: ast.LitBool, Bool: false, Spn: tok.Span}
	default:
		p.errorf(tok.Span, "expected a literal, found '%s'", tok.Literal)
		return &ast.Literal{Kind: ast.LitInt, Spn: tok.Span}
	}
}

var namespaceTokens = map[token.Type]ast.Namespace{
	token.SCREEN: ast.NsScreen,
	token.SOUND:  ast.NsSound,
	token.INPUT:  ast.NsInput,
	token.MATH:   ast.NsMath,
	token.SYSTEM: ast.NsSystem,
	token.MEMORY: ast.NsMemory,
	token.IO:     ast.NsIO,
	token.ASSET:  ast.NsAsset,
}

// parsePrimary parses literals, parenthesized expressions/tuples, array
// literals, namespace method chains, and identifiers.
func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur().Type {
	case token.INT, token.FLOAT, token.TRUE, token.FALSE:
		return p.parseLiteralToken()
	case token.STRING:
		return p.parseStringLiteral()
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.IDENT:
		tok := p.advance()
		return &ast.IdentifierExpr{Name: &ast.Identifier{Name: tok.Literal, Spn: tok.Span}}
	default:
		if ns, ok := namespaceTokens[p.cur().Type]; ok {
			return p.parseMethodChain(ns)
		}
		tok := p.advance()
		p.errorf(tok.Span, "unexpected token '%s'", tok.Literal)
		return &ast.Literal{Kind: ast.LitInt, Spn: tok.Span}
	}
}

// parseMethodChain parses `Namespace.method(args).method(args)...`. A
// namespace keyword must be followed by at least one `.method` step; a
// bare `.method` with no parens is a zero-arg call.
func (p *Parser) parseMethodChain(ns ast.Namespace) ast.Expression {
	start := p.advance().Span // consume the namespace keyword
	var chain []*ast.MethodCall
	for p.at(token.DOT) {
		p.advance()
		methodTok, ok := p.expect(token.IDENT, "method name")
		if !ok {
			break
		}
		method := &ast.Identifier{Name: methodTok.Literal, Spn: methodTok.Span}
		callSpan := methodTok.Span
		var args []ast.Expression
		if p.at(token.LPAREN) {
			p.advance()
			args = p.parseArgs()
			end, _ := p.expect(token.RPAREN, "')'")
			callSpan = callSpan.Merge(end.Span)
		}
		chain = append(chain, &ast.MethodCall{Method: method, Args: args, Spn: callSpan})
	}
	if len(chain) == 0 {
		p.errorf(start, "namespace '%s' must be followed by '.method'", ns)
	}
	end := start
	if len(chain) > 0 {
		end = chain[len(chain)-1].Spn
	}
	return &ast.MethodChainExpr{Base: ns, Chain: chain, Spn: start.Merge(end)}
}

// parseParenOrTuple parses `(expr)` (a grouped expression) or `(a, b)` /
// `(a, b, c)` (desugared to a synthetic `point`/`color` call). Any other
// arity is a syntax error.
func (p *Parser) parseParenOrTuple() ast.Expression {
	start := p.advance().Span // consume '('
	var elems []ast.Expression
	if !p.at(token.RPAREN) {
		elems = append(elems, p.parseExpression())
		for p.at(token.COMMA) {
			p.advance()
			elems = append(elems, p.parseExpression())
		}
	}
	end, _ := p.expect(token.RPAREN, "')'")
	spn := start.Merge(end.Span)

	switch len(elems) {
	case 1:
		return elems[0]
	case 2:
		return &ast.CallExpr{Callee: &ast.IdentifierExpr{Name: &ast.Identifier{Name: "point", Spn: spn}}, Args: elems, Spn: spn}
	case 3:
		return &ast.CallExpr{Callee: &ast.IdentifierExpr{Name: &ast.Identifier{Name: "color", Spn: spn}}, Args: elems, Spn: spn}
	default:
		p.errorf(spn, "tuple must have 2 or 3 elements, found %d", len(elems))
		return &ast.Literal{Kind: ast.LitInt, Spn: spn}
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.advance().Span // consume '['
	var elems []ast.Expression
	if !p.at(token.RBRACKET) {
		elems = append(elems, p.parseExpression())
		for p.at(token.COMMA) {
			p.advance()
			elems = append(elems, p.parseExpression())
		}
	}
	end, _ := p.expect(token.RBRACKET, "']'")
	return &ast.ArrayExpr{Elements: elems, Spn: start.Merge(end.Span)}
}
