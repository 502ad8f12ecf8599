// Package parser implements G-Basic's recursive-descent, Pratt-style
// expression parser (spec §4.2). It never aborts on a syntax error:
// ParseProgram and parseBlock synchronize to the next statement
// boundary and keep going, so a single Parse call can surface every
// syntax error in a source file at once.
package parser

import (
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/gbasic-lang/gbc/lexer"
	"github.com/gbasic-lang/gbc/span"
	"github.com/gbasic-lang/gbc/token"
)

// Parser holds the token cursor, the original source (needed to re-lex
// interpolated string interiors), and the accumulated diagnostics.
type Parser struct {
	src    string
	tokens []token.Token
	pos    int
	errors []*diag.Error
}

// New builds a parser over src, eagerly tokenizing it.
func New(src string) *Parser {
	return &Parser{src: src, tokens: lexer.Tokenize(src)}
}

// newEmbedded builds a parser over an interpolation's inner expression
// text, with every token span shifted by offset so diagnostics and (if
// ever needed) AST spans line up with the original source file rather
// than the extracted substring.
func newEmbedded(src string, offset int) *Parser {
	toks := lexer.Tokenize(src)
	for i := range toks {
		toks[i].Span = span.New(toks[i].Span.Start+offset, toks[i].Span.End+offset)
	}
	return &Parser{src: src, tokens: toks}
}

// Parse parses a complete program. The returned Program is always
// non-nil; the returned diagnostics are empty only when parsing fully
// succeeded.
func Parse(src string) (*ast.Program, []*diag.Error) {
	p := New(src)
	prog := p.ParseProgram()
	return prog, p.errors
}

// Errors returns every diagnostic collected so far.
func (p *Parser) Errors() []*diag.Error { return p.errors }

func (p *Parser) errorf(sp span.Span, format string, args ...any) {
	p.errors = append(p.errors, diag.NewSyntax(sp, format, args...))
}

// ---- token cursor ----

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) at(t token.Type) bool { return p.cur().Type == t }

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// skipSeparators consumes newlines and semicolons used as statement
// separators.
func (p *Parser) skipSeparators() {
	for p.at(token.NEWLINE) || p.at(token.SEMI) {
		p.advance()
	}
}

// expect consumes t, or records a syntax error and returns false.
func (p *Parser) expect(t token.Type, what string) (token.Token, bool) {
	if p.at(t) {
		return p.advance(), true
	}
	p.errorf(p.cur().Span, "expected %s, found '%s'", what, p.cur().Literal)
	return token.Token{}, false
}

// ---- synchronize-on-error recovery ----

var statementStarters = map[token.Type]bool{
	token.LET: true, token.FUN: true, token.FN: true, token.IF: true,
	token.FOR: true, token.WHILE: true, token.MATCH: true,
	token.RETURN: true, token.BREAK: true, token.CONTINUE: true,
}

// synchronize advances past the current bad token until a statement
// starter, `}`, a newline/semicolon, or EOF (spec §4.2's recovery rule).
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if statementStarters[p.cur().Type] || p.at(token.RBRACE) {
			return
		}
		if p.at(token.NEWLINE) || p.at(token.SEMI) {
			p.advance()
			return
		}
		p.advance()
	}
}

// ---- program / statements ----

// ParseProgram parses every top-level statement, synchronizing past
// errors so all of them are collected in one pass.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur().Span
	prog := &ast.Program{}
	p.skipSeparators()
	for !p.at(token.EOF) {
		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if len(p.errors) > before {
			p.synchronize()
		}
		p.skipSeparators()
	}
	end := start
	if len(prog.Statements) > 0 {
		end = prog.Statements[len(prog.Statements)-1].Span()
	}
	prog.Spn = start.Merge(end)
	return prog
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.LET:
		return p.parseLet()
	case token.FUN, token.FN:
		return p.parseFunction()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.MATCH:
		return p.parseMatch()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		start := p.advance().Span
		return &ast.BreakStmt{Spn: start}
	case token.CONTINUE:
		start := p.advance().Span
		return &ast.ContinueStmt{Spn: start}
	case token.LBRACE:
		b := p.parseBlock()
		return &ast.BlockStmt{Block: b}
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses `{ statements... }`, recovering on internal errors
// the same way ParseProgram does.
func (p *Parser) parseBlock() *ast.Block {
	lbrace, _ := p.expect(token.LBRACE, "'{'")
	start := lbrace.Span
	block := &ast.Block{}
	p.skipSeparators()
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if len(p.errors) > before {
			p.synchronize()
		}
		p.skipSeparators()
	}
	rbrace, _ := p.expect(token.RBRACE, "'}'")
	block.Spn = start.Merge(rbrace.Span)
	return block
}

func (p *Parser) parseLet() ast.Statement {
	start := p.advance().Span // consume 'let'
	nameTok, ok := p.expect(token.IDENT, "identifier")
	if !ok {
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Spn: nameTok.Span}

	var typeAnn *gbtypes.Type
	if p.at(token.COLON) {
		p.advance()
		t, _, ok := p.parseTypeAnnotation()
		if !ok {
			return nil
		}
		typeAnn = &t
	}
	if _, ok := p.expect(token.EQ, "'='"); !ok {
		return nil
	}
	value := p.parseExpression()
	return &ast.LetStmt{Name: name, TypeAnn: typeAnn, Value: value, Spn: start.Merge(value.Span())}
}

func (p *Parser) parseFunction() ast.Statement {
	start := p.advance().Span // consume fun/fn
	nameTok, ok := p.expect(token.IDENT, "function name")
	if !ok {
		return nil
	}
	name := &ast.Identifier{Name: nameTok.Literal, Spn: nameTok.Span}

	if _, ok := p.expect(token.LPAREN, "'('"); !ok {
		return nil
	}
	var params []*ast.Parameter
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		pnameTok, ok := p.expect(token.IDENT, "parameter name")
		if !ok {
			return nil
		}
		pname := &ast.Identifier{Name: pnameTok.Literal, Spn: pnameTok.Span}
		pspan := pnameTok.Span
		var pt *gbtypes.Type
		if p.at(token.COLON) {
			p.advance()
			t, tspn, ok := p.parseTypeAnnotation()
			if !ok {
				return nil
			}
			pt = &t
			pspan = pspan.Merge(tspn)
		}
		params = append(params, &ast.Parameter{Name: pname, TypeAnn: pt, Spn: pspan})
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, ok := p.expect(token.RPAREN, "')'"); !ok {
		return nil
	}
	var ret *gbtypes.Type
	if p.at(token.ARROW) {
		p.advance()
		t, _, ok := p.parseTypeAnnotation()
		if !ok {
			return nil
		}
		ret = &t
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{
		Name: name, Params: params, ReturnType: ret, Body: body,
		Spn: start.Merge(body.Spn),
	}
}

func (p *Parser) parseIf() ast.Statement {
	start := p.advance().Span // consume 'if'
	cond := p.parseExpression()
	then := p.parseBlock()
	spn := start.Merge(then.Spn)
	var els *ast.Block
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			// `else if` chains into a nested block containing one if-stmt.
			nested := p.parseIf()
			els = &ast.Block{Statements: []ast.Statement{nested}, Spn: nested.Span()}
		} else {
			els = p.parseBlock()
		}
		spn = spn.Merge(els.Spn)
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Spn: spn}
}

func (p *Parser) parseFor() ast.Statement {
	start := p.advance().Span // consume 'for'
	nameTok, ok := p.expect(token.IDENT, "loop variable")
	if !ok {
		return nil
	}
	v := &ast.Identifier{Name: nameTok.Literal, Spn: nameTok.Span}
	if _, ok := p.expect(token.IN, "'in'"); !ok {
		return nil
	}
	iterable := p.parseExpression()
	body := p.parseBlock()
	return &ast.ForStmt{Var: v, Iterable: iterable, Body: body, Spn: start.Merge(body.Spn)}
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.advance().Span // consume 'while'
	cond := p.parseExpression()
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Spn: start.Merge(body.Spn)}
}

func (p *Parser) parseMatch() ast.Statement {
	start := p.advance().Span // consume 'match'
	subject := p.parseExpression()
	if _, ok := p.expect(token.LBRACE, "'{'"); !ok {
		return nil
	}
	p.skipSeparators()
	var arms []*ast.MatchArm
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		pat := p.parsePattern()
		if pat == nil {
			p.synchronize()
			p.skipSeparators()
			continue
		}
		if _, ok := p.expect(token.ARROW, "'->'"); !ok {
			p.synchronize()
			p.skipSeparators()
			continue
		}
		body := p.parseBlock()
		arms = append(arms, &ast.MatchArm{Pattern: pat, Body: body, Spn: pat.Span().Merge(body.Spn)})
		p.skipSeparators()
	}
	rbrace, _ := p.expect(token.RBRACE, "'}'")
	return &ast.MatchStmt{Subject: subject, Arms: arms, Spn: start.Merge(rbrace.Span)}
}

func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur().Type {
	case token.IDENT:
		if p.cur().Literal == "_" {
			sp := p.advance().Span
			return &ast.WildcardPattern{Spn: sp}
		}
		tok := p.advance()
		return &ast.IdentifierPattern{Name: &ast.Identifier{Name: tok.Literal, Spn: tok.Span}}
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE:
		lit := p.parseLiteralToken()
		return &ast.LiteralPattern{Lit: lit}
	default:
		p.errorf(p.cur().Span, "expected a pattern, found '%s'", p.cur().Literal)
		return nil
	}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.advance().Span // consume 'return'
	if p.at(token.NEWLINE) || p.at(token.SEMI) || p.at(token.RBRACE) || p.at(token.EOF) {
		return &ast.ReturnStmt{Spn: start}
	}
	value := p.parseExpression()
	return &ast.ReturnStmt{Value: value, Spn: start.Merge(value.Span())}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	expr := p.parseExpression()
	return &ast.ExpressionStmt{Expr: expr, Spn: expr.Span()}
}

// parseTypeAnnotation parses one of the five type keywords or `[Type]`
// (an array type, written element-type in brackets in this grammar's
// type position).
func (p *Parser) parseTypeAnnotation() (gbtypes.Type, span.Span, bool) {
	switch p.cur().Type {
	case token.TY_INT:
		sp := p.advance().Span
		return gbtypes.TInt, sp, true
	case token.TY_FLOAT:
		sp := p.advance().Span
		return gbtypes.TFloat, sp, true
	case token.TY_STRING:
		sp := p.advance().Span
		return gbtypes.TString, sp, true
	case token.TY_BOOL:
		sp := p.advance().Span
		return gbtypes.TBool, sp, true
	case token.TY_VOID:
		sp := p.advance().Span
		return gbtypes.TVoid, sp, true
	case token.LBRACKET:
		start := p.advance().Span
		elem, _, ok := p.parseTypeAnnotation()
		if !ok {
			return gbtypes.Type{}, span.Dummy(), false
		}
		end, ok := p.expect(token.RBRACKET, "']'")
		if !ok {
			return gbtypes.Type{}, span.Dummy(), false
		}
		return gbtypes.NewArray(elem), start.Merge(end.Span), true
	default:
		p.errorf(p.cur().Span, "expected a type, found '%s'", p.cur().Literal)
		return gbtypes.Type{}, span.Dummy(), false
	}
}
