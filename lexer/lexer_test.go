package lexer

import (
	"testing"

	"github.com/gbasic-lang/gbc/token"
	"github.com/stretchr/testify/assert"
)

type expected struct {
	typ Type
	lit string
}

type Type = token.Type

func run(t *testing.T, input string, want []expected) {
	t.Helper()
	l := New(input)
	for i, tt := range want {
		tok := l.NextToken()
		assert.Equalf(t, tt.typ, tok.Type, "token %d type", i)
		assert.Equalf(t, tt.lit, tok.Literal, "token %d literal", i)
	}
}

func TestNumbers(t *testing.T) {
	run(t, `3 43 3.5 2.5e3 2e-2`, []expected{
		{token.INT, "3"},
		{token.INT, "43"},
		{token.FLOAT, "3.5"},
		{token.FLOAT, "2.5e3"},
		{token.FLOAT, "2e-2"},
		{token.EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	run(t, `+ - * / % == != <= >= < > && || = ! .. . -> :`, []expected{
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.STAR, "*"},
		{token.SLASH, "/"},
		{token.PERCENT, "%"},
		{token.EQ_EQ, "=="},
		{token.BANG_EQ, "!="},
		{token.LT_EQ, "<="},
		{token.GT_EQ, ">="},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.AMP_AMP, "&&"},
		{token.PIPE_PIPE, "||"},
		{token.EQ, "="},
		{token.BANG, "!"},
		{token.DOT_DOT, ".."},
		{token.DOT, "."},
		{token.ARROW, "->"},
		{token.COLON, ":"},
		{token.EOF, ""},
	})
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, variant := range []string{"let", "LET", "Let", "lEt"} {
		run(t, variant, []expected{{token.LET, "let"}, {token.EOF, ""}})
	}
}

func TestNamespaces(t *testing.T) {
	run(t, `Screen Sound Input Math System Memory IO Asset`, []expected{
		{token.SCREEN, "screen"},
		{token.SOUND, "sound"},
		{token.INPUT, "input"},
		{token.MATH, "math"},
		{token.SYSTEM, "system"},
		{token.MEMORY, "memory"},
		{token.IO, "io"},
		{token.ASSET, "asset"},
		{token.EOF, ""},
	})
}

func TestStringEscapes(t *testing.T) {
	run(t, `"a\nb\t\\\"\{x\}c"`, []expected{
		{token.STRING, "a\nb\t\\\"{x}c"},
		{token.EOF, ""},
	})
}

func TestStringInterpolationIsNotSplitByTheLexer(t *testing.T) {
	run(t, `"hello {name}!"`, []expected{
		{token.STRING, "hello {name}!"},
		{token.EOF, ""},
	})
}

func TestUnknownEscapeKeepsBackslash(t *testing.T) {
	run(t, `"a\zb"`, []expected{
		{token.STRING, `a\zb`},
		{token.EOF, ""},
	})
}

func TestComments(t *testing.T) {
	run(t, "let x = 1 // trailing comment\n/* block\ncomment */let y = 2", []expected{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.EQ, "="},
		{token.INT, "1"},
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "y"},
		{token.EQ, "="},
		{token.INT, "2"},
		{token.EOF, ""},
	})
}

func TestBogusByteBecomesErrorToken(t *testing.T) {
	run(t, "let x = @", []expected{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.EQ, "="},
		{token.ERROR, "@"},
		{token.EOF, ""},
	})
}

func TestTokenize(t *testing.T) {
	toks := Tokenize("1 + 2")
	assert.Len(t, toks, 4)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Type)
}

func TestSpansCoverSourceBytes(t *testing.T) {
	l := New("let x")
	tok := l.NextToken()
	assert.Equal(t, 0, tok.Span.Start)
	assert.Equal(t, 3, tok.Span.End)
}
