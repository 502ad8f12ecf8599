package diag

import (
	"bytes"
	"testing"

	"github.com/gbasic-lang/gbc/span"
	"github.com/stretchr/testify/assert"
)

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "syntax error", Syntax.String())
	assert.Equal(t, "internal error", Internal.String())
}

func TestNewSyntaxCarriesSpan(t *testing.T) {
	e := NewSyntax(span.New(2, 5), "unexpected %s", "token")
	sp, ok := e.Span()
	assert.True(t, ok)
	assert.Equal(t, span.New(2, 5), sp)
	assert.Contains(t, e.Error(), "unexpected token")
}

func TestNewInternalHasNoSpan(t *testing.T) {
	e := NewInternal("verifier failed")
	_, ok := e.Span()
	assert.False(t, ok)
}

func TestWrapCodegenUnwraps(t *testing.T) {
	cause := assert.AnError
	e := WrapCodegen(cause, "link failed")
	assert.ErrorIs(t, e, assert.AnError)
}

func TestRenderIncludesExcerptAndCaret(t *testing.T) {
	src := "let x = \nlet y = 2"
	e := NewName(span.New(4, 5), "unknown identifier 'x'")
	var buf bytes.Buffer
	Render(&buf, "test.gb", src, []*Error{e}, false)
	out := buf.String()
	assert.Contains(t, out, "test.gb:1:5: name error: unknown identifier 'x'")
	assert.Contains(t, out, "let x = ")
	assert.Contains(t, out, "^")
}

func TestRenderSpanlessDiagnostic(t *testing.T) {
	e := NewInternal("verifier failed")
	var buf bytes.Buffer
	Render(&buf, "test.gb", "", []*Error{e}, false)
	assert.Contains(t, buf.String(), "test.gb: internal error: verifier failed")
}
