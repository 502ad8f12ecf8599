package parser

import (
	"strings"

	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/span"
	"github.com/gbasic-lang/gbc/token"
)

// parseStringLiteral builds either a plain string Literal or, when the
// raw source contains an unescaped `{`, a StringInterpExpr. It works
// from the *raw* source text (not the lexer's already-escaped
// token.Literal) because only the raw text still distinguishes an
// escaped `\{` from an interpolation-opening `{` (spec §4.1, §4.2).
func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.advance()
	raw := rawStringBody(tok, p.src)

	parts, hasInterp := p.splitInterpolation(raw, tok.Span.Start+1)
	if !hasInterp {
		return &ast.Literal{Kind: ast.LitString, String: unescapeLiteralOnly(raw), Spn: tok.Span}
	}
	return &ast.StringInterpExpr{Parts: parts, Spn: tok.Span}
}

// rawStringBody slices the source between the token's opening and
// closing quote, tolerating an unterminated string at EOF.
func rawStringBody(tok token.Token, src string) string {
	start, end := tok.Span.Start+1, tok.Span.End-1
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start > end {
		return ""
	}
	return src[start:end]
}

// splitInterpolation walks raw (the unprocessed text between quotes),
// processing escapes as it goes, and splits at unescaped `{...}` spans
// (depth-counted so a brace inside the inner expression, e.g. from a
// nested interpolated string, does not truncate early). Each expression
// substring is re-tokenized and parsed recursively. hasInterp is false
// when no unescaped `{` was found, in which case the caller should
// treat the string as a plain literal.
func (p *Parser) splitInterpolation(raw string, baseOffset int) (parts []ast.StringPart, hasInterp bool) {
	var lit strings.Builder
	i := 0
	for i < len(raw) {
		ch := raw[i]
		if ch == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			case '\\':
				lit.WriteByte('\\')
			case '"':
				lit.WriteByte('"')
			case '{':
				lit.WriteByte('{')
			case '}':
				lit.WriteByte('}')
			default:
				lit.WriteByte('\\')
				lit.WriteByte(raw[i+1])
			}
			i += 2
			continue
		}
		if ch == '{' {
			hasInterp = true
			if lit.Len() > 0 {
				parts = append(parts, ast.StringPart{Lit: lit.String()})
				lit.Reset()
			}
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto done
					}
				}
				j++
			}
		done:
			if depth != 0 {
				p.errorf(span.New(baseOffset+i, baseOffset+len(raw)), "unbalanced '{' in string interpolation")
				i = len(raw)
				break
			}
			inner := raw[i+1 : j]
			expr := p.parseEmbedded(inner, baseOffset+i+1)
			parts = append(parts, ast.StringPart{Expr: expr})
			i = j + 1
			continue
		}
		lit.WriteByte(ch)
		i++
	}
	if lit.Len() > 0 || len(parts) == 0 {
		parts = append(parts, ast.StringPart{Lit: lit.String()})
	}
	return parts, hasInterp
}

// unescapeLiteralOnly processes the same escapes as the lexer for a
// string with no interpolation, used when the caller builds a plain
// Literal directly from raw text.
func unescapeLiteralOnly(raw string) string {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '{':
				b.WriteByte('{')
			case '}':
				b.WriteByte('}')
			default:
				b.WriteByte('\\')
				b.WriteByte(raw[i+1])
			}
			i += 2
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}

// parseEmbedded re-tokenizes and parses an interpolation's interior
// expression text. Token spans are pre-shifted by baseOffset (see
// newEmbedded), so both the returned expression's spans and any
// diagnostics it raises already line up with the original source file.
func (p *Parser) parseEmbedded(text string, baseOffset int) ast.Expression {
	sub := newEmbedded(text, baseOffset)
	expr := sub.parseExpression()
	p.errors = append(p.errors, sub.errors...)
	return expr
}
