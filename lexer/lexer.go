// Package lexer turns G-Basic source text into a stream of spanned
// tokens. It never fails: unrecognised bytes become a sentinel Error
// token and scanning continues, leaving error reporting to later stages.
package lexer

import (
	"strings"

	"github.com/gbasic-lang/gbc/span"
	"github.com/gbasic-lang/gbc/token"
)

// Lexer holds our scanning state over a byte slice of source.
type Lexer struct {
	position     int    // current byte position
	readPosition int    // next byte position
	ch           byte   // current byte
	input        []byte // the source being scanned
}

// New builds a Lexer over the given source string.
func New(input string) *Lexer {
	l := &Lexer{input: []byte(input)}
	l.readChar()
	return l
}

// Tokenize eagerly scans the whole input and returns the token slice,
// terminated by a single EOF token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans and returns the next token, skipping whitespace (other
// than newlines) and comments first.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.position

	var tok token.Token
	switch l.ch {
	case 0:
		tok = token.Token{Type: token.EOF, Span: span.New(start, start)}
	case '\n':
		tok = l.single(token.NEWLINE, start)
	case '+':
		tok = l.single(token.PLUS, start)
	case '-':
		tok = l.maybeArrow(start)
	case '*':
		tok = l.single(token.STAR, start)
	case '/':
		tok = l.single(token.SLASH, start)
	case '%':
		tok = l.single(token.PERCENT, start)
	case '(':
		tok = l.single(token.LPAREN, start)
	case ')':
		tok = l.single(token.RPAREN, start)
	case '{':
		tok = l.single(token.LBRACE, start)
	case '}':
		tok = l.single(token.RBRACE, start)
	case '[':
		tok = l.single(token.LBRACKET, start)
	case ']':
		tok = l.single(token.RBRACKET, start)
	case ',':
		tok = l.single(token.COMMA, start)
	case ':':
		tok = l.single(token.COLON, start)
	case ';':
		tok = l.single(token.SEMI, start)
	case '.':
		tok = l.maybeDotDot(start)
	case '=':
		tok = l.maybeDouble('=', token.EQ_EQ, token.EQ, start)
	case '!':
		tok = l.maybeDouble('=', token.BANG_EQ, token.BANG, start)
	case '<':
		tok = l.maybeDouble('=', token.LT_EQ, token.LT, start)
	case '>':
		tok = l.maybeDouble('=', token.GT_EQ, token.GT, start)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = l.spanned(token.AMP_AMP, "&&", start)
		} else {
			tok = l.errorTok(start)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.spanned(token.PIPE_PIPE, "||", start)
		} else {
			tok = l.errorTok(start)
		}
	case '"':
		return l.readString(start)
	default:
		switch {
		case isDigit(l.ch):
			return l.readNumber(start)
		case isIdentStart(l.ch):
			return l.readIdentifier(start)
		default:
			tok = l.errorTok(start)
		}
	}
	l.readChar()
	return tok
}

func (l *Lexer) single(t token.Type, start int) token.Token {
	return token.Token{Type: t, Literal: string(l.ch), Span: span.New(start, start+1)}
}

func (l *Lexer) spanned(t token.Type, lit string, start int) token.Token {
	return token.Token{Type: t, Literal: lit, Span: span.New(start, l.position+1)}
}

func (l *Lexer) errorTok(start int) token.Token {
	return token.Token{Type: token.ERROR, Literal: string(l.ch), Span: span.New(start, start+1)}
}

// maybeDouble handles the `x` / `x=` families: == != <= >=.
func (l *Lexer) maybeDouble(second byte, doubled, single token.Type, start int) token.Token {
	first := l.ch
	if l.peekChar() == second {
		l.readChar()
		return token.Token{Type: doubled, Literal: string(first) + string(second), Span: span.New(start, l.position+1)}
	}
	return l.single(single, start)
}

// maybeDotDot handles `.` vs `..`.
func (l *Lexer) maybeDotDot(start int) token.Token {
	if l.peekChar() == '.' {
		l.readChar()
		return token.Token{Type: token.DOT_DOT, Literal: "..", Span: span.New(start, l.position+1)}
	}
	return l.single(token.DOT, start)
}

// maybeArrow handles `-` vs `->`; a lone `-` is always MINUS, so a
// negative number lexes as MINUS followed by the numeric literal.
func (l *Lexer) maybeArrow(start int) token.Token {
	if l.peekChar() == '>' {
		l.readChar()
		return token.Token{Type: token.ARROW, Literal: "->", Span: span.New(start, l.position+1)}
	}
	return l.single(token.MINUS, start)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

// readNumber scans optional digits, optional `.digits`, optional
// `eE[+-]?digits`, yielding Int or Float depending on whether a decimal
// point was present.
func (l *Lexer) readNumber(start int) token.Token {
	var b strings.Builder
	for isDigit(l.ch) {
		b.WriteByte(l.ch)
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		b.WriteByte(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			b.WriteByte(l.ch)
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		save := l.position
		exp := string(l.ch)
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			exp += string(l.ch)
			l.readChar()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				exp += string(l.ch)
				l.readChar()
			}
			b.WriteString(exp)
		} else {
			// Not actually an exponent: rewind to the 'e' so the number
			// stops here and the stray byte(s) lex as their own token(s)
			// next.
			l.position = save
			l.readPosition = save + 1
			l.ch = l.input[save]
		}
	}

	t := token.INT
	if isFloat {
		t = token.FLOAT
	}
	return token.Token{Type: t, Literal: b.String(), Span: span.New(start, l.position)}
}

// readIdentifier scans `[A-Za-z_][A-Za-z0-9_]*`, lowercases it, and
// classifies it as a keyword/namespace/type token or a plain identifier.
func (l *Lexer) readIdentifier(start int) token.Token {
	var b strings.Builder
	for isIdentPart(l.ch) {
		b.WriteByte(l.ch)
		l.readChar()
	}
	lit := strings.ToLower(b.String())
	return token.Token{Type: token.LookupIdentifier(lit), Literal: lit, Span: span.New(start, l.position)}
}

// readString scans a `"…"` literal, processing escapes `\n \t \\ \" \{ \}`
// and leaving any other backslash sequence as a literal backslash
// followed by the next byte.
func (l *Lexer) readString(start int) token.Token {
	l.readChar() // consume opening quote
	var b strings.Builder
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
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
			case 0:
				b.WriteByte('\\')
				continue
			default:
				b.WriteByte('\\')
				b.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	end := l.position + 1
	if l.ch == '"' {
		l.readChar()
	}
	return token.Token{Type: token.STRING, Literal: b.String(), Span: span.New(start, end)}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
