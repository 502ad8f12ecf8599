// Package diag implements the compiler's unified diagnostic type: the
// five error kinds from spec §4.5 plus a labeled source-excerpt renderer.
package diag

import (
	"fmt"

	"github.com/gbasic-lang/gbc/span"
	"github.com/pkg/errors"
)

// Kind discriminates the five diagnostic kinds.
type Kind int

const (
	Syntax Kind = iota
	Name
	Type
	Codegen
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Name:
		return "name error"
	case Type:
		return "type error"
	case Codegen:
		return "codegen error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// Error is the single diagnostic type every compiler stage returns.
// InternalError never carries a span; CodegenError carries one only
// when the failure can be attributed to a source construct.
type Error struct {
	Kind    Kind
	Message string
	Spn     *span.Span
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.Cause }

// Span reports the diagnostic's source span, if any.
func (e *Error) Span() (span.Span, bool) {
	if e.Spn == nil {
		return span.Dummy(), false
	}
	return *e.Spn, true
}

// NewSyntax builds a SyntaxError at sp.
func NewSyntax(sp span.Span, format string, args ...any) *Error {
	return &Error{Kind: Syntax, Message: fmt.Sprintf(format, args...), Spn: &sp}
}

// NewName builds a NameError at sp.
func NewName(sp span.Span, format string, args ...any) *Error {
	return &Error{Kind: Name, Message: fmt.Sprintf(format, args...), Spn: &sp}
}

// NewType builds a TypeError at sp.
func NewType(sp span.Span, format string, args ...any) *Error {
	return &Error{Kind: Type, Message: fmt.Sprintf(format, args...), Spn: &sp}
}

// NewCodegen builds a CodegenError, optionally spanned.
func NewCodegen(sp *span.Span, format string, args ...any) *Error {
	return &Error{Kind: Codegen, Message: fmt.Sprintf(format, args...), Spn: sp}
}

// WrapCodegen builds a spanless CodegenError wrapping cause, annotating
// it with pkg/errors so %+v on the result's Cause prints a stack trace.
func WrapCodegen(cause error, format string, args ...any) *Error {
	return &Error{Kind: Codegen, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

// NewInternal builds an InternalError, which never carries a span.
func NewInternal(format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...)}
}

// WrapInternal builds an InternalError wrapping cause.
func WrapInternal(cause error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}
