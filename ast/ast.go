// Package ast defines the G-Basic abstract syntax tree. Expressions and
// statements are recursive sum types modelled as interfaces implemented
// by concrete node structs, each carrying the span of its full source
// text.
package ast

import (
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/gbasic-lang/gbc/span"
)

// Node is implemented by every AST node.
type Node interface {
	Span() span.Span
}

// Statement is implemented by every statement variant.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by every expression variant.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Statement
	Spn        span.Span
}

func (p *Program) Span() span.Span { return p.Spn }

// Block is a `{ ... }` sequence of statements.
type Block struct {
	Statements []Statement
	Spn        span.Span
}

func (b *Block) Span() span.Span { return b.Spn }

// Identifier names a binding, field, method, or function. Names are
// already lowercased by the lexer.
type Identifier struct {
	Name string
	Spn  span.Span
}

func (i *Identifier) Span() span.Span { return i.Spn }

// Parameter is one `name [: type]` function parameter.
type Parameter struct {
	Name    *Identifier
	TypeAnn *gbtypes.Type // nil means Unknown
	Spn     span.Span
}

func (p *Parameter) Span() span.Span { return p.Spn }

// ---- Statements ----

// LetStmt declares a new binding: `let name [: type] = value`.
type LetStmt struct {
	Name    *Identifier
	TypeAnn *gbtypes.Type
	Value   Expression
	Spn     span.Span
}

func (s *LetStmt) Span() span.Span { return s.Spn }
func (*LetStmt) statementNode()    {}

// FunctionDecl is `fun/fn name(params) [-> type] { body }`.
type FunctionDecl struct {
	Name       *Identifier
	Params     []*Parameter
	ReturnType *gbtypes.Type
	Body       *Block
	Spn        span.Span
}

func (f *FunctionDecl) Span() span.Span { return f.Spn }
func (*FunctionDecl) statementNode()    {}

// IfStmt is `if cond { then } [else { else }]`.
type IfStmt struct {
	Cond      Expression
	Then      *Block
	Else      *Block
	Spn       span.Span
}

func (s *IfStmt) Span() span.Span { return s.Spn }
func (*IfStmt) statementNode()    {}

// ForStmt is `for var in iterable { body }`.
type ForStmt struct {
	Var      *Identifier
	Iterable Expression
	Body     *Block
	Spn      span.Span
}

func (s *ForStmt) Span() span.Span { return s.Spn }
func (*ForStmt) statementNode()    {}

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	Cond Expression
	Body *Block
	Spn  span.Span
}

func (s *WhileStmt) Span() span.Span { return s.Spn }
func (*WhileStmt) statementNode()    {}

// MatchStmt is `match subject { pattern -> { block } ... }`.
type MatchStmt struct {
	Subject Expression
	Arms    []*MatchArm
	Spn     span.Span
}

func (s *MatchStmt) Span() span.Span { return s.Spn }
func (*MatchStmt) statementNode()    {}

// MatchArm is one `pattern -> { body }` arm.
type MatchArm struct {
	Pattern Pattern
	Body    *Block
	Spn     span.Span
}

func (a *MatchArm) Span() span.Span { return a.Spn }

// ReturnStmt is `return [expr]`.
type ReturnStmt struct {
	Value Expression // nil for a bare return
	Spn   span.Span
}

func (s *ReturnStmt) Span() span.Span { return s.Spn }
func (*ReturnStmt) statementNode()    {}

// BreakStmt is `break`.
type BreakStmt struct {
	Spn span.Span
}

func (s *BreakStmt) Span() span.Span { return s.Spn }
func (*BreakStmt) statementNode()    {}

// ContinueStmt is `continue`.
type ContinueStmt struct {
	Spn span.Span
}

func (s *ContinueStmt) Span() span.Span { return s.Spn }
func (*ContinueStmt) statementNode()    {}

// ExpressionStmt wraps a bare expression used as a statement.
type ExpressionStmt struct {
	Expr Expression
	Spn  span.Span
}

func (s *ExpressionStmt) Span() span.Span { return s.Spn }
func (*ExpressionStmt) statementNode()    {}

// BlockStmt is a standalone `{ ... }` block used as a statement.
type BlockStmt struct {
	Block *Block
}

func (s *BlockStmt) Span() span.Span { return s.Block.Spn }
func (*BlockStmt) statementNode()    {}

// ---- Patterns ----

// Pattern is implemented by every match-arm pattern variant.
type Pattern interface {
	Node
	patternNode()
}

// LiteralPattern matches a literal value.
type LiteralPattern struct {
	Lit *Literal
}

func (p *LiteralPattern) Span() span.Span { return p.Lit.Spn }
func (*LiteralPattern) patternNode()      {}

// IdentifierPattern always matches and binds the subject to Name.
type IdentifierPattern struct {
	Name *Identifier
}

func (p *IdentifierPattern) Span() span.Span { return p.Name.Spn }
func (*IdentifierPattern) patternNode()      {}

// WildcardPattern (`_`) always matches without binding.
type WildcardPattern struct {
	Spn span.Span
}

func (p *WildcardPattern) Span() span.Span { return p.Spn }
func (*WildcardPattern) patternNode()      {}

// ---- Expressions ----

// LiteralKind discriminates a Literal's payload.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
)

// Literal is a literal int, float, string, or bool value.
type Literal struct {
	Kind   LiteralKind
	Int    int64
	Float  float64
	String string
	Bool   bool
	Spn    span.Span
}

func (l *Literal) Span() span.Span { return l.Spn }
func (*Literal) expressionNode()   {}

// IdentifierExpr is a reference to a binding by name.
type IdentifierExpr struct {
	Name *Identifier
}

func (e *IdentifierExpr) Span() span.Span { return e.Name.Spn }
func (*IdentifierExpr) expressionNode()   {}

// BinaryOp is the set of binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// BinaryOpExpr is `left op right`.
type BinaryOpExpr struct {
	Left  Expression
	Op    BinaryOp
	Right Expression
	Spn   span.Span
}

func (e *BinaryOpExpr) Span() span.Span { return e.Spn }
func (*BinaryOpExpr) expressionNode()   {}

// UnaryOp is the set of unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// UnaryOpExpr is `op operand`.
type UnaryOpExpr struct {
	Op      UnaryOp
	Operand Expression
	Spn     span.Span
}

func (e *UnaryOpExpr) Span() span.Span { return e.Spn }
func (*UnaryOpExpr) expressionNode()   {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Spn    span.Span
}

func (e *CallExpr) Span() span.Span { return e.Spn }
func (*CallExpr) expressionNode()   {}

// IndexExpr is `object[index]`.
type IndexExpr struct {
	Object Expression
	Index  Expression
	Spn    span.Span
}

func (e *IndexExpr) Span() span.Span { return e.Spn }
func (*IndexExpr) expressionNode()   {}

// Namespace identifies one of the eight reserved namespaces.
type Namespace int

const (
	NsScreen Namespace = iota
	NsSound
	NsInput
	NsMath
	NsSystem
	NsMemory
	NsIO
	NsAsset
)

func (n Namespace) String() string {
	switch n {
	case NsScreen:
		return "Screen"
	case NsSound:
		return "Sound"
	case NsInput:
		return "Input"
	case NsMath:
		return "Math"
	case NsSystem:
		return "System"
	case NsMemory:
		return "Memory"
	case NsIO:
		return "IO"
	case NsAsset:
		return "Asset"
	default:
		return "?"
	}
}

// MethodCall is one `.method(args)` step in a method chain.
type MethodCall struct {
	Method *Identifier
	Args   []Expression
	Spn    span.Span
}

func (m *MethodCall) Span() span.Span { return m.Spn }

// MethodChainExpr is `Namespace.method(args).method(args)...`.
type MethodChainExpr struct {
	Base  Namespace
	Chain []*MethodCall
	Spn   span.Span
}

func (e *MethodChainExpr) Span() span.Span { return e.Spn }
func (*MethodChainExpr) expressionNode()   {}

// FieldAccessExpr is `object.field`.
type FieldAccessExpr struct {
	Object Expression
	Field  *Identifier
	Spn    span.Span
}

func (e *FieldAccessExpr) Span() span.Span { return e.Spn }
func (*FieldAccessExpr) expressionNode()   {}

// ArrayExpr is `[e1, e2, ...]`.
type ArrayExpr struct {
	Elements []Expression
	Spn      span.Span
}

func (e *ArrayExpr) Span() span.Span { return e.Spn }
func (*ArrayExpr) expressionNode()   {}

// AssignmentExpr is `target = value`; target is restricted to an
// IdentifierExpr or a FieldAccessExpr chain.
type AssignmentExpr struct {
	Target Expression
	Value  Expression
	Spn    span.Span
}

func (e *AssignmentExpr) Span() span.Span { return e.Spn }
func (*AssignmentExpr) expressionNode()   {}

// StringPart is one alternating literal/expression part of an
// interpolated string.
type StringPart struct {
	Lit  string     // used when Expr == nil
	Expr Expression // used when non-nil
}

// StringInterpExpr is a string literal containing `{expr}` parts.
type StringInterpExpr struct {
	Parts []StringPart
	Spn   span.Span
}

func (e *StringInterpExpr) Span() span.Span { return e.Spn }
func (*StringInterpExpr) expressionNode()   {}

// RangeExpr is `start..end`. Valid only as a for-loop iterable; standalone
// use is a codegen error (§4's Range invariant).
type RangeExpr struct {
	Start Expression
	End   Expression
	Spn   span.Span
}

func (e *RangeExpr) Span() span.Span { return e.Spn }
func (*RangeExpr) expressionNode()   {}
