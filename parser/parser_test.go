package parser

import (
	"testing"

	"github.com/gbasic-lang/gbc/ast"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(src)
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return prog
}

func TestParseLet(t *testing.T) {
	prog := parseOK(t, "let x = 5")
	require.Len(t, prog.Statements, 1)
	let := prog.Statements[0].(*ast.LetStmt)
	assert.Equal(t, "x", let.Name.Name)
	lit := let.Value.(*ast.Literal)
	assert.Equal(t, int64(5), lit.Int)
}

func TestParseLetWithTypeAnnotation(t *testing.T) {
	prog := parseOK(t, "let x: Int = 5")
	let := prog.Statements[0].(*ast.LetStmt)
	require.NotNil(t, let.TypeAnn)
	assert.Equal(t, "Int", let.TypeAnn.String())
}

func TestOperatorPrecedence(t *testing.T) {
	prog := parseOK(t, "1 + 2 * 3")
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	bin := stmt.Expr.(*ast.BinaryOpExpr)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rhs := bin.Right.(*ast.BinaryOpExpr)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	prog := parseOK(t, "x = y = 1")
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	assign := stmt.Expr.(*ast.AssignmentExpr)
	_, ok := assign.Value.(*ast.AssignmentExpr)
	assert.True(t, ok)
}

func TestRangeExpr(t *testing.T) {
	prog := parseOK(t, "for i in 0..3 { print(i) }")
	forStmt := prog.Statements[0].(*ast.ForStmt)
	r := forStmt.Iterable.(*ast.RangeExpr)
	assert.Equal(t, int64(0), r.Start.(*ast.Literal).Int)
	assert.Equal(t, int64(3), r.End.(*ast.Literal).Int)
}

func TestToRangeDesugarsInclusive(t *testing.T) {
	prog := parseOK(t, "for i in 0 to 3 { print(i) }")
	forStmt := prog.Statements[0].(*ast.ForStmt)
	r := forStmt.Iterable.(*ast.RangeExpr)
	end := r.End.(*ast.BinaryOpExpr)
	assert.Equal(t, ast.OpAdd, end.Op)
	assert.Equal(t, int64(3), end.Left.(*ast.Literal).Int)
	assert.Equal(t, int64(1), end.Right.(*ast.Literal).Int)
}

func TestTupleDesugarsToPoint(t *testing.T) {
	prog := parseOK(t, "let p = (1, 2)")
	let := prog.Statements[0].(*ast.LetStmt)
	call := let.Value.(*ast.CallExpr)
	assert.Equal(t, "point", call.Callee.(*ast.IdentifierExpr).Name.Name)
	assert.Len(t, call.Args, 2)
}

func TestTripleTupleDesugarsToColor(t *testing.T) {
	prog := parseOK(t, "let c = (255, 0, 0)")
	let := prog.Statements[0].(*ast.LetStmt)
	call := let.Value.(*ast.CallExpr)
	assert.Equal(t, "color", call.Callee.(*ast.IdentifierExpr).Name.Name)
}

func TestTupleArityErrorForFourElements(t *testing.T) {
	_, errs := Parse("let x = (1, 2, 3, 4)")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "2 or 3")
}

func TestParenGroupingIsNotATuple(t *testing.T) {
	prog := parseOK(t, "let x = (1 + 2) * 3")
	let := prog.Statements[0].(*ast.LetStmt)
	bin := let.Value.(*ast.BinaryOpExpr)
	assert.Equal(t, ast.OpMul, bin.Op)
}

func TestNamespaceMethodChain(t *testing.T) {
	prog := parseOK(t, `Sound.play("jump")`)
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	mc := stmt.Expr.(*ast.MethodChainExpr)
	assert.Equal(t, ast.NsSound, mc.Base)
	require.Len(t, mc.Chain, 1)
	assert.Equal(t, "play", mc.Chain[0].Method.Name)
}

func TestBareMethodChainIsZeroArgCall(t *testing.T) {
	prog := parseOK(t, "Screen.width")
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	mc := stmt.Expr.(*ast.MethodChainExpr)
	assert.Empty(t, mc.Chain[0].Args)
}

func TestChainedNamespaceMethods(t *testing.T) {
	prog := parseOK(t, "Screen.center.x")
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	mc := stmt.Expr.(*ast.MethodChainExpr)
	require.Len(t, mc.Chain, 2)
	assert.Equal(t, "center", mc.Chain[0].Method.Name)
	assert.Equal(t, "x", mc.Chain[1].Method.Name)
}

func TestFieldAccessAndMethodCallOnObject(t *testing.T) {
	prog := parseOK(t, "ball.move(1, 2)")
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	call := stmt.Expr.(*ast.CallExpr)
	fa := call.Callee.(*ast.FieldAccessExpr)
	assert.Equal(t, "move", fa.Field.Name)
	assert.Equal(t, "ball", fa.Object.(*ast.IdentifierExpr).Name.Name)
}

func TestStringInterpolation(t *testing.T) {
	prog := parseOK(t, `let x = "hello {name}!"`)
	let := prog.Statements[0].(*ast.LetStmt)
	interp := let.Value.(*ast.StringInterpExpr)
	require.Len(t, interp.Parts, 3)
	assert.Equal(t, "hello ", interp.Parts[0].Lit)
	assert.Equal(t, "name", interp.Parts[1].Expr.(*ast.IdentifierExpr).Name.Name)
	assert.Equal(t, "!", interp.Parts[2].Lit)
}

func TestPlainStringIsLiteralNotInterp(t *testing.T) {
	prog := parseOK(t, `let x = "no braces here"`)
	let := prog.Statements[0].(*ast.LetStmt)
	_, ok := let.Value.(*ast.Literal)
	assert.True(t, ok)
}

func TestEscapedBracesAreNotInterpolation(t *testing.T) {
	prog := parseOK(t, `let x = "a \{literal\} brace"`)
	let := prog.Statements[0].(*ast.LetStmt)
	lit, ok := let.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "a {literal} brace", lit.String)
}

func TestInterpolationWithExpression(t *testing.T) {
	prog := parseOK(t, `print("sum is {1 + 2}")`)
	stmt := prog.Statements[0].(*ast.ExpressionStmt)
	call := stmt.Expr.(*ast.CallExpr)
	interp := call.Args[0].(*ast.StringInterpExpr)
	require.Len(t, interp.Parts, 2)
	bin := interp.Parts[1].Expr.(*ast.BinaryOpExpr)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestIfElse(t *testing.T) {
	prog := parseOK(t, "if x < 3 { print(1) } else { print(2) }")
	ifStmt := prog.Statements[0].(*ast.IfStmt)
	require.NotNil(t, ifStmt.Else)
	require.Len(t, ifStmt.Then.Statements, 1)
	require.Len(t, ifStmt.Else.Statements, 1)
}

func TestElseIfChains(t *testing.T) {
	prog := parseOK(t, "if x == 1 { print(1) } else if x == 2 { print(2) } else { print(3) }")
	ifStmt := prog.Statements[0].(*ast.IfStmt)
	require.NotNil(t, ifStmt.Else)
	nested := ifStmt.Else.Statements[0].(*ast.IfStmt)
	require.NotNil(t, nested.Else)
}

func TestWhileLoop(t *testing.T) {
	prog := parseOK(t, "while x < 3 { x = x + 1 }")
	_, ok := prog.Statements[0].(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestMatchStatement(t *testing.T) {
	prog := parseOK(t, `match x { 1 -> { print("one") } _ -> { print("other") } }`)
	m := prog.Statements[0].(*ast.MatchStmt)
	require.Len(t, m.Arms, 2)
	_, ok := m.Arms[0].Pattern.(*ast.LiteralPattern)
	assert.True(t, ok)
	_, ok = m.Arms[1].Pattern.(*ast.WildcardPattern)
	assert.True(t, ok)
}

func TestMatchIdentifierPatternBinds(t *testing.T) {
	prog := parseOK(t, `match x { n -> { print(n) } }`)
	m := prog.Statements[0].(*ast.MatchStmt)
	pat, ok := m.Arms[0].Pattern.(*ast.IdentifierPattern)
	require.True(t, ok)
	assert.Equal(t, "n", pat.Name.Name)
}

func TestFunctionDecl(t *testing.T) {
	prog := parseOK(t, "fun double(x: Int) -> Int { return x * 2 }")
	fn := prog.Statements[0].(*ast.FunctionDecl)
	assert.Equal(t, "double", fn.Name.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "Int", fn.Params[0].TypeAnn.String())
	assert.Equal(t, "Int", fn.ReturnType.String())
}

func TestFunctionWithoutTypeAnnotationsIsLenient(t *testing.T) {
	prog := parseOK(t, "fun f(x) { return x }")
	fn := prog.Statements[0].(*ast.FunctionDecl)
	assert.Nil(t, fn.Params[0].TypeAnn)
	assert.Nil(t, fn.ReturnType)
}

func TestArrayLiteral(t *testing.T) {
	prog := parseOK(t, "let a = [1, 2, 3]")
	let := prog.Statements[0].(*ast.LetStmt)
	arr := let.Value.(*ast.ArrayExpr)
	assert.Len(t, arr.Elements, 3)
}

func TestEmptyArrayLiteral(t *testing.T) {
	prog := parseOK(t, "let a = []")
	let := prog.Statements[0].(*ast.LetStmt)
	arr := let.Value.(*ast.ArrayExpr)
	assert.Empty(t, arr.Elements)
}

func TestErrorRecoveryCollectsMultipleDiagnostics(t *testing.T) {
	src := "let = 5\nlet y = \nlet z = 3"
	_, errs := Parse(src)
	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestBareLetEqualsIsSyntaxError(t *testing.T) {
	_, errs := Parse("let = 5")
	require.NotEmpty(t, errs)
}

func TestSpansCoverSourceRange(t *testing.T) {
	prog := parseOK(t, "let x = 5")
	let := prog.Statements[0].(*ast.LetStmt)
	assert.True(t, let.Spn.Start <= let.Name.Spn.Start)
	assert.True(t, let.Spn.End >= let.Value.Span().End)
}

// Parsing the same source twice yields structurally identical trees,
// spans included — the parser carries no hidden state between runs.
func TestParseIsDeterministic(t *testing.T) {
	src := "let x = 1\nfor i in 0..3 { print(\"i is {i}\") }\nmatch x { 1 -> { print(1) } _ -> { print(0) } }"
	a := parseOK(t, src)
	b := parseOK(t, src)
	assert.Empty(t, cmp.Diff(a, b))
}

func TestMultiStatementProgramWithNewlines(t *testing.T) {
	prog := parseOK(t, "let x = 1\nlet y = 2\nprint(x + y)")
	require.Len(t, prog.Statements, 3)
}
