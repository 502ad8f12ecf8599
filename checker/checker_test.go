package checker

import (
	"testing"

	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSrc(t *testing.T, src string) *diag.Error {
	t.Helper()
	prog, parseErrs := parser.Parse(src)
	require.Empty(t, parseErrs, "unexpected parse errors: %v", parseErrs)
	return Check(prog)
}

func TestLetTypeMismatchIsTypeError(t *testing.T) {
	err := checkSrc(t, `let x: Int = "bad"`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "type error")
}

func TestLetTypeMatchIsOK(t *testing.T) {
	err := checkSrc(t, `let x: Int = 5`)
	assert.Nil(t, err)
}

func TestUnknownIdentifierIsNameError(t *testing.T) {
	err := checkSrc(t, `print(missing)`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "name error")
}

func TestMixedIntFloatArithmeticPromotes(t *testing.T) {
	err := checkSrc(t, `let x = 1 + 2.5`)
	assert.Nil(t, err)
}

func TestWrongArityCallIsTypeError(t *testing.T) {
	err := checkSrc(t, `
fun add(a: Int, b: Int) -> Int { return a + b }
let x = add(1)
`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "argument")
}

func TestWrongArgumentTypeIsTypeError(t *testing.T) {
	err := checkSrc(t, `
fun add(a: Int, b: Int) -> Int { return a + b }
let x = add(1, "two")
`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "type error")
}

func TestFunctionForwardReferenceResolves(t *testing.T) {
	err := checkSrc(t, `
let r = helper(1)
fun helper(x: Int) -> Int { return x }
`)
	assert.Nil(t, err)
}

func TestIfConditionMustBeBool(t *testing.T) {
	err := checkSrc(t, `if 1 { print("no") }`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "type error")
}

func TestWhileConditionMustBeBool(t *testing.T) {
	err := checkSrc(t, `while 1 { print("no") }`)
	require.NotNil(t, err)
}

func TestForOverRangeBindsIntLoopVariable(t *testing.T) {
	err := checkSrc(t, `for i in 0..10 { let x: Int = i }`)
	assert.Nil(t, err)
}

func TestForOverArrayBindsElementType(t *testing.T) {
	err := checkSrc(t, `
let xs = [1, 2, 3]
for x in xs { let y: Int = x }
`)
	assert.Nil(t, err)
}

func TestMatchLiteralPatternTypeMismatch(t *testing.T) {
	err := checkSrc(t, `
let x = "hi"
match x { 1 -> { print("no") } }
`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "type error")
}

func TestMatchIdentifierPatternBindsSubjectType(t *testing.T) {
	err := checkSrc(t, `
let x = 5
match x { n -> { let y: Int = n } }
`)
	assert.Nil(t, err)
}

func TestNamespaceMethodChainIsLenient(t *testing.T) {
	err := checkSrc(t, `Sound.play("jump")`)
	assert.Nil(t, err)
}

func TestUnknownNamespaceMethodIsCodegenError(t *testing.T) {
	err := checkSrc(t, `Screen.frobnicate()`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "codegen error")
}

func TestArrayLengthFieldIsInt(t *testing.T) {
	err := checkSrc(t, `
let xs = [1, 2, 3]
let n: Int = xs.length
`)
	assert.Nil(t, err)
}

func TestArrayElementTypeMismatchIsTypeError(t *testing.T) {
	err := checkSrc(t, `let xs = [1, "two", 3]`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "type error")
}

func TestAssignmentToUndeclaredVariableIsNameError(t *testing.T) {
	err := checkSrc(t, `x = 5`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "name error")
}

func TestVariadicClearAcceptsOneOrThreeArgs(t *testing.T) {
	err := checkSrc(t, `
clear(255)
clear(255, 0, 0)
`)
	assert.Nil(t, err)
}

func TestVariadicClearRejectsTwoArgs(t *testing.T) {
	err := checkSrc(t, `clear(1, 2)`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "argument")
}

func TestStringInterpolationChecksEmbeddedExpressions(t *testing.T) {
	err := checkSrc(t, `print("sum is {1 + missing}")`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "name error")
}

func TestNamedColorConstantsAreInt(t *testing.T) {
	err := checkSrc(t, `let c: Int = red`)
	assert.Nil(t, err)
}
