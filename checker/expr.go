package checker

import (
	"github.com/gbasic-lang/gbc/abi"
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/gbasic-lang/gbc/span"
)

func (c *Checker) checkExpr(expr ast.Expression) (gbtypes.Type, *diag.Error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalType(e), nil
	case *ast.IdentifierExpr:
		return c.checkIdentifier(e)
	case *ast.BinaryOpExpr:
		return c.checkBinaryOp(e)
	case *ast.UnaryOpExpr:
		return c.checkUnaryOp(e)
	case *ast.CallExpr:
		return c.checkCall(e)
	case *ast.IndexExpr:
		return c.checkIndex(e)
	case *ast.MethodChainExpr:
		return c.checkMethodChain(e)
	case *ast.FieldAccessExpr:
		return c.checkFieldAccess(e)
	case *ast.ArrayExpr:
		return c.checkArray(e)
	case *ast.AssignmentExpr:
		return c.checkAssignment(e)
	case *ast.StringInterpExpr:
		return c.checkStringInterp(e)
	case *ast.RangeExpr:
		return c.checkRange(e)
	default:
		return gbtypes.TUnknown, diag.NewInternal("checker: unhandled expression type %T", expr)
	}
}

func (c *Checker) checkIdentifier(e *ast.IdentifierExpr) (gbtypes.Type, *diag.Error) {
	sym, ok := c.scopes.Lookup(e.Name.Name)
	if !ok {
		return gbtypes.TUnknown, diag.NewName(e.Span(), "unknown identifier '%s'", e.Name.Name)
	}
	return sym.Value, nil
}

func (c *Checker) checkBinaryOp(e *ast.BinaryOpExpr) (gbtypes.Type, *diag.Error) {
	lt, err := c.checkExpr(e.Left)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	rt, err := c.checkExpr(e.Right)
	if err != nil {
		return gbtypes.TUnknown, err
	}

	switch e.Op {
	case ast.OpAnd, ast.OpOr:
		if !lt.CompatibleWith(gbtypes.TBool) || !rt.CompatibleWith(gbtypes.TBool) {
			return gbtypes.TUnknown, diag.NewType(e.Spn, "operator '%s' requires Bool operands, found %s and %s", e.Op, lt, rt)
		}
		return gbtypes.TBool, nil
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if !lt.CompatibleWith(rt) && !(lt.IsNumeric() && rt.IsNumeric()) {
			return gbtypes.TUnknown, diag.NewType(e.Spn, "cannot compare %s with %s", lt, rt)
		}
		return gbtypes.TBool, nil
	case ast.OpAdd:
		if lt.Kind == gbtypes.String || rt.Kind == gbtypes.String {
			if (lt.Kind != gbtypes.String && !lt.IsUnknown()) || (rt.Kind != gbtypes.String && !rt.IsUnknown()) {
				return gbtypes.TUnknown, diag.NewType(e.Spn, "cannot add %s and %s", lt, rt)
			}
			return gbtypes.TString, nil
		}
		return numericResult(e.Spn, lt, rt)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return numericResult(e.Spn, lt, rt)
	default:
		return gbtypes.TUnknown, diag.NewInternal("checker: unhandled binary operator %v", e.Op)
	}
}

// numericResult implements the Int/Float promotion rule (spec §4.3): two
// Ints stay Int, any Float operand promotes the result to Float, Unknown
// unifies with either.
func numericResult(spn span.Span, lt, rt gbtypes.Type) (gbtypes.Type, *diag.Error) {
	if !lt.IsNumeric() && !lt.IsUnknown() {
		return gbtypes.TUnknown, diag.NewType(spn, "expected a numeric operand, found %s", lt)
	}
	if !rt.IsNumeric() && !rt.IsUnknown() {
		return gbtypes.TUnknown, diag.NewType(spn, "expected a numeric operand, found %s", rt)
	}
	if lt.Kind == gbtypes.Float || rt.Kind == gbtypes.Float {
		return gbtypes.TFloat, nil
	}
	if lt.IsUnknown() {
		return rt, nil
	}
	return lt, nil
}

func (c *Checker) checkUnaryOp(e *ast.UnaryOpExpr) (gbtypes.Type, *diag.Error) {
	operandType, err := c.checkExpr(e.Operand)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	switch e.Op {
	case ast.OpNeg:
		if !operandType.IsNumeric() && !operandType.IsUnknown() {
			return gbtypes.TUnknown, diag.NewType(e.Spn, "unary '-' requires a numeric operand, found %s", operandType)
		}
		return operandType, nil
	case ast.OpNot:
		if !operandType.CompatibleWith(gbtypes.TBool) {
			return gbtypes.TUnknown, diag.NewType(e.Spn, "unary '!' requires a Bool operand, found %s", operandType)
		}
		return gbtypes.TBool, nil
	default:
		return gbtypes.TUnknown, diag.NewInternal("checker: unhandled unary operator %v", e.Op)
	}
}

// checkCall handles both user-function calls and object-method calls
// written as `obj.method(args)` (parsed as a CallExpr whose Callee is a
// FieldAccessExpr): object methods are checked leniently since their
// receiver's shape is the runtime's object model, not a checker type.
func (c *Checker) checkCall(e *ast.CallExpr) (gbtypes.Type, *diag.Error) {
	if fa, ok := e.Callee.(*ast.FieldAccessExpr); ok {
		if _, err := c.checkExpr(fa.Object); err != nil {
			return gbtypes.TUnknown, err
		}
		for _, arg := range e.Args {
			if _, err := c.checkExpr(arg); err != nil {
				return gbtypes.TUnknown, err
			}
		}
		return gbtypes.TUnknown, nil
	}

	ident, ok := e.Callee.(*ast.IdentifierExpr)
	if !ok {
		return gbtypes.TUnknown, diag.NewType(e.Span(), "expression is not callable")
	}

	argTypes := make([]gbtypes.Type, len(e.Args))
	for i, arg := range e.Args {
		t, err := c.checkExpr(arg)
		if err != nil {
			return gbtypes.TUnknown, err
		}
		argTypes[i] = t
	}

	calleeType, err := c.checkIdentifier(ident)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	if calleeType.Kind != gbtypes.Function {
		return gbtypes.TUnknown, diag.NewType(e.Span(), "'%s' is not a function", ident.Name.Name)
	}

	if arities, special := variadicBuiltins[ident.Name.Name]; special {
		ok := false
		for _, n := range arities {
			if len(e.Args) == n {
				ok = true
				break
			}
		}
		if !ok {
			return gbtypes.TUnknown, diag.NewType(e.Span(), "'%s' expects %v argument(s), found %d", ident.Name.Name, arities, len(e.Args))
		}
		return *calleeType.Ret, nil
	}

	if len(argTypes) != len(calleeType.Params) {
		return gbtypes.TUnknown, diag.NewType(e.Span(), "'%s' expects %d argument(s), found %d", ident.Name.Name, len(calleeType.Params), len(argTypes))
	}
	for i, want := range calleeType.Params {
		if !want.CompatibleWith(argTypes[i]) {
			return gbtypes.TUnknown, diag.NewType(e.Args[i].Span(), "argument %d to '%s' must be %s, found %s", i+1, ident.Name.Name, want, argTypes[i])
		}
	}
	return *calleeType.Ret, nil
}

func (c *Checker) checkIndex(e *ast.IndexExpr) (gbtypes.Type, *diag.Error) {
	objType, err := c.checkExpr(e.Object)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	if _, err := c.checkExpr(e.Index); err != nil {
		return gbtypes.TUnknown, err
	}
	if objType.Kind == gbtypes.Array {
		return *objType.Elem, nil
	}
	if objType.IsUnknown() {
		return gbtypes.TUnknown, nil
	}
	return gbtypes.TUnknown, diag.NewType(e.Span(), "cannot index into %s", objType)
}

// checkMethodChain types a namespace method chain leniently via the ABI
// table (spec §6.3): an unrecognized (namespace, method) pair is a
// CodegenError, never a TypeError, since the checker does not own the
// runtime ABI surface.
func (c *Checker) checkMethodChain(e *ast.MethodChainExpr) (gbtypes.Type, *diag.Error) {
	var last gbtypes.Type = gbtypes.TUnknown
	for _, step := range e.Chain {
		for _, arg := range step.Args {
			if _, err := c.checkExpr(arg); err != nil {
				return gbtypes.TUnknown, err
			}
		}
		sig, ok := abi.Lookup(e.Base, step.Method.Name)
		if !ok {
			sp := step.Span()
			return gbtypes.TUnknown, diag.NewCodegen(&sp, "unknown method '%s.%s'", e.Base, step.Method.Name)
		}
		last = paramTypeToGb(sig.Ret)
	}
	return last, nil
}

// checkFieldAccess handles `.length` on arrays/strings specially; any
// other field is assumed to be an object property resolved at codegen.
func (c *Checker) checkFieldAccess(e *ast.FieldAccessExpr) (gbtypes.Type, *diag.Error) {
	objType, err := c.checkExpr(e.Object)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	if e.Field.Name == "length" && (objType.Kind == gbtypes.Array || objType.Kind == gbtypes.String) {
		return gbtypes.TInt, nil
	}
	return gbtypes.TUnknown, nil
}

func (c *Checker) checkArray(e *ast.ArrayExpr) (gbtypes.Type, *diag.Error) {
	if len(e.Elements) == 0 {
		return gbtypes.NewArray(gbtypes.TUnknown), nil
	}
	elemType, err := c.checkExpr(e.Elements[0])
	if err != nil {
		return gbtypes.TUnknown, err
	}
	for _, el := range e.Elements[1:] {
		t, err := c.checkExpr(el)
		if err != nil {
			return gbtypes.TUnknown, err
		}
		if !elemType.CompatibleWith(t) {
			return gbtypes.TUnknown, diag.NewType(el.Span(), "array elements must share a type: found %s and %s", elemType, t)
		}
		if elemType.IsUnknown() {
			elemType = t
		}
	}
	return gbtypes.NewArray(elemType), nil
}

func (c *Checker) checkAssignment(e *ast.AssignmentExpr) (gbtypes.Type, *diag.Error) {
	valueType, err := c.checkExpr(e.Value)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	switch target := e.Target.(type) {
	case *ast.IdentifierExpr:
		sym, ok := c.scopes.Lookup(target.Name.Name)
		if !ok {
			return gbtypes.TUnknown, diag.NewName(target.Span(), "unknown identifier '%s'", target.Name.Name)
		}
		if !sym.Value.CompatibleWith(valueType) {
			return gbtypes.TUnknown, diag.NewType(e.Span(), "cannot assign %s to '%s' of type %s", valueType, target.Name.Name, sym.Value)
		}
		return sym.Value, nil
	case *ast.FieldAccessExpr, *ast.IndexExpr:
		if _, err := c.checkExpr(target); err != nil {
			return gbtypes.TUnknown, err
		}
		return valueType, nil
	default:
		return gbtypes.TUnknown, diag.NewType(e.Span(), "invalid assignment target")
	}
}

func (c *Checker) checkStringInterp(e *ast.StringInterpExpr) (gbtypes.Type, *diag.Error) {
	for _, part := range e.Parts {
		if part.Expr == nil {
			continue
		}
		if _, err := c.checkExpr(part.Expr); err != nil {
			return gbtypes.TUnknown, err
		}
	}
	return gbtypes.TString, nil
}

// checkRange types the range's endpoints but yields Unknown for the
// range expression itself: a RangeExpr only has meaning as a for-loop
// iterable, which checkFor handles directly.
func (c *Checker) checkRange(e *ast.RangeExpr) (gbtypes.Type, *diag.Error) {
	startType, err := c.checkExpr(e.Start)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	endType, err := c.checkExpr(e.End)
	if err != nil {
		return gbtypes.TUnknown, err
	}
	if !startType.CompatibleWith(gbtypes.TInt) || !endType.CompatibleWith(gbtypes.TInt) {
		return gbtypes.TUnknown, diag.NewType(e.Span(), "range endpoints must be Int, found %s and %s", startType, endType)
	}
	return gbtypes.TUnknown, nil
}
