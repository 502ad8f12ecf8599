package codegen

import (
	"fmt"

	"github.com/gbasic-lang/gbc/abi"
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// emitExpr lowers expr into an SSA value plus the source type it
// carries, appending instructions to g.curBlock.
func (g *Generator) emitExpr(expr ast.Expression) (value.Value, gbtypes.Type, *diag.Error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return g.emitLiteral(e)
	case *ast.IdentifierExpr:
		return g.emitIdentifier(e)
	case *ast.BinaryOpExpr:
		return g.emitBinaryOp(e)
	case *ast.UnaryOpExpr:
		return g.emitUnaryOp(e)
	case *ast.CallExpr:
		return g.emitCall(e)
	case *ast.IndexExpr:
		return g.emitIndex(e)
	case *ast.MethodChainExpr:
		return g.emitMethodChain(e)
	case *ast.FieldAccessExpr:
		return g.emitFieldAccessRead(e)
	case *ast.ArrayExpr:
		return g.emitArray(e)
	case *ast.AssignmentExpr:
		return g.emitAssignment(e)
	case *ast.StringInterpExpr:
		return g.emitStringInterp(e)
	case *ast.RangeExpr:
		sp := e.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "a range is only valid as a for-loop iterable")
	default:
		return nil, gbtypes.TUnknown, diag.NewInternal("codegen: unhandled expression type %T", expr)
	}
}

func (g *Generator) emitLiteral(l *ast.Literal) (value.Value, gbtypes.Type, *diag.Error) {
	switch l.Kind {
	case ast.LitInt:
		return constant.NewInt(types.I64, l.Int), gbtypes.TInt, nil
	case ast.LitFloat:
		return constant.NewFloat(types.Double, l.Float), gbtypes.TFloat, nil
	case ast.LitString:
		return g.globalString(l.String), gbtypes.TString, nil
	case ast.LitBool:
		v := int64(0)
		if l.Bool {
			v = 1
		}
		return constant.NewInt(types.I64, v), gbtypes.TBool, nil
	default:
		return nil, gbtypes.TUnknown, diag.NewInternal("codegen: unhandled literal kind %v", l.Kind)
	}
}

// globalString interns src as a NUL-terminated private global and
// returns a pointer to its first byte (§6.4: strings are NUL-terminated
// UTF-8 buffers).
func (g *Generator) globalString(src string) value.Value {
	data := constant.NewCharArrayFromString(src + "\x00")
	zero := constant.NewInt(types.I64, 0)
	for _, existing := range g.mod.Globals {
		if ca, ok := existing.Init.(*constant.CharArray); ok && existing.Linkage == enum.LinkagePrivate && string(ca.X) == string(data.X) {
			return constant.NewGetElementPtr(ca.Typ, existing, zero, zero)
		}
	}
	name := fmt.Sprintf(".str.%d", g.nextString())
	global := g.mod.NewGlobalDef(name, data)
	global.Linkage = enum.LinkagePrivate
	return constant.NewGetElementPtr(data.Typ, global, zero, zero)
}

func (g *Generator) emitIdentifier(e *ast.IdentifierExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if v, ok := abi.NamedColors[e.Name.Name]; ok {
		return constant.NewInt(types.I64, v), gbtypes.TInt, nil
	}
	sym, ok := g.scopes.Lookup(e.Name.Name)
	if !ok {
		return nil, gbtypes.TUnknown, diag.NewName(e.Span(), "unknown identifier '%s'", e.Name.Name)
	}
	loaded := g.curBlock.NewLoad(gbTypeToLLVM(sym.Value.Ty), sym.Value.Ptr)
	return loaded, sym.Value.Ty, nil
}

func (g *Generator) toBool(v value.Value, t gbtypes.Type) value.Value {
	if t.Kind == gbtypes.Float {
		return g.curBlock.NewFCmp(enum.FPredONE, v, constant.NewFloat(types.Double, 0))
	}
	return g.curBlock.NewICmp(enum.IPredNE, v, constant.NewInt(types.I64, 0))
}

func (g *Generator) emitBinaryOp(e *ast.BinaryOpExpr) (value.Value, gbtypes.Type, *diag.Error) {
	lv, lt, err := g.emitExpr(e.Left)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	rv, rt, err := g.emitExpr(e.Right)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}

	switch e.Op {
	case ast.OpAnd, ast.OpOr:
		lb := g.toBool(lv, lt)
		rb := g.toBool(rv, rt)
		var result value.Value
		if e.Op == ast.OpAnd {
			result = g.curBlock.NewAnd(lb, rb)
		} else {
			result = g.curBlock.NewOr(lb, rb)
		}
		return g.curBlock.NewZExt(result, types.I64), gbtypes.TBool, nil
	case ast.OpAdd:
		if lt.Kind == gbtypes.String || rt.Kind == gbtypes.String {
			call := g.curBlock.NewCall(g.rt("runtime_string_concat"), lv, rv)
			return call, gbtypes.TString, nil
		}
		return g.emitArithmetic(e.Op, lv, lt, rv, rt)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return g.emitArithmetic(e.Op, lv, lt, rv, rt)
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		return g.emitComparison(e.Op, lv, lt, rv, rt)
	default:
		return nil, gbtypes.TUnknown, diag.NewInternal("codegen: unhandled binary operator %v", e.Op)
	}
}

// promote implements the Int→Float promotion rule (§4.4.8): if exactly
// one operand is Int and the other Float, the Int side is converted.
func (g *Generator) promote(lv value.Value, lt gbtypes.Type, rv value.Value, rt gbtypes.Type) (value.Value, value.Value, gbtypes.Type) {
	if lt.Kind == gbtypes.Float && rt.Kind == gbtypes.Int {
		rv = g.curBlock.NewSIToFP(rv, types.Double)
		return lv, rv, gbtypes.TFloat
	}
	if rt.Kind == gbtypes.Float && lt.Kind == gbtypes.Int {
		lv = g.curBlock.NewSIToFP(lv, types.Double)
		return lv, rv, gbtypes.TFloat
	}
	if lt.Kind == gbtypes.Float || rt.Kind == gbtypes.Float {
		return lv, rv, gbtypes.TFloat
	}
	return lv, rv, gbtypes.TInt
}

func (g *Generator) emitArithmetic(op ast.BinaryOp, lv value.Value, lt gbtypes.Type, rv value.Value, rt gbtypes.Type) (value.Value, gbtypes.Type, *diag.Error) {
	lv, rv, resultType := g.promote(lv, lt, rv, rt)
	isFloat := resultType.Kind == gbtypes.Float
	var result value.Value
	switch op {
	case ast.OpAdd:
		if isFloat {
			result = g.curBlock.NewFAdd(lv, rv)
		} else {
			result = g.curBlock.NewAdd(lv, rv)
		}
	case ast.OpSub:
		if isFloat {
			result = g.curBlock.NewFSub(lv, rv)
		} else {
			result = g.curBlock.NewSub(lv, rv)
		}
	case ast.OpMul:
		if isFloat {
			result = g.curBlock.NewFMul(lv, rv)
		} else {
			result = g.curBlock.NewMul(lv, rv)
		}
	case ast.OpDiv:
		if isFloat {
			result = g.curBlock.NewFDiv(lv, rv)
		} else {
			result = g.curBlock.NewSDiv(lv, rv) // signed integer division (§4.4.8)
		}
	case ast.OpMod:
		if isFloat {
			result = g.curBlock.NewFRem(lv, rv)
		} else {
			result = g.curBlock.NewSRem(lv, rv) // signed remainder (§4.4.8)
		}
	}
	return result, resultType, nil
}

func (g *Generator) emitComparison(op ast.BinaryOp, lv value.Value, lt gbtypes.Type, rv value.Value, rt gbtypes.Type) (value.Value, gbtypes.Type, *diag.Error) {
	isFloat := lt.Kind == gbtypes.Float || rt.Kind == gbtypes.Float
	if isFloat {
		lv, rv, _ = g.promote(lv, lt, rv, rt)
	}
	var cmp value.Value
	if isFloat {
		var pred enum.FPred
		switch op {
		case ast.OpEq:
			pred = enum.FPredOEQ
		case ast.OpNeq:
			pred = enum.FPredONE
		case ast.OpLt:
			pred = enum.FPredOLT
		case ast.OpGt:
			pred = enum.FPredOGT
		case ast.OpLe:
			pred = enum.FPredOLE
		case ast.OpGe:
			pred = enum.FPredOGE
		}
		cmp = g.curBlock.NewFCmp(pred, lv, rv)
	} else {
		var pred enum.IPred
		switch op {
		case ast.OpEq:
			pred = enum.IPredEQ
		case ast.OpNeq:
			pred = enum.IPredNE
		case ast.OpLt:
			pred = enum.IPredSLT
		case ast.OpGt:
			pred = enum.IPredSGT
		case ast.OpLe:
			pred = enum.IPredSLE
		case ast.OpGe:
			pred = enum.IPredSGE
		}
		cmp = g.curBlock.NewICmp(pred, lv, rv)
	}
	return g.curBlock.NewZExt(cmp, types.I64), gbtypes.TBool, nil
}

func (g *Generator) emitUnaryOp(e *ast.UnaryOpExpr) (value.Value, gbtypes.Type, *diag.Error) {
	v, t, err := g.emitExpr(e.Operand)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	switch e.Op {
	case ast.OpNeg:
		if t.Kind == gbtypes.Float {
			return g.curBlock.NewFNeg(v), gbtypes.TFloat, nil
		}
		return g.curBlock.NewSub(constant.NewInt(types.I64, 0), v), gbtypes.TInt, nil
	case ast.OpNot:
		b := g.toBool(v, t)
		notB := g.curBlock.NewXor(b, constant.NewInt(types.I1, 1))
		return g.curBlock.NewZExt(notB, types.I64), gbtypes.TBool, nil
	default:
		return nil, gbtypes.TUnknown, diag.NewInternal("codegen: unhandled unary operator %v", e.Op)
	}
}

func (g *Generator) emitStringInterp(e *ast.StringInterpExpr) (value.Value, gbtypes.Type, *diag.Error) {
	var acc value.Value
	for _, part := range e.Parts {
		var piece value.Value
		if part.Expr == nil {
			piece = g.globalString(part.Lit)
		} else {
			v, t, err := g.emitExpr(part.Expr)
			if err != nil {
				return nil, gbtypes.TUnknown, err
			}
			piece = g.stringify(v, t)
		}
		if acc == nil {
			acc = piece
		} else {
			acc = g.curBlock.NewCall(g.rt("runtime_string_concat"), acc, piece)
		}
	}
	if acc == nil {
		acc = g.globalString("")
	}
	return acc, gbtypes.TString, nil
}

// stringify converts v (of source type t) to a Ptr using the runtime's
// conversion helpers, used by string interpolation and typed print.
// Strings pass through; Floats keep their width; every other value is
// i64-wide (Int, Bool, Unknown, handles) and converts as an integer.
func (g *Generator) stringify(v value.Value, t gbtypes.Type) value.Value {
	switch t.Kind {
	case gbtypes.String:
		return v
	case gbtypes.Float:
		return g.curBlock.NewCall(g.rt("runtime_float_to_str"), v)
	default:
		return g.curBlock.NewCall(g.rt("runtime_int_to_str"), v)
	}
}

func (g *Generator) emitArray(e *ast.ArrayExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(e.Elements) == 0 {
		handle := g.curBlock.NewCall(g.rt("runtime_array_new"))
		return handle, gbtypes.NewArray(gbtypes.TUnknown), nil
	}

	// Non-empty literals here also become runtime array handles: the
	// handle is created with runtime_array_new and each element is added
	// in order, typed by the first element. Only a literal used directly
	// as a for-loop iterable gets fixed-size stack storage, and that case
	// is lowered by emitForStaticArray, not here.
	handle := g.curBlock.NewCall(g.rt("runtime_array_new"))
	var elemType gbtypes.Type
	for i, elExpr := range e.Elements {
		v, t, err := g.emitExpr(elExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		if i == 0 {
			elemType = t
		}
		g.curBlock.NewCall(g.rt("runtime_array_add"), handle, g.toHandleWord(v, t))
	}
	return handle, gbtypes.NewArray(elemType), nil
}

// toHandleWord widens a value to the i64 word the array/object runtime
// stores per-element (handles, ints, and widened bools all fit; floats
// are reinterpreted by the runtime's own bit pattern convention).
func (g *Generator) toHandleWord(v value.Value, t gbtypes.Type) value.Value {
	if t.Kind == gbtypes.Float {
		return g.curBlock.NewBitCast(v, types.I64)
	}
	return v
}

func (g *Generator) emitIndex(e *ast.IndexExpr) (value.Value, gbtypes.Type, *diag.Error) {
	handle, objType, err := g.emitExpr(e.Object)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	idx, _, err := g.emitExpr(e.Index)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	elemType := gbtypes.TUnknown
	if objType.Kind == gbtypes.Array {
		elemType = *objType.Elem
	}
	got := g.curBlock.NewCall(g.rt("runtime_array_get"), handle, idx)
	return got, elemType, nil
}

func (g *Generator) emitCall(e *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if fa, ok := e.Callee.(*ast.FieldAccessExpr); ok {
		if fa.Field.Name == "at" {
			if printCall, ok := fa.Object.(*ast.CallExpr); ok {
				if ident, ok := printCall.Callee.(*ast.IdentifierExpr); ok && ident.Name.Name == "print" {
					return g.emitPrintAt(printCall, e)
				}
			}
		}
		return g.emitObjectMethodCall(fa, e.Args)
	}

	ident, ok := e.Callee.(*ast.IdentifierExpr)
	if !ok {
		sp := e.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "expression is not callable")
	}

	if abi.IsShortcut(ident.Name.Name) {
		return g.emitShortcut(ident.Name.Name, e)
	}

	fn, ok := g.userFuncs[ident.Name.Name]
	if !ok {
		return nil, gbtypes.TUnknown, diag.NewName(ident.Span(), "unknown function '%s'", ident.Name.Name)
	}
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, _, err := g.emitExpr(a)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		args[i] = v
	}
	call := g.curBlock.NewCall(fn, args...)
	retType := gbtypes.TVoid
	if fn.Sig.RetType != types.Void {
		retType = llvmRetToGbType(fn.Sig.RetType)
	}
	return call, retType, nil
}

func llvmRetToGbType(t types.Type) gbtypes.Type {
	switch t {
	case types.Double:
		return gbtypes.TFloat
	case types.I8Ptr:
		return gbtypes.TString
	default:
		return gbtypes.TInt
	}
}

// emitMethodChain lowers a `Namespace.method(args)...` chain via the ABI
// table; an unrecognized pair is a codegen error even though the
// checker already rejected it leniently, as a defense-in-depth measure.
// `Screen.center.x`-style chains (§4.4.7's corner-accessor note) are a
// special case: the trailing `.x`/`.y` is not itself an ABI method, it
// selects a component of the coordinate the preceding step named.
func (g *Generator) emitMethodChain(e *ast.MethodChainExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if e.Base == ast.NsScreen && len(e.Chain) == 2 && isCoordField(e.Chain[1].Method.Name) {
		v, _, err := g.emitScreenFieldRead([]string{e.Chain[0].Method.Name, e.Chain[1].Method.Name})
		return v, gbtypes.TInt, err
	}

	var last value.Value
	var lastType gbtypes.Type = gbtypes.TVoid
	for _, step := range e.Chain {
		fn, sig, ok := g.abiFunc(e.Base, step.Method.Name)
		if !ok {
			sp := step.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "unknown method '%s.%s'", e.Base, step.Method.Name)
		}
		args := make([]value.Value, len(step.Args))
		for i, a := range step.Args {
			v, _, err := g.emitExpr(a)
			if err != nil {
				return nil, gbtypes.TUnknown, err
			}
			args[i] = v
		}
		last = g.curBlock.NewCall(fn, args...)
		lastType = paramTypeToGbType(sig.Ret)
	}
	return last, lastType, nil
}

func isCoordField(name string) bool { return name == "x" || name == "y" }

func paramTypeToGbType(pt abi.ParamType) gbtypes.Type {
	switch pt {
	case abi.I64:
		return gbtypes.TInt
	case abi.F64:
		return gbtypes.TFloat
	case abi.BoolAsI64:
		return gbtypes.TBool
	case abi.Ptr:
		return gbtypes.TString
	default:
		return gbtypes.TVoid
	}
}

func (g *Generator) emitAssignment(e *ast.AssignmentExpr) (value.Value, gbtypes.Type, *diag.Error) {
	switch target := e.Target.(type) {
	case *ast.IdentifierExpr:
		v, t, err := g.emitExpr(e.Value)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		sym, ok := g.scopes.Lookup(target.Name.Name)
		if !ok {
			return nil, gbtypes.TUnknown, diag.NewName(target.Span(), "unknown identifier '%s'", target.Name.Name)
		}
		g.curBlock.NewStore(v, sym.Value.Ptr)
		return v, t, nil
	case *ast.FieldAccessExpr:
		return g.emitFieldAccessWrite(target, e.Value)
	default:
		sp := e.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "invalid assignment target")
	}
}
