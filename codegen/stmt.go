package codegen

import (
	"fmt"

	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func (g *Generator) emitStmt(stmt ast.Statement) *diag.Error {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return g.emitLet(s)
	case *ast.IfStmt:
		return g.emitIf(s)
	case *ast.WhileStmt:
		return g.emitWhile(s)
	case *ast.ForStmt:
		return g.emitFor(s)
	case *ast.MatchStmt:
		return g.emitMatch(s)
	case *ast.ReturnStmt:
		return g.emitReturn(s)
	case *ast.BreakStmt:
		return g.emitBreak(s)
	case *ast.ContinueStmt:
		return g.emitContinue(s)
	case *ast.ExpressionStmt:
		_, _, err := g.emitExpr(s.Expr)
		return err
	case *ast.BlockStmt:
		return g.emitBlock(s.Block)
	case *ast.FunctionDecl:
		// Only top-level function declarations are emitted, by
		// declareUserFunc/emitUserFunc. The parser also accepts one
		// inside a block; that nested form is reported here.
		return diag.NewInternal("codegen: unexpected nested function declaration")
	default:
		return diag.NewInternal("codegen: unhandled statement type %T", stmt)
	}
}

func (g *Generator) emitBlock(b *ast.Block) *diag.Error {
	g.scopes.PushScope()
	defer g.scopes.PopScope()
	for _, stmt := range b.Statements {
		if err := g.emitStmt(stmt); err != nil {
			return err
		}
		if g.curBlock.Term != nil {
			break // an inner return/break/continue already terminated this block
		}
	}
	return nil
}

func (g *Generator) emitLet(s *ast.LetStmt) *diag.Error {
	v, t, err := g.emitExpr(s.Value)
	if err != nil {
		return err
	}
	if s.TypeAnn != nil {
		t = *s.TypeAnn
	}
	slotPtr := g.curBlock.NewAlloca(gbTypeToLLVM(t))
	g.curBlock.NewStore(v, slotPtr)
	g.scopes.Insert(s.Name.Name, Slot{Ptr: slotPtr, Ty: t}, true)
	return nil
}

func (g *Generator) freshBlock(prefix string) *ir.Block {
	return g.curFunc.NewBlock(fmt.Sprintf("%s.%d", prefix, g.nextString()))
}

// emitIf lowers `if`/`else` into then/else/merge blocks (§4.4.4),
// checking for an existing terminator before adding the merge back-edge
// so an inner `return` inside either arm is left untouched.
func (g *Generator) emitIf(s *ast.IfStmt) *diag.Error {
	cond, condType, err := g.emitExpr(s.Cond)
	if err != nil {
		return err
	}
	condBit := g.toBool(cond, condType)

	thenBlock := g.freshBlock("if.then")
	mergeBlock := g.freshBlock("if.merge")
	elseBlock := mergeBlock
	if s.Else != nil {
		elseBlock = g.freshBlock("if.else")
	}

	g.curBlock.NewCondBr(condBit, thenBlock, elseBlock)

	g.curBlock = thenBlock
	if err := g.emitBlock(s.Then); err != nil {
		return err
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(mergeBlock)
	}

	if s.Else != nil {
		g.curBlock = elseBlock
		if err := g.emitBlock(s.Else); err != nil {
			return err
		}
		if g.curBlock.Term == nil {
			g.curBlock.NewBr(mergeBlock)
		}
	}

	g.curBlock = mergeBlock
	return nil
}

// emitWhile lowers `while` into cond/body/exit blocks and pushes the
// loop_stack target so nested break/continue resolve (§4.4.4). The
// outermost top-level `while true` additionally gets auto-frame
// treatment (§4.4.5): an extra latch block carries the single
// runtime_frame_auto_end call, and both the body fallthrough and any
// `continue` route through it so every back-edge runs the frame tail.
func (g *Generator) emitWhile(s *ast.WhileStmt) *diag.Error {
	condBlock := g.freshBlock("while.cond")
	bodyBlock := g.freshBlock("while.body")
	exitBlock := g.freshBlock("while.exit")

	autoFrame := isLiteralTrue(s.Cond) && !g.autoFramed
	backEdge := condBlock
	if autoFrame {
		g.curBlock.NewCall(g.rt("ensure_screen_init"))
		g.autoFramed = true
		backEdge = g.freshBlock("while.latch")
	}

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	cond, condType, err := g.emitExpr(s.Cond)
	if err != nil {
		return err
	}
	g.curBlock.NewCondBr(g.toBool(cond, condType), bodyBlock, exitBlock)

	g.loopStack.Push(loopTarget{Continue: backEdge, Exit: exitBlock})
	g.curBlock = bodyBlock
	if autoFrame {
		g.curBlock.NewCall(g.rt("runtime_frame_auto"))
	}
	if err := g.emitBlock(s.Body); err != nil {
		g.loopStack.Pop()
		return err
	}
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(backEdge)
	}
	g.loopStack.Pop()

	if autoFrame {
		backEdge.NewCall(g.rt("runtime_frame_auto_end"))
		backEdge.NewBr(condBlock)
		g.autoFramed = false
	}
	g.curBlock = exitBlock
	return nil
}

func isLiteralTrue(e ast.Expression) bool {
	lit, ok := e.(*ast.Literal)
	return ok && lit.Kind == ast.LitBool && lit.Bool
}

// emitFor lowers the three iterable shapes §4.4.4 distinguishes: a
// Range counts from start to end; a literal array gets fixed-size stack
// storage walked by index; any other iterable is a runtime dynamic
// array handle read through the runtime accessors.
func (g *Generator) emitFor(s *ast.ForStmt) *diag.Error {
	if r, ok := s.Iterable.(*ast.RangeExpr); ok {
		return g.emitForRange(s, r)
	}
	if arr, ok := s.Iterable.(*ast.ArrayExpr); ok && len(arr.Elements) > 0 {
		return g.emitForStaticArray(s, arr)
	}
	return g.emitForArray(s)
}

func (g *Generator) emitForRange(s *ast.ForStmt, r *ast.RangeExpr) *diag.Error {
	startV, _, err := g.emitExpr(r.Start)
	if err != nil {
		return err
	}
	endV, _, err := g.emitExpr(r.End)
	if err != nil {
		return err
	}

	counterSlot := g.curBlock.NewAlloca(types.I64)
	g.curBlock.NewStore(startV, counterSlot)

	condBlock := g.freshBlock("for.cond")
	bodyBlock := g.freshBlock("for.body")
	incBlock := g.freshBlock("for.inc")
	exitBlock := g.freshBlock("for.exit")

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	cur := g.curBlock.NewLoad(types.I64, counterSlot)
	cmp := g.curBlock.NewICmp(enum.IPredSLT, cur, endV)
	g.curBlock.NewCondBr(cmp, bodyBlock, exitBlock)

	g.loopStack.Push(loopTarget{Continue: incBlock, Exit: exitBlock})
	g.curBlock = bodyBlock
	g.scopes.PushScope()
	g.scopes.Insert(s.Var.Name, Slot{Ptr: counterSlot, Ty: gbtypes.TInt}, false)
	for _, stmt := range s.Body.Statements {
		if err := g.emitStmt(stmt); err != nil {
			g.scopes.PopScope()
			g.loopStack.Pop()
			return err
		}
		if g.curBlock.Term != nil {
			break
		}
	}
	g.scopes.PopScope()
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(incBlock)
	}
	g.loopStack.Pop()

	g.curBlock = incBlock
	curVal := g.curBlock.NewLoad(types.I64, counterSlot)
	next := g.curBlock.NewAdd(curVal, constant.NewInt(types.I64, 1))
	g.curBlock.NewStore(next, counterSlot)
	g.curBlock.NewBr(condBlock)

	g.curBlock = exitBlock
	return nil
}

// emitForStaticArray iterates a literal array through fixed-size stack
// storage: one alloca of [N x T], each element written through a GEP,
// then an index-counter loop reading elements back the same way. The
// array never touches the dynamic-array runtime.
func (g *Generator) emitForStaticArray(s *ast.ForStmt, arr *ast.ArrayExpr) *diag.Error {
	n := len(arr.Elements)
	elemVals := make([]value.Value, n)
	var elemType gbtypes.Type
	for i, el := range arr.Elements {
		v, t, err := g.emitExpr(el)
		if err != nil {
			return err
		}
		if i == 0 {
			elemType = t
		}
		elemVals[i] = v
	}
	llvmElem := gbTypeToLLVM(elemType)
	arrType := types.NewArray(uint64(n), llvmElem)
	storage := g.curBlock.NewAlloca(arrType)
	zero := constant.NewInt(types.I64, 0)
	for i, v := range elemVals {
		ptr := g.curBlock.NewGetElementPtr(arrType, storage, zero, constant.NewInt(types.I64, int64(i)))
		g.curBlock.NewStore(v, ptr)
	}

	idxSlot := g.curBlock.NewAlloca(types.I64)
	g.curBlock.NewStore(zero, idxSlot)

	condBlock := g.freshBlock("forlit.cond")
	bodyBlock := g.freshBlock("forlit.body")
	incBlock := g.freshBlock("forlit.inc")
	exitBlock := g.freshBlock("forlit.exit")

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	idx := g.curBlock.NewLoad(types.I64, idxSlot)
	cmp := g.curBlock.NewICmp(enum.IPredSLT, idx, constant.NewInt(types.I64, int64(n)))
	g.curBlock.NewCondBr(cmp, bodyBlock, exitBlock)

	g.loopStack.Push(loopTarget{Continue: incBlock, Exit: exitBlock})
	g.curBlock = bodyBlock
	g.scopes.PushScope()
	curIdx := g.curBlock.NewLoad(types.I64, idxSlot)
	elemPtr := g.curBlock.NewGetElementPtr(arrType, storage, zero, curIdx)
	elem := g.curBlock.NewLoad(llvmElem, elemPtr)
	elemSlot := g.curBlock.NewAlloca(llvmElem)
	g.curBlock.NewStore(elem, elemSlot)
	g.scopes.Insert(s.Var.Name, Slot{Ptr: elemSlot, Ty: elemType}, true)
	for _, stmt := range s.Body.Statements {
		if err := g.emitStmt(stmt); err != nil {
			g.scopes.PopScope()
			g.loopStack.Pop()
			return err
		}
		if g.curBlock.Term != nil {
			break
		}
	}
	g.scopes.PopScope()
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(incBlock)
	}
	g.loopStack.Pop()

	g.curBlock = incBlock
	curVal := g.curBlock.NewLoad(types.I64, idxSlot)
	next := g.curBlock.NewAdd(curVal, constant.NewInt(types.I64, 1))
	g.curBlock.NewStore(next, idxSlot)
	g.curBlock.NewBr(condBlock)

	g.curBlock = exitBlock
	return nil
}

func (g *Generator) emitForArray(s *ast.ForStmt) *diag.Error {
	handle, objType, err := g.emitExpr(s.Iterable)
	if err != nil {
		return err
	}
	elemType := gbtypes.TInt
	if objType.Kind == gbtypes.Array {
		elemType = *objType.Elem
	}

	idxSlot := g.curBlock.NewAlloca(types.I64)
	g.curBlock.NewStore(constant.NewInt(types.I64, 0), idxSlot)

	condBlock := g.freshBlock("forarr.cond")
	bodyBlock := g.freshBlock("forarr.body")
	incBlock := g.freshBlock("forarr.inc")
	exitBlock := g.freshBlock("forarr.exit")

	g.curBlock.NewBr(condBlock)

	g.curBlock = condBlock
	idx := g.curBlock.NewLoad(types.I64, idxSlot)
	length := g.curBlock.NewCall(g.rt("runtime_array_length"), handle)
	cmp := g.curBlock.NewICmp(enum.IPredSLT, idx, length)
	g.curBlock.NewCondBr(cmp, bodyBlock, exitBlock)

	g.loopStack.Push(loopTarget{Continue: incBlock, Exit: exitBlock})
	g.curBlock = bodyBlock
	g.scopes.PushScope()
	curIdx := g.curBlock.NewLoad(types.I64, idxSlot)
	elem := g.curBlock.NewCall(g.rt("runtime_array_get"), handle, curIdx)
	elemSlot := g.curBlock.NewAlloca(gbTypeToLLVM(elemType))
	g.curBlock.NewStore(elem, elemSlot)
	g.scopes.Insert(s.Var.Name, Slot{Ptr: elemSlot, Ty: elemType}, true)
	for _, stmt := range s.Body.Statements {
		if err := g.emitStmt(stmt); err != nil {
			g.scopes.PopScope()
			g.loopStack.Pop()
			return err
		}
		if g.curBlock.Term != nil {
			break
		}
	}
	g.scopes.PopScope()
	if g.curBlock.Term == nil {
		g.curBlock.NewBr(incBlock)
	}
	g.loopStack.Pop()

	g.curBlock = incBlock
	curVal := g.curBlock.NewLoad(types.I64, idxSlot)
	next := g.curBlock.NewAdd(curVal, constant.NewInt(types.I64, 1))
	g.curBlock.NewStore(next, idxSlot)
	g.curBlock.NewBr(condBlock)

	g.curBlock = exitBlock
	return nil
}

// emitMatch lowers arms in order: a Wildcard is an unconditional
// catch-all, a Literal pattern is an equality test against the subject,
// an Identifier pattern unconditionally binds and executes (§4.4.4).
func (g *Generator) emitMatch(s *ast.MatchStmt) *diag.Error {
	subjectV, subjectType, err := g.emitExpr(s.Subject)
	if err != nil {
		return err
	}
	mergeBlock := g.freshBlock("match.merge")

	for _, arm := range s.Arms {
		switch pat := arm.Pattern.(type) {
		case *ast.WildcardPattern:
			if err := g.emitBlock(arm.Body); err != nil {
				return err
			}
			if g.curBlock.Term == nil {
				g.curBlock.NewBr(mergeBlock)
			}
			g.curBlock = mergeBlock
			return nil
		case *ast.IdentifierPattern:
			g.scopes.PushScope()
			slot := g.curBlock.NewAlloca(gbTypeToLLVM(subjectType))
			g.curBlock.NewStore(subjectV, slot)
			g.scopes.Insert(pat.Name.Name, Slot{Ptr: slot, Ty: subjectType}, true)
			for _, stmt := range arm.Body.Statements {
				if err := g.emitStmt(stmt); err != nil {
					g.scopes.PopScope()
					return err
				}
				if g.curBlock.Term != nil {
					break
				}
			}
			if g.curBlock.Term == nil {
				g.curBlock.NewBr(mergeBlock)
			}
			g.scopes.PopScope()
			g.curBlock = mergeBlock
			return nil
		case *ast.LiteralPattern:
			litV, litType, err := g.emitLiteral(pat.Lit)
			if err != nil {
				return err
			}
			eq := g.literalEquals(subjectV, subjectType, litV, litType)
			armBlock := g.freshBlock("match.arm")
			nextBlock := g.freshBlock("match.next")
			g.curBlock.NewCondBr(eq, armBlock, nextBlock)

			g.curBlock = armBlock
			if err := g.emitBlock(arm.Body); err != nil {
				return err
			}
			if g.curBlock.Term == nil {
				g.curBlock.NewBr(mergeBlock)
			}
			g.curBlock = nextBlock
		}
	}

	if g.curBlock.Term == nil {
		g.curBlock.NewBr(mergeBlock)
	}
	g.curBlock = mergeBlock
	return nil
}

// literalEquals implements §4.4.4's documented match-equality limitation:
// Int/Bool/String via integer (pointer, for strings) equality, Float via
// ordered-equal.
func (g *Generator) literalEquals(subject value.Value, subjectType gbtypes.Type, lit value.Value, litType gbtypes.Type) value.Value {
	if subjectType.Kind == gbtypes.Float || litType.Kind == gbtypes.Float {
		s, l, _ := g.promote(subject, subjectType, lit, litType)
		return g.curBlock.NewFCmp(enum.FPredOEQ, s, l)
	}
	return g.curBlock.NewICmp(enum.IPredEQ, subject, lit)
}

func (g *Generator) emitReturn(s *ast.ReturnStmt) *diag.Error {
	if s.Value == nil {
		g.curBlock.NewRet(nil)
		return nil
	}
	v, _, err := g.emitExpr(s.Value)
	if err != nil {
		return err
	}
	g.curBlock.NewRet(v)
	return nil
}

func (g *Generator) emitBreak(s *ast.BreakStmt) *diag.Error {
	top, poperr := g.loopStack.Peek()
	if poperr != nil {
		sp := s.Span()
		return diag.NewCodegen(&sp, "'break' outside a loop")
	}
	g.curBlock.NewBr(top.Exit)
	return nil
}

func (g *Generator) emitContinue(s *ast.ContinueStmt) *diag.Error {
	top, poperr := g.loopStack.Peek()
	if poperr != nil {
		sp := s.Span()
		return diag.NewCodegen(&sp, "'continue' outside a loop")
	}
	g.curBlock.NewBr(top.Continue)
	return nil
}
