package codegen

import (
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// emitShortcut lowers one of the fixed zero-namespace shortcuts (§4.4.6).
func (g *Generator) emitShortcut(name string, call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	switch name {
	case "print":
		return g.emitPrint(call)
	case "rect":
		return g.emitTwoArgToHandle(call, "runtime_create_rect")
	case "circle":
		return g.emitOneArgToHandle(call, "runtime_create_circle")
	case "key":
		return g.emitKey(call)
	case "play":
		return g.emitPlaySound(call)
	case "clear":
		return g.emitClear(call)
	case "random":
		return g.emitRandom(call)
	case "point":
		return g.emitPoint(call)
	case "color":
		return g.emitColorCtor(call)
	default:
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "unimplemented builtin '%s'", name)
	}
}

// emitPrint lowers print(x) to a typed print call, or to each part of a
// StringInterp followed by a newline (§4.4.6).
func (g *Generator) emitPrint(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 1 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "print expects exactly one argument")
	}
	if interp, ok := call.Args[0].(*ast.StringInterpExpr); ok {
		for _, part := range interp.Parts {
			if part.Expr == nil {
				g.curBlock.NewCall(g.rt("runtime_print_part"), g.globalString(part.Lit))
				continue
			}
			v, t, err := g.emitExpr(part.Expr)
			if err != nil {
				return nil, gbtypes.TUnknown, err
			}
			g.emitTypedPrintPart(v, t)
		}
		g.curBlock.NewCall(g.rt("runtime_print_newline"))
		return nil, gbtypes.TVoid, nil
	}

	v, t, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	g.emitTypedPrint(v, t)
	return nil, gbtypes.TVoid, nil
}

// emitPrintAt lowers `print("…").at(x, y)` (§4.4.6): the interpolated
// string is built the same way a bare print would (emitExpr on a
// StringInterpExpr already concatenates via runtime_string_concat), but
// instead of a typed console print it is handed to runtime_draw_text
// in white at the given coordinates.
func (g *Generator) emitPrintAt(printCall, atCall *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(printCall.Args) != 1 {
		sp := printCall.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "print expects exactly one argument")
	}
	if len(atCall.Args) != 2 {
		sp := atCall.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "'at' expects two arguments")
	}
	str, strType, err := g.emitExpr(printCall.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	str = g.stringify(str, strType)
	x, _, err := g.emitExpr(atCall.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	y, _, err := g.emitExpr(atCall.Args[1])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	white := constant.NewInt(types.I64, 255)
	g.curBlock.NewCall(g.rt("runtime_draw_text"), str, x, y, white, white, white)
	return nil, gbtypes.TVoid, nil
}

// Typed print dispatch: Strings go through runtime_print; Floats keep
// their width; everything else (Int, Bool, Unknown, handles) is an i64
// and prints through the integer helper.
func (g *Generator) emitTypedPrint(v value.Value, t gbtypes.Type) {
	switch t.Kind {
	case gbtypes.String:
		g.curBlock.NewCall(g.rt("runtime_print"), v)
	case gbtypes.Float:
		g.curBlock.NewCall(g.rt("runtime_print_float"), v)
	default:
		g.curBlock.NewCall(g.rt("runtime_print_int"), v)
	}
}

func (g *Generator) emitTypedPrintPart(v value.Value, t gbtypes.Type) {
	switch t.Kind {
	case gbtypes.String:
		g.curBlock.NewCall(g.rt("runtime_print_part"), v)
	case gbtypes.Float:
		g.curBlock.NewCall(g.rt("runtime_print_float_part"), v)
	default:
		g.curBlock.NewCall(g.rt("runtime_print_int_part"), v)
	}
}

func (g *Generator) emitTwoArgToHandle(call *ast.CallExpr, symbol string) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 2 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "'%s' expects two arguments", symbol)
	}
	a, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	b, _, err := g.emitExpr(call.Args[1])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	return g.curBlock.NewCall(g.rt(symbol), a, b), gbtypes.TInt, nil
}

func (g *Generator) emitOneArgToHandle(call *ast.CallExpr, symbol string) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 1 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "'%s' expects one argument", symbol)
	}
	v, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	return g.curBlock.NewCall(g.rt(symbol), v), gbtypes.TInt, nil
}

func (g *Generator) emitKey(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 1 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "key expects one argument")
	}
	name, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	g.curBlock.NewCall(g.rt("ensure_screen_init"))
	fn, _, ok := g.abiFunc(ast.NsInput, "key_pressed")
	if !ok {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "runtime ABI missing Input.key_pressed")
	}
	return g.curBlock.NewCall(fn, name), gbtypes.TBool, nil
}

func (g *Generator) emitPlaySound(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 1 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "play expects one argument")
	}
	name, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	fn, _, ok := g.abiFunc(ast.NsSound, "play")
	if !ok {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "runtime ABI missing Sound.play")
	}
	return g.curBlock.NewCall(fn, name), gbtypes.TVoid, nil
}

// emitClear unpacks a single packed-color argument, or passes three
// components straight through (§4.4.6).
func (g *Generator) emitClear(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	fn, _, ok := g.abiFunc(ast.NsScreen, "clear")
	if !ok {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "runtime ABI missing Screen.clear")
	}
	switch len(call.Args) {
	case 1:
		packed, _, err := g.emitExpr(call.Args[0])
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		r, gC, b := g.unpackColor(packed)
		g.curBlock.NewCall(fn, r, gC, b)
		return nil, gbtypes.TVoid, nil
	case 3:
		r, _, err := g.emitExpr(call.Args[0])
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		gC, _, err := g.emitExpr(call.Args[1])
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		b, _, err := g.emitExpr(call.Args[2])
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		g.curBlock.NewCall(fn, r, gC, b)
		return nil, gbtypes.TVoid, nil
	default:
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "clear expects 1 or 3 arguments, found %d", len(call.Args))
	}
}

// unpackColor splits a packed (r<<16)|(g<<8)|b Int into its components.
func (g *Generator) unpackColor(packed value.Value) (r, gC, b value.Value) {
	mask := constant.NewInt(types.I64, 0xFF)
	r = g.curBlock.NewAnd(g.curBlock.NewLShr(packed, constant.NewInt(types.I64, 16)), mask)
	gC = g.curBlock.NewAnd(g.curBlock.NewLShr(packed, constant.NewInt(types.I64, 8)), mask)
	b = g.curBlock.NewAnd(packed, mask)
	return r, gC, b
}

func (g *Generator) emitRandom(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 2 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "random expects two arguments")
	}
	lo, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	hi, _, err := g.emitExpr(call.Args[1])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	fn, _, ok := g.abiFunc(ast.NsMath, "random")
	if !ok {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "runtime ABI missing Math.random")
	}
	return g.curBlock.NewCall(fn, lo, hi), gbtypes.TInt, nil
}

// emitPoint packs `(x, y)` into an opaque handle via runtime_set_position
// semantics is not applicable here; point() is a pure value constructor
// used by object property writes, represented as two i64s packed into
// one word the way color packs r,g,b (low 32 bits x, high 32 bits y).
func (g *Generator) emitPoint(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 2 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "point expects two arguments")
	}
	x, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	y, _, err := g.emitExpr(call.Args[1])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	shifted := g.curBlock.NewShl(y, constant.NewInt(types.I64, 32))
	masked := g.curBlock.NewAnd(x, constant.NewInt(types.I64, 0xFFFFFFFF))
	packed := g.curBlock.NewOr(shifted, masked)
	return packed, gbtypes.TInt, nil
}

func (g *Generator) emitColorCtor(call *ast.CallExpr) (value.Value, gbtypes.Type, *diag.Error) {
	if len(call.Args) != 3 {
		sp := call.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "color expects three arguments")
	}
	r, _, err := g.emitExpr(call.Args[0])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	gC, _, err := g.emitExpr(call.Args[1])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	b, _, err := g.emitExpr(call.Args[2])
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	rShift := g.curBlock.NewShl(r, constant.NewInt(types.I64, 16))
	gShift := g.curBlock.NewShl(gC, constant.NewInt(types.I64, 8))
	packed := g.curBlock.NewOr(g.curBlock.NewOr(rShift, gShift), b)
	return packed, gbtypes.TInt, nil
}
