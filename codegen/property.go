package codegen

import (
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// fieldPath decomposes a (possibly nested) FieldAccessExpr into its root
// object expression and the dotted path of field names (§4.4.7: "A
// FieldAccess is decomposed into (root-variable, dotted-path)").
func fieldPath(e *ast.FieldAccessExpr) (ast.Expression, []string) {
	var path []string
	var cur ast.Expression = e
	for {
		fa, ok := cur.(*ast.FieldAccessExpr)
		if !ok {
			break
		}
		path = append([]string{fa.Field.Name}, path...)
		cur = fa.Object
	}
	return cur, path
}

// emitFieldAccessRead lowers a supported read path (§4.4.7) into the
// matching runtime accessor call.
func (g *Generator) emitFieldAccessRead(e *ast.FieldAccessExpr) (value.Value, gbtypes.Type, *diag.Error) {
	root, path := fieldPath(e)

	if mc, ok := root.(*ast.MethodChainExpr); ok && mc.Base == ast.NsScreen && len(mc.Chain) == 0 {
		return g.emitScreenFieldRead(path)
	}

	handle, objType, err := g.emitExpr(root)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}

	if len(path) == 1 && path[0] == "length" {
		if objType.Kind != gbtypes.Array {
			sp := e.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "'.length' requires an array")
		}
		return g.curBlock.NewCall(g.rt("runtime_array_length"), handle), gbtypes.TInt, nil
	}

	switch joinPath(path) {
	case "x", "position.x":
		return g.curBlock.NewCall(g.rt("runtime_get_position_x"), handle), gbtypes.TInt, nil
	case "y", "position.y":
		return g.curBlock.NewCall(g.rt("runtime_get_position_y"), handle), gbtypes.TInt, nil
	case "velocity.x":
		return g.curBlock.NewCall(g.rt("runtime_get_velocity_x"), handle), gbtypes.TInt, nil
	case "velocity.y":
		return g.curBlock.NewCall(g.rt("runtime_get_velocity_y"), handle), gbtypes.TInt, nil
	case "size.width":
		return g.curBlock.NewCall(g.rt("runtime_get_size_width"), handle), gbtypes.TInt, nil
	case "size.height":
		return g.curBlock.NewCall(g.rt("runtime_get_size_height"), handle), gbtypes.TInt, nil
	default:
		sp := e.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "unsupported property read path '.%s'", joinPath(path))
	}
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// emitScreenFieldRead lowers `Screen.width|height|center.x|center.y|
// top_left|bottom_right` read paths (§4.4.7's corner accessors).
func (g *Generator) emitScreenFieldRead(path []string) (value.Value, gbtypes.Type, *diag.Error) {
	switch joinPath(path) {
	case "width":
		fn, _, _ := g.abiFunc(ast.NsScreen, "width")
		return g.curBlock.NewCall(fn), gbtypes.TInt, nil
	case "height":
		fn, _, _ := g.abiFunc(ast.NsScreen, "height")
		return g.curBlock.NewCall(fn), gbtypes.TInt, nil
	case "center.x":
		return g.curBlock.NewCall(g.rt("runtime_screen_center_x")), gbtypes.TInt, nil
	case "center.y":
		return g.curBlock.NewCall(g.rt("runtime_screen_center_y")), gbtypes.TInt, nil
	case "bottom_right.x":
		fn, _, _ := g.abiFunc(ast.NsScreen, "width")
		return g.curBlock.NewCall(fn), gbtypes.TInt, nil
	case "bottom_right.y":
		fn, _, _ := g.abiFunc(ast.NsScreen, "height")
		return g.curBlock.NewCall(fn), gbtypes.TInt, nil
	default:
		// top_left and the remaining corner components are the origin.
		return constant.NewInt(types.I64, 0), gbtypes.TInt, nil
	}
}

// emitFieldAccessWrite lowers a supported write path (§4.4.7).
func (g *Generator) emitFieldAccessWrite(target *ast.FieldAccessExpr, valueExpr ast.Expression) (value.Value, gbtypes.Type, *diag.Error) {
	root, path := fieldPath(target)
	handle, _, err := g.emitExpr(root)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}

	switch joinPath(path) {
	case "position":
		x, y, err := g.resolvePositionValue(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		g.curBlock.NewCall(g.rt("runtime_set_position"), handle, x, y)
		return nil, gbtypes.TVoid, nil
	case "position.x":
		v, _, err := g.emitExpr(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		curY := g.curBlock.NewCall(g.rt("runtime_get_position_y"), handle)
		g.curBlock.NewCall(g.rt("runtime_set_position"), handle, v, curY)
		return v, gbtypes.TInt, nil
	case "position.y":
		v, _, err := g.emitExpr(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		curX := g.curBlock.NewCall(g.rt("runtime_get_position_x"), handle)
		g.curBlock.NewCall(g.rt("runtime_set_position"), handle, curX, v)
		return v, gbtypes.TInt, nil
	case "velocity":
		x, y, err := g.resolvePositionValue(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		g.curBlock.NewCall(g.rt("runtime_set_velocity"), handle, x, y)
		return nil, gbtypes.TVoid, nil
	case "velocity.x":
		v, _, err := g.emitExpr(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		curY := g.curBlock.NewCall(g.rt("runtime_get_velocity_y"), handle)
		g.curBlock.NewCall(g.rt("runtime_set_velocity"), handle, v, curY)
		return v, gbtypes.TInt, nil
	case "velocity.y":
		v, _, err := g.emitExpr(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		curX := g.curBlock.NewCall(g.rt("runtime_get_velocity_x"), handle)
		g.curBlock.NewCall(g.rt("runtime_set_velocity"), handle, curX, v)
		return v, gbtypes.TInt, nil
	case "color":
		v, err := g.resolveColorValue(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		g.curBlock.NewCall(g.rt("runtime_set_color"), handle, v)
		return v, gbtypes.TInt, nil
	case "gravity":
		return g.emitBoolProperty(handle, valueExpr, "runtime_set_gravity")
	case "solid":
		return g.emitBoolProperty(handle, valueExpr, "runtime_set_solid")
	case "bounces":
		return g.emitBoolProperty(handle, valueExpr, "runtime_set_bounces")
	case "visible":
		return g.emitBoolProperty(handle, valueExpr, "runtime_set_visible")
	case "layer":
		v, _, err := g.emitExpr(valueExpr)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		g.curBlock.NewCall(g.rt("runtime_set_layer"), handle, v)
		return v, gbtypes.TInt, nil
	default:
		sp := target.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "unsupported property write path '.%s'", joinPath(path))
	}
}

func (g *Generator) emitBoolProperty(handle value.Value, valueExpr ast.Expression, symbol string) (value.Value, gbtypes.Type, *diag.Error) {
	v, t, err := g.emitExpr(valueExpr)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	widened := g.curBlock.NewZExt(g.toBool(v, t), types.I64)
	g.curBlock.NewCall(g.rt(symbol), handle, widened)
	return v, gbtypes.TBool, nil
}

// resolvePositionValue accepts `point(x, y)` or a `Screen.center`/
// `top_left`/etc. chain (§4.4.7), unpacking the packed coordinate word
// or resolving the screen accessor as appropriate.
func (g *Generator) resolvePositionValue(valueExpr ast.Expression) (x, y value.Value, err *diag.Error) {
	if mc, ok := valueExpr.(*ast.MethodChainExpr); ok && mc.Base == ast.NsScreen {
		path := make([]string, len(mc.Chain))
		for i, step := range mc.Chain {
			path[i] = step.Method.Name
		}
		vx, _, e := g.emitScreenFieldRead(append(path, "x"))
		if e != nil {
			return nil, nil, e
		}
		vy, _, e := g.emitScreenFieldRead(append(path, "y"))
		if e != nil {
			return nil, nil, e
		}
		return vx, vy, nil
	}
	packed, _, e := g.emitExpr(valueExpr)
	if e != nil {
		return nil, nil, e
	}
	x = g.curBlock.NewAShr(g.curBlock.NewShl(packed, constant.NewInt(types.I64, 32)), constant.NewInt(types.I64, 32))
	y = g.curBlock.NewAShr(packed, constant.NewInt(types.I64, 32))
	return x, y, nil
}

// resolveColorValue accepts a named-color identifier, a `color(r,g,b)`
// constructor, or a packed Int (§4.4.7) — all three already evaluate to
// the same packed representation, so this is a plain expression lower.
func (g *Generator) resolveColorValue(valueExpr ast.Expression) (value.Value, *diag.Error) {
	v, _, err := g.emitExpr(valueExpr)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// emitObjectMethodCall lowers `obj.method(args)` calls the checker
// treats leniently (spec §4.3): move/collides/contains are the only
// object methods the runtime exposes as calls rather than properties.
func (g *Generator) emitObjectMethodCall(fa *ast.FieldAccessExpr, callArgs []ast.Expression) (value.Value, gbtypes.Type, *diag.Error) {
	handle, _, err := g.emitExpr(fa.Object)
	if err != nil {
		return nil, gbtypes.TUnknown, err
	}
	args := make([]value.Value, len(callArgs))
	for i, a := range callArgs {
		v, _, err := g.emitExpr(a)
		if err != nil {
			return nil, gbtypes.TUnknown, err
		}
		args[i] = v
	}
	switch fa.Field.Name {
	case "move":
		if len(args) != 2 {
			sp := fa.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "move expects two arguments")
		}
		g.curBlock.NewCall(g.rt("runtime_object_move"), append([]value.Value{handle}, args...)...)
		return nil, gbtypes.TVoid, nil
	case "collides":
		if len(args) != 1 {
			sp := fa.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "collides expects one argument")
		}
		return g.curBlock.NewCall(g.rt("runtime_object_collides"), handle, args[0]), gbtypes.TBool, nil
	case "contains":
		if len(args) != 2 {
			sp := fa.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "contains expects two arguments")
		}
		return g.curBlock.NewCall(g.rt("runtime_object_contains"), append([]value.Value{handle}, args...)...), gbtypes.TBool, nil
	case "add":
		if len(args) != 1 {
			sp := fa.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "add expects one argument")
		}
		g.curBlock.NewCall(g.rt("runtime_array_add"), handle, args[0])
		return nil, gbtypes.TVoid, nil
	case "remove_from":
		if len(args) != 1 {
			sp := fa.Span()
			return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "remove_from expects one argument")
		}
		g.curBlock.NewCall(g.rt("runtime_array_remove_value"), handle, args[0])
		return nil, gbtypes.TVoid, nil
	default:
		sp := fa.Span()
		return nil, gbtypes.TUnknown, diag.NewCodegen(&sp, "unknown object method '.%s'", fa.Field.Name)
	}
}
