package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// runtimeFn is one non-ABI-table runtime import the generator always
// declares on module entry (spec §4.4.1): print/conversion helpers,
// screen/frame lifecycle, and the object/array system's getters and
// setters. The namespace-method table (abi package) covers everything
// reached through a `Namespace.method` call; this table covers the
// helpers reached only through desugared shortcuts and property access.
type runtimeFn struct {
	name   string
	params []types.Type
	ret    types.Type
}

var runtimeFns = []runtimeFn{
	// print family
	{"runtime_print", []types.Type{types.I8Ptr}, types.Void},
	{"runtime_print_int", []types.Type{types.I64}, types.Void},
	{"runtime_print_float", []types.Type{types.Double}, types.Void},
	{"runtime_print_part", []types.Type{types.I8Ptr}, types.Void},
	{"runtime_print_int_part", []types.Type{types.I64}, types.Void},
	{"runtime_print_float_part", []types.Type{types.Double}, types.Void},
	{"runtime_print_newline", nil, types.Void},

	// string/number conversions
	{"runtime_string_concat", []types.Type{types.I8Ptr, types.I8Ptr}, types.I8Ptr},
	{"runtime_int_to_str", []types.Type{types.I64}, types.I8Ptr},
	{"runtime_float_to_str", []types.Type{types.Double}, types.I8Ptr},

	// screen / frame lifecycle
	{"ensure_screen_init", nil, types.Void},
	{"runtime_frame_auto", nil, types.Void},
	{"runtime_frame_auto_end", nil, types.Void},
	{"runtime_draw_text", []types.Type{types.I8Ptr, types.I64, types.I64, types.I64, types.I64, types.I64}, types.Void},
	{"runtime_screen_center_x", nil, types.I64},
	{"runtime_screen_center_y", nil, types.I64},

	// object system
	{"runtime_create_rect", []types.Type{types.I64, types.I64}, types.I64},
	{"runtime_create_circle", []types.Type{types.I64}, types.I64},
	{"runtime_set_position", []types.Type{types.I64, types.I64, types.I64}, types.Void},
	{"runtime_get_position_x", []types.Type{types.I64}, types.I64},
	{"runtime_get_position_y", []types.Type{types.I64}, types.I64},
	{"runtime_set_velocity", []types.Type{types.I64, types.I64, types.I64}, types.Void},
	{"runtime_get_velocity_x", []types.Type{types.I64}, types.I64},
	{"runtime_get_velocity_y", []types.Type{types.I64}, types.I64},
	{"runtime_get_size_width", []types.Type{types.I64}, types.I64},
	{"runtime_get_size_height", []types.Type{types.I64}, types.I64},
	{"runtime_set_color", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_set_gravity", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_set_solid", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_set_bounces", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_set_visible", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_set_layer", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_object_move", []types.Type{types.I64, types.I64, types.I64}, types.Void},
	{"runtime_object_collides", []types.Type{types.I64, types.I64}, types.I64},
	{"runtime_object_contains", []types.Type{types.I64, types.I64, types.I64}, types.I64},

	// dynamic arrays
	{"runtime_array_new", nil, types.I64},
	{"runtime_array_add", []types.Type{types.I64, types.I64}, types.Void},
	{"runtime_array_length", []types.Type{types.I64}, types.I64},
	{"runtime_array_get", []types.Type{types.I64, types.I64}, types.I64},
	{"runtime_array_remove_value", []types.Type{types.I64, types.I64}, types.Void},
}

// declareRuntimeFns emits one `declare` per entry into declared, keyed
// by symbol name, skipping symbols the ABI table already declared.
func declareRuntimeFns(m *ir.Module, declared map[string]*ir.Func) {
	for _, rf := range runtimeFns {
		if _, ok := declared[rf.name]; ok {
			continue
		}
		params := make([]*ir.Param, len(rf.params))
		for i, pt := range rf.params {
			params[i] = ir.NewParam("", pt)
		}
		declared[rf.name] = m.NewFunc(rf.name, rf.ret, params...)
	}
}
