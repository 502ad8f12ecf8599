// Package abi is the single source of truth for the runtime ABI the IR
// generator links against (spec §6.3): one table mapping every
// (namespace, method) pair the front end can produce to the C-ABI
// function the generator must call, together with its parameter and
// return shape. Unknown combinations are a codegen error, never a panic.
package abi

import (
	"sort"

	"github.com/gbasic-lang/gbc/ast"
)

// ParamType is the restricted set of shapes a runtime ABI value can take.
type ParamType int

const (
	I64 ParamType = iota
	F64
	BoolAsI64
	Ptr
	Void
)

// Sig is the call shape of one runtime ABI function: its parameter
// types in order, its return type, and the C symbol to call.
type Sig struct {
	Params  []ParamType
	Ret     ParamType
	Runtime string
}

// key identifies one (namespace, method) entry.
type key struct {
	ns     ast.Namespace
	method string
}

// table is populated by entry() calls in init, keyed by lowercased
// method name (the parser already lowercases identifiers).
var table = map[key]Sig{}

func entry(ns ast.Namespace, method string, sig Sig) {
	table[key{ns, method}] = sig
}

func init() {
	// Screen
	entry(ast.NsScreen, "width", Sig{nil, I64, "runtime_screen_width"})
	entry(ast.NsScreen, "height", Sig{nil, I64, "runtime_screen_height"})
	entry(ast.NsScreen, "center", Sig{nil, Ptr, "runtime_screen_center"})
	entry(ast.NsScreen, "top_left", Sig{nil, Ptr, "runtime_screen_top_left"})
	entry(ast.NsScreen, "bottom_right", Sig{nil, Ptr, "runtime_screen_bottom_right"})
	entry(ast.NsScreen, "clear", Sig{[]ParamType{I64, I64, I64}, Void, "runtime_screen_clear"})
	entry(ast.NsScreen, "init", Sig{nil, Void, "ensure_screen_init"})

	// Sound
	entry(ast.NsSound, "play", Sig{[]ParamType{Ptr}, Void, "runtime_sound_effect_play"})
	entry(ast.NsSound, "stop", Sig{[]ParamType{Ptr}, Void, "runtime_sound_effect_stop"})
	entry(ast.NsSound, "volume", Sig{[]ParamType{I64}, Void, "runtime_sound_set_volume"})
	entry(ast.NsSound, "music", Sig{[]ParamType{Ptr}, Void, "runtime_sound_music_play"})

	// Input
	entry(ast.NsInput, "key_pressed", Sig{[]ParamType{Ptr}, BoolAsI64, "runtime_input_key_pressed"})
	entry(ast.NsInput, "mouse_x", Sig{nil, I64, "runtime_input_mouse_x"})
	entry(ast.NsInput, "mouse_y", Sig{nil, I64, "runtime_input_mouse_y"})
	entry(ast.NsInput, "mouse_pressed", Sig{nil, BoolAsI64, "runtime_input_mouse_pressed"})

	// Math
	entry(ast.NsMath, "random", Sig{[]ParamType{I64, I64}, I64, "runtime_math_random_range"})
	entry(ast.NsMath, "sqrt", Sig{[]ParamType{F64}, F64, "runtime_math_sqrt"})
	entry(ast.NsMath, "abs", Sig{[]ParamType{F64}, F64, "runtime_math_abs"})
	entry(ast.NsMath, "floor", Sig{[]ParamType{F64}, F64, "runtime_math_floor"})
	entry(ast.NsMath, "seed", Sig{[]ParamType{I64}, Void, "runtime_math_seed"})

	// System
	entry(ast.NsSystem, "exit", Sig{nil, Void, "runtime_system_exit"})
	entry(ast.NsSystem, "time", Sig{nil, F64, "runtime_system_time"})
	entry(ast.NsSystem, "sleep", Sig{[]ParamType{F64}, Void, "runtime_system_sleep"})

	// Memory
	entry(ast.NsMemory, "set", Sig{[]ParamType{Ptr, Ptr}, Void, "runtime_memory_set"})
	entry(ast.NsMemory, "get", Sig{[]ParamType{Ptr}, Ptr, "runtime_memory_get"})
	entry(ast.NsMemory, "has", Sig{[]ParamType{Ptr}, BoolAsI64, "runtime_memory_has"})
	entry(ast.NsMemory, "delete", Sig{[]ParamType{Ptr}, Void, "runtime_memory_delete"})

	// IO — print/printinteger/printfloat map to runtime_print_*;
	// readline follows the runtime_io_* convention.
	entry(ast.NsIO, "print", Sig{[]ParamType{Ptr}, Void, "runtime_print"})
	entry(ast.NsIO, "printinteger", Sig{[]ParamType{I64}, Void, "runtime_print_int"})
	entry(ast.NsIO, "printfloat", Sig{[]ParamType{F64}, Void, "runtime_print_float"})
	entry(ast.NsIO, "readline", Sig{nil, Ptr, "runtime_io_readline"})

	// Asset
	entry(ast.NsAsset, "load", Sig{[]ParamType{Ptr}, I64, "runtime_asset_load"})
	entry(ast.NsAsset, "unload", Sig{[]ParamType{I64}, Void, "runtime_asset_unload"})
}

// Lookup returns the signature registered for (ns, method), where method
// is already lowercase (the lexer/parser guarantee this). ok is false
// for any combination §6.3 does not enumerate — callers must raise a
// CodegenError rather than guess a shape.
func Lookup(ns ast.Namespace, method string) (Sig, bool) {
	sig, ok := table[key{ns, method}]
	return sig, ok
}

// Methods returns the method names declared for ns in sorted order.
func Methods(ns ast.Namespace) []string {
	var out []string
	for k := range table {
		if k.ns == ns {
			out = append(out, k.method)
		}
	}
	sort.Strings(out)
	return out
}

// All returns every (namespace, method, sig) triple in the table, used
// by the generator to declare every runtime import up front regardless
// of whether the current program calls it (spec §4.4.1: "declared on
// module entry"). The order is stable (namespace, then method) so the
// emitted module text is identical run to run.
type Entry struct {
	Namespace ast.Namespace
	Method    string
	Sig       Sig
}

func All() []Entry {
	out := make([]Entry, 0, len(table))
	for k, v := range table {
		out = append(out, Entry{Namespace: k.ns, Method: k.method, Sig: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Method < out[j].Method
	})
	return out
}
