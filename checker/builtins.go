package checker

import (
	"github.com/gbasic-lang/gbc/abi"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/gbasic-lang/gbc/symtab"
)

// registerBuiltins seeds the root scope with the shortcut functions and
// named color constants spec §4.3 lists as pre-populated.
func registerBuiltins(scopes *symtab.Table[gbtypes.Type]) {
	fn := func(params []gbtypes.Type, ret gbtypes.Type) gbtypes.Type {
		return gbtypes.NewFunction(params, ret)
	}

	scopes.Insert("print", fn([]gbtypes.Type{gbtypes.TUnknown}, gbtypes.TVoid), true)
	scopes.Insert("rect", fn([]gbtypes.Type{gbtypes.TInt, gbtypes.TInt}, gbtypes.TInt), true)
	scopes.Insert("circle", fn([]gbtypes.Type{gbtypes.TInt}, gbtypes.TInt), true)
	scopes.Insert("key", fn([]gbtypes.Type{gbtypes.TString}, gbtypes.TBool), true)
	scopes.Insert("play", fn([]gbtypes.Type{gbtypes.TString}, gbtypes.TVoid), true)
	scopes.Insert("random", fn([]gbtypes.Type{gbtypes.TInt, gbtypes.TInt}, gbtypes.TInt), true)
	scopes.Insert("point", fn([]gbtypes.Type{gbtypes.TUnknown, gbtypes.TUnknown}, gbtypes.TInt), true)
	scopes.Insert("color", fn([]gbtypes.Type{gbtypes.TUnknown, gbtypes.TUnknown, gbtypes.TUnknown}, gbtypes.TInt), true)
	// clear(c) / clear(r, g, b) has two valid arities; checkCall special-cases it.
	scopes.Insert("clear", fn([]gbtypes.Type{gbtypes.TUnknown}, gbtypes.TVoid), true)

	for name := range abi.NamedColors {
		scopes.Insert(name, gbtypes.TInt, false)
	}
}

// variadicBuiltins lists shortcuts whose arity the generic Function-type
// arity check cannot express.
var variadicBuiltins = map[string][]int{
	"clear": {1, 3},
}
