package codegen

import (
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Slot is what the generator's scope stack binds a name to: the storage
// location produced by an `alloca` and the source-level type that
// storage holds (spec §4.4.3).
type Slot struct {
	Ptr value.Value
	Ty  gbtypes.Type
}

// loopTarget is one loop_stack entry (spec §4.4.4): `continue` branches
// to Continue (the condition block for `while`, or its frame latch block
// when the loop is auto-framed; the increment block for every `for`
// form), `break` branches to Exit.
type loopTarget struct {
	Continue *ir.Block
	Exit     *ir.Block
}
