package codegen

import (
	"github.com/gbasic-lang/gbc/diag"
	"github.com/llir/llvm/ir"
)

// verify is the structural self-check §4.4's "module verifies" step
// reduces to (the DOMAIN STACK note explains why: llir/llvm only prints
// textual IR, it does not itself validate it the way handing a module to
// llc would). It walks every function's blocks and confirms each ends in
// exactly one terminator; any lapse here is a generator bug, so it is
// reported as an InternalError rather than a CodegenError.
func verify(m *ir.Module) *diag.Error {
	for _, fn := range m.Funcs {
		if len(fn.Blocks) == 0 {
			continue // external declaration
		}
		for _, block := range fn.Blocks {
			if block.Term == nil {
				return diag.NewInternal("function %q: basic block %q has no terminator", fn.Name(), block.Name())
			}
		}
	}
	return nil
}
