// Package checker implements G-Basic's flow-sensitive type checker
// (spec §4.3): a signature pass followed by a scoped walk over the AST
// that fails fast on the first TypeError or NameError it finds, unlike the parser's
// multi-diagnostic recovery.
package checker

import (
	"github.com/gbasic-lang/gbc/abi"
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/gbasic-lang/gbc/symtab"
)

// Checker walks a typed AST, maintaining the scoped symbol table spec
// §4.3 describes.
type Checker struct {
	scopes *symtab.Table[gbtypes.Type]
}

// New builds a Checker with its builtin-populated root scope.
func New() *Checker {
	c := &Checker{scopes: symtab.New[gbtypes.Type]()}
	registerBuiltins(c.scopes)
	return c
}

// Check type-checks prog and returns the first diagnostic found, or nil
// if the whole program checks out.
func Check(prog *ast.Program) *diag.Error {
	c := New()
	return c.CheckProgram(prog)
}

// CheckProgram performs the declaration pass (every top-level function
// signature registered up front, so direct and mutual-looking forward
// calls resolve) followed by the body-check pass.
func (c *Checker) CheckProgram(prog *ast.Program) *diag.Error {
	for _, stmt := range prog.Statements {
		if fn, ok := stmt.(*ast.FunctionDecl); ok {
			c.scopes.Insert(fn.Name.Name, functionType(fn), true)
		}
	}
	for _, stmt := range prog.Statements {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func functionType(fn *ast.FunctionDecl) gbtypes.Type {
	params := make([]gbtypes.Type, len(fn.Params))
	for i, p := range fn.Params {
		if p.TypeAnn != nil {
			params[i] = *p.TypeAnn
		} else {
			params[i] = gbtypes.TUnknown
		}
	}
	ret := gbtypes.TVoid
	if fn.ReturnType != nil {
		ret = *fn.ReturnType
	}
	return gbtypes.NewFunction(params, ret)
}

func paramTypeToGb(pt abi.ParamType) gbtypes.Type {
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
