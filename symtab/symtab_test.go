package symtab_test

import (
	"testing"

	"github.com/gbasic-lang/gbc/symtab"
	"github.com/stretchr/testify/assert"
)

func TestInsertAndLookup(t *testing.T) {
	tbl := symtab.New[int]()
	tbl.Insert("x", 5, true)

	sym, ok := tbl.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 5, sym.Value)
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	tbl := symtab.New[string]()
	tbl.Insert("name", "outer", true)

	tbl.PushScope()
	tbl.Insert("name", "inner", true)
	sym, _ := tbl.Lookup("name")
	assert.Equal(t, "inner", sym.Value)

	tbl.PopScope()
	sym, _ = tbl.Lookup("name")
	assert.Equal(t, "outer", sym.Value)
}

func TestLookupMissing(t *testing.T) {
	tbl := symtab.New[int]()
	_, ok := tbl.Lookup("nope")
	assert.False(t, ok)
}

func TestPopRootScopeIsNoOp(t *testing.T) {
	tbl := symtab.New[int]()
	tbl.PopScope()
	assert.Equal(t, 1, tbl.Depth())
}
