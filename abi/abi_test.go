package abi

import (
	"testing"

	"github.com/gbasic-lang/gbc/ast"
	"github.com/stretchr/testify/assert"
)

func TestLookupKnownMethod(t *testing.T) {
	sig, ok := Lookup(ast.NsIO, "print")
	assert.True(t, ok)
	assert.Equal(t, "runtime_print", sig.Runtime)
	assert.Equal(t, []ParamType{Ptr}, sig.Params)
}

func TestLookupUnknownCombinationFails(t *testing.T) {
	_, ok := Lookup(ast.NsScreen, "nonexistent_method")
	assert.False(t, ok)
}

func TestAllCoversEveryNamespace(t *testing.T) {
	seen := map[ast.Namespace]bool{}
	for _, e := range All() {
		seen[e.Namespace] = true
	}
	for _, ns := range []ast.Namespace{ast.NsScreen, ast.NsSound, ast.NsInput, ast.NsMath, ast.NsSystem, ast.NsMemory, ast.NsIO, ast.NsAsset} {
		assert.True(t, seen[ns], "namespace %s has no ABI entries", ns)
	}
}

func TestIsShortcut(t *testing.T) {
	assert.True(t, IsShortcut("print"))
	assert.True(t, IsShortcut("random"))
	assert.False(t, IsShortcut("notashortcut"))
}

func TestNamedColorsPackRGB(t *testing.T) {
	assert.Equal(t, int64(0xFFFFFF), NamedColors["white"])
	assert.Equal(t, int64(0), NamedColors["black"])
	assert.True(t, IsNamedColor("grey"))
}
