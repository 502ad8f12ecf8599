package gbtypes_test

import (
	"testing"

	"github.com/gbasic-lang/gbc/gbtypes"
	"github.com/stretchr/testify/assert"
)

func TestCompatibleWith(t *testing.T) {
	assert.True(t, gbtypes.TInt.CompatibleWith(gbtypes.TInt))
	assert.False(t, gbtypes.TInt.CompatibleWith(gbtypes.TFloat))
	assert.True(t, gbtypes.TUnknown.CompatibleWith(gbtypes.TString))
	assert.True(t, gbtypes.TBool.CompatibleWith(gbtypes.TUnknown))
}

func TestArrayEquality(t *testing.T) {
	a := gbtypes.NewArray(gbtypes.TInt)
	b := gbtypes.NewArray(gbtypes.TInt)
	c := gbtypes.NewArray(gbtypes.TString)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestFunctionEquality(t *testing.T) {
	f1 := gbtypes.NewFunction([]gbtypes.Type{gbtypes.TInt}, gbtypes.TInt)
	f2 := gbtypes.NewFunction([]gbtypes.Type{gbtypes.TInt}, gbtypes.TInt)
	f3 := gbtypes.NewFunction([]gbtypes.Type{gbtypes.TFloat}, gbtypes.TInt)
	assert.True(t, f1.Equal(f2))
	assert.False(t, f1.Equal(f3))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, gbtypes.TInt.IsNumeric())
	assert.True(t, gbtypes.TFloat.IsNumeric())
	assert.False(t, gbtypes.TString.IsNumeric())
}
