package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test looking up every keyword succeeds, and that an unrecognised
// identifier falls back to IDENT.
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		assert.Equal(t, val, LookupIdentifier(key), "lookup of %s", key)
	}

	assert.Equal(t, IDENT, LookupIdentifier("monster_count"))
}

func TestIsNamespace(t *testing.T) {
	assert.True(t, IsNamespace(SCREEN))
	assert.True(t, IsNamespace(ASSET))
	assert.False(t, IsNamespace(LET))
	assert.False(t, IsNamespace(IDENT))
}
