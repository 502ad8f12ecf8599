package span_test

import (
	"testing"

	"github.com/gbasic-lang/gbc/span"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	a := span.New(4, 10)
	b := span.New(2, 6)
	assert.Equal(t, span.New(2, 10), a.Merge(b))
	assert.Equal(t, span.New(2, 10), b.Merge(a))
}

func TestDummy(t *testing.T) {
	d := span.Dummy()
	assert.True(t, d.IsEmpty())
	assert.Equal(t, 0, d.Len())
}

func TestSlice(t *testing.T) {
	src := "let x = 5"
	s := span.New(4, 5)
	assert.Equal(t, "x", s.Slice(src))

	oob := span.New(4, 1000)
	assert.Equal(t, "x = 5", oob.Slice(src))
}
