// stack_test.go - test-cases for our generic stack

package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	s := New[string]()
	assert.True(t, s.Empty())

	s.Push("33")
	assert.False(t, s.Empty())
}

func TestEmptyPop(t *testing.T) {
	s := New[string]()

	_, err := s.Pop()
	assert.Error(t, err)
}

func TestPushPop(t *testing.T) {
	s := New[string]()
	s.Push("33")

	out, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, "33", out)
}

func TestPeekDoesNotRemove(t *testing.T) {
	s := New[int]()
	s.Push(1)
	s.Push(2)

	top, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, 2, top)
	assert.False(t, s.Empty())
}

type loopTarget struct {
	Cond string
	Exit string
}

func TestGenericStructPayload(t *testing.T) {
	s := New[loopTarget]()
	s.Push(loopTarget{Cond: "cond.0", Exit: "exit.0"})

	top, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, "cond.0", top.Cond)
}
