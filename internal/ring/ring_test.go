package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopOrdering(t *testing.T) {
	r := New[int](3)

	require.True(t, r.Push(1))
	require.True(t, r.Push(2))
	require.True(t, r.Push(3))
	assert.False(t, r.Push(4), "push must fail once capacity is reached")

	for _, want := range []int{1, 2, 3} {
		v, ok := r.Pop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}

	_, ok := r.Pop()
	assert.False(t, ok, "pop on an empty ring must report ok=false")
}

func TestWrapAround(t *testing.T) {
	r := New[int](2)

	r.Push(1)
	r.Push(2)
	v, _ := r.Pop()
	assert.Equal(t, 1, v)

	r.Push(3) // wraps the tail index back to slot 0
	v, _ = r.Pop()
	assert.Equal(t, 2, v)
	v, _ = r.Pop()
	assert.Equal(t, 3, v)
}

func TestLenCapFull(t *testing.T) {
	r := New[string](2)
	assert.Equal(t, 2, r.Cap())
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Full())

	r.Push("a")
	r.Push("b")
	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Full())
}

func TestClear(t *testing.T) {
	r := New[int](4)
	r.Push(1)
	r.Push(2)
	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Push(10))
	v, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestInterleavedPushPop(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	v, _ := r.Pop()
	assert.Equal(t, 1, v)

	r.Push(2)
	r.Push(3)
	assert.True(t, r.Full())

	v, _ = r.Pop()
	assert.Equal(t, 2, v)
	v, _ = r.Pop()
	assert.Equal(t, 3, v)
	assert.Equal(t, 0, r.Len())
}

func TestNewPanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { New[int](-1) })
}
