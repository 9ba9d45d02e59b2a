package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushAndDrainInOrder(t *testing.T) {
	q := NewQueue(4)
	var got []int

	require.True(t, q.Push(Event{Handler: func(p any) { got = append(got, p.(int)) }, Payload: 1}))
	require.True(t, q.Push(Event{Handler: func(p any) { got = append(got, p.(int)) }, Payload: 2}))
	require.True(t, q.Push(Event{Handler: func(p any) { got = append(got, p.(int)) }, Payload: 3}))

	q.Drain(func(e Event) { e.Handler(e.Payload) })

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 0, q.Len())
}

func TestPushFailsOnOverflow(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.Push(Event{Handler: func(any) {}}))
	assert.False(t, q.Push(Event{Handler: func(any) {}}), "push must fail once the queue is full")
}

func TestDrainOnlyVisitsEventsPresentAtEntry(t *testing.T) {
	q := NewQueue(4)
	var ran []string

	q.Push(Event{Handler: func(any) {
		ran = append(ran, "first")
		q.Push(Event{Handler: func(any) { ran = append(ran, "late") }})
	}})

	q.Drain(func(e Event) { e.Handler(e.Payload) })
	assert.Equal(t, []string{"first"}, ran, "a push during drain must not be serviced by the same drain")
	assert.Equal(t, 1, q.Len(), "the late push waits for the next pass")

	q.Drain(func(e Event) { e.Handler(e.Payload) })
	assert.Equal(t, []string{"first", "late"}, ran)
}

func TestClearEmptiesQueue(t *testing.T) {
	q := NewQueue(2)
	q.Push(Event{Handler: func(any) {}})
	q.Clear()
	assert.Equal(t, 0, q.Len())
}
