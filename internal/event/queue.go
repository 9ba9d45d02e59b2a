// Package event implements the interrupt-to-foreground event queue
// (spec.md §4.D): a bounded FIFO of (handler, payload) pairs that any
// context may push into, and that only the foreground drains.
package event

import "github.com/go-asch/asch/internal/ring"

// Event pairs a foreground-invoked handler with an opaque payload. The
// kernel never inspects Payload; it is owned entirely by the pusher and
// the handler, matching spec.md §3's ownership rule (the `*const u8`
// the spec describes becomes `any` since Go has no reason to erase the
// type the way a C API does).
type Event struct {
	Handler func(any)
	Payload any
}

// Queue is the bounded event FIFO. The zero value is not usable; use
// NewQueue.
type Queue struct {
	ring *ring.Ring[Event]
}

// NewQueue creates a queue with a fixed capacity of capacity events.
func NewQueue(capacity int) *Queue {
	return &Queue{ring: ring.New[Event](capacity)}
}

// Push enqueues e. Returns false if the queue is already at capacity,
// the caller's cue to signal InsufficientResources and latch Error
// (spec.md §4.D) — Queue itself has no notion of the scheduler's error
// state, so that latching happens one layer up, in the kernel.
func (q *Queue) Push(e Event) bool {
	return q.ring.Push(e)
}

// Drain invokes fn once for every event present in the queue at the
// moment Drain is called, in FIFO order, then returns. Events pushed by
// a handler invoked during this Drain are not visited by this call —
// Len is captured up front, so they wait for the next foreground pass
// (spec.md §4.D's "cannot starve the task runner" rule).
func (q *Queue) Drain(fn func(Event)) {
	n := q.ring.Len()
	for i := 0; i < n; i++ {
		e, ok := q.ring.Pop()
		if !ok {
			return
		}
		fn(e)
	}
}

// Len reports the current queue occupancy.
func (q *Queue) Len() int {
	return q.ring.Len()
}

// Clear empties the queue, used by Deinit.
func (q *Queue) Clear() {
	q.ring.Clear()
}
