// Package router implements the publish/subscribe message router
// (spec.md §4.E): a bounded listener table keyed by message type, and a
// bounded internal message queue drained identically to, and
// interleaved with, the event queue.
package router

import (
	"reflect"

	"github.com/go-asch/asch/internal/config"
	"github.com/go-asch/asch/internal/ring"
)

// Message is a published (type, payload) pair.
type Message struct {
	Type    config.MessageType
	Payload any
}

// Listener is a registered (type, handler) pair.
type Listener struct {
	Type    config.MessageType
	Handler func(any)
}

func identity(f func(any)) uintptr {
	return reflect.ValueOf(f).Pointer()
}

type entry struct {
	msgType config.MessageType
	handler func(any)
}

// Router owns the listener table and the internal message queue. The
// zero value is not usable; use NewRouter.
type Router struct {
	max       int
	listeners []entry
	queue     *ring.Ring[Message]
}

// NewRouter creates a router with a fixed listener table capacity of
// maxListeners and an internal message queue capacity of queueCapacity
// (spec.md §4.E requires this be at least EVENTS_MAX).
func NewRouter(maxListeners, queueCapacity int) *Router {
	return &Router{
		max:       maxListeners,
		listeners: make([]entry, 0, maxListeners),
		queue:     ring.New[Message](queueCapacity),
	}
}

// RegisterResult reports what Register actually did.
type RegisterResult int

const (
	// RegisterIgnored means the call was silently ignored: nil handler
	// or an identical (type, handler) pair already registered.
	RegisterIgnored RegisterResult = iota
	// RegisterAppended means a new listener slot was used.
	RegisterAppended
	// RegisterFull means the table was already at capacity.
	RegisterFull
)

// Register implements spec.md §4.E's register_listener.
func (r *Router) Register(l Listener) RegisterResult {
	if l.Handler == nil {
		return RegisterIgnored
	}
	id := identity(l.Handler)
	for _, e := range r.listeners {
		if e.msgType == l.Type && identity(e.handler) == id {
			return RegisterIgnored
		}
	}
	if len(r.listeners) >= r.max {
		return RegisterFull
	}
	r.listeners = append(r.listeners, entry{msgType: l.Type, handler: l.Handler})
	return RegisterAppended
}

// Unregister removes the (type, handler) pair if present, shifting
// survivors down by one (spec.md §4.E's unregister_listener).
func (r *Router) Unregister(l Listener) {
	if l.Handler == nil {
		return
	}
	id := identity(l.Handler)
	for i, e := range r.listeners {
		if e.msgType == l.Type && identity(e.handler) == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount counts registered listeners for t.
func (r *Router) ListenerCount(t config.MessageType) uint8 {
	var n uint8
	for _, e := range r.listeners {
		if e.msgType == t {
			n++
		}
	}
	return n
}

// Publish enqueues m onto the internal message queue for later fan-out
// by Drain. Returns false on overflow, the caller's cue to signal
// InsufficientResources and latch Error, mirroring event.Queue.Push.
func (r *Router) Publish(m Message) bool {
	return r.queue.Push(m)
}

// Drain invokes every currently-registered listener for each message
// present in the queue at the moment Drain is called, in registration
// order per message, draining messages in FIFO publish order. Matches
// event.Queue.Drain's "present at entry only" rule so publishes made
// from inside a listener wait for the next foreground pass.
//
// after is invoked once per drained message with the number of
// listeners it was fanned out to (possibly zero), letting the caller
// track whether any work was serviced this pass without re-deriving it
// from queue length.
func (r *Router) Drain(after func(m Message, listenerCalls int)) {
	n := r.queue.Len()
	for i := 0; i < n; i++ {
		m, ok := r.queue.Pop()
		if !ok {
			return
		}
		calls := 0
		for _, e := range r.listeners {
			if e.msgType == m.Type {
				e.handler(m.Payload)
				calls++
			}
		}
		if after != nil {
			after(m, calls)
		}
	}
}

// ListenersForType returns a read-only snapshot of the handlers
// currently registered for t, in registration order. Not part of
// spec.md; exists solely so tests can assert fan-out order without
// racing the live table.
func (r *Router) ListenersForType(t config.MessageType) []func(any) {
	var out []func(any)
	for _, e := range r.listeners {
		if e.msgType == t {
			out = append(out, e.handler)
		}
	}
	return out
}

// Clear removes every listener and queued message, used by Deinit.
func (r *Router) Clear() {
	r.listeners = r.listeners[:0]
	r.queue.Clear()
}
