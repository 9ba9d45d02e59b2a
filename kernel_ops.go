package asch

import (
	"github.com/go-asch/asch/internal/config"
	"github.com/go-asch/asch/internal/event"
	"github.com/go-asch/asch/internal/router"
	"github.com/go-asch/asch/internal/task"
)

// CreateTask registers t. Rejects silently (returns nil, no state
// change) for a nil handler or zero period. Re-registration of an
// existing handler reprograms its period in place. Signals
// InsufficientResources and latches Error if the table is full
// (spec.md §4.B).
func CreateTask(t Task) error { return kernel.CreateTask(t) }

func (k *Kernel) CreateTask(t Task) error {
	if State(k.state.Load()) == StateError {
		return nil
	}

	var result task.CreateResult
	k.critical(func() {
		result = k.tasks.CreateTask(task.Task{PeriodMs: t.PeriodMs, Handler: t.Handler})
	})

	switch result {
	case task.CreateFull:
		k.mu.Lock()
		defer k.mu.Unlock()
		return k.fail("CreateTask", ErrKindInsufficientResources, "task table full")
	default:
		return nil
	}
}

// DeleteTask removes the task identified by handler. A handler not
// present is a silent no-op (spec.md §4.B).
func DeleteTask(handler func()) { kernel.DeleteTask(handler) }

func (k *Kernel) DeleteTask(handler func()) {
	if State(k.state.Load()) == StateError {
		return
	}
	k.critical(func() {
		k.tasks.DeleteTask(handler)
	})
}

// TaskCount returns the current number of registered tasks.
func TaskCount() uint8 { return kernel.TaskCount() }

func (k *Kernel) TaskCount() uint8 {
	if k.tasks == nil {
		return 0
	}
	return k.tasks.Count()
}

// TaskPeriod returns the period of task id, or 0 if out of range.
func TaskPeriod(id uint8) uint16 { return kernel.TaskPeriod(id) }

func (k *Kernel) TaskPeriod(id uint8) uint16 {
	if k.tasks == nil {
		return 0
	}
	return k.tasks.Period(id)
}

// PushEvent enqueues e. Safe to call from TickHandler as well as the
// foreground (spec.md §9 item 5); signals InsufficientResources and
// latches Error on overflow.
func PushEvent(e Event) error { return kernel.PushEvent(e) }

func (k *Kernel) PushEvent(e Event) error {
	if State(k.state.Load()) == StateError {
		return nil
	}
	if e.Handler == nil {
		return nil
	}

	var ok bool
	k.critical(func() {
		ok = k.events.Push(event.Event{Handler: e.Handler, Payload: e.Payload})
	})
	if ok {
		k.wake()
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	return k.fail("PushEvent", ErrKindInsufficientResources, "event queue full")
}

// RegisterListener adds l to the router's listener table. Silently
// ignored for a nil handler or an exact (type, handler) duplicate.
// Signals InsufficientResources and latches Error if the table is full
// (spec.md §4.E).
func RegisterListener(l Listener) error { return kernel.RegisterListener(l) }

func (k *Kernel) RegisterListener(l Listener) error {
	if State(k.state.Load()) == StateError {
		return nil
	}

	var result router.RegisterResult
	k.critical(func() {
		result = k.router.Register(router.Listener{Type: l.Type, Handler: l.Handler})
	})

	if result == router.RegisterFull {
		k.mu.Lock()
		defer k.mu.Unlock()
		return k.fail("RegisterListener", ErrKindInsufficientResources, "listener table full")
	}
	return nil
}

// UnregisterListener removes l if present; a silent no-op otherwise.
func UnregisterListener(l Listener) { kernel.UnregisterListener(l) }

func (k *Kernel) UnregisterListener(l Listener) {
	if State(k.state.Load()) == StateError {
		return
	}
	k.critical(func() {
		k.router.Unregister(router.Listener{Type: l.Type, Handler: l.Handler})
	})
}

// ListenerCount returns the number of listeners registered for t.
func ListenerCount(t config.MessageType) uint8 { return kernel.ListenerCount(t) }

func (k *Kernel) ListenerCount(t config.MessageType) uint8 {
	if k.router == nil {
		return 0
	}
	return k.router.ListenerCount(t)
}

// Publish enqueues m for fan-out to every listener registered for its
// type, delivered synchronously within the same foreground pass that
// drains it. Safe to call from TickHandler as well as the foreground.
// Signals InsufficientResources and latches Error on overflow
// (spec.md §4.E).
func Publish(m Message) error { return kernel.Publish(m) }

func (k *Kernel) Publish(m Message) error {
	if State(k.state.Load()) == StateError {
		return nil
	}

	var ok bool
	k.critical(func() {
		ok = k.router.Publish(router.Message{Type: m.Type, Payload: m.Payload})
	})
	if ok {
		k.wake()
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	return k.fail("Publish", ErrKindInsufficientResources, "message queue full")
}
