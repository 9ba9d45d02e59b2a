// Package task implements the static task table (spec.md §4.B) and the
// tick accumulator that drives it from interrupt context (spec.md §4.C).
//
// Both live in one package because they share the same backing arrays:
// the table owns task identity and period, the tick accumulator owns
// per-task countdown and the pending flag, and spec.md §4.C is explicit
// that a task deletion must shift both in lockstep.
package task

import (
	"reflect"
	"sync"
)

// Task is an immutable (for its lifetime in the table) period + nullary
// handler pair. Identity is the handler's function pointer, the same
// role a C function pointer plays in the source this was ported from —
// see identity() below for the one piece of reflection this requires.
type Task struct {
	PeriodMs uint16
	Handler  func()
}

// status is the interrupt-owned runtime record for a task (spec.md
// §3's TaskStatus). msRemaining is written only by Tick or by
// CreateTask under the table's lock, never concurrently by both — the
// lock is this package's critical section, standing in for the
// hardware disable_global/enable_global bracket the kernel applies
// around CreateTask/DeleteTask.
type status struct {
	msRemaining uint16
	pending     bool
}

// Table is the static, pre-sized task table. The zero value is not
// usable; use NewTable.
type Table struct {
	mu      sync.Mutex
	max     int
	tasks   []Task
	statuse []status // parallel to tasks, shifted in lockstep with it
}

// NewTable creates a table with a fixed capacity of max tasks.
func NewTable(max int) *Table {
	return &Table{
		max:     max,
		tasks:   make([]Task, 0, max),
		statuse: make([]status, 0, max),
	}
}

// identity returns the comparable identity of a handler. Go has no
// built-in equality for func values; reflect.Value.Pointer is the
// standard workaround and is exact for named/top-level functions and
// method values bound to the same receiver. It is NOT exact for two
// distinct closures created from the same function literal (they share
// one code pointer, so they compare equal even if their captured
// variables differ; distinct literals always get distinct pointers)
// nor for repeated conversions of the same bound method
// value (each conversion can yield a fresh pointer on some
// implementations) — callers that need stable re-registration semantics
// should pass the same top-level function or a single stored closure,
// which is the expected usage on a real target where "handler" is a
// single compiled function anyway.
func identity(f func()) uintptr {
	return reflect.ValueOf(f).Pointer()
}

func (t *Table) indexOfLocked(h func()) int {
	if h == nil {
		return -1
	}
	id := identity(h)
	for i, tk := range t.tasks {
		if identity(tk.Handler) == id {
			return i
		}
	}
	return -1
}

// CreateResult reports what CreateTask actually did, since the spec
// distinguishes "appended new" from "re-programmed existing" (both
// return success, neither is an error).
type CreateResult int

const (
	// CreateRejected means the call was silently ignored: nil handler
	// or zero period. Not an error (spec.md §4.B).
	CreateRejected CreateResult = iota
	// CreateAppended means a new task slot was used.
	CreateAppended
	// CreateUpdated means an existing task with the same handler had
	// its period reprogrammed in place.
	CreateUpdated
	// CreateFull means the table was already at capacity and had no
	// existing entry for this handler to update; caller must latch
	// InsufficientResources.
	CreateFull
)

// CreateTask implements spec.md §4.B's create_task. Re-registration of
// an existing handler reprograms its period in place (resets
// msRemaining, clears pending); task_count is unaffected either way for
// that path. A new handler is appended if room remains, else the table
// signals CreateFull.
func (t *Table) CreateTask(task Task) CreateResult {
	if task.Handler == nil || task.PeriodMs == 0 {
		return CreateRejected
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if i := t.indexOfLocked(task.Handler); i >= 0 {
		t.tasks[i].PeriodMs = task.PeriodMs
		t.statuse[i].msRemaining = task.PeriodMs
		t.statuse[i].pending = false
		return CreateUpdated
	}

	if len(t.tasks) >= t.max {
		return CreateFull
	}

	t.tasks = append(t.tasks, task)
	t.statuse = append(t.statuse, status{msRemaining: task.PeriodMs})
	return CreateAppended
}

// DeleteTask removes the task identified by handler, shift-compacting
// both the task and status slices so survivors keep their relative
// order. A handler not present is a silent no-op (spec.md §4.B).
func (t *Table) DeleteTask(handler func()) {
	if handler == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOfLocked(handler)
	if i < 0 {
		return
	}
	t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
	t.statuse = append(t.statuse[:i], t.statuse[i+1:]...)
}

// Count returns the current number of tasks (spec.md's task_count()).
func (t *Table) Count() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint8(len(t.tasks))
}

// Period returns the period of task id, or 0 if id is out of range —
// spec.md's "callers use 0 as invalid" contract for task_period.
func (t *Table) Period(id uint8) uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.tasks) {
		return 0
	}
	return t.tasks[id].PeriodMs
}

// ConsumePending clears the pending flag for task id if it was set,
// reporting whether it was. This is the only state transition the
// foreground performs on TaskStatus, and it happens under the table's
// lock to close the same race Tick's own lock closes on the ISR side
// (spec.md §4.F's "atomically clear pending under a critical section").
func (t *Table) ConsumePending(id uint8) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.statuse) {
		return false
	}
	if !t.statuse[id].pending {
		return false
	}
	t.statuse[id].pending = false
	return true
}

// RunTask invokes the handler for id if in range and non-nil; otherwise
// a no-op (spec.md §4.B's run_task).
func (t *Table) RunTask(id uint8) {
	t.mu.Lock()
	h := (func())(nil)
	if int(id) < len(t.tasks) {
		h = t.tasks[id].Handler
	}
	t.mu.Unlock()

	if h != nil {
		h()
	}
}

// Clear removes every task and status entry, used by Deinit.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks = t.tasks[:0]
	t.statuse = t.statuse[:0]
}
