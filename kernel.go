// Package asch implements a minimal cooperative task and event
// scheduler kernel for a single-core microcontroller, sitting above an
// abstract hardware layer (internal/hal) that exposes a periodic tick
// source, interrupt control, and a low-power sleep primitive.
//
// The kernel coordinates three bounded, statically-sized resources —
// the task table (internal/task), the event queue (internal/event),
// and the message router (internal/router) — between an interrupt
// context that drives time and a foreground context that runs work.
package asch

import (
	"sync"
	"sync/atomic"

	"github.com/go-asch/asch/internal/config"
	"github.com/go-asch/asch/internal/constants"
	"github.com/go-asch/asch/internal/event"
	"github.com/go-asch/asch/internal/hal"
	"github.com/go-asch/asch/internal/logging"
	"github.com/go-asch/asch/internal/router"
	"github.com/go-asch/asch/internal/task"
)

// State is the scheduler's top-level state machine (spec.md §4.F).
type State int32

const (
	// StateIdle is the power-on state and the state reached after
	// Deinit. Init is the only way out.
	StateIdle State = iota
	// StateRunning is the normal operating state.
	StateRunning
	// StateStopped is reached via Stop; Start returns to Running.
	StateStopped
	// StateError is sticky: only Deinit escapes it.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Task is a periodic foreground callable (spec.md §3). Identity is the
// handler's function pointer; see internal/task's identity() doc for
// the reflect.Value.Pointer() mechanism and its caveats.
type Task struct {
	PeriodMs uint16
	Handler  func()
}

// Event is a one-shot foreground callback with an opaque payload
// (spec.md §3, §4.D).
type Event struct {
	Handler func(any)
	Payload any
}

// Listener is a (message type, handler) registration for the router
// (spec.md §3, §4.E).
type Listener struct {
	Type    config.MessageType
	Handler func(any)
}

// Message is a published (type, payload) pair (spec.md §3, §4.E).
type Message struct {
	Type    config.MessageType
	Payload any
}

// Config configures Init. TickMs must be > 0 or Init refuses and
// latches Error. Table capacities are fixed at compile time via
// internal/constants and are not part of Config: spec.md §9 item 3
// resolves "one set of limits" rather than a per-Init override.
type Config struct {
	TickMs       uint16
	TickSource   hal.TickSource
	Interrupts   hal.InterruptController
	System       hal.System
	Observer     Observer
	Logger       *logging.Logger
}

// Kernel is the scheduler kernel. It is a process-wide singleton
// (spec.md §5's "process-wide singletons" resource policy): exactly one
// exists per program, reached through the package-level wrapper
// functions below, mirroring the teacher's pattern of package-level
// entry points (CreateAndServe/StopAndDelete) bound to one underlying
// instance — here there is exactly one because a single-core MCU has
// exactly one tick interrupt.
type Kernel struct {
	mu sync.Mutex

	state   atomic.Int32
	tickMs  uint16

	tasks    *task.Table
	events   *event.Queue
	router   *router.Router
	wakeFlag atomic.Bool

	hal      Config // TickSource/Interrupts/System/Observer/Logger, bound at Init
	metrics  *Metrics
}

var kernel = &Kernel{}

func init() {
	kernel.state.Store(int32(StateIdle))
}

// Init transitions Idle -> Running. Refuses (-> Error) if tickMs == 0
// or the kernel is not Idle (spec.md §4.F).
func Init(cfg Config) error {
	return kernel.Init(cfg)
}

func (k *Kernel) Init(cfg Config) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if State(k.state.Load()) != StateIdle {
		return k.fail("Init", ErrKindAccessNotPermitted, "Init called outside Idle state")
	}
	if cfg.TickMs == 0 {
		return k.fail("Init", ErrKindInvalidParameters, "TickMs must be > 0")
	}
	if cfg.TickSource == nil || cfg.Interrupts == nil || cfg.System == nil {
		return k.fail("Init", ErrKindInvalidParameters, "TickSource, Interrupts, and System are required")
	}

	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	k.tickMs = cfg.TickMs
	k.tasks = task.NewTable(constants.TasksMax)
	k.events = event.NewQueue(constants.EventsMax)
	k.router = router.NewRouter(constants.ListenersMax, constants.EventsMax)
	k.metrics = NewMetrics()
	k.wakeFlag.Store(false)

	// The kernel's own Metrics always records alongside whatever
	// Observer the caller supplied, so Kernel.Metrics()/KernelMetrics()
	// stays populated regardless of Config.Observer (nil or not).
	internalObserver := NewMetricsObserver(k.metrics)
	if cfg.Observer == nil {
		cfg.Observer = internalObserver
	} else {
		cfg.Observer = multiObserver{internalObserver, cfg.Observer}
	}

	k.hal = cfg

	k.hal.Interrupts.SetHandler(hal.VectorTick, TickHandler)
	k.hal.TickSource.SetInterval(cfg.TickMs)

	k.state.Store(int32(StateRunning))
	k.hal.Logger.Info("scheduler initialized", "tick_ms", cfg.TickMs)
	return nil
}

// Deinit returns the kernel to Idle from any state, clearing all
// tables and status. The only way out of StateError (spec.md §4.F).
func Deinit() { kernel.Deinit() }

func (k *Kernel) Deinit() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.tasks != nil {
		k.tasks.Clear()
	}
	if k.events != nil {
		k.events.Clear()
	}
	if k.router != nil {
		k.router.Clear()
	}
	k.wakeFlag.Store(false)

	if k.hal.TickSource != nil {
		_ = k.hal.TickSource.Stop()
	}
	if k.hal.Interrupts != nil {
		k.hal.Interrupts.Disable(hal.VectorTick)
	}

	k.state.Store(int32(StateIdle))
}

// Start enables the tick interrupt and starts the tick source.
// Idempotent once the tick source is running.
func Start() error { return kernel.Start() }

func (k *Kernel) Start() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch State(k.state.Load()) {
	case StateRunning:
		// Init leaves the kernel Running with the tick source not yet
		// started; only a source that is already ticking makes this a no-op.
		if k.hal.TickSource.IsRunning() {
			return nil
		}
		k.hal.Interrupts.Enable(hal.VectorTick)
		if err := k.hal.TickSource.Start(); err != nil {
			return k.fail("Start", ErrKindAssertionFailure, err.Error())
		}
		return nil
	case StateStopped:
		k.hal.Interrupts.Enable(hal.VectorTick)
		if err := k.hal.TickSource.Start(); err != nil {
			return k.fail("Start", ErrKindAssertionFailure, err.Error())
		}
		k.state.Store(int32(StateRunning))
		return nil
	default:
		return k.fail("Start", ErrKindAccessNotPermitted, "Start called outside Running/Stopped state")
	}
}

// Stop stops the tick source and disables the tick interrupt.
// Idempotent if already Stopped.
func Stop() error { return kernel.Stop() }

func (k *Kernel) Stop() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch State(k.state.Load()) {
	case StateStopped:
		return nil
	case StateRunning:
		if err := k.hal.TickSource.Stop(); err != nil {
			return k.fail("Stop", ErrKindAssertionFailure, err.Error())
		}
		k.hal.Interrupts.Disable(hal.VectorTick)
		k.state.Store(int32(StateStopped))
		return nil
	default:
		return k.fail("Stop", ErrKindAccessNotPermitted, "Stop called outside Running/Stopped state")
	}
}

// Status returns the current scheduler state. A plain atomic load, no
// lock: spec.md §5 requires this be word-atomic and unprotected on the
// read side.
func Status() State { return kernel.Status() }

func (k *Kernel) Status() State {
	return State(k.state.Load())
}

// KernelMetrics returns a snapshot of scheduler-pass counters. Ambient
// observability, not a spec'd operation.
func KernelMetrics() MetricsSnapshot { return kernel.Metrics() }

// Metrics returns a snapshot of scheduler-pass counters.
func (k *Kernel) Metrics() MetricsSnapshot {
	k.mu.Lock()
	m := k.metrics
	k.mu.Unlock()
	if m == nil {
		return MetricsSnapshot{}
	}
	return m.Snapshot()
}

// fail latches Error and returns the structured error. The System
// error callback and the observer/logger are invoked only on the
// transition into Error, never again on a later call that finds the
// kernel already latched — spec.md §7's "reported exactly once" rule.
// Must be called with k.mu held.
func (k *Kernel) fail(op string, kind ErrorKind, msg string) error {
	alreadyError := State(k.state.Load()) == StateError
	k.state.Store(int32(StateError))

	if !alreadyError {
		if k.hal.Observer != nil {
			k.hal.Observer.ObserveOverflow(kind)
		}
		if k.hal.System != nil {
			k.hal.System.Error(kind, msg)
		}
		if k.hal.Logger != nil {
			k.hal.Logger.Error(op+" failed", "kind", kind.String(), "msg", msg)
		}
	}
	return NewError(op, kind, msg)
}

// critical runs fn inside the HAL's global-interrupt critical section,
// additionally serialized host-side (internal/hal.CriticalSerialized):
// configuration mutators are callable "from any context" per spec.md
// §4.F, which on real single-core hardware needs only DisableGlobal but
// in this goroutine-based simulation needs the extra host mutex too.
func (k *Kernel) critical(fn func()) {
	hal.CriticalSerialized(k.hal.Interrupts, fn)
}
