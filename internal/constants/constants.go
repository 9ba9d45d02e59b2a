// Package constants holds the compile-time limits of the scheduler kernel.
//
// These mirror the per-target configuration module spec.md treats as an
// external collaborator (§1, §6): a real MCU build would define these in
// its own config package and recompile. Here they are Go consts; there
// is no run-time override (asch.Config carries no table capacities).
package constants

import "time"

// Table capacities. Kept deliberately small, as on a real MCU build.
const (
	// TasksMax is the maximum number of periodic tasks the static task
	// table can hold.
	TasksMax = 5

	// EventsMax is the capacity of the event queue.
	EventsMax = 10

	// ListenersMax is the maximum number of message listeners the
	// router's static table can hold.
	ListenersMax = 10
)

// DefaultTickIntervalMs is a sensible tick interval for demo/test code.
// Init never substitutes this for a zero Config.TickMs (that is a
// refused, fatal misconfiguration per spec.md §4.F) — it exists only for
// callers that want a default to pass explicitly.
const DefaultTickIntervalMs uint16 = 1

// Timing constants for the simulated tick source (internal/hal). A real
// tick source is a hardware timer with no startup jitter worth naming;
// the simulated one runs on a goroutine and needs a small grace period
// to start ticking after Start, the same role the teacher's
// DeviceStartupDelay played for kernel/udev settle time.
const SimTickSourceStartupDelay = 1 * time.Millisecond
