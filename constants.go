package asch

import "github.com/go-asch/asch/internal/constants"

// Re-exported compile-time limits (spec.md §6). A real target defines
// these once and recompiles; here they double as this package's public
// default capacities.
const (
	TasksMax             = constants.TasksMax
	EventsMax            = constants.EventsMax
	ListenersMax         = constants.ListenersMax
	DefaultTickIntervalMs = constants.DefaultTickIntervalMs
)
