package hal

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-asch/asch/internal/constants"
	"github.com/go-asch/asch/internal/logging"
)

// SimTickSource is a time.Ticker-backed TickSource for running the
// kernel off real wall-clock time without real MCU timer hardware —
// used by cmd/aschdemo. Explicitly a simulation, not a driver, the same
// role the teacher's queue.NewStubRunner plays for the io_uring queue
// in tests: a stand-in, never a production path.
type SimTickSource struct {
	mu       sync.Mutex
	interval uint16
	handler  func()
	ticker   *time.Ticker
	stopCh   chan struct{}
	running  bool
}

// NewSimTickSource creates a stopped simulated tick source.
func NewSimTickSource() *SimTickSource {
	return &SimTickSource{}
}

// setHandler installs the tick vector handler. Called by
// SimInterruptController.SetHandler(VectorTick, ...) rather than
// exposed directly: the simulated source owns the goroutine that
// actually invokes it, but callers configure it through the same
// InterruptController.SetHandler path a real target would use.
func (s *SimTickSource) setHandler(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = fn
}

// SetInterval configures the tick period in milliseconds. Takes effect
// the next time Start is called.
func (s *SimTickSource) SetInterval(ms uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = ms
}

var errSimIntervalUnset = errors.New("hal: SimTickSource interval must be set before Start")

// Start begins a goroutine firing the installed handler every
// configured interval, after a small startup delay standing in for the
// settle time a real timer peripheral needs after being unmasked.
func (s *SimTickSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	if s.interval == 0 {
		return errSimIntervalUnset
	}

	s.ticker = time.NewTicker(time.Duration(s.interval) * time.Millisecond)
	s.stopCh = make(chan struct{})
	s.running = true

	ticker := s.ticker
	stopCh := s.stopCh
	go func() {
		time.Sleep(constants.SimTickSourceStartupDelay)
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.mu.Lock()
				fn := s.handler
				s.mu.Unlock()
				if fn != nil {
					fn()
				}
			}
		}
	}()
	return nil
}

// Stop halts the ticking goroutine. Idempotent.
func (s *SimTickSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.ticker.Stop()
	close(s.stopCh)
	s.running = false
	return nil
}

// IsRunning reports whether the simulated source is currently ticking.
func (s *SimTickSource) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

var _ TickSource = (*SimTickSource)(nil)

// SimInterruptController is a goroutine-safe InterruptController for
// cmd/aschdemo: vector enable state is plain bookkeeping, and the
// global-interrupt gate methods are no-ops; mutual exclusion comes from
// the host-side mutex in CriticalSerialized, which kernel.go's
// critical() goes through.
type SimInterruptController struct {
	mu       sync.Mutex
	enabled  map[Vector]bool
	tick     *SimTickSource
}

// NewSimInterruptController creates a controller wired to tick so that
// SetHandler(VectorTick, ...) also installs the handler on the ticking
// goroutine.
func NewSimInterruptController(tick *SimTickSource) *SimInterruptController {
	return &SimInterruptController{
		enabled: make(map[Vector]bool),
		tick:    tick,
	}
}

func (c *SimInterruptController) SetHandler(v Vector, fn func()) {
	if v == VectorTick && c.tick != nil {
		c.tick.setHandler(fn)
	}
}

func (c *SimInterruptController) Enable(v Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled[v] = true
}

func (c *SimInterruptController) Disable(v Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled[v] = false
}

// EnableGlobal and DisableGlobal bracket the critical section; see
// CriticalSerialized, which additionally enforces this host-side since
// goroutines (standing in for independent foreground callers) aren't
// naturally excluded by DisableGlobal the way a single MCU core is.
func (c *SimInterruptController) EnableGlobal() {}
func (c *SimInterruptController) DisableGlobal() {}

var _ InterruptController = (*SimInterruptController)(nil)

// SimSystem is a System for cmd/aschdemo: Sleep blocks briefly (a WFI
// instruction's visible effect, without a real low-power mode to enter),
// WakeUp is a no-op signal the blocked Sleep doesn't need to observe
// (the foreground loop simply re-checks on its next iteration), and
// Error/Reset log through internal/logging instead of touching hardware.
type SimSystem struct {
	logger *logging.Logger
}

// NewSimSystem creates a System that logs through logger, or the
// package default logger if logger is nil.
func NewSimSystem(logger *logging.Logger) *SimSystem {
	if logger == nil {
		logger = logging.Default()
	}
	return &SimSystem{logger: logger}
}

// Sleep stands in for a WFI instruction: a short real sleep, since a
// demo program has no interrupt to block on indefinitely.
func (s *SimSystem) Sleep() {
	time.Sleep(constants.SimTickSourceStartupDelay)
}

// WakeUp is a no-op: Sleep here is time-bounded, not interrupt-bounded,
// so there is nothing to interrupt.
func (s *SimSystem) WakeUp() {}

// Reset logs the request and exits the process, the demo's stand-in
// for an MCU reset vector.
func (s *SimSystem) Reset() {
	s.logger.Warn("system reset requested")
	fmt.Fprintln(os.Stderr, "asch: reset requested, exiting")
	os.Exit(1)
}

// Error logs the latched failure. The kernel guarantees this is called
// at most once per latch (spec.md §7).
func (s *SimSystem) Error(kind ErrorKind, msg string) {
	s.logger.Error("scheduler latched error", "kind", kind.String(), "msg", msg)
}

var _ System = (*SimSystem)(nil)
