package asch

import (
	"sync"

	"github.com/go-asch/asch/internal/hal"
)

// FakeTickSource is a manually-driven hal.TickSource for tests: it
// never fires on its own wall-clock time, letting tests call Fire to
// simulate interrupts deterministically. Mirrors the teacher's
// MockBackend pattern of call-count tracking for assertions.
type FakeTickSource struct {
	mu        sync.Mutex
	intervals []uint16
	running   bool
	startCalls int
	stopCalls  int
	handler    func()
}

// NewFakeTickSource creates an idle fake tick source.
func NewFakeTickSource() *FakeTickSource {
	return &FakeTickSource{}
}

func (f *FakeTickSource) SetInterval(ms uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intervals = append(f.intervals, ms)
}

func (f *FakeTickSource) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	f.running = true
	return nil
}

func (f *FakeTickSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.running = false
	return nil
}

func (f *FakeTickSource) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// StartCalls reports how many times Start was invoked.
func (f *FakeTickSource) StartCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls
}

// StopCalls reports how many times Stop was invoked.
func (f *FakeTickSource) StopCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalls
}

// LastInterval reports the most recently configured interval, or 0 if
// SetInterval was never called.
func (f *FakeTickSource) LastInterval() uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.intervals) == 0 {
		return 0
	}
	return f.intervals[len(f.intervals)-1]
}

// setHandler records the handler FakeInterruptController installed, so
// a test can drive Fire() without reaching into the kernel directly.
func (f *FakeTickSource) setHandler(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = fn
}

// Fire invokes the installed tick handler once, as if the hardware
// timer had just ticked. No-op if no handler is installed yet.
func (f *FakeTickSource) Fire() {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h != nil {
		h()
	}
}

// FakeInterruptController is a hal.InterruptController backed by plain
// in-process state, with no actual interrupt masking: DisableGlobal and
// EnableGlobal only adjust an internal nesting counter, which is not
// exported.
type FakeInterruptController struct {
	mu           sync.Mutex
	handlers     map[hal.Vector]func()
	enabled      map[hal.Vector]bool
	globalOff    int
	tick         *FakeTickSource
}

// NewFakeInterruptController creates a controller with no vectors
// enabled. If tick is non-nil, SetHandler(hal.VectorTick, ...) also
// registers the handler with it so tests can call tick.Fire().
func NewFakeInterruptController(tick *FakeTickSource) *FakeInterruptController {
	return &FakeInterruptController{
		handlers: make(map[hal.Vector]func()),
		enabled:  make(map[hal.Vector]bool),
		tick:     tick,
	}
}

func (f *FakeInterruptController) SetHandler(v hal.Vector, fn func()) {
	f.mu.Lock()
	f.handlers[v] = fn
	f.mu.Unlock()
	if v == hal.VectorTick && f.tick != nil {
		f.tick.setHandler(fn)
	}
}

func (f *FakeInterruptController) Enable(v hal.Vector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[v] = true
}

func (f *FakeInterruptController) Disable(v hal.Vector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[v] = false
}

func (f *FakeInterruptController) EnableGlobal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalOff--
}

func (f *FakeInterruptController) DisableGlobal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.globalOff++
}

// IsVectorEnabled reports whether v has been enabled (and not since
// disabled).
func (f *FakeInterruptController) IsVectorEnabled(v hal.Vector) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled[v]
}

// FakeSystem is a hal.System that records sleep/wake/reset/error calls
// instead of touching real hardware.
type FakeSystem struct {
	mu         sync.Mutex
	sleepCalls int
	wakeCalls  int
	resetCalls int
	lastErrKind ErrorKind
	lastErrMsg  string
	errCalls   int
}

// NewFakeSystem creates a fake system control surface.
func NewFakeSystem() *FakeSystem {
	return &FakeSystem{}
}

func (f *FakeSystem) Sleep() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleepCalls++
}

func (f *FakeSystem) WakeUp() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wakeCalls++
}

func (f *FakeSystem) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetCalls++
}

func (f *FakeSystem) Error(kind hal.ErrorKind, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errCalls++
	f.lastErrKind = kind
	f.lastErrMsg = msg
}

// SleepCalls reports how many times Sleep was invoked.
func (f *FakeSystem) SleepCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sleepCalls
}

// WakeCalls reports how many times WakeUp was invoked.
func (f *FakeSystem) WakeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wakeCalls
}

// ErrorCalls reports how many times Error was invoked.
func (f *FakeSystem) ErrorCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errCalls
}

// LastError reports the most recently reported kind and message.
func (f *FakeSystem) LastError() (ErrorKind, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErrKind, f.lastErrMsg
}

// FakeHAL bundles a complete fake hardware abstraction layer for
// driving the kernel under test, mirroring the teacher's MockBackend:
// one object a test can construct, pass to Init, and then poke
// directly to simulate interrupts and observe kernel-driven calls.
type FakeHAL struct {
	Tick *FakeTickSource
	IC   *FakeInterruptController
	Sys  *FakeSystem
}

// NewFakeHAL composes a fresh fake tick source, interrupt controller,
// and system, wired to each other so FireTick behaves like a real
// tick-ISR-to-kernel path.
func NewFakeHAL() *FakeHAL {
	tick := NewFakeTickSource()
	return &FakeHAL{
		Tick: tick,
		IC:   NewFakeInterruptController(tick),
		Sys:  NewFakeSystem(),
	}
}

// FireTick simulates one hardware tick interrupt.
func (h *FakeHAL) FireTick() {
	h.Tick.Fire()
}

var (
	_ hal.TickSource           = (*FakeTickSource)(nil)
	_ hal.InterruptController  = (*FakeInterruptController)(nil)
	_ hal.System               = (*FakeSystem)(nil)
)
