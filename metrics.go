package asch

import "sync/atomic"

// Metrics tracks scheduler-pass statistics. This is ambient
// observability, not a spec'd feature; it ports the teacher's
// atomic-counter Metrics/Observer pattern, scoped down from I/O
// byte/latency histograms (no meaning for a cooperative scheduler) to
// counts of the events spec.md §8 already cares about.
type Metrics struct {
	TaskRuns        atomic.Uint64 // total task handler invocations
	EventsDrained   atomic.Uint64 // total events drained and dispatched
	MessagesDrained atomic.Uint64 // total published messages drained
	ListenerCalls   atomic.Uint64 // total listener invocations from fan-out
	Overflows       atomic.Uint64 // total InsufficientResources latches
	SleepCycles     atomic.Uint64 // total CPU sleep requests
	WakeCycles      atomic.Uint64 // total CPU wake requests
	MainLoopPasses  atomic.Uint64 // total MainLoop invocations
}

// NewMetrics creates a zeroed metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// MetricsSnapshot is a point-in-time copy of Metrics, safe to read
// without further synchronization.
type MetricsSnapshot struct {
	TaskRuns        uint64
	EventsDrained   uint64
	MessagesDrained uint64
	ListenerCalls   uint64
	Overflows       uint64
	SleepCycles     uint64
	WakeCycles      uint64
	MainLoopPasses  uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TaskRuns:        m.TaskRuns.Load(),
		EventsDrained:   m.EventsDrained.Load(),
		MessagesDrained: m.MessagesDrained.Load(),
		ListenerCalls:   m.ListenerCalls.Load(),
		Overflows:       m.Overflows.Load(),
		SleepCycles:     m.SleepCycles.Load(),
		WakeCycles:      m.WakeCycles.Load(),
		MainLoopPasses:  m.MainLoopPasses.Load(),
	}
}

// Reset zeroes all counters. Exposed mainly for tests.
func (m *Metrics) Reset() {
	m.TaskRuns.Store(0)
	m.EventsDrained.Store(0)
	m.MessagesDrained.Store(0)
	m.ListenerCalls.Store(0)
	m.Overflows.Store(0)
	m.SleepCycles.Store(0)
	m.WakeCycles.Store(0)
	m.MainLoopPasses.Store(0)
}

// Observer allows pluggable collection of scheduler-pass events,
// mirroring the teacher's Observer trait for I/O events.
type Observer interface {
	ObserveTaskRun(id uint8)
	ObserveEventDrained()
	ObserveMessageDrained(listenerCalls int)
	ObserveOverflow(kind ErrorKind)
	ObserveSleep()
	ObserveWake()
	ObserveMainLoopPass()
}

// multiObserver fans out every observation to each of its members, in
// order. Used by Kernel.Init to chain the kernel's own MetricsObserver
// (backing Kernel.Metrics/KernelMetrics) with whatever Observer the
// caller supplied in Config, so supplying an Observer never silently
// disables the kernel's own counters.
type multiObserver []Observer

func (m multiObserver) ObserveTaskRun(id uint8) {
	for _, o := range m {
		o.ObserveTaskRun(id)
	}
}

func (m multiObserver) ObserveEventDrained() {
	for _, o := range m {
		o.ObserveEventDrained()
	}
}

func (m multiObserver) ObserveMessageDrained(listenerCalls int) {
	for _, o := range m {
		o.ObserveMessageDrained(listenerCalls)
	}
}

func (m multiObserver) ObserveOverflow(kind ErrorKind) {
	for _, o := range m {
		o.ObserveOverflow(kind)
	}
}

func (m multiObserver) ObserveSleep() {
	for _, o := range m {
		o.ObserveSleep()
	}
}

func (m multiObserver) ObserveWake() {
	for _, o := range m {
		o.ObserveWake()
	}
}

func (m multiObserver) ObserveMainLoopPass() {
	for _, o := range m {
		o.ObserveMainLoopPass()
	}
}

var _ Observer = multiObserver(nil)

// NoOpObserver discards every observation.
type NoOpObserver struct{}

func (NoOpObserver) ObserveTaskRun(uint8)                {}
func (NoOpObserver) ObserveEventDrained()                {}
func (NoOpObserver) ObserveMessageDrained(int)           {}
func (NoOpObserver) ObserveOverflow(ErrorKind)           {}
func (NoOpObserver) ObserveSleep()                       {}
func (NoOpObserver) ObserveWake()                        {}
func (NoOpObserver) ObserveMainLoopPass()                {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveTaskRun(uint8) {
	o.metrics.TaskRuns.Add(1)
}

func (o *MetricsObserver) ObserveEventDrained() {
	o.metrics.EventsDrained.Add(1)
}

func (o *MetricsObserver) ObserveMessageDrained(listenerCalls int) {
	o.metrics.MessagesDrained.Add(1)
	o.metrics.ListenerCalls.Add(uint64(listenerCalls))
}

func (o *MetricsObserver) ObserveOverflow(kind ErrorKind) {
	if kind == ErrKindInsufficientResources {
		o.metrics.Overflows.Add(1)
	}
}

func (o *MetricsObserver) ObserveSleep() {
	o.metrics.SleepCycles.Add(1)
}

func (o *MetricsObserver) ObserveWake() {
	o.metrics.WakeCycles.Add(1)
}

func (o *MetricsObserver) ObserveMainLoopPass() {
	o.metrics.MainLoopPasses.Add(1)
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
