package asch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshotStartsZero(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot()
	assert.Zero(t, snap.TaskRuns)
	assert.Zero(t, snap.EventsDrained)
	assert.Zero(t, snap.Overflows)
}

func TestMetricsObserverRecordsCounters(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)

	obs.ObserveTaskRun(0)
	obs.ObserveTaskRun(1)
	obs.ObserveEventDrained()
	obs.ObserveMessageDrained(3)
	obs.ObserveOverflow(ErrKindInsufficientResources)
	obs.ObserveSleep()
	obs.ObserveWake()
	obs.ObserveMainLoopPass()

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.TaskRuns)
	assert.EqualValues(t, 1, snap.EventsDrained)
	assert.EqualValues(t, 1, snap.MessagesDrained)
	assert.EqualValues(t, 3, snap.ListenerCalls)
	assert.EqualValues(t, 1, snap.Overflows)
	assert.EqualValues(t, 1, snap.SleepCycles)
	assert.EqualValues(t, 1, snap.WakeCycles)
	assert.EqualValues(t, 1, snap.MainLoopPasses)
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)
	obs.ObserveTaskRun(0)
	obs.ObserveOverflow(ErrKindInsufficientResources)

	m.Reset()

	snap := m.Snapshot()
	assert.Zero(t, snap.TaskRuns)
	assert.Zero(t, snap.Overflows)
}

func TestMultiObserverFansOutToEveryMember(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	obs := multiObserver{NewMetricsObserver(a), NewMetricsObserver(b)}

	obs.ObserveTaskRun(0)
	obs.ObserveEventDrained()
	obs.ObserveMessageDrained(2)
	obs.ObserveOverflow(ErrKindInsufficientResources)
	obs.ObserveSleep()
	obs.ObserveWake()
	obs.ObserveMainLoopPass()

	for _, m := range []*Metrics{a, b} {
		snap := m.Snapshot()
		assert.EqualValues(t, 1, snap.TaskRuns)
		assert.EqualValues(t, 1, snap.EventsDrained)
		assert.EqualValues(t, 1, snap.MessagesDrained)
		assert.EqualValues(t, 2, snap.ListenerCalls)
		assert.EqualValues(t, 1, snap.Overflows)
		assert.EqualValues(t, 1, snap.SleepCycles)
		assert.EqualValues(t, 1, snap.WakeCycles)
		assert.EqualValues(t, 1, snap.MainLoopPasses)
	}
}

func TestNoOpObserverDoesNothing(t *testing.T) {
	var obs Observer = NoOpObserver{}
	assert.NotPanics(t, func() {
		obs.ObserveTaskRun(0)
		obs.ObserveEventDrained()
		obs.ObserveMessageDrained(1)
		obs.ObserveOverflow(ErrKindAssertionFailure)
		obs.ObserveSleep()
		obs.ObserveWake()
		obs.ObserveMainLoopPass()
	})
}
