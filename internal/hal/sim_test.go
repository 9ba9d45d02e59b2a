package hal

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimTickSourceFiresInstalledHandler(t *testing.T) {
	tick := NewSimTickSource()
	ic := NewSimInterruptController(tick)

	var fires atomic.Int32
	ic.SetHandler(VectorTick, func() { fires.Add(1) })

	tick.SetInterval(1)
	require.NoError(t, tick.Start())
	defer tick.Stop()

	require.Eventually(t, func() bool {
		return fires.Load() >= 3
	}, time.Second, time.Millisecond)
}

func TestSimTickSourceStartRequiresInterval(t *testing.T) {
	tick := NewSimTickSource()
	err := tick.Start()
	assert.Error(t, err)
	assert.False(t, tick.IsRunning())
}

func TestSimTickSourceStartStopIdempotent(t *testing.T) {
	tick := NewSimTickSource()
	tick.SetInterval(1)

	require.NoError(t, tick.Start())
	require.NoError(t, tick.Start())
	assert.True(t, tick.IsRunning())

	require.NoError(t, tick.Stop())
	require.NoError(t, tick.Stop())
	assert.False(t, tick.IsRunning())
}

func TestSimInterruptControllerEnableDisable(t *testing.T) {
	ic := NewSimInterruptController(nil)
	ic.Enable(VectorTick)
	ic.Disable(VectorTick)
	ic.EnableGlobal()
	ic.DisableGlobal()
}

func TestSimSystemSleepReturns(t *testing.T) {
	sys := NewSimSystem(nil)
	done := make(chan struct{})
	go func() {
		sys.Sleep()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sleep did not return")
	}
}

func TestSimSystemErrorDoesNotPanic(t *testing.T) {
	sys := NewSimSystem(nil)
	sys.Error(InvalidParameters, "boom")
}
