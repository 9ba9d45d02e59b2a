package asch

import (
	"github.com/go-asch/asch/internal/event"
	"github.com/go-asch/asch/internal/router"
)

// wake sets the wake flag and requests a CPU wake, guaranteeing the
// foreground observes new work before re-sleeping (spec.md §4.D, §4.F).
// Any successful push (ISR or foreground) calls this right after the
// critical section that guarded the push itself has been left.
func (k *Kernel) wake() {
	k.wakeFlag.Store(true)
	if k.hal.System != nil {
		k.hal.System.WakeUp()
	}
	if k.hal.Observer != nil {
		k.hal.Observer.ObserveWake()
	}
}

// TickHandler is installed into the HAL interrupt vector table by
// Init. It is the only kernel method meant to run in interrupt
// context: it advances the tick accumulator and, if any task became
// pending, wakes the foreground (spec.md §4.C).
func TickHandler() { kernel.TickHandler() }

func (k *Kernel) TickHandler() {
	if State(k.state.Load()) == StateError {
		return
	}
	if k.tasks.Tick(k.tickMs) {
		k.wake()
	}
}

// MainLoop runs one foreground pass (spec.md §4.F):
//  1. Drain the event queue and the message router to completion of
//     what was present at loop entry.
//  2. Run every pending task in ID order, clearing pending under a
//     critical section immediately before invoking its handler.
//  3. If nothing was serviced and the wake flag is clear, request CPU
//     sleep; otherwise return so the caller re-enters immediately.
func MainLoop() { kernel.MainLoop() }

func (k *Kernel) MainLoop() {
	if State(k.state.Load()) != StateRunning {
		return
	}
	if k.hal.Observer != nil {
		k.hal.Observer.ObserveMainLoopPass()
	}

	serviced := false

	k.events.Drain(func(e event.Event) {
		serviced = true
		if k.hal.Observer != nil {
			k.hal.Observer.ObserveEventDrained()
		}
		e.Handler(e.Payload)
	})

	k.router.Drain(func(m router.Message, listenerCalls int) {
		serviced = true
		if k.hal.Observer != nil {
			k.hal.Observer.ObserveMessageDrained(listenerCalls)
		}
	})

	count := k.tasks.Count()
	for id := uint8(0); id < count; id++ {
		if !k.tasks.ConsumePending(id) {
			continue
		}
		serviced = true
		if k.hal.Observer != nil {
			k.hal.Observer.ObserveTaskRun(id)
		}
		k.tasks.RunTask(id)
	}

	// The wake flag is cleared exactly once per pass, under the same
	// critical section an ISR would use to set it. If it was found set
	// here, a wake was requested (by this pass's own drains, or by an
	// ISR/foreground push racing the moment between "queues found
	// empty" and "about to sleep") — either way this pass must not
	// sleep, closing the race spec.md §4.F/§5 describes.
	k.critical(func() {
		if k.wakeFlag.Load() {
			serviced = true
		}
		k.wakeFlag.Store(false)
	})

	if serviced {
		return
	}

	if k.hal.Observer != nil {
		k.hal.Observer.ObserveSleep()
	}
	if k.hal.System != nil {
		k.hal.System.Sleep()
	}
}
