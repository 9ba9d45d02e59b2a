// Command aschdemo drives the scheduler kernel against a simulated HAL:
// a real-time ticking source, a couple of periodic tasks, an event push
// triggered from a signal handler, and a couple of message listeners.
// It stands in for the power-on init sequence spec.md calls out of
// scope (clock bring-up has no meaning off real hardware).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"github.com/go-asch/asch"
	"github.com/go-asch/asch/internal/config"
	"github.com/go-asch/asch/internal/hal"
	"github.com/go-asch/asch/internal/logging"
)

func main() {
	var (
		tickMs  = flag.Uint("tick-ms", 10, "Simulated tick interval in milliseconds")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	tick := hal.NewSimTickSource()
	observer := asch.NewMetricsObserver(asch.NewMetrics())

	logger.Info("initializing scheduler", "tick_ms", *tickMs)
	if err := asch.Init(asch.Config{
		TickMs:     uint16(*tickMs),
		TickSource: tick,
		Interrupts: hal.NewSimInterruptController(tick),
		System:     hal.NewSimSystem(logger),
		Observer:   observer,
		Logger:     logger,
	}); err != nil {
		logger.Error("failed to initialize scheduler", "error", err)
		os.Exit(1)
	}
	defer asch.Deinit()

	registerDemoWork(logger)

	if err := asch.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	fmt.Println("scheduler running, press Ctrl+C to stop")
	fmt.Printf("send SIGUSR1 (kill -USR1 %d) to push a demo event\n", os.Getpid())

	stopCh := make(chan struct{})
	go runForeground(stopCh)

	eventCh := make(chan os.Signal, 1)
	signal.Notify(eventCh, syscall.SIGUSR1)
	go func() {
		n := 0
		for range eventCh {
			n++
			payload := n
			err := asch.PushEvent(asch.Event{
				Handler: func(p any) {
					logger.Info("demo event handled", "payload", p)
				},
				Payload: payload,
			})
			if err != nil {
				logger.Error("failed to push demo event", "error", err)
			}
		}
	}()

	stackCh := make(chan os.Signal, 1)
	signal.Notify(stackCh, syscall.SIGQUIT)
	go func() {
		for range stackCh {
			buf := make([]byte, 1<<20)
			n := runtime.Stack(buf, true)
			fmt.Fprintf(os.Stderr, "=== GOROUTINE STACK DUMP ===\n%s\n", buf[:n])
			pprof.Lookup("goroutine").WriteTo(os.Stderr, 2)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")
	close(stopCh)

	if err := asch.Stop(); err != nil {
		logger.Error("error stopping scheduler", "error", err)
	}

	snap := asch.KernelMetrics()
	logger.Info("final metrics",
		"task_runs", snap.TaskRuns,
		"events_drained", snap.EventsDrained,
		"messages_drained", snap.MessagesDrained,
		"overflows", snap.Overflows,
		"sleep_cycles", snap.SleepCycles,
		"wake_cycles", snap.WakeCycles,
	)
}

// runForeground is the demo's foreground loop: the same role a real
// target's main() would play after power-on, repeatedly calling
// MainLoop until asked to stop.
func runForeground(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
			asch.MainLoop()
		}
	}
}

// registerDemoWork wires a couple of periodic tasks and message
// listeners, exercising CreateTask/RegisterListener/Publish end to end.
func registerDemoWork(logger *logging.Logger) {
	sampleCount := 0
	_ = asch.CreateTask(asch.Task{
		PeriodMs: 100,
		Handler: func() {
			sampleCount++
			_ = asch.Publish(asch.Message{
				Type:    config.MessageTypeSensorReading,
				Payload: sampleCount,
			})
		},
	})

	_ = asch.CreateTask(asch.Task{
		PeriodMs: 1000,
		Handler: func() {
			logger.Debug("heartbeat", "sample_count", sampleCount)
		},
	})

	_ = asch.RegisterListener(asch.Listener{
		Type: config.MessageTypeSensorReading,
		Handler: func(p any) {
			logger.Debug("sensor reading published", "value", p)
		},
	})

	_ = asch.RegisterListener(asch.Listener{
		Type: config.MessageTypeFault,
		Handler: func(p any) {
			logger.Warn("fault reported", "detail", p)
		},
	})
}
