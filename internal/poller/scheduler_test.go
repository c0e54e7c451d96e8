package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noop(context.Context) error { return nil }

func mustScheduler(t *testing.T, tasks []Task, maxConcurrency int) *Scheduler {
	t.Helper()
	s, err := NewScheduler(tasks, maxConcurrency, testLogger())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s
}

// drain consumes results in the background until the channel closes.
func drain(s *Scheduler) {
	go func() {
		for range s.Results() {
		}
	}()
}

func TestNewScheduler_Validation(t *testing.T) {
	tests := []struct {
		name    string
		tasks   []Task
		conc    int
		wantErr string
	}{
		{"zero concurrency", []Task{{Name: "a", Interval: time.Second, Run: noop}}, 0, "max concurrency"},
		{"empty name", []Task{{Interval: time.Second, Run: noop}}, 1, "name cannot be empty"},
		{"duplicate", []Task{{Name: "a", Interval: time.Second, Run: noop}, {Name: "a", Interval: time.Second, Run: noop}}, 1, "duplicate task name"},
		{"zero interval", []Task{{Name: "a", Run: noop}}, 1, "interval must be positive"},
		{"nil run", []Task{{Name: "a", Interval: time.Second}}, 1, "run function is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduler(tt.tasks, tt.conc, testLogger())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewScheduler() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestScheduler_StopBeforeStart verifies that calling Stop() on a scheduler
// that was never started does not panic and closes the results channel.
func TestScheduler_StopBeforeStart(t *testing.T) {
	s := mustScheduler(t, []Task{{Name: "a", Interval: time.Minute, Run: noop}}, 1)
	s.Stop()

	if _, ok := <-s.Results(); ok {
		t.Error("expected results channel to be closed")
	}

	// Start after Stop is a no-op
	s.Start(context.Background())
}

// TestScheduler_StopTwice verifies that Stop() is idempotent.
func TestScheduler_StopTwice(t *testing.T) {
	s := mustScheduler(t, []Task{{Name: "a", Interval: time.Minute, Run: noop}}, 1)
	drain(s)
	s.Start(context.Background())

	s.Stop()
	s.Stop()
}

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	s := mustScheduler(t, []Task{
		{Name: "weather", Interval: time.Hour, Run: noop},
		{Name: "calendar", Interval: time.Hour, Run: noop},
	}, 2)
	s.Start(context.Background())
	defer s.Stop()

	seen := map[string]string{}
	timeout := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case r := <-s.Results():
			seen[r.Task] = r.Trigger
		case <-timeout:
			t.Fatalf("only saw %v before timeout", seen)
		}
	}

	for name, trigger := range seen {
		if trigger != TriggerStartup {
			t.Errorf("task %s trigger = %q, want %q", name, trigger, TriggerStartup)
		}
	}
}

// TestScheduler_IndependentIntervals verifies that each task keeps its own
// timer: a fast task runs many times while a slow task runs only at startup.
func TestScheduler_IndependentIntervals(t *testing.T) {
	var fast, slow atomic.Int32
	s := mustScheduler(t, []Task{
		{Name: "clock", Interval: 20 * time.Millisecond, Run: func(context.Context) error { fast.Add(1); return nil }},
		{Name: "weather", Interval: time.Hour, Run: func(context.Context) error { slow.Add(1); return nil }},
	}, 4)
	drain(s)
	s.Start(context.Background())

	time.Sleep(150 * time.Millisecond)
	s.Stop()

	if fast.Load() < 4 {
		t.Errorf("fast task ran %d times, want at least 4", fast.Load())
	}
	if slow.Load() != 1 {
		t.Errorf("slow task ran %d times, want 1", slow.Load())
	}
}

// TestScheduler_OverlappingCyclesRunConcurrently verifies there is no
// per-task backpressure: a tick that fires while a cycle is in flight
// starts another cycle.
func TestScheduler_OverlappingCyclesRunConcurrently(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	release := make(chan struct{})

	s := mustScheduler(t, []Task{{
		Name:     "playback",
		Interval: 20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		},
	}}, 8)
	drain(s)
	s.Start(context.Background())

	time.Sleep(100 * time.Millisecond)
	close(release)
	s.Stop()

	if maxInFlight.Load() < 2 {
		t.Errorf("max in-flight cycles = %d, want at least 2", maxInFlight.Load())
	}
}

func TestScheduler_MaxConcurrencyCapsInFlight(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32

	run := func(ctx context.Context) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			cur := maxInFlight.Load()
			if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		return nil
	}

	tasks := []Task{
		{Name: "a", Interval: 10 * time.Millisecond, Run: run},
		{Name: "b", Interval: 10 * time.Millisecond, Run: run},
		{Name: "c", Interval: 10 * time.Millisecond, Run: run},
	}
	s := mustScheduler(t, tasks, 2)
	drain(s)
	s.Start(context.Background())

	time.Sleep(120 * time.Millisecond)
	s.Stop()

	if maxInFlight.Load() > 2 {
		t.Errorf("max in-flight cycles = %d, want at most 2", maxInFlight.Load())
	}
}

func TestScheduler_ErrorIsReported(t *testing.T) {
	boom := errors.New("backend unreachable")
	s := mustScheduler(t, []Task{{Name: "weather", Interval: time.Hour, Run: func(context.Context) error { return boom }}}, 1)
	s.Start(context.Background())
	defer s.Stop()

	select {
	case r := <-s.Results():
		if !errors.Is(r.Error, boom) {
			t.Errorf("Error = %v, want %v", r.Error, boom)
		}
	case <-time.After(time.Second):
		t.Fatal("no result received")
	}
}

// TestScheduler_PanicRecovery verifies that a panicking task is converted to
// an error carrying a correlation ID and keeps being scheduled.
func TestScheduler_PanicRecovery(t *testing.T) {
	var calls atomic.Int32
	s := mustScheduler(t, []Task{{
		Name:     "streams",
		Interval: 20 * time.Millisecond,
		Run: func(context.Context) error {
			calls.Add(1)
			panic("nil map")
		},
	}}, 1)
	s.Start(context.Background())
	defer s.Stop()

	select {
	case r := <-s.Results():
		if r.Error == nil || !strings.Contains(r.Error.Error(), "correlation_id") {
			t.Errorf("Error = %v, want panic error with correlation_id", r.Error)
		}
	case <-time.After(time.Second):
		t.Fatal("no result received")
	}

	time.Sleep(60 * time.Millisecond)
	if calls.Load() < 2 {
		t.Errorf("task ran %d times after panic, want it rescheduled", calls.Load())
	}
}

func TestScheduler_Trigger(t *testing.T) {
	s := mustScheduler(t, []Task{{Name: "playback", Interval: time.Hour, Run: noop}}, 1)

	if s.Trigger("playback", 0) {
		t.Error("Trigger() before Start = true, want false")
	}

	s.Start(context.Background())
	defer s.Stop()

	// consume the startup run
	<-s.Results()

	if s.Trigger("unknown", 0) {
		t.Error("Trigger(unknown) = true, want false")
	}
	if !s.Trigger("playback", 20*time.Millisecond) {
		t.Fatal("Trigger(playback) = false, want true")
	}

	select {
	case r := <-s.Results():
		if r.Trigger != TriggerManual {
			t.Errorf("Trigger = %q, want %q", r.Trigger, TriggerManual)
		}
	case <-time.After(time.Second):
		t.Fatal("triggered run did not happen")
	}
}

func TestScheduler_TriggerAfterStop(t *testing.T) {
	s := mustScheduler(t, []Task{{Name: "playback", Interval: time.Hour, Run: noop}}, 1)
	drain(s)
	s.Start(context.Background())
	s.Stop()

	if s.Trigger("playback", 0) {
		t.Error("Trigger() after Stop = true, want false")
	}
}

// TestScheduler_StopCancelsInFlight verifies that Stop cancels the context
// handed to running cycles and waits for them.
func TestScheduler_StopCancelsInFlight(t *testing.T) {
	var cancelled atomic.Bool
	started := make(chan struct{})
	var once sync.Once

	s := mustScheduler(t, []Task{{
		Name:     "calendar",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			once.Do(func() { close(started) })
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	}}, 1)
	drain(s)
	s.Start(context.Background())

	<-started
	s.Stop()

	if !cancelled.Load() {
		t.Error("in-flight cycle was not cancelled by Stop")
	}
}

// TestScheduler_ConcurrentStartStop verifies that calling Start() and Stop()
// concurrently does not cause a race condition or panic.
func TestScheduler_ConcurrentStartStop(t *testing.T) {
	tasks := []Task{{Name: "a", Interval: time.Minute, Run: noop}}

	for i := 0; i < 100; i++ {
		s := mustScheduler(t, tasks, 1)

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			s.Start(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = s.Trigger("a", 0)
		}()
		go func() {
			defer wg.Done()
			s.Stop()
		}()
		wg.Wait()

		// Stop may have run before Start; make sure everything is torn down
		s.Stop()
		for range s.Results() {
		}
	}
}

func TestScheduler_ParentContextCancel(t *testing.T) {
	var calls atomic.Int32
	s := mustScheduler(t, []Task{{Name: "clock", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
		calls.Add(1)
		return nil
	}}}, 1)
	drain(s)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(40 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != after {
		t.Errorf("task kept running after parent cancel: %d -> %d", after, calls.Load())
	}
	s.Stop()
}
