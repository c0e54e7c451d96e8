package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Trigger values reported in [CycleResult].
const (
	TriggerStartup = "startup"
	TriggerTimer   = "timer"
	TriggerManual  = "manual"
)

// Task is a named unit of work run on its own repeating timer.
type Task struct {
	// Name identifies the task in results and logs. Names must be unique.
	Name string

	// Interval is the time between timer-driven runs. Must be positive.
	Interval time.Duration

	// Run performs one cycle. A returned error is reported in the cycle's
	// result; it never stops the task.
	Run func(ctx context.Context) error
}

// CycleResult holds the outcome of one task execution.
type CycleResult struct {
	// Task is the name of the task that ran.
	Task string

	// Trigger is what started the cycle: startup, timer or manual.
	Trigger string

	// StartedAt is when the cycle began executing.
	StartedAt time.Time

	// Duration is how long the cycle took.
	Duration time.Duration

	// Error is the error returned by the task, or a panic converted to an
	// error carrying a correlation ID.
	Error error
}

// Scheduler runs each task on its own timer.
//
// Every task runs once immediately on [Scheduler.Start] and then each time
// its ticker fires. Cycles of the same task are not serialized: if a tick
// fires while the previous cycle is still in flight, both run. A global
// in-flight cap bounds goroutines; cycles over the cap wait for a slot.
//
// All lifecycle methods (Start, Stop, Trigger) are safe for concurrent use.
type Scheduler struct {
	tasks   []Task
	byName  map[string]Task
	slots   chan struct{}
	results chan CycleResult
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewScheduler creates a new [Scheduler].
//
// Parameters:
//   - tasks: Tasks to run; names must be unique and intervals positive
//   - maxConcurrency: Maximum number of cycles executing at once
//   - logger: Logger for scheduler events (panic recovery, etc.)
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop]. Results are available via [Scheduler.Results].
func NewScheduler(tasks []Task, maxConcurrency int, logger *slog.Logger) (*Scheduler, error) {
	if maxConcurrency <= 0 {
		return nil, errors.New("max concurrency must be positive")
	}

	byName := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		if t.Name == "" {
			return nil, errors.New("task name cannot be empty")
		}
		if _, dup := byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate task name: %q", t.Name)
		}
		if t.Interval <= 0 {
			return nil, fmt.Errorf("task %q: interval must be positive", t.Name)
		}
		if t.Run == nil {
			return nil, fmt.Errorf("task %q: run function is required", t.Name)
		}
		byName[t.Name] = t
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		tasks:   tasks,
		byName:  byName,
		slots:   make(chan struct{}, maxConcurrency),
		results: make(chan CycleResult, 2*len(tasks)+1),
		logger:  logger,
	}, nil
}

// Results returns a receive-only channel that emits [CycleResult] values.
//
// The channel is closed by [Scheduler.Stop]. Consumers should read from this
// channel until it is closed.
func (s *Scheduler) Results() <-chan CycleResult {
	return s.results
}

// Start launches one timer goroutine per task and runs every task once.
//
// Start is non-blocking. If ctx is nil, context.Background() is used.
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(s.ctx, t)
	}
}

// Stop cancels all timers and in-flight cycles and waits for them to exit.
//
// The results channel is closed once every goroutine has finished. Stop is
// idempotent and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.closeOnce.Do(func() { close(s.results) })
}

// Trigger schedules an out-of-band run of the named task after delay.
//
// Trigger returns false if the task is unknown or the scheduler is not
// running. The regular timer of the task is unaffected.
func (s *Scheduler) Trigger(name string, delay time.Duration) bool {
	t, ok := s.byName[name]
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return false
	}

	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.execute(ctx, t, TriggerManual)
		}
	}()
	return true
}

// loop runs t immediately and then on every tick until ctx is cancelled.
func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	s.spawn(ctx, t, TriggerStartup)

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.spawn(ctx, t, TriggerTimer)
		}
	}
}

// spawn starts one cycle in its own goroutine. Callers must themselves be
// tracked by s.wg so the Add cannot race with Stop's Wait.
func (s *Scheduler) spawn(ctx context.Context, t Task, trigger string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(ctx, t, trigger)
	}()
}

// execute waits for a concurrency slot, runs one cycle and emits its result.
func (s *Scheduler) execute(ctx context.Context, t Task, trigger string) {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}
	result := s.runCycle(ctx, t, trigger)
	<-s.slots

	select {
	case s.results <- result:
	case <-ctx.Done():
	}
}

// runCycle runs t.Run with panic recovery.
func (s *Scheduler) runCycle(ctx context.Context, t Task, trigger string) CycleResult {
	start := time.Now()
	err := s.safeRun(ctx, t)
	return CycleResult{
		Task:      t.Name,
		Trigger:   trigger,
		StartedAt: start,
		Duration:  time.Since(start),
		Error:     err,
	}
}

// safeRun calls the task with panic recovery.
// If the task panics, it logs the full stack trace with a correlation ID
// and returns an error containing the ID.
func (s *Scheduler) safeRun(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()

			s.logger.Error("task panic",
				"task", t.Name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)

			err = fmt.Errorf("task panic (correlation_id: %s)", correlationID)
		}
	}()
	return t.Run(ctx)
}
