package homeboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jpalmerr/homeboard/dashboard"
	"github.com/jpalmerr/homeboard/internal/poller"
	"github.com/jpalmerr/homeboard/internal/publish"
	"github.com/jpalmerr/homeboard/internal/server"
	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/store"
	"github.com/jpalmerr/homeboard/internal/widgets"
)

const (
	defaultPort           = 8080
	defaultMaxConcurrency = 16
	defaultCommandRate    = 5
	defaultCommandBurst   = 10

	// commandRefreshDelay gives the backend time to apply a command before
	// playback is read again.
	commandRefreshDelay = 500 * time.Millisecond
)

// HomeBoard is the main orchestrator: it schedules the widget tasks, keeps
// the element store and serves the dashboard.
//
// The typical lifecycle is:
//
//	hb, err := homeboard.New(homeboard.WithBackendURL("http://localhost:8000"))
//	if err != nil {
//	    slog.Error("failed to create homeboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	hb.Start(ctx) // blocks until context cancelled
type HomeBoard struct {
	cfg    hbConfig
	logger *slog.Logger
}

// New creates a new [HomeBoard] instance with the given options.
//
// Defaults:
//   - Intervals: clock 1s, resources 2s, playback 5s, streams 60s,
//     calendar 15m, weather 30m
//   - Port: 8080
//   - Max concurrency: 16
//   - Request timeout: 10s
//   - Command rate: 5/s, burst 10
//
// Returns an error if an option is invalid, if every task is disabled, or
// if an enabled task needs the backend and no backend URL is set.
func New(opts ...Option) (*HomeBoard, error) {
	cfg := hbConfig{
		port:           defaultPort,
		paths:          source.DefaultPaths(),
		intervals:      maps.Clone(defaultIntervals),
		disabled:       map[string]bool{},
		maxConcurrency: defaultMaxConcurrency,
		labels:         widgets.DefaultLabels(),
		commandRate:    defaultCommandRate,
		commandBurst:   defaultCommandBurst,
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.enabledTasks()) == 0 {
		return nil, errors.New("at least one task must be enabled")
	}
	if cfg.backendURL == "" {
		if needs := cfg.backendTasks(); len(needs) > 0 {
			return nil, fmt.Errorf("backend URL is required for tasks %v", needs)
		}
	} else {
		c, err := source.NewClient(cfg.sourceConfig())
		if err != nil {
			return nil, err
		}
		c.Close()
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HomeBoard{cfg: cfg, logger: logger}, nil
}

func (c *hbConfig) enabledTasks() []string {
	var tasks []string
	for _, name := range TaskNames() {
		if !c.disabled[name] {
			tasks = append(tasks, name)
		}
	}
	return tasks
}

// backendTasks returns the enabled tasks that read from the backend.
func (c *hbConfig) backendTasks() []string {
	var tasks []string
	for _, name := range c.enabledTasks() {
		switch {
		case name == TaskClock:
		case name == TaskResources && c.localResources:
		default:
			tasks = append(tasks, name)
		}
	}
	return tasks
}

func (c *hbConfig) sourceConfig() source.Config {
	return source.Config{
		BaseURL: c.backendURL,
		Timeout: c.requestTimeout,
		Headers: maps.Clone(c.headers),
		Paths:   c.paths,
	}
}

// Start begins running the widget tasks and serving the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// Every enabled task runs once immediately, then on its own interval. The
// dashboard is available at http://localhost:<port>.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server
// fails to start or the MQTT broker cannot be reached.
func (hb *HomeBoard) Start(ctx context.Context) error {
	hb.logger.Info("homeboard starting", "tasks", hb.cfg.enabledTasks())
	hb.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", hb.cfg.port))

	if ctx.Err() != nil {
		return nil
	}

	elements := store.NewMemoryStore(hb.elements()...)

	var backend *source.Client
	if hb.cfg.backendURL != "" {
		c, err := source.NewClient(hb.cfg.sourceConfig())
		if err != nil {
			return err
		}
		defer c.Close()
		backend = c
	}

	scheduler, err := poller.NewScheduler(hb.tasks(elements, backend), hb.cfg.maxConcurrency, hb.logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	var pub *publish.Publisher
	if hb.cfg.mqtt != nil {
		pub, err = publish.Connect(*hb.cfg.mqtt, hb.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to mqtt: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// track background goroutines to ensure clean shutdown
	var wg sync.WaitGroup
	if pub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pub.Run(runCtx, elements)
		}()
	}

	scheduler.Start(runCtx)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range scheduler.Results() {
			hb.handleResult(result)
		}
	}()

	// cleanup stops the scheduler, drains results and closes the mirror
	cleanup := func() {
		scheduler.Stop()
		cancel()
		wg.Wait()
		pub.Close()
	}

	httpServer := server.NewServer(elements, hb.cfg.port, dashboard.Assets, hb.cfg.title, hb.logger)
	if backend != nil && !hb.cfg.disabled[TaskPlayback] {
		limiter := rate.NewLimiter(hb.cfg.commandRate, hb.cfg.commandBurst)
		httpServer.EnableCommands(backend, limiter, func() {
			scheduler.Trigger(TaskPlayback, commandRefreshDelay)
		})
	}
	if err := httpServer.Start(runCtx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	hb.logger.Info("homeboard stopped")
	return nil
}

// elements returns the page's element IDs minus the hidden ones.
func (hb *HomeBoard) elements() []string {
	return slices.DeleteFunc(Elements(), func(id string) bool {
		return slices.Contains(hb.cfg.hiddenElements, id)
	})
}

// tasks builds one scheduler task per enabled widget.
func (hb *HomeBoard) tasks(r store.Store, backend *source.Client) []poller.Task {
	cfg := hb.cfg
	var tasks []poller.Task

	add := func(name string, run func(context.Context) error) {
		if cfg.disabled[name] {
			return
		}
		tasks = append(tasks, poller.Task{Name: name, Interval: cfg.intervals[name], Run: run})
	}

	add(TaskClock, widgets.NewClock(r, cfg.clockLayout, cfg.location, hb.logger).Cycle)

	if backend != nil {
		add(TaskPlayback, widgets.NewPlayback(r, backend, cfg.labels, hb.logger).Cycle)

		weather := widgets.WeatherFormat{IconURL: cfg.weatherIconURL, Location: cfg.location}
		add(TaskWeather, widgets.NewWeather(r, backend, weather, hb.logger).Cycle)

		calendar := widgets.CalendarFormat{Location: cfg.location}
		add(TaskCalendar, widgets.NewCalendar(r, backend, cfg.labels, calendar, hb.logger).Cycle)

		add(TaskStreams, widgets.NewStreams(r, backend, cfg.labels, cfg.thumbWidth, cfg.thumbHeight, hb.logger).Cycle)
	}

	var resources widgets.ResourceSource
	switch {
	case cfg.localResources:
		resources = source.NewLocalResources()
	case backend != nil:
		resources = backend
	}
	if resources != nil {
		add(TaskResources, widgets.NewResources(r, resources, cfg.gpuWarning, hb.logger).Cycle)
	}

	return tasks
}

// handleResult logs a cycle and fans it out to the callbacks.
func (hb *HomeBoard) handleResult(r poller.CycleResult) {
	logAttrs := []any{
		"task", r.Task,
		"trigger", r.Trigger,
		"duration_ms", r.Duration.Milliseconds(),
	}
	if r.Error != nil {
		hb.logger.Warn("cycle failed", append(logAttrs, "error", r.Error.Error())...)
	} else {
		hb.logger.Debug("cycle completed", logAttrs...)
	}

	if len(hb.cfg.cycleCallbacks) == 0 {
		return
	}
	result := CycleResult{
		Task:      r.Task,
		Trigger:   r.Trigger,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
		Error:     r.Error,
	}
	for _, cb := range hb.cfg.cycleCallbacks {
		invokeCallbackSafe(cb, result, hb.logger)
	}
}

// Port returns the configured HTTP port for the dashboard server.
func (hb *HomeBoard) Port() int {
	return hb.cfg.port
}

// Tasks returns the enabled task names in scheduling order.
func (hb *HomeBoard) Tasks() []string {
	return hb.cfg.enabledTasks()
}

// Interval returns the refresh interval of a task, or zero for an unknown
// name.
func (hb *HomeBoard) Interval(task string) time.Duration {
	return hb.cfg.intervals[task]
}

// invokeCallbackSafe calls a cycle callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(CycleResult), result CycleResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("cycle callback panicked",
				"panic", r,
				"task", result.Task,
			)
		}
	}()
	cb(result)
}
