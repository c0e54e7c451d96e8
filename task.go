package homeboard

import (
	"time"

	"github.com/jpalmerr/homeboard/internal/widgets"
)

// Task names. Each names one widget and the timer that refreshes it.
const (
	TaskClock     = "clock"
	TaskPlayback  = "playback"
	TaskWeather   = "weather"
	TaskCalendar  = "calendar"
	TaskResources = "resources"
	TaskStreams   = "streams"
)

var defaultIntervals = map[string]time.Duration{
	TaskClock:     time.Second,
	TaskResources: 2 * time.Second,
	TaskPlayback:  5 * time.Second,
	TaskStreams:   time.Minute,
	TaskCalendar:  15 * time.Minute,
	TaskWeather:   30 * time.Minute,
}

// TaskNames returns every task name in scheduling order.
func TaskNames() []string {
	return []string{TaskClock, TaskPlayback, TaskWeather, TaskCalendar, TaskResources, TaskStreams}
}

// DefaultInterval returns the built-in refresh interval of a task, or zero
// for an unknown name.
func DefaultInterval(task string) time.Duration {
	return defaultIntervals[task]
}

func knownTask(name string) bool {
	_, ok := defaultIntervals[name]
	return ok
}

// CycleResult holds the outcome of one task cycle.
type CycleResult struct {
	// Task is the name of the task that ran (see [TaskNames]).
	Task string

	// Trigger is what started the cycle: "startup", "timer" or "manual".
	Trigger string

	// StartedAt is when the cycle began.
	StartedAt time.Time

	// Duration is how long the fetch and render took.
	Duration time.Duration

	// Error is nil on success. Failed cycles leave the widget unchanged.
	Error error
}

// Labels holds the user-visible strings rendered by widgets.
type Labels = widgets.Labels

// DefaultLabels returns the built-in English labels.
func DefaultLabels() Labels {
	return widgets.DefaultLabels()
}

// Elements returns the element IDs the dashboard page provides.
func Elements() []string {
	return widgets.Elements()
}
