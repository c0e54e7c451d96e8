package homeboard

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/jpalmerr/homeboard/internal/publish"
	"github.com/jpalmerr/homeboard/internal/source"
)

const (
	minInterval = time.Second
	maxInterval = 24 * time.Hour
)

// hbConfig holds mutable state during HomeBoard construction.
type hbConfig struct {
	title          string
	port           int
	backendURL     string
	requestTimeout time.Duration
	headers        map[string]string
	paths          source.Paths
	intervals      map[string]time.Duration
	disabled       map[string]bool
	maxConcurrency int
	logger         *slog.Logger
	cycleCallbacks []func(CycleResult)

	location       *time.Location
	clockLayout    string
	labels         Labels
	weatherIconURL string
	localResources bool
	gpuWarning     float64
	thumbWidth     int
	thumbHeight    int
	commandRate    rate.Limit
	commandBurst   int
	hiddenElements []string
	mqtt           *publish.Config
}

// Option is a function that configures a [HomeBoard] instance during construction.
//
// Options return an error if validation fails; [New] stops at the first
// failing option.
type Option func(*hbConfig) error

// WithBackendURL sets the origin of the backend serving the dashboard data,
// e.g. "http://localhost:8000". Required unless every backend task is
// disabled.
func WithBackendURL(u string) Option {
	return func(cfg *hbConfig) error {
		if u == "" {
			return errors.New("backend URL cannot be empty")
		}
		cfg.backendURL = u
		return nil
	}
}

// WithInterval overrides the refresh interval of one task.
//
// Returns an error for an unknown task or an interval outside 1s to 24h.
func WithInterval(task string, d time.Duration) Option {
	return func(cfg *hbConfig) error {
		if !knownTask(task) {
			return fmt.Errorf("unknown task %q", task)
		}
		if d < minInterval || d > maxInterval {
			return fmt.Errorf("%s interval must be between %v and %v, got %v", task, minInterval, maxInterval, d)
		}
		cfg.intervals[task] = d
		return nil
	}
}

// WithDisabledTasks turns tasks off. Their elements keep their initial state.
func WithDisabledTasks(tasks ...string) Option {
	return func(cfg *hbConfig) error {
		for _, task := range tasks {
			if !knownTask(task) {
				return fmt.Errorf("unknown task %q", task)
			}
			cfg.disabled[task] = true
		}
		return nil
	}
}

// WithRequestTimeout bounds each backend request. Defaults to 10 seconds.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *hbConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithHeaders adds HTTP headers to every backend request.
//
// Takes alternating key-value pairs, e.g. WithHeaders("Authorization", "Bearer x").
// Returns an error if an odd number of arguments is provided.
func WithHeaders(kv ...string) Option {
	return func(cfg *hbConfig) error {
		if len(kv)%2 != 0 {
			return errors.New("headers must be key-value pairs")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string, len(kv)/2)
		}
		for i := 0; i < len(kv); i += 2 {
			if kv[i] == "" {
				return errors.New("header name cannot be empty")
			}
			cfg.headers[kv[i]] = kv[i+1]
		}
		return nil
	}
}

// WithPath overrides a backend path. Names are "current", "devices",
// "commands", "weather", "calendar", "resources" and "streams".
func WithPath(name, path string) Option {
	return func(cfg *hbConfig) error {
		return cfg.paths.Set(name, path)
	}
}

// WithPort sets the HTTP port for the dashboard server. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *hbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "HomeBoard".
func WithTitle(title string) Option {
	return func(cfg *hbConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *hbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithMaxConcurrency caps the number of task cycles in flight at once.
// Cycles over the cap wait for a slot. Defaults to 16.
func WithMaxConcurrency(n int) Option {
	return func(cfg *hbConfig) error {
		if n <= 0 {
			return errors.New("max concurrency must be positive")
		}
		cfg.maxConcurrency = n
		return nil
	}
}

// WithCycleCallback registers a function to be called after every task
// cycle, in registration order.
//
// Callbacks are invoked synchronously from a single goroutine and must not
// block. Panics are recovered and logged. Nil callbacks are ignored.
func WithCycleCallback(cb func(CycleResult)) Option {
	return func(cfg *hbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.cycleCallbacks = append(cfg.cycleCallbacks, cb)
		return nil
	}
}

// WithLocation sets the time zone for the clock, forecast and calendar.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(cfg *hbConfig) error {
		if loc == nil {
			return errors.New("location cannot be nil")
		}
		cfg.location = loc
		return nil
	}
}

// WithClockLayout sets the Go time layout of the clock. Defaults to "15:04:05".
func WithClockLayout(layout string) Option {
	return func(cfg *hbConfig) error {
		if layout == "" {
			return errors.New("clock layout cannot be empty")
		}
		cfg.clockLayout = layout
		return nil
	}
}

// WithLabels overrides user-visible strings. Empty fields keep their default.
func WithLabels(l Labels) Option {
	return func(cfg *hbConfig) error {
		cfg.labels = l.Merge(cfg.labels)
		return nil
	}
}

// WithWeatherIconURL sets the weather icon URL template. "{icon}" is
// replaced with the icon code.
func WithWeatherIconURL(template string) Option {
	return func(cfg *hbConfig) error {
		if template == "" {
			return errors.New("weather icon URL cannot be empty")
		}
		cfg.weatherIconURL = template
		return nil
	}
}

// WithLocalResources samples CPU and RAM on this host instead of reading
// the backend's resources endpoint. GPU telemetry is reported inactive.
func WithLocalResources() Option {
	return func(cfg *hbConfig) error {
		cfg.localResources = true
		return nil
	}
}

// WithGPUWarningThreshold sets the GPU temperature (°C) at which the GPU bar
// is marked as warning. Defaults to 80.
func WithGPUWarningThreshold(celsius float64) Option {
	return func(cfg *hbConfig) error {
		if celsius <= 0 {
			return errors.New("gpu warning threshold must be positive")
		}
		cfg.gpuWarning = celsius
		return nil
	}
}

// WithThumbnailSize sets the stream avatar size substituted into thumbnail
// templates. Defaults to 160x90.
func WithThumbnailSize(width, height int) Option {
	return func(cfg *hbConfig) error {
		if width <= 0 || height <= 0 {
			return errors.New("thumbnail size must be positive")
		}
		cfg.thumbWidth, cfg.thumbHeight = width, height
		return nil
	}
}

// WithCommandRate limits playback commands to perSecond with the given
// burst. Defaults to 5 per second, burst 10.
func WithCommandRate(perSecond float64, burst int) Option {
	return func(cfg *hbConfig) error {
		if perSecond <= 0 || burst <= 0 {
			return errors.New("command rate and burst must be positive")
		}
		cfg.commandRate = rate.Limit(perSecond)
		cfg.commandBurst = burst
		return nil
	}
}

// WithHiddenElements removes elements from the page model. Widgets skip
// writes to removed elements, for pages that leave some of them out.
func WithHiddenElements(ids ...string) Option {
	return func(cfg *hbConfig) error {
		known := Elements()
		for _, id := range ids {
			if !slices.Contains(known, id) {
				return fmt.Errorf("unknown element %q", id)
			}
		}
		cfg.hiddenElements = append(cfg.hiddenElements, ids...)
		return nil
	}
}

// MQTTConfig configures the optional MQTT mirror.
type MQTTConfig = publish.Config

// WithMQTT mirrors every element update to an MQTT broker.
func WithMQTT(c MQTTConfig) Option {
	return func(cfg *hbConfig) error {
		if c.Broker == "" {
			return errors.New("mqtt broker cannot be empty")
		}
		cfg.mqtt = &c
		return nil
	}
}
