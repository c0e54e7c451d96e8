// Package config provides YAML configuration parsing for HomeBoard.
//
// This package enables running HomeBoard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Living Room
//	port: 8080
//	location: Asia/Tokyo
//
//	backend:
//	  url: ${BACKEND_URL:-http://localhost:8000}
//	  timeout: 10s
//
//	tasks:
//	  weather:
//	    interval: 10m
//	  streams:
//	    disabled: true
//
//	resources:
//	  source: local
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve without system tzdata

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/homeboard"
)

const (
	minInterval = time.Second
	maxInterval = 24 * time.Hour

	// ResourcesBackend reads resource usage from the backend.
	ResourcesBackend = "backend"

	// ResourcesLocal samples the host running HomeBoard.
	ResourcesLocal = "local"
)

// Config is the root configuration structure for HomeBoard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "HomeBoard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level"`

	// Backend locates the data backend.
	Backend BackendConfig `yaml:"backend"`

	// MaxConcurrency caps the task cycles in flight. Defaults to 16.
	MaxConcurrency int `yaml:"max_concurrency"`

	// Location is an IANA zone name for the clock, forecast and calendar.
	// Empty uses the host's local zone.
	Location string `yaml:"location"`

	// ClockFormat is a Go time layout. Defaults to "15:04:05".
	ClockFormat string `yaml:"clock_format"`

	// HiddenElements lists element IDs absent from the page.
	HiddenElements []string `yaml:"hidden_elements"`

	// Labels overrides user-visible strings.
	Labels LabelsConfig `yaml:"labels"`

	// Tasks holds per-task settings keyed by task name.
	Tasks map[string]TaskConfig `yaml:"tasks"`

	Resources ResourcesConfig `yaml:"resources"`
	Weather   WeatherConfig   `yaml:"weather"`
	Streams   StreamsConfig   `yaml:"streams"`
	Commands  CommandsConfig  `yaml:"commands"`

	// MQTT enables the MQTT mirror when Broker is set.
	MQTT MQTTConfig `yaml:"mqtt"`
}

// BackendConfig locates the data backend.
type BackendConfig struct {
	// URL is the backend origin. Supports ${VAR} and ${VAR:-default}.
	URL string `yaml:"url"`

	// Timeout bounds each request. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are sent with every request. Values support env expansion.
	Headers map[string]string `yaml:"headers"`

	// Paths overrides endpoint paths by name (current, devices, commands,
	// weather, calendar, resources, streams).
	Paths map[string]string `yaml:"paths"`
}

// TaskConfig overrides one task's schedule.
type TaskConfig struct {
	// Interval must be between 1s and 24h when set.
	Interval Duration `yaml:"interval"`
	Disabled bool     `yaml:"disabled"`
}

// LabelsConfig overrides user-visible strings. Empty fields keep defaults.
type LabelsConfig struct {
	Stopped   string `yaml:"stopped"`
	NoDevice  string `yaml:"no_device"`
	AllDay    string `yaml:"all_day"`
	NoEvents  string `yaml:"no_events"`
	NoStreams string `yaml:"no_streams"`
	PlayIcon  string `yaml:"play_icon"`
	PauseIcon string `yaml:"pause_icon"`
	Viewers   string `yaml:"viewers"`
}

// ResourcesConfig configures the resources task.
type ResourcesConfig struct {
	// Source is "backend" (default) or "local".
	Source string `yaml:"source"`

	// GPUWarning is the GPU temperature (°C) that marks the bar. Defaults to 80.
	GPUWarning float64 `yaml:"gpu_warning"`
}

// WeatherConfig configures the weather task.
type WeatherConfig struct {
	// IconURL is a template with an {icon} placeholder.
	IconURL string `yaml:"icon_url"`
}

// StreamsConfig configures the streams task.
type StreamsConfig struct {
	ThumbnailWidth  int `yaml:"thumbnail_width"`
	ThumbnailHeight int `yaml:"thumbnail_height"`
}

// CommandsConfig throttles playback commands.
type CommandsConfig struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

// MQTTConfig configures the MQTT mirror.
type MQTTConfig struct {
	Broker      string   `yaml:"broker"`
	ClientID    string   `yaml:"client_id"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	TopicPrefix string   `yaml:"topic_prefix"`
	Timeout     Duration `yaml:"timeout"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// A .env file next to the config is loaded first; variables already set in
// the environment win. Environment variables in the file are then expanded
// during parsing.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in the backend URL, header values and
// MQTT credentials. Defaults are applied for Port (8080) and LogLevel (info).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Resources.Source == "" {
		cfg.Resources.Source = ResourcesBackend
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if err := c.expandBackend(); err != nil {
		return err
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency cannot be negative, got %d", c.MaxConcurrency)
	}

	if c.Location != "" {
		if _, err := time.LoadLocation(c.Location); err != nil {
			return fmt.Errorf("location: %w", err)
		}
	}

	known := homeboard.Elements()
	for i, id := range c.HiddenElements {
		if !slices.Contains(known, id) {
			return fmt.Errorf("hidden_elements[%d]: unknown element %q", i, id)
		}
	}

	for name, task := range c.Tasks {
		if homeboard.DefaultInterval(name) == 0 {
			return fmt.Errorf("tasks.%s: unknown task (expected one of %s)", name, strings.Join(homeboard.TaskNames(), ", "))
		}
		if task.Interval != 0 {
			d := task.Interval.Duration()
			if d < minInterval || d > maxInterval {
				return fmt.Errorf("tasks.%s.interval: must be between %s and %s, got %s", name, minInterval, maxInterval, d)
			}
		}
	}

	switch c.Resources.Source {
	case ResourcesBackend, ResourcesLocal:
	default:
		return fmt.Errorf("resources.source: must be %q or %q, got %q", ResourcesBackend, ResourcesLocal, c.Resources.Source)
	}
	if c.Resources.GPUWarning < 0 {
		return fmt.Errorf("resources.gpu_warning: cannot be negative, got %v", c.Resources.GPUWarning)
	}

	if c.Weather.IconURL != "" && !strings.Contains(c.Weather.IconURL, "{icon}") {
		return errors.New("weather.icon_url: must contain {icon}")
	}

	if c.Streams.ThumbnailWidth < 0 || c.Streams.ThumbnailHeight < 0 {
		return errors.New("streams: thumbnail size cannot be negative")
	}

	if c.Commands.Rate < 0 || c.Commands.Burst < 0 {
		return errors.New("commands: rate and burst cannot be negative")
	}
	if (c.Commands.Rate == 0) != (c.Commands.Burst == 0) {
		return errors.New("commands: rate and burst must be set together")
	}

	return c.expandMQTT()
}

func (c *Config) expandBackend() error {
	b := &c.Backend

	if b.URL != "" {
		expanded, err := expandEnvVars(b.URL)
		if err != nil {
			return fmt.Errorf("backend.url: %w", err)
		}
		b.URL = expanded

		u, err := url.Parse(b.URL)
		if err != nil {
			return fmt.Errorf("backend.url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("backend.url: scheme must be http or https, got %q", u.Scheme)
		}
	}

	for k, v := range b.Headers {
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("backend.headers[%s]: %w", k, err)
		}
		b.Headers[k] = expanded
	}

	for name, p := range b.Paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("backend.paths.%s: must start with /, got %q", name, p)
		}
	}

	if b.Timeout != 0 && b.Timeout.Duration() < 100*time.Millisecond {
		return fmt.Errorf("backend.timeout: must be at least 100ms, got %s", b.Timeout.Duration())
	}
	return nil
}

func (c *Config) expandMQTT() error {
	m := &c.MQTT
	if m.Broker == "" {
		return nil
	}

	fields := []struct {
		name string
		v    *string
	}{
		{"mqtt.broker", &m.Broker},
		{"mqtt.username", &m.Username},
		{"mqtt.password", &m.Password},
	}
	for _, f := range fields {
		expanded, err := expandEnvVars(*f.v)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.v = expanded
	}

	u, err := url.Parse(m.Broker)
	if err != nil {
		return fmt.Errorf("mqtt.broker: %w", err)
	}
	switch u.Scheme {
	case "tcp", "ssl", "tls", "mqtt", "mqtts", "ws", "wss":
	default:
		return fmt.Errorf("mqtt.broker: unsupported scheme %q", u.Scheme)
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// EnabledTasks returns the names of tasks not disabled in the config.
func (c *Config) EnabledTasks() []string {
	var names []string
	for _, name := range homeboard.TaskNames() {
		if !c.Tasks[name].Disabled {
			names = append(names, name)
		}
	}
	return names
}
