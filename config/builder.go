package config

import (
	"sort"
	"time"

	"github.com/jpalmerr/homeboard"
)

// BuildOptions converts parsed configuration into SDK options.
//
// Zero values are skipped so that the SDK defaults apply. Callers add
// process-level options such as [homeboard.WithLogger] themselves.
func BuildOptions(cfg *Config) ([]homeboard.Option, error) {
	opts := []homeboard.Option{
		homeboard.WithPort(cfg.Port),
	}

	if cfg.Title != "" {
		opts = append(opts, homeboard.WithTitle(cfg.Title))
	}

	b := cfg.Backend
	if b.URL != "" {
		opts = append(opts, homeboard.WithBackendURL(b.URL))
	}
	if b.Timeout != 0 {
		opts = append(opts, homeboard.WithRequestTimeout(b.Timeout.Duration()))
	}
	if len(b.Headers) > 0 {
		opts = append(opts, homeboard.WithHeaders(mapToKeyValuePairs(b.Headers)...))
	}
	for _, name := range sortedKeys(b.Paths) {
		opts = append(opts, homeboard.WithPath(name, b.Paths[name]))
	}

	if cfg.MaxConcurrency > 0 {
		opts = append(opts, homeboard.WithMaxConcurrency(cfg.MaxConcurrency))
	}

	if cfg.Location != "" {
		loc, err := time.LoadLocation(cfg.Location)
		if err != nil {
			return nil, err
		}
		opts = append(opts, homeboard.WithLocation(loc))
	}
	if cfg.ClockFormat != "" {
		opts = append(opts, homeboard.WithClockLayout(cfg.ClockFormat))
	}
	if len(cfg.HiddenElements) > 0 {
		opts = append(opts, homeboard.WithHiddenElements(cfg.HiddenElements...))
	}

	if cfg.Labels != (LabelsConfig{}) {
		opts = append(opts, homeboard.WithLabels(homeboard.Labels{
			Stopped:   cfg.Labels.Stopped,
			NoDevice:  cfg.Labels.NoDevice,
			AllDay:    cfg.Labels.AllDay,
			NoEvents:  cfg.Labels.NoEvents,
			NoStreams: cfg.Labels.NoStreams,
			PlayIcon:  cfg.Labels.PlayIcon,
			PauseIcon: cfg.Labels.PauseIcon,
			Viewers:   cfg.Labels.Viewers,
		}))
	}

	var disabled []string
	for _, name := range sortedKeys(cfg.Tasks) {
		task := cfg.Tasks[name]
		if task.Disabled {
			disabled = append(disabled, name)
			continue
		}
		if task.Interval != 0 {
			opts = append(opts, homeboard.WithInterval(name, task.Interval.Duration()))
		}
	}
	if len(disabled) > 0 {
		opts = append(opts, homeboard.WithDisabledTasks(disabled...))
	}

	if cfg.Resources.Source == ResourcesLocal {
		opts = append(opts, homeboard.WithLocalResources())
	}
	if cfg.Resources.GPUWarning > 0 {
		opts = append(opts, homeboard.WithGPUWarningThreshold(cfg.Resources.GPUWarning))
	}
	if cfg.Weather.IconURL != "" {
		opts = append(opts, homeboard.WithWeatherIconURL(cfg.Weather.IconURL))
	}
	if cfg.Streams.ThumbnailWidth > 0 && cfg.Streams.ThumbnailHeight > 0 {
		opts = append(opts, homeboard.WithThumbnailSize(cfg.Streams.ThumbnailWidth, cfg.Streams.ThumbnailHeight))
	}
	if cfg.Commands.Rate > 0 {
		opts = append(opts, homeboard.WithCommandRate(cfg.Commands.Rate, cfg.Commands.Burst))
	}

	if m := cfg.MQTT; m.Broker != "" {
		opts = append(opts, homeboard.WithMQTT(homeboard.MQTTConfig{
			Broker:      m.Broker,
			ClientID:    m.ClientID,
			Username:    m.Username,
			Password:    m.Password,
			TopicPrefix: m.TopicPrefix,
			Timeout:     m.Timeout.Duration(),
		}))
	}

	return opts, nil
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	pairs := make([]string, 0, len(m)*2)
	for _, k := range sortedKeys(m) {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}

// sortedKeys returns map keys in order so option order is deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
