package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PlaybackState is the now-playing payload.
type PlaybackState struct {
	IsPlaying bool   `json:"is_playing"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	ImageURL  string `json:"image_url"`

	// Message is an informational note the backend sends when nothing is
	// playing, e.g. when no device is active.
	Message string `json:"message,omitempty"`

	// Error is set by the backend when the upstream call failed.
	Error string `json:"error,omitempty"`
}

// Device is a playback target.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// ActiveDevice returns the first active device.
func ActiveDevice(devices []Device) (Device, bool) {
	for _, d := range devices {
		if d.IsActive {
			return d, true
		}
	}
	return Device{}, false
}

// WeatherReport carries current conditions and the forecast.
type WeatherReport struct {
	Current  CurrentWeather  `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
}

// CurrentWeather holds current conditions.
type CurrentWeather struct {
	Temp     float64 `json:"temp"`
	Pressure float64 `json:"pressure"`
	Humidity float64 `json:"humidity"`
	Icon     string  `json:"icon"`
}

// ForecastEntry is one forecast step.
type ForecastEntry struct {
	DT      int64              `json:"dt"`
	Main    ForecastMain       `json:"main"`
	Weather []WeatherCondition `json:"weather"`
}

// ForecastMain holds the forecast measurements.
type ForecastMain struct {
	Temp float64 `json:"temp"`
}

// WeatherCondition holds the condition icon code.
type WeatherCondition struct {
	Icon string `json:"icon"`
}

// Time returns the forecast instant.
func (f ForecastEntry) Time() time.Time {
	return time.Unix(f.DT, 0)
}

// Icon returns the icon code of the first condition, or "".
func (f ForecastEntry) Icon() string {
	if len(f.Weather) == 0 {
		return ""
	}
	return f.Weather[0].Icon
}

// CalendarEvent is an upcoming calendar entry.
type CalendarEvent struct {
	Start   EventTime `json:"start"`
	Summary string    `json:"summary"`
}

// EventTime is either a timed start (DateTime, RFC 3339) or an all-day
// start (Date, YYYY-MM-DD).
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

const dateLayout = "2006-01-02"

// Resolve returns the start instant in loc and whether the event is all-day.
// DateTime wins when both fields are present.
func (t EventTime) Resolve(loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.Local
	}
	switch {
	case t.DateTime != "":
		ts, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid dateTime %q: %w", t.DateTime, err)
		}
		return ts.In(loc), false, nil
	case t.Date != "":
		ts, err := time.ParseInLocation(dateLayout, t.Date, loc)
		if err != nil {
			return time.Time{}, true, fmt.Errorf("invalid date %q: %w", t.Date, err)
		}
		return ts, true, nil
	default:
		return time.Time{}, false, errors.New("event has neither dateTime nor date")
	}
}

// ResourceSnapshot is a single system resource sample. GPU fields are only
// meaningful when GPUActive is set.
type ResourceSnapshot struct {
	CPU       float64  `json:"cpu"`
	RAM       float64  `json:"ram"`
	GPUActive bool     `json:"gpu_active"`
	GPU       *float64 `json:"gpu,omitempty"`
	GPUTemp   *float64 `json:"gpu_temp,omitempty"`
}

// Stream is a followed live stream.
type Stream struct {
	UserName     string `json:"user_name"`
	UserLogin    string `json:"user_login"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	ViewerCount  int    `json:"viewer_count"`
}

// Thumbnail substitutes the {width} and {height} placeholders of the
// thumbnail URL template.
func (s Stream) Thumbnail(width, height int) string {
	r := strings.NewReplacer(
		"{width}", strconv.Itoa(width),
		"{height}", strconv.Itoa(height),
	)
	return r.Replace(s.ThumbnailURL)
}

// ChannelURL returns the stream's channel page.
func (s Stream) ChannelURL() string {
	return "https://www.twitch.tv/" + s.UserLogin
}
