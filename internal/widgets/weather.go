package widgets

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/view"
)

// DefaultIconURL is the icon URL template; {icon} receives the icon code.
const DefaultIconURL = "https://openweathermap.org/img/wn/{icon}@2x.png"

// WeatherSource reads current conditions and the forecast.
type WeatherSource interface {
	Weather(ctx context.Context) (source.WeatherReport, error)
}

// WeatherFormat controls how weather values are rendered.
type WeatherFormat struct {
	// IconURL is the icon URL template with an {icon} placeholder.
	IconURL string

	// TimeLayout formats forecast card times.
	TimeLayout string

	// Location is the zone forecast times are shown in.
	Location *time.Location
}

func (f WeatherFormat) withDefaults() WeatherFormat {
	if f.IconURL == "" {
		f.IconURL = DefaultIconURL
	}
	if f.TimeLayout == "" {
		f.TimeLayout = "15:04"
	}
	if f.Location == nil {
		f.Location = time.Local
	}
	return f
}

// Weather renders current conditions and the forecast strip.
type Weather struct {
	base
	src    WeatherSource
	format WeatherFormat
}

// NewWeather creates a weather widget.
func NewWeather(r view.Renderer, src WeatherSource, format WeatherFormat, logger *slog.Logger) *Weather {
	return &Weather{base: newBase(r, logger), src: src, format: format.withDefaults()}
}

// Cycle fetches the report and renders it.
func (w *Weather) Cycle(ctx context.Context) error {
	report, err := w.src.Weather(ctx)
	if err != nil {
		return err
	}
	w.render("weather", func(v view.View) error {
		return RenderWeather(v, report, w.format)
	})
	return nil
}

// RenderWeather writes current metrics and replaces the forecast strip with
// one card per forecast entry, in the order received.
func RenderWeather(v view.View, report source.WeatherReport, format WeatherFormat) error {
	format = format.withDefaults()
	f := &fields{v: v}

	cur := report.Current
	f.text(ElementTempCurrent, formatTemp(cur.Temp))
	f.text(ElementPressure, fmt.Sprintf("%d hPa", roundInt(cur.Pressure)))
	f.text(ElementHumidity, fmt.Sprintf("%d%%", roundInt(cur.Humidity)))
	if cur.Icon != "" {
		f.image(ElementWeatherIcon, iconURL(format.IconURL, cur.Icon))
	}

	cards := make([]view.Node, 0, len(report.Forecast))
	for _, entry := range report.Forecast {
		children := []view.Node{
			{Tag: "span", Class: "forecast-time", Text: entry.Time().In(format.Location).Format(format.TimeLayout)},
		}
		if icon := entry.Icon(); icon != "" {
			children = append(children, view.Node{Tag: "img", Class: "forecast-icon", Src: iconURL(format.IconURL, icon)})
		}
		children = append(children, view.Node{Tag: "span", Class: "forecast-temp", Text: formatTemp(entry.Main.Temp)})

		cards = append(cards, view.Node{Tag: "div", Class: "forecast-card", Children: children})
	}
	f.children(ElementForecastList, cards)
	return f.err()
}

func formatTemp(t float64) string {
	return fmt.Sprintf("%d°C", roundInt(t))
}

func roundInt(v float64) int {
	r := math.Round(v)
	if r == 0 {
		// avoid "-0°C"
		return 0
	}
	return int(r)
}

func iconURL(template, icon string) string {
	return strings.ReplaceAll(template, "{icon}", icon)
}
