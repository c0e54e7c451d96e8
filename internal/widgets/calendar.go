package widgets

import (
	"context"
	"log/slog"
	"time"

	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/view"
)

// CalendarSource reads upcoming events.
type CalendarSource interface {
	Calendar(ctx context.Context) ([]source.CalendarEvent, error)
}

// CalendarFormat controls how event times are rendered.
type CalendarFormat struct {
	DateLayout string
	TimeLayout string
	Location   *time.Location
}

func (f CalendarFormat) withDefaults() CalendarFormat {
	if f.DateLayout == "" {
		f.DateLayout = "01/02"
	}
	if f.TimeLayout == "" {
		f.TimeLayout = "15:04"
	}
	if f.Location == nil {
		f.Location = time.Local
	}
	return f
}

// Calendar renders the upcoming events list.
type Calendar struct {
	base
	src    CalendarSource
	labels Labels
	format CalendarFormat
}

// NewCalendar creates a calendar widget.
func NewCalendar(r view.Renderer, src CalendarSource, labels Labels, format CalendarFormat, logger *slog.Logger) *Calendar {
	return &Calendar{base: newBase(r, logger), src: src, labels: labels, format: format.withDefaults()}
}

// Cycle fetches events and renders them.
func (c *Calendar) Cycle(ctx context.Context) error {
	events, err := c.src.Calendar(ctx)
	if err != nil {
		return err
	}
	c.render("calendar", func(v view.View) error {
		return RenderCalendar(v, events, c.labels, c.format)
	})
	return nil
}

// RenderCalendar replaces the events list. An empty list renders the
// no-events placeholder. All-day events show the all-day label in place of
// a clock time. Events without a usable start are skipped.
func RenderCalendar(v view.View, events []source.CalendarEvent, labels Labels, format CalendarFormat) error {
	format = format.withDefaults()

	nodes := make([]view.Node, 0, len(events))
	for _, ev := range events {
		start, allDay, err := ev.Start.Resolve(format.Location)
		if err != nil {
			continue
		}

		timeLabel := labels.AllDay
		if !allDay {
			timeLabel = start.Format(format.TimeLayout)
		}
		nodes = append(nodes, view.Node{
			Tag:   "li",
			Class: "event",
			Children: []view.Node{
				{Tag: "span", Class: "event-date", Text: start.Format(format.DateLayout)},
				{Tag: "span", Class: "event-time", Text: timeLabel},
				{Tag: "span", Class: "event-summary", Text: ev.Summary},
			},
		})
	}

	if len(nodes) == 0 {
		nodes = append(nodes, placeholder(labels.NoEvents))
	}
	return v.ReplaceChildren(ElementCalendar, nodes)
}

func placeholder(text string) view.Node {
	return view.Node{Tag: "p", Class: "placeholder", Text: text}
}
