package widgets

import (
	"context"
	"log/slog"
	"time"

	"github.com/jpalmerr/homeboard/internal/view"
)

// DefaultClockLayout renders 24-hour time with seconds.
const DefaultClockLayout = "15:04:05"

// Clock renders the current time.
type Clock struct {
	base
	layout string
	loc    *time.Location
	now    func() time.Time
}

// NewClock creates a clock widget. Empty layout and nil location fall back
// to [DefaultClockLayout] and time.Local.
func NewClock(r view.Renderer, layout string, loc *time.Location, logger *slog.Logger) *Clock {
	if layout == "" {
		layout = DefaultClockLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return &Clock{base: newBase(r, logger), layout: layout, loc: loc, now: time.Now}
}

// Cycle renders the time once.
func (c *Clock) Cycle(context.Context) error {
	now := c.now().In(c.loc)
	c.render("clock", func(v view.View) error {
		return RenderClock(v, now, c.layout)
	})
	return nil
}

// RenderClock writes t, formatted with layout, to the clock element.
func RenderClock(v view.View, t time.Time, layout string) error {
	return v.SetText(ElementClock, t.Format(layout))
}
