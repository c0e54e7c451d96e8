package widgets

import (
	"errors"
	"log/slog"

	"github.com/jpalmerr/homeboard/internal/view"
)

// fields wraps a View so that a missing element skips only that field.
// The first error of each write is kept for logging.
type fields struct {
	v    view.View
	errs []error
}

func (f *fields) keep(err error) {
	if err != nil {
		f.errs = append(f.errs, err)
	}
}

func (f *fields) text(id, text string)            { f.keep(f.v.SetText(id, text)) }
func (f *fields) image(id, src string)            { f.keep(f.v.SetImage(id, src)) }
func (f *fields) style(id, prop, value string)    { f.keep(f.v.SetStyle(id, prop, value)) }
func (f *fields) class(id, class string, on bool) { f.keep(f.v.ToggleClass(id, class, on)) }
func (f *fields) hidden(id string, hidden bool)   { f.keep(f.v.SetHidden(id, hidden)) }
func (f *fields) children(id string, nodes []view.Node) {
	f.keep(f.v.ReplaceChildren(id, nodes))
}

func (f *fields) err() error {
	return errors.Join(f.errs...)
}

// base carries what every widget needs to commit a render.
type base struct {
	renderer view.Renderer
	logger   *slog.Logger
}

func newBase(r view.Renderer, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{renderer: r, logger: logger}
}

// render commits fn as one transaction. Missing elements are logged at
// debug level and do not fail the cycle.
func (b base) render(widget string, fn func(v view.View) error) {
	var err error
	b.renderer.Render(widget, func(v view.View) {
		err = fn(v)
	})
	if err != nil {
		b.logger.Debug("render skipped fields", "widget", widget, "error", err.Error())
	}
}
