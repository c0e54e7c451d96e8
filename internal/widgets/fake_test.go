package widgets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jpalmerr/homeboard/internal/source"
	"github.com/jpalmerr/homeboard/internal/view"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeElement struct {
	text     string
	src      string
	hidden   bool
	classes  map[string]bool
	style    map[string]string
	children []view.Node
}

// fakeView is an in-memory View that records which elements were touched.
type fakeView struct {
	mu       sync.Mutex
	elements map[string]*fakeElement
	touched  map[string]int
	renders  int
}

func newFakeView(ids ...string) *fakeView {
	if len(ids) == 0 {
		ids = Elements()
	}
	fv := &fakeView{elements: map[string]*fakeElement{}, touched: map[string]int{}}
	for _, id := range ids {
		fv.elements[id] = &fakeElement{classes: map[string]bool{}, style: map[string]string{}}
	}
	return fv
}

// Render implements view.Renderer.
func (f *fakeView) Render(_ string, fn func(view.View)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders++
	fn(f)
}

func (f *fakeView) el(id string) (*fakeElement, error) {
	el, ok := f.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", view.ErrMissingElement, id)
	}
	f.touched[id]++
	return el, nil
}

func (f *fakeView) SetText(id, text string) error {
	el, err := f.el(id)
	if err == nil {
		el.text = text
	}
	return err
}

func (f *fakeView) SetImage(id, src string) error {
	el, err := f.el(id)
	if err == nil {
		el.src = src
	}
	return err
}

func (f *fakeView) SetStyle(id, prop, value string) error {
	el, err := f.el(id)
	if err == nil {
		el.style[prop] = value
	}
	return err
}

func (f *fakeView) ToggleClass(id, class string, on bool) error {
	el, err := f.el(id)
	if err == nil {
		if on {
			el.classes[class] = true
		} else {
			delete(el.classes, class)
		}
	}
	return err
}

func (f *fakeView) SetHidden(id string, hidden bool) error {
	el, err := f.el(id)
	if err == nil {
		el.hidden = hidden
	}
	return err
}

func (f *fakeView) ReplaceChildren(id string, nodes []view.Node) error {
	el, err := f.el(id)
	if err == nil {
		el.children = view.CloneNodes(nodes)
	}
	return err
}

func (f *fakeView) get(id string) fakeElement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.elements[id]
}

func (f *fakeView) wasTouched(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[id] > 0
}

func (f *fakeView) resetTouched() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = map[string]int{}
}

// fakeSource implements every widget source interface.
type fakeSource struct {
	state      source.PlaybackState
	stateErr   error
	devices    []source.Device
	devicesErr error
	weather    source.WeatherReport
	calendar   []source.CalendarEvent
	resources  source.ResourceSnapshot
	streams    []source.Stream
	err        error
}

func (s *fakeSource) CurrentPlayback(context.Context) (source.PlaybackState, error) {
	return s.state, s.stateErr
}

func (s *fakeSource) Devices(context.Context) ([]source.Device, error) {
	return s.devices, s.devicesErr
}

func (s *fakeSource) Weather(context.Context) (source.WeatherReport, error) {
	return s.weather, s.err
}

func (s *fakeSource) Calendar(context.Context) ([]source.CalendarEvent, error) {
	return s.calendar, s.err
}

func (s *fakeSource) Resources(context.Context) (source.ResourceSnapshot, error) {
	return s.resources, s.err
}

func (s *fakeSource) FollowedStreams(context.Context) ([]source.Stream, error) {
	return s.streams, s.err
}

func ptr(v float64) *float64 { return &v }
