package store

import (
	"slices"
	"time"

	"github.com/jpalmerr/homeboard/internal/view"
)

// Element represents the current state of a page element in storage.
//
// Element is optimized for JSON serialization (used by the REST API, SSE and
// the MQTT mirror). A nil Children slice means the element's children were
// never rendered; an empty slice means they were cleared.
type Element struct {
	// ID is the element ID in the page markup.
	ID string `json:"id"`

	// Rendered reports whether any widget has written to the element.
	// The page keeps its own markup for elements that were never rendered.
	Rendered bool `json:"rendered"`

	// Text is the element's text content.
	Text string `json:"text"`

	// Src is the image source for image elements.
	Src string `json:"src,omitempty"`

	// Hidden reports whether the element is hidden.
	Hidden bool `json:"hidden"`

	// Classes holds the toggled CSS classes, sorted.
	Classes []string `json:"classes,omitempty"`

	// Style holds inline style properties (e.g. "width": "42%").
	Style map[string]string `json:"style,omitempty"`

	// Children holds the element's child nodes for list containers.
	Children []view.Node `json:"children"`
}

// clone returns a deep copy of the element.
func (e Element) clone() Element {
	cp := e
	if e.Classes != nil {
		cp.Classes = slices.Clone(e.Classes)
	}
	if e.Style != nil {
		cp.Style = make(map[string]string, len(e.Style))
		for k, v := range e.Style {
			cp.Style[k] = v
		}
	}
	if e.Children != nil {
		cp.Children = view.CloneNodes(e.Children)
	}
	return cp
}

// Update is published to subscribers after a render changed at least one
// element. Elements carry their full new state, so applying an update is
// idempotent.
type Update struct {
	// Widget is the name of the widget whose render produced the update.
	Widget string `json:"widget"`

	// Elements holds the changed elements, sorted by ID.
	Elements []Element `json:"elements"`

	// At is when the render committed.
	At time.Time `json:"at"`
}

// Store defines the interface for rendering, reading and subscribing to
// element state.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	view.Renderer

	// Snapshot returns the state of every element, sorted by ID.
	// The returned slice is a copy; modifications do not affect the store.
	Snapshot() []Element

	// Subscribe returns a channel that receives updates.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Update

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Update)
}
