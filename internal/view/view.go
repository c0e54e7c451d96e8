// Package view defines the binding between widget renderers and the page.
//
// Renderers never address the page directly. They write through [View],
// which exposes the handful of capabilities a dashboard widget needs: set
// text, set an image source, set a style property, toggle a class, hide an
// element and replace an element's children. Element IDs are the only
// contract with the page markup.
package view

import "errors"

// ErrMissingElement is returned when a View does not know the element ID.
// Renderers treat it as a per-field no-op.
var ErrMissingElement = errors.New("missing element")

// View is the set of mutations a renderer can apply to page elements.
//
// Every method is keyed by element ID and returns an error wrapping
// [ErrMissingElement] when the ID is not part of the page.
type View interface {
	SetText(id, text string) error
	SetImage(id, src string) error
	SetStyle(id, property, value string) error
	ToggleClass(id, class string, on bool) error
	SetHidden(id string, hidden bool) error
	ReplaceChildren(id string, nodes []Node) error
}

// Renderer applies a render function to a view as one atomic step.
//
// All mutations made by fn become visible together; other widgets never
// observe a half-rendered state.
type Renderer interface {
	Render(widget string, fn func(View))
}

// Node is a child element placed inside a list container such as the
// forecast strip or the device selector.
type Node struct {
	Tag      string  `json:"tag"`
	Class    string  `json:"class,omitempty"`
	Text     string  `json:"text,omitempty"`
	Src      string  `json:"src,omitempty"`
	Children []Node  `json:"children,omitempty"`
	Action   *Action `json:"action,omitempty"`
}

// Action kinds understood by the dashboard page.
const (
	// ActionTransfer moves playback to the device whose ID is the target.
	ActionTransfer = "transfer"

	// ActionOpen opens the target URL in a new browsing context.
	ActionOpen = "open"
)

// Action describes what happens when the user clicks a node.
type Action struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// CloneNodes returns a deep copy of nodes. A nil input yields an empty,
// non-nil slice so that "no children" and "never rendered" stay distinct.
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n
		if n.Children != nil {
			out[i].Children = CloneNodes(n.Children)
		}
		if n.Action != nil {
			a := *n.Action
			out[i].Action = &a
		}
	}
	return out
}
