package store

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jpalmerr/homeboard/internal/view"
)

const subscriberBuffer = 100

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore knows a fixed set of element IDs, given at construction; any
// other ID is reported as [view.ErrMissingElement]. Renders are serialized:
// each render function runs under the store lock, and its changes are
// committed and published as a single [Update].
//
// Subscribers receive updates via buffered channels (buffer size 100). Updates
// are sent non-blocking; if a subscriber's buffer is full, the update is dropped
// for that subscriber to prevent blocking the entire system.
type MemoryStore struct {
	mu          sync.RWMutex
	elements    map[string]Element
	subscribers map[chan Update]struct{}
	subMu       sync.RWMutex
	now         func() time.Time
}

// NewMemoryStore creates a new in-memory [Store] holding the given element IDs.
//
// Duplicate IDs are ignored. No cleanup is required when done.
func NewMemoryStore(ids ...string) *MemoryStore {
	elements := make(map[string]Element, len(ids))
	for _, id := range ids {
		elements[id] = Element{ID: id}
	}
	return &MemoryStore{
		elements:    elements,
		subscribers: make(map[chan Update]struct{}),
		now:         time.Now,
	}
}

// Render runs fn against a transaction view and commits its changes.
//
// Elements whose state is unchanged after fn returns are not published; a
// render that changes nothing publishes no update. If fn panics, nothing is
// committed and the panic propagates to the caller.
//
// The update is published before the store lock is released, so
// subscribers see updates in commit order.
func (m *MemoryStore) Render(widget string, fn func(view.View)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := m.commit(fn)
	if len(changed) == 0 {
		return
	}
	m.notifySubscribers(Update{Widget: widget, Elements: changed, At: m.now()})
}

// commit runs fn and returns the changed elements, sorted by ID.
// Caller must hold m.mu.
func (m *MemoryStore) commit(fn func(view.View)) []Element {
	tx := &tx{store: m, staged: make(map[string]Element)}
	fn(tx)

	changed := make([]Element, 0, len(tx.staged))
	for id, el := range tx.staged {
		if reflect.DeepEqual(m.elements[id], el) {
			continue
		}
		m.elements[id] = el
		changed = append(changed, el.clone())
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].ID < changed[j].ID })
	return changed
}

// Snapshot returns the state of every element, sorted by ID.
func (m *MemoryStore) Snapshot() []Element {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Element, 0, len(m.elements))
	for _, el := range m.elements {
		out = append(out, el.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Element returns the state of a single element.
func (m *MemoryStore) Element(id string) (Element, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	el, ok := m.elements[id]
	if !ok {
		return Element{}, false
	}
	return el.clone(), true
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// The returned channel has a buffer of 100 messages. If the buffer fills
// (slow consumer), new updates are dropped for this subscriber.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan Update {
	ch := make(chan Update, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// After calling Unsubscribe, the channel will be closed and no further
// updates will be sent. Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan Update) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the update to all active subscribers.
//
// This is non-blocking: if a subscriber's channel buffer is full, the message
// is dropped for that subscriber rather than blocking the render path.
func (m *MemoryStore) notifySubscribers(u Update) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- u:
		default:
			// subscriber is slow, drop the message
		}
	}
}

// tx stages element changes for a single render. It is only used while the
// store lock is held.
type tx struct {
	store  *MemoryStore
	staged map[string]Element
}

// element returns the staged copy of id, creating it from committed state.
func (t *tx) element(id string) (*Element, error) {
	if el, ok := t.staged[id]; ok {
		return &el, nil
	}
	el, ok := t.store.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", view.ErrMissingElement, id)
	}
	cp := el.clone()
	return &cp, nil
}

func (t *tx) update(id string, fn func(el *Element)) error {
	el, err := t.element(id)
	if err != nil {
		return err
	}
	fn(el)
	el.Rendered = true
	t.staged[id] = *el
	return nil
}

func (t *tx) SetText(id, text string) error {
	return t.update(id, func(el *Element) { el.Text = text })
}

func (t *tx) SetImage(id, src string) error {
	return t.update(id, func(el *Element) { el.Src = src })
}

func (t *tx) SetStyle(id, property, value string) error {
	return t.update(id, func(el *Element) {
		if el.Style == nil {
			el.Style = make(map[string]string, 1)
		}
		el.Style[property] = value
	})
}

func (t *tx) ToggleClass(id, class string, on bool) error {
	return t.update(id, func(el *Element) {
		idx, found := slices.BinarySearch(el.Classes, class)
		switch {
		case on && !found:
			el.Classes = slices.Insert(el.Classes, idx, class)
		case !on && found:
			el.Classes = slices.Delete(el.Classes, idx, idx+1)
			if len(el.Classes) == 0 {
				el.Classes = nil
			}
		}
	})
}

func (t *tx) SetHidden(id string, hidden bool) error {
	return t.update(id, func(el *Element) { el.Hidden = hidden })
}

func (t *tx) ReplaceChildren(id string, nodes []view.Node) error {
	return t.update(id, func(el *Element) { el.Children = view.CloneNodes(nodes) })
}
