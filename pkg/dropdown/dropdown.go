package dropdown

import (
	"log/slog"
	"slices"

	"github.com/mchmarny/navmenu/pkg/env"
	"github.com/mchmarny/navmenu/pkg/nav"
)

// Keys handled on the toggle control.
const (
	KeyEnter    = "Enter"
	KeySpace    = " "
	KeySpacebar = "Spacebar"
	KeyEscape   = "Escape"
)

// State is the open/closed machine of one navigation item with children,
// plus the set of accordion-expanded groups used on narrow viewports.
// It is not safe for concurrent use; the owning controller serializes access.
type State struct {
	id        string
	item      nav.Item
	kind      nav.Kind
	open      bool
	expanded  []int // expansion order, most recent last
	listeners env.Listeners
	outside   env.Subscription
	notify    func()
}

// Option configures a State.
type Option func(*State)

// WithListeners sets where the outside pointer-down listener is registered
// while the dropdown is open.
func WithListeners(l env.Listeners) Option {
	return func(s *State) { s.listeners = l }
}

// WithNotify sets a callback invoked after the dropdown closes itself in
// response to a document event.
func WithNotify(fn func()) Option {
	return func(s *State) { s.notify = fn }
}

// New creates a closed dropdown for item. The id is the element id of the
// item's rendered subtree.
func New(id string, item nav.Item, opts ...Option) *State {
	s := &State{
		id:   id,
		item: item,
		kind: nav.Classify(item),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the element id of the item's rendered subtree.
func (s *State) ID() string { return s.id }

// ToggleID returns the element id of the toggle control.
func (s *State) ToggleID() string { return s.id + "-toggle" }

// PanelID returns the element id of the dropdown panel.
func (s *State) PanelID() string { return s.id + "-dropdown" }

// Kind returns the classification of the item.
func (s *State) Kind() nav.Kind { return s.kind }

// Item returns the navigation item.
func (s *State) Item() nav.Item { return s.item }

// IsOpen reports whether the dropdown is open.
func (s *State) IsOpen() bool { return s.open }

// Toggle flips the dropdown. Items without children never open; closing
// collapses every group.
func (s *State) Toggle() {
	if s.kind == nav.Leaf {
		return
	}
	if s.open {
		s.Close()
		return
	}
	s.setOpen(true)
}

// Close forces the dropdown closed and collapses every group.
func (s *State) Close() {
	s.expanded = nil
	s.setOpen(false)
}

// ToggleGroup expands or collapses group i. It reports whether anything
// changed: only an open grouped item with a group at index i has groups to
// toggle, so no expansion state hides behind a closed dropdown.
func (s *State) ToggleGroup(i int) bool {
	if !s.open || s.kind != nav.Grouped || i < 0 || i >= len(s.item.Children) {
		return false
	}

	if idx := slices.Index(s.expanded, i); idx >= 0 {
		s.expanded = slices.Delete(s.expanded, idx, idx+1)
	} else {
		s.expanded = append(s.expanded, i)
	}

	return true
}

// Expanded reports whether group i is expanded.
func (s *State) Expanded(i int) bool {
	return slices.Contains(s.expanded, i)
}

// ExpandedGroups returns the expanded group indices in ascending order.
func (s *State) ExpandedGroups() []int {
	out := slices.Clone(s.expanded)
	slices.Sort(out)
	if out == nil {
		out = []int{}
	}
	return out
}

// KeyResult is the outcome of a key press on the toggle control.
type KeyResult struct {
	// Handled is set when the key changed state and its default action
	// should be suppressed.
	Handled bool

	// Focus is the element id that should receive focus, if any.
	Focus string
}

// HandleKey applies the keyboard contract of the toggle control.
// Enter and Space toggle. Escape collapses the most recently expanded group,
// else closes an open dropdown and returns focus to the toggle control.
func (s *State) HandleKey(key string) KeyResult {
	switch key {
	case KeyEnter, KeySpace, KeySpacebar:
		if s.kind == nav.Leaf {
			return KeyResult{}
		}
		s.Toggle()
		return KeyResult{Handled: true}
	case KeyEscape:
		if n := len(s.expanded); n > 0 && s.open {
			s.expanded = s.expanded[:n-1]
			return KeyResult{Handled: true}
		}
		if s.open {
			s.Close()
			return KeyResult{Handled: true, Focus: s.ToggleID()}
		}
	}
	return KeyResult{}
}

// Release detaches the document listener. The dropdown stays usable but is
// closed, so no listener outlives its owner.
func (s *State) Release() {
	s.Close()
}

// Listening reports whether the outside pointer-down listener is attached.
func (s *State) Listening() bool {
	return s.outside != nil
}

func (s *State) setOpen(open bool) {
	s.open = open

	switch {
	case open && s.outside == nil && s.listeners != nil:
		s.outside = s.listeners.OnPointerDown(s.onPointerDown)
		slog.Debug("dropdown listening", "id", s.id)
	case !open && s.outside != nil:
		s.outside.Remove()
		s.outside = nil
		slog.Debug("dropdown released", "id", s.id)
	}
}

func (s *State) onPointerDown(e env.PointerEvent) {
	if !s.open || e.Within(s.id) {
		return
	}

	s.Close()
	slog.Debug("dropdown closed by outside pointer", "id", s.id, "target", e.Target)

	if s.notify != nil {
		s.notify()
	}
}
