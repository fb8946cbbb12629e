package env

import (
	"slices"
	"sync"
)

// PointerEvent describes a pointer-down on the document.
type PointerEvent struct {
	// Target is the element id the pointer landed on.
	Target string `json:"target"`

	// Path lists the element ids from the target up to the document root.
	Path []string `json:"path,omitempty"`
}

// Within reports whether the event landed inside the subtree of element id.
func (e PointerEvent) Within(id string) bool {
	if id == "" {
		return false
	}
	return e.Target == id || slices.Contains(e.Path, id)
}

// Subscription is a registered listener. Remove detaches it and may be
// called any number of times.
type Subscription interface {
	Remove()
}

// Listeners is the document-level subscription point for global events.
type Listeners interface {
	// OnPointerDown registers fn for every pointer-down on the document.
	OnPointerDown(fn func(PointerEvent)) Subscription

	// OnResize registers fn for every viewport width change.
	OnResize(fn func(width int)) Subscription

	// OnRouteChange registers fn for every location change reported by the router.
	OnRouteChange(fn func(path string)) Subscription
}

// BodyStyle is the part of the document body style the menu mutates.
type BodyStyle struct {
	Overflow     string `json:"overflow"`
	PaddingRight string `json:"padding_right"`
}

// Body exposes the shared document body.
type Body interface {
	BodyStyle() BodyStyle
	SetBodyStyle(BodyStyle)

	// ScrollbarWidth is the width in pixels the vertical scrollbar occupies.
	ScrollbarWidth() int
}

// Focuser moves keyboard focus to an element.
type Focuser interface {
	Focus(id string)
}

// Router is the routing layer.
type Router interface {
	// Location returns the current path and whether the environment has
	// confirmed it (hydration). Before hydration the path must not be trusted.
	Location() (path string, hydrated bool)

	// Navigate asks the router to go to path.
	Navigate(path string)
}

// Environment is the ambient capability the menu controller is given.
// Leaf components only ever see the narrower interfaces.
type Environment interface {
	Listeners
	Body
	Focuser
	Router
}

type subscription struct {
	once   sync.Once
	remove func()
}

func (s *subscription) Remove() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.remove != nil {
			s.remove()
		}
	})
}
