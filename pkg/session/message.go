package session

import (
	"github.com/mchmarny/navmenu/pkg/env"
	"github.com/mchmarny/navmenu/pkg/menu"
)

// Inbound message types, sent by the browser shim.
const (
	TypeHello        = "hello"
	TypeRoute        = "route"
	TypeResize       = "resize"
	TypePointerDown  = "pointerdown"
	TypeToggleMobile = "toggle_mobile"
	TypeCloseMobile  = "close_mobile"
	TypeOverlay      = "overlay"
	TypeToggle       = "toggle"
	TypeToggleGroup  = "toggle_group"
	TypeKeyDown      = "keydown"
	TypeSelect       = "select"
	TypeState        = "state"
)

// Outbound message types.
const (
	TypeEffect = "effect"
	TypeError  = "error"
)

// request is the incoming WebSocket message format. Fields are used
// according to Type.
type request struct {
	Type string `json:"type"`

	// hello
	Subject        string            `json:"subject,omitempty"`
	Storage        map[string]string `json:"storage,omitempty"`
	Body           *env.BodyStyle    `json:"body,omitempty"`
	ScrollbarWidth *int              `json:"scrollbar_width,omitempty"`

	// hello, route, select
	Path string `json:"path,omitempty"`

	// hello, resize
	Width int `json:"width,omitempty"`

	// pointerdown
	Target       string   `json:"target,omitempty"`
	ComposedPath []string `json:"composed_path,omitempty"`

	// toggle, toggle_group, keydown
	ID    string `json:"id,omitempty"`
	Group int    `json:"group,omitempty"`
	Key   string `json:"key,omitempty"`
}

// response is the outgoing WebSocket message format.
type response struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	View      *menu.View  `json:"view,omitempty"`
	Effect    *env.Effect `json:"effect,omitempty"`
	Error     string      `json:"error,omitempty"`
}
