package env

import (
	"log/slog"
	"sync"
)

const (
	// DefaultScrollbarWidth is the scrollbar width assumed until the client reports one.
	DefaultScrollbarWidth = 15

	// DefaultWidth is the viewport width assumed until the client reports one.
	DefaultWidth = 1024
)

// EffectKind names a side effect the document asks its renderer to apply.
type EffectKind string

const (
	EffectBodyStyle EffectKind = "body_style"
	EffectFocus     EffectKind = "focus"
	EffectNavigate  EffectKind = "navigate"
)

// Effect is a mutation of the real document that a remote renderer applies.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Style  *BodyStyle `json:"style,omitempty"`
	Target string     `json:"target,omitempty"`
	Path   string     `json:"path,omitempty"`
}

type listener[T any] struct {
	id int
	fn func(T)
}

type registry[T any] struct {
	next      int
	listeners []listener[T]
}

func (r *registry[T]) add(fn func(T)) int {
	r.next++
	r.listeners = append(r.listeners, listener[T]{id: r.next, fn: fn})
	return r.next
}

func (r *registry[T]) remove(id int) {
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

func (r *registry[T]) has(id int) bool {
	for _, l := range r.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

func (r *registry[T]) snapshot() []listener[T] {
	out := make([]listener[T], len(r.listeners))
	copy(out, r.listeners)
	return out
}

// dispatch calls the listeners registered when dispatch starts, skipping any
// removed by an earlier listener of the same dispatch.
func dispatch[T any](mu *sync.Mutex, r *registry[T], v T) {
	mu.Lock()
	ls := r.snapshot()
	mu.Unlock()

	for _, l := range ls {
		mu.Lock()
		live := r.has(l.id)
		mu.Unlock()
		if live {
			l.fn(v)
		}
	}
}

// Document is an in-memory Environment. It mirrors the state of a remote
// document and reports every mutation through the effect sink, so a session
// can replay them on the real page. It is safe for concurrent use; listeners
// are invoked outside the lock.
type Document struct {
	mu             sync.Mutex
	pointer        registry[PointerEvent]
	resize         registry[int]
	route          registry[string]
	style          BodyStyle
	scrollbarWidth int
	width          int
	path           string
	hydrated       bool
	focused        string
	navigations    []string
	effects        func(Effect)
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithEffects sets the sink receiving every effect.
func WithEffects(fn func(Effect)) DocumentOption {
	return func(d *Document) { d.effects = fn }
}

// WithBodyStyle sets the initial body style.
func WithBodyStyle(s BodyStyle) DocumentOption {
	return func(d *Document) { d.style = s }
}

// WithScrollbarWidth sets the scrollbar width in pixels.
func WithScrollbarWidth(w int) DocumentOption {
	return func(d *Document) { d.scrollbarWidth = w }
}

// WithWidth sets the initial viewport width.
func WithWidth(w int) DocumentOption {
	return func(d *Document) { d.width = w }
}

// WithLocation sets a hydrated initial location.
func WithLocation(path string) DocumentOption {
	return func(d *Document) {
		d.path = path
		d.hydrated = true
	}
}

// NewDocument creates an unhydrated document.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		scrollbarWidth: DefaultScrollbarWidth,
		width:          DefaultWidth,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Document) emit(e Effect) {
	if d.effects != nil {
		d.effects(e)
	}
}

// OnPointerDown implements Listeners.
func (d *Document) OnPointerDown(fn func(PointerEvent)) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.pointer.add(fn)
	return &subscription{remove: func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.pointer.remove(id)
	}}
}

// OnResize implements Listeners.
func (d *Document) OnResize(fn func(int)) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.resize.add(fn)
	return &subscription{remove: func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.resize.remove(id)
	}}
}

// OnRouteChange implements Listeners.
func (d *Document) OnRouteChange(fn func(string)) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.route.add(fn)
	return &subscription{remove: func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.route.remove(id)
	}}
}

// ListenerCount returns the number of registered listeners of every kind.
func (d *Document) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pointer.listeners) + len(d.resize.listeners) + len(d.route.listeners)
}

// PointerDown dispatches a pointer-down to the document listeners.
func (d *Document) PointerDown(e PointerEvent) {
	dispatch(&d.mu, &d.pointer, e)
}

// Resize records the viewport width and notifies resize listeners.
func (d *Document) Resize(width int) {
	d.mu.Lock()
	d.width = width
	d.mu.Unlock()

	dispatch(&d.mu, &d.resize, width)
}

// Width returns the last known viewport width.
func (d *Document) Width() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width
}

// SetLocation records a completed navigation, marks the document hydrated and
// notifies route listeners.
func (d *Document) SetLocation(path string) {
	d.mu.Lock()
	d.path = path
	d.hydrated = true
	d.mu.Unlock()

	dispatch(&d.mu, &d.route, path)
}

// Location implements Router.
func (d *Document) Location() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path, d.hydrated
}

// Navigate implements Router. The location only changes once the renderer
// confirms the navigation through SetLocation.
func (d *Document) Navigate(path string) {
	d.mu.Lock()
	d.navigations = append(d.navigations, path)
	d.mu.Unlock()

	slog.Debug("navigate requested", "path", path)
	d.emit(Effect{Kind: EffectNavigate, Path: path})
}

// Navigations returns every path passed to Navigate, oldest first.
func (d *Document) Navigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.navigations))
	copy(out, d.navigations)
	return out
}

// BodyStyle implements Body.
func (d *Document) BodyStyle() BodyStyle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.style
}

// SetBodyStyle implements Body.
func (d *Document) SetBodyStyle(s BodyStyle) {
	d.mu.Lock()
	d.style = s
	d.mu.Unlock()

	d.emit(Effect{Kind: EffectBodyStyle, Style: &s})
}

// ScrollbarWidth implements Body.
func (d *Document) ScrollbarWidth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrollbarWidth
}

// SetScrollbarWidth records the scrollbar width measured by the renderer.
func (d *Document) SetScrollbarWidth(w int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrollbarWidth = w
}

// Focus implements Focuser.
func (d *Document) Focus(id string) {
	d.mu.Lock()
	d.focused = id
	d.mu.Unlock()

	d.emit(Effect{Kind: EffectFocus, Target: id})
}

// Focused returns the id of the last focused element.
func (d *Document) Focused() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}
