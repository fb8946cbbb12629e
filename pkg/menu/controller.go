package menu

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/navmenu/pkg/dropdown"
	"github.com/mchmarny/navmenu/pkg/env"
	"github.com/mchmarny/navmenu/pkg/metric"
	"github.com/mchmarny/navmenu/pkg/nav"
	"github.com/mchmarny/navmenu/pkg/theme"
)

const (
	// DefaultBreakpoint is the widest viewport, in pixels, that still uses
	// the mobile layout.
	DefaultBreakpoint = 768

	// NavigationID is the element id of the primary navigation list.
	NavigationID = "primary-navigation"
)

// Event labels recorded on the event counter.
const (
	EventNavigate   = "navigate"
	EventItemClick  = "item_click"
	EventMobileOpen = "mobile_open"
	EventForceClose = "resize_close"
	EventOverlay    = "overlay_close"
)

// ItemID returns the element id of the top-level item at index i.
func ItemID(i int) string {
	return fmt.Sprintf("nav-%d", i)
}

// Controller owns the state of one mounted navigation menu: the mobile menu,
// one dropdown per top-level item with children, and the current path.
// It is driven by a single event loop and is not safe for concurrent use.
// Events are ignored while it is not mounted.
type Controller struct {
	items      []nav.Item
	env        env.Environment
	breakpoint int
	ids        []string
	dropdowns  map[string]*dropdown.State

	mobileOpen bool
	path       string
	hydrated   bool
	mounted    bool
	scroll     *env.ScrollLock
	subs       []env.Subscription

	depth int
	dirty bool

	theme       theme.Preference
	onChange    func()
	onNavigate  func(path string)
	onItemClick func(e nav.Entry)
	events      metric.IncrementalCounter
	log         *slog.Logger
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithBreakpoint sets the widest viewport width that keeps the mobile layout.
func WithBreakpoint(px int) Option {
	return func(c *Controller) { c.breakpoint = px }
}

// WithOnChange sets the observer notified once after every state change.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithNavigate sets a callback fired with the resolved path of every
// selected entry, after the router has been asked to navigate.
func WithNavigate(fn func(path string)) Option {
	return func(c *Controller) { c.onNavigate = fn }
}

// WithItemClick sets a callback fired with every selected entry.
func WithItemClick(fn func(e nav.Entry)) Option {
	return func(c *Controller) { c.onItemClick = fn }
}

// WithTheme sets the theme context exposed in views.
func WithTheme(p theme.Preference) Option {
	return func(c *Controller) { c.theme = p }
}

// WithEventCounter records menu events, labelled by event name.
func WithEventCounter(counter metric.IncrementalCounter) Option {
	return func(c *Controller) { c.events = counter }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates an unmounted controller for the given top-level items.
func New(items []nav.Item, e env.Environment, opts ...Option) *Controller {
	c := &Controller{
		items:      items,
		env:        e,
		breakpoint: DefaultBreakpoint,
		ids:        make([]string, len(items)),
		dropdowns:  make(map[string]*dropdown.State),
		events:     metric.Nop,
		log:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	for i, item := range items {
		id := ItemID(i)
		c.ids[i] = id
		if nav.Classify(item) == nav.Leaf {
			continue
		}
		c.dropdowns[id] = dropdown.New(id, item,
			dropdown.WithListeners(e),
			dropdown.WithNotify(func() { c.update(c.touch) }),
		)
	}

	return c
}

// Mount reads the initial location and starts listening for resize and
// route changes. Mounting twice is a no-op.
func (c *Controller) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true

	c.path, c.hydrated = c.env.Location()
	c.subs = append(c.subs,
		c.env.OnResize(c.resized),
		c.env.OnRouteChange(c.RouteChanged),
	)

	c.log.Debug("menu mounted", "path", c.CurrentPath(), "hydrated", c.hydrated, "items", len(c.items))
}

// Unmount closes every open state and releases all listeners and the scroll
// lock. Unmounting twice is a no-op.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false

	for _, d := range c.dropdowns {
		d.Release()
	}
	c.closeMobile()

	for _, s := range c.subs {
		s.Remove()
	}
	c.subs = nil
	c.dirty = false

	c.log.Debug("menu unmounted")
}

// Mounted reports whether the controller is mounted.
func (c *Controller) Mounted() bool { return c.mounted }

// CurrentPath returns the current location, or the root path until the
// environment has confirmed it.
func (c *Controller) CurrentPath() string {
	if !c.hydrated || c.path == "" {
		return nav.RootPath
	}
	return c.path
}

// MobileMenuOpen reports whether the mobile menu is open.
func (c *Controller) MobileMenuOpen() bool { return c.mobileOpen }

// Dropdown returns the dropdown of the item with the given id.
func (c *Controller) Dropdown(id string) (*dropdown.State, bool) {
	d, ok := c.dropdowns[id]
	return d, ok
}

// Items returns the top-level items.
func (c *Controller) Items() []nav.Item { return c.items }

// ToggleMobileMenu opens or closes the mobile menu.
func (c *Controller) ToggleMobileMenu() {
	if !c.mounted {
		return
	}
	c.update(func() {
		if c.mobileOpen {
			c.closeAll()
			return
		}
		c.mobileOpen = true
		c.scroll = env.LockScroll(c.env)
		c.events.Increment(EventMobileOpen)
		c.touch()
	})
}

// CloseMobileMenu closes the mobile menu and every dropdown.
func (c *Controller) CloseMobileMenu() {
	if !c.mounted {
		return
	}
	c.update(c.closeAll)
}

// OverlayClick handles a click on the overlay shown behind the open mobile menu.
func (c *Controller) OverlayClick() {
	if !c.mounted || !c.mobileOpen {
		return
	}
	c.events.Increment(EventOverlay)
	c.CloseMobileMenu()
}

// RouteChanged records a completed navigation. A new path closes the mobile
// menu and every dropdown.
func (c *Controller) RouteChanged(path string) {
	if !c.mounted {
		return
	}
	c.update(func() {
		prev := c.CurrentPath()
		wasHydrated := c.hydrated

		c.path = path
		c.hydrated = true

		if c.CurrentPath() == prev {
			if !wasHydrated {
				c.touch()
			}
			return
		}

		c.log.Debug("route changed", "from", prev, "to", c.CurrentPath())
		c.events.Increment(EventNavigate)
		c.closeAll()
		c.touch()
	})
}

// Select activates the entry with the given resolved path: it reports the
// click, closes every dropdown and the mobile menu, then navigates.
// It reports whether the path names an entry of the menu.
func (c *Controller) Select(resolved string) bool {
	if !c.mounted {
		return false
	}

	entry, ok := nav.Find(c.items, resolved)
	if !ok {
		c.log.Debug("select ignored, unknown path", "path", resolved)
		return false
	}

	c.update(func() {
		c.events.Increment(EventItemClick)
		if c.onItemClick != nil {
			c.onItemClick(entry)
		}

		c.closeAll()

		c.env.Navigate(entry.Resolved)
		if c.onNavigate != nil {
			c.onNavigate(entry.Resolved)
		}
	})

	return true
}

// ToggleDropdown toggles the dropdown of item id. It reports whether the
// item has a dropdown.
func (c *Controller) ToggleDropdown(id string) bool {
	d, ok := c.dropdowns[id]
	if !ok || !c.mounted {
		return false
	}

	c.update(func() {
		d.Toggle()
		c.touch()
	})

	return true
}

// ToggleGroup expands or collapses group i of item id.
func (c *Controller) ToggleGroup(id string, i int) bool {
	d, ok := c.dropdowns[id]
	if !ok || !c.mounted {
		return false
	}

	changed := false
	c.update(func() {
		if changed = d.ToggleGroup(i); changed {
			c.touch()
		}
	})

	return changed
}

// KeyDown handles a key pressed on the toggle control of item id. With an
// empty id the key is routed to the first open dropdown, so Escape pressed
// anywhere closes the most specific open state. It reports whether the key
// was handled.
func (c *Controller) KeyDown(id, key string) bool {
	if !c.mounted {
		return false
	}
	if id == "" {
		id = c.firstOpen()
	}

	d, ok := c.dropdowns[id]
	if !ok {
		return false
	}

	var res dropdown.KeyResult
	c.update(func() {
		res = d.HandleKey(key)
		if res.Handled {
			c.touch()
		}
	})

	if res.Focus != "" {
		c.env.Focus(res.Focus)
	}

	return res.Handled
}

func (c *Controller) firstOpen() string {
	for _, id := range c.ids {
		if d, ok := c.dropdowns[id]; ok && d.IsOpen() {
			return id
		}
	}
	return ""
}

func (c *Controller) resized(width int) {
	if !c.mounted || width <= c.breakpoint || !c.mobileOpen {
		return
	}

	c.log.Debug("wide layout, closing mobile menu", "width", width, "breakpoint", c.breakpoint)
	c.events.Increment(EventForceClose)
	c.CloseMobileMenu()
}

// closeAll closes every dropdown and the mobile menu.
func (c *Controller) closeAll() {
	for _, id := range c.ids {
		d, ok := c.dropdowns[id]
		if !ok {
			continue
		}
		if d.IsOpen() || len(d.ExpandedGroups()) > 0 {
			d.Close()
			c.touch()
		}
	}
	c.closeMobile()
}

func (c *Controller) closeMobile() {
	if !c.mobileOpen {
		return
	}
	c.mobileOpen = false
	c.scroll.Release()
	c.scroll = nil
	c.touch()
}

// update applies fn as one transition: observers are notified once, after
// the outermost update returns.
func (c *Controller) update(fn func()) {
	c.depth++
	fn()
	c.depth--

	if c.depth > 0 || !c.dirty {
		return
	}
	c.dirty = false

	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) touch() {
	c.dirty = true
}
