package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/metric"
	"github.com/mchmarny/navmenu/pkg/nav"
	"github.com/mchmarny/navmenu/pkg/theme"
)

// Manager accepts WebSocket connections and runs one Session per connection.
type Manager struct {
	items      []nav.Item
	breakpoint int
	themes     func(subject string) theme.Reader
	events     metric.IncrementalCounter
	clicks     metric.IncrementalCounter
	open       metric.UpDownGauge
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithBreakpoint sets the mobile layout breakpoint of every session.
func WithBreakpoint(px int) Option {
	return func(m *Manager) { m.breakpoint = px }
}

// WithThemeSource sets where theme preferences are read for clients that do
// not report their own storage.
func WithThemeSource(fn func(subject string) theme.Reader) Option {
	return func(m *Manager) { m.themes = fn }
}

// WithEventCounter records menu events of every session.
func WithEventCounter(c metric.IncrementalCounter) Option {
	return func(m *Manager) { m.events = c }
}

// WithClickCounter records selected entries, labelled by resolved path.
func WithClickCounter(c metric.IncrementalCounter) Option {
	return func(m *Manager) { m.clicks = c }
}

// WithSessionGauge tracks the number of open sessions.
func WithSessionGauge(g metric.UpDownGauge) Option {
	return func(m *Manager) { m.open = g }
}

// WithCheckOrigin sets the origin check of the WebSocket upgrade.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(m *Manager) { m.upgrader.CheckOrigin = fn }
}

// NewManager creates a manager serving the given navigation tree.
func NewManager(items []nav.Item, opts ...Option) *Manager {
	m := &Manager{
		items:      items,
		breakpoint: menu.DefaultBreakpoint,
		events:     metric.Nop,
		clicks:     metric.Nop,
		open:       metric.NopGauge,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Ready reports whether there is a navigation tree to serve.
func (m *Manager) Ready(_ context.Context) error {
	if len(m.items) == 0 {
		return errors.New("navigation tree is empty")
	}
	return nil
}

// CloseAll sends a going-away close frame to every open session and closes
// its connection, ending its read loop. http.Server.Shutdown does not track
// hijacked connections, so the server calls this when shutting down.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.close()
	}

	slog.Info("sessions closed", "count", len(open))
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	m.open.Inc()
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()
	m.open.Dec()
}

func (m *Manager) onItemClick(e nav.Entry) {
	m.clicks.Increment(e.Resolved)
	slog.Info("navigation item clicked", "name", e.Name, "path", e.Resolved)
}

// ServeHTTP upgrades the connection and runs the session until the client
// goes away. The first message must be a hello.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	s := newSession(conn)
	m.add(s)
	defer m.remove(s)
	defer s.stop()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Error("websocket read", "error", err)
			}
			return
		}

		req, err := decode(msg)
		if err != nil {
			s.sendError(err.Error())
			continue
		}

		if s.ctrl == nil {
			if req.Type != TypeHello {
				s.sendError("hello is required before " + req.Type)
				continue
			}
			s.start(r.Context(), m, req)
			continue
		}

		if err := s.handle(req); err != nil {
			s.sendError(err.Error())
		}
	}
}
