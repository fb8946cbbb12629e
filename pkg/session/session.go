package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mchmarny/navmenu/pkg/env"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/theme"
)

const closeGracePeriod = time.Second

// Session is one mounted menu driven by one WebSocket connection.
// Inbound messages are applied one at a time by the read loop, which is the
// only goroutine touching the controller and writing data frames.
type Session struct {
	id   string
	conn *websocket.Conn
	doc  *env.Document
	ctrl *menu.Controller
	log  *slog.Logger
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func newSession(conn *websocket.Conn) *Session {
	id := uuid.New().String()
	return &Session{
		id:   id,
		conn: conn,
		log:  slog.Default().With("session", id),
	}
}

// start mounts the controller described by the hello message.
func (s *Session) start(ctx context.Context, m *Manager, hello request) {
	docOpts := []env.DocumentOption{
		env.WithEffects(s.sendEffect),
	}
	if hello.Path != "" {
		docOpts = append(docOpts, env.WithLocation(hello.Path))
	}
	if hello.Width > 0 {
		docOpts = append(docOpts, env.WithWidth(hello.Width))
	}
	if hello.ScrollbarWidth != nil {
		docOpts = append(docOpts, env.WithScrollbarWidth(*hello.ScrollbarWidth))
	}
	if hello.Body != nil {
		docOpts = append(docOpts, env.WithBodyStyle(*hello.Body))
	}
	s.doc = env.NewDocument(docOpts...)

	s.ctrl = menu.New(m.items, s.doc,
		menu.WithBreakpoint(m.breakpoint),
		menu.WithTheme(m.preference(ctx, hello)),
		menu.WithEventCounter(m.events),
		menu.WithLogger(s.log),
		menu.WithOnChange(s.sendState),
		menu.WithItemClick(m.onItemClick),
	)
	s.ctrl.Mount()

	s.log.Info("session started", "path", s.ctrl.CurrentPath(), "width", s.doc.Width())
	s.sendState()
}

// stop unmounts the controller, releasing every listener and the scroll lock.
func (s *Session) stop() {
	if s.ctrl != nil {
		s.ctrl.Unmount()
	}
	s.log.Info("session stopped")
}

// handle applies one inbound message.
func (s *Session) handle(req request) error {
	switch req.Type {
	case TypeRoute:
		s.doc.SetLocation(req.Path)
	case TypeResize:
		if req.ScrollbarWidth != nil {
			s.doc.SetScrollbarWidth(*req.ScrollbarWidth)
		}
		s.doc.Resize(req.Width)
	case TypePointerDown:
		s.doc.PointerDown(env.PointerEvent{Target: req.Target, Path: req.ComposedPath})
	case TypeToggleMobile:
		s.ctrl.ToggleMobileMenu()
	case TypeCloseMobile:
		s.ctrl.CloseMobileMenu()
	case TypeOverlay:
		s.ctrl.OverlayClick()
	case TypeToggle:
		s.ctrl.ToggleDropdown(req.ID)
	case TypeToggleGroup:
		s.ctrl.ToggleGroup(req.ID, req.Group)
	case TypeKeyDown:
		s.ctrl.KeyDown(req.ID, req.Key)
	case TypeSelect:
		if !s.ctrl.Select(req.Path) {
			return fmt.Errorf("unknown navigation path %q", req.Path)
		}
	case TypeState:
		s.sendState()
	case TypeHello:
		return errors.New("session already started")
	default:
		return fmt.Errorf("unknown message type: %s", req.Type)
	}
	return nil
}

// close ends the session from outside its read loop. WriteControl and Close
// are safe to call concurrently with the loop's own writes.
func (s *Session) close() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod)); err != nil {
		s.log.Debug("websocket close frame", "error", err)
	}
	_ = s.conn.Close()
}

func (s *Session) sendState() {
	v := s.ctrl.View()
	s.send(response{Type: TypeState, SessionID: s.id, View: &v})
}

func (s *Session) sendEffect(e env.Effect) {
	s.send(response{Type: TypeEffect, SessionID: s.id, Effect: &e})
}

func (s *Session) sendError(message string) {
	s.send(response{Type: TypeError, SessionID: s.id, Error: message})
}

func (s *Session) send(resp response) {
	if err := s.conn.WriteJSON(resp); err != nil {
		s.log.Error("websocket write", "type", resp.Type, "error", err)
	}
}

// decode parses one inbound frame.
func decode(msg []byte) (request, error) {
	var req request
	if err := json.Unmarshal(msg, &req); err != nil {
		return req, fmt.Errorf("invalid message format: %w", err)
	}
	if req.Type == "" {
		return req, errors.New("message type is required")
	}
	return req, nil
}

// preference resolves the theme context from the hello message: values the
// browser read from its own storage win over the server-side store.
func (m *Manager) preference(ctx context.Context, hello request) theme.Preference {
	if len(hello.Storage) > 0 {
		return theme.FromValues(hello.Storage)
	}
	if m.themes == nil || hello.Subject == "" {
		return theme.Preference{}
	}

	p, err := theme.Read(ctx, m.themes(hello.Subject))
	if err != nil {
		slog.Warn("theme lookup failed", "subject", hello.Subject, "error", err)
		return theme.Preference{}
	}
	return p
}
