package menu

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mchmarny/navmenu/pkg/nav"
)

// Menu represents the root navigation document.
type Menu struct {
	// Title is the menu
	Title string `json:"title"`

	// Version of the navigation document
	Version string `json:"version,omitempty"`

	// Items is the list of top-level navigation items
	Items []nav.Item `json:"items"`
}

// Node is an item annotated with its classification, as served to renderers.
type Node struct {
	ID       string   `json:"id,omitempty"`
	Path     string   `json:"path"`
	Resolved string   `json:"resolved"`
	Name     string   `json:"name"`
	Kind     nav.Kind `json:"kind"`
	Children []Node   `json:"children,omitempty"`
}

// Nodes returns the classified tree.
func (m *Menu) Nodes() []Node {
	out := make([]Node, 0, len(m.Items))
	for i, item := range m.Items {
		n := node(item, "")
		n.ID = ItemID(i)
		out = append(out, n)
	}
	return out
}

func node(item nav.Item, parent string) Node {
	resolved := nav.ResolvePath(parent, item.Path)
	n := Node{
		Path:     item.Path,
		Resolved: resolved,
		Name:     item.Name,
		Kind:     nav.Classify(item),
	}
	for _, child := range item.Children {
		n.Children = append(n.Children, node(child, resolved))
	}
	return n
}

// RegisterHandlers walks through the navigation tree and registers a handler
// for the resolved path of every entry. Each path is registered once and
// paths that are not absolute are skipped.
func (m *Menu) RegisterHandlers(register func(pattern string, handler http.Handler), page func(path string) http.Handler) {
	seen := make(map[string]bool)
	nav.Walk(m.Items, func(e nav.Entry, _ int) bool {
		if !strings.HasPrefix(e.Resolved, "/") || seen[e.Resolved] {
			return true
		}
		seen[e.Resolved] = true
		register(e.Resolved, page(e.Resolved))
		return true
	})
}

// Handler returns an HTTP handler that responds with the classified
// navigation tree as JSON.
func (m *Menu) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("handling navigation request",
			"method", r.Method,
			"url", r.URL.Path,
		)

		writeJSON(w, map[string]any{
			"title":   m.Title,
			"version": m.Version,
			"items":   m.Nodes(),
		})
	})
}

// ViewHandler returns an HTTP handler that responds with the first-paint
// view of the menu at path.
func (m *Menu) ViewHandler(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("handling view request",
			"method", r.Method,
			"url", r.URL.Path,
			"path", path,
		)

		writeJSON(w, Render(m.Items, path))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
		return
	}
}
