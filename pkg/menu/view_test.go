package menu

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navmenu/pkg/env"
	"github.com/mchmarny/navmenu/pkg/nav"
)

func TestViewFlatScenario(t *testing.T) {
	doc := env.NewDocument(env.WithLocation("/b/x"))
	c := New(testItems()[:2], doc)
	c.Mount()
	defer c.Unmount()

	v := c.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, "/b/x", v.CurrentPath)

	a := v.Items[0]
	assert.Equal(t, nav.Leaf, a.Kind)
	assert.Nil(t, a.Toggle)
	assert.Nil(t, a.Children)
	assert.False(t, a.Active)

	b := v.Items[1]
	assert.Equal(t, nav.FlatList, b.Kind)
	assert.True(t, b.HasActiveDescendant)
	assert.True(t, b.Active, "section prefix stays active")
	require.NotNil(t, b.Children)
	require.Len(t, b.Children.Entries, 2)
	assert.True(t, b.Children.Entries[0].Active)
	assert.Equal(t, AriaCurrentPage, b.Children.Entries[0].AriaCurrent)
	assert.False(t, b.Children.Entries[1].Active)
	assert.Empty(t, b.Children.Entries[1].AriaCurrent)
	assert.True(t, b.Children.Hidden)
}

func TestViewReflectsState(t *testing.T) {
	doc := env.NewDocument(env.WithLocation("/reports/ops/latency"))
	c := New(testItems(), doc)
	c.Mount()
	defer c.Unmount()

	c.ToggleMobileMenu()
	c.ToggleDropdown("nav-2")
	c.ToggleGroup("nav-2", 1)

	v := c.View()
	assert.True(t, v.MobileMenuOpen)
	assert.True(t, v.OverlayVisible)
	assert.True(t, v.MobileToggle.Expanded)
	assert.Equal(t, NavigationID, v.MobileToggle.Controls)
	assert.Equal(t, "Close menu", v.MobileToggle.Label)

	r := v.Items[2]
	assert.True(t, r.Open)
	require.NotNil(t, r.Toggle)
	assert.Equal(t, "nav-2-toggle", r.Toggle.ID)
	assert.Equal(t, "nav-2-dropdown", r.Toggle.Controls)
	assert.True(t, r.Toggle.Expanded)
	assert.Equal(t, "Close the Reports submenu", r.Toggle.Label)

	require.Len(t, r.Children.Groups, 2)
	assert.False(t, r.Children.Hidden)
	assert.False(t, r.Children.Groups[0].Expanded)
	assert.True(t, r.Children.Groups[1].Expanded)
	assert.True(t, r.Children.Groups[1].Header.Active)
	assert.Equal(t, "/reports/ops/latency", r.Children.Groups[1].Entries[1].Path)
	assert.True(t, r.Children.Groups[1].Entries[1].Active)
	assert.Equal(t, "nav-2-group-1", r.Children.Groups[1].Toggle.Controls)
	assert.Equal(t, "Collapse the Ops group", r.Children.Groups[1].Toggle.Label)
}

func TestRenderFirstPaint(t *testing.T) {
	v := Render(testItems(), "")
	assert.Equal(t, "/", v.CurrentPath)
	assert.False(t, v.MobileMenuOpen)
	for _, item := range v.Items {
		assert.False(t, item.Open)
		assert.False(t, item.Active)
	}
}

func TestViewJSON(t *testing.T) {
	data, err := json.Marshal(Render(testItems(), "/b/y"))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	items := out["items"].([]any)
	b := items[1].(map[string]any)
	assert.Equal(t, "flat", b["kind"])
	assert.Equal(t, true, b["has_active_descendant"])
}

func TestMenuHandlers(t *testing.T) {
	m := &Menu{Title: "Main", Version: "v1", Items: testItems()}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/navigation", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Title string `json:"title"`
		Items []Node `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "Main", doc.Title)
	require.Len(t, doc.Items, 3)
	assert.Equal(t, "nav-2", doc.Items[2].ID)
	assert.Equal(t, "/reports/ops/errors", doc.Items[2].Children[1].Children[2].Resolved)

	registered := map[string]bool{}
	m.RegisterHandlers(func(pattern string, _ http.Handler) {
		registered[pattern] = true
	}, m.ViewHandler)
	assert.Len(t, registered, 12)
	assert.True(t, registered["/reports/sales/monthly"])

	rec = httptest.NewRecorder()
	m.ViewHandler("/b/x").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/b/x", nil))
	var v View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "/b/x", v.CurrentPath)
}
