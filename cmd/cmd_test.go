package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/nav"
)

const navDoc = `{
  "main_menu": [
    {"path": "/", "name": "Home"},
    {"path": "/docs", "name": "Docs", "children": [
      {"path": "/intro", "name": "Introduction"},
      {"path": "/install", "name": "Install"}
    ]}
  ]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navigation.json")
	require.NoError(t, os.WriteFile(path, []byte(navDoc), 0o644))

	c := config.DefaultConfig()
	c.NavigationFile = path
	return c
}

func TestInspect(t *testing.T) {
	items := []nav.Item{
		{Path: "/", Name: "Home"},
		{Path: "/docs", Name: "Docs", Children: []nav.Item{
			{Path: "/intro", Name: "Introduction"},
			{Path: "/install"},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, items, "/docs/intro", false))
	out := buf.String()

	assert.Contains(t, out, "  leaf    /  Home\n")
	assert.Contains(t, out, "* flat    /docs  Docs\n")
	assert.Contains(t, out, "  * leaf    /docs/intro  Introduction\n")
	assert.Contains(t, out, "    leaf    /docs/install  \n")
	assert.Contains(t, out, "warning: /docs/install: missing name")
}

func TestInspectView(t *testing.T) {
	items := []nav.Item{{Path: "/", Name: "Home"}}

	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, items, "/", true))

	var v menu.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &v))
	assert.Equal(t, "/", v.CurrentPath)
	require.Len(t, v.Items, 1)
	assert.True(t, v.Items[0].Active)
}

func TestNewServer(t *testing.T) {
	srv, cleanup, err := newServer(testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := httpGet(t, ts.URL+NavigationPath)
	var doc struct {
		Items []menu.Node `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Len(t, doc.Items, 2)
	assert.Equal(t, nav.FlatList, doc.Items[1].Kind)

	var v menu.View
	require.NoError(t, json.Unmarshal([]byte(httpGet(t, ts.URL+ViewPrefix+"/docs/intro")), &v))
	assert.Equal(t, "/docs/intro", v.CurrentPath)
	assert.True(t, v.Items[1].HasActiveDescendant)

	assert.Equal(t, "ok", httpGet(t, ts.URL+"/readyz"))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+SessionPath, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "hello", "path": "/docs"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var resp struct {
		Type string    `json:"type"`
		View menu.View `json:"view"`
	}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "state", resp.Type)
	assert.True(t, resp.View.Items[1].Active)

	assert.Contains(t, httpGet(t, ts.URL+"/metrics"), "navmenu_sessions 1")
}

func TestNewServerErrors(t *testing.T) {
	c := config.DefaultConfig()
	c.NavigationFile = filepath.Join(t.TempDir(), "missing.json")
	_, _, err := newServer(c)
	assert.Error(t, err)

	c = testConfig(t)
	c.RedisURL = "not-a-redis-url"
	_, _, err = newServer(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme store")
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, SessionPath, nil)
	assert.True(t, check(req), "no origin")

	req.Header.Set("Origin", "https://example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.test")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}

func httpGet(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, url)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
