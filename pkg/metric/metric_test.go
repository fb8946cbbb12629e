package metric

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg prometheus.Gatherer) string {
	t.Helper()
	rec := httptest.NewRecorder()
	GetHandlerForRegistry(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCounterWithRegistry(reg, "events_total", "Menu events.", "event")

	c.Increment("navigate")
	c.Increment("navigate")
	c.Increment("item_click")

	body := scrape(t, reg)
	assert.Contains(t, body, `navmenu_events_total{event="navigate"} 2`)
	assert.Contains(t, body, `navmenu_events_total{event="item_click"} 1`)

	Nop.Increment("anything")
}

func TestGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := NewGaugeWithRegistry(reg, "sessions", "Open sessions.")

	g.Inc()
	g.Inc()
	g.Dec()

	assert.Contains(t, scrape(t, reg), "navmenu_sessions 1")

	NopGauge.Inc()
	NopGauge.Dec()
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCounterWithRegistry(reg, "events_total", "Menu events.", "event")
	assert.Panics(t, func() {
		NewCounterWithRegistry(reg, "events_total", "Menu events.", "event")
	})
}
