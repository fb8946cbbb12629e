package dropdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/navmenu/pkg/env"
	"github.com/mchmarny/navmenu/pkg/nav"
)

func flatItem() nav.Item {
	return nav.Item{Path: "/b", Name: "B", Children: []nav.Item{
		{Path: "/x", Name: "X"},
		{Path: "/y", Name: "Y"},
	}}
}

func groupedItem() nav.Item {
	return nav.Item{Path: "/reports", Name: "Reports", Children: []nav.Item{
		{Path: "/sales", Name: "Sales", Children: []nav.Item{
			{Path: "/monthly", Name: "Monthly"},
			{Path: "/yearly", Name: "Yearly"},
		}},
		{Path: "/ops", Name: "Ops", Children: []nav.Item{
			{Path: "/uptime", Name: "Uptime"},
			{Path: "/latency", Name: "Latency"},
			{Path: "/errors", Name: "Errors"},
		}},
	}}
}

func TestToggleAndClose(t *testing.T) {
	s := New("nav-1", flatItem())
	assert.False(t, s.IsOpen())

	s.Toggle()
	assert.True(t, s.IsOpen())

	s.Toggle()
	assert.False(t, s.IsOpen())

	s.Toggle()
	s.Close()
	assert.False(t, s.IsOpen())

	s.Close()
	assert.False(t, s.IsOpen())
}

func TestToggleLeafIsNoop(t *testing.T) {
	s := New("nav-0", nav.Item{Path: "/a", Name: "A", Children: []nav.Item{}})
	s.Toggle()
	assert.False(t, s.IsOpen())
	assert.Equal(t, KeyResult{}, s.HandleKey(KeyEnter))
	assert.False(t, s.ToggleGroup(0))
}

func TestIDs(t *testing.T) {
	s := New("nav-3", flatItem())
	assert.Equal(t, "nav-3", s.ID())
	assert.Equal(t, "nav-3-toggle", s.ToggleID())
	assert.Equal(t, "nav-3-dropdown", s.PanelID())
	assert.Equal(t, nav.FlatList, s.Kind())
	assert.Equal(t, "B", s.Item().Name)
}

func TestToggleGroupIdempotentPair(t *testing.T) {
	s := New("nav-2", groupedItem())
	s.Toggle()
	before := s.ExpandedGroups()
	require.Empty(t, before)

	require.True(t, s.ToggleGroup(1))
	assert.True(t, s.Expanded(1))
	assert.Equal(t, []int{1}, s.ExpandedGroups())

	require.True(t, s.ToggleGroup(1))
	assert.Equal(t, before, s.ExpandedGroups())
}

func TestToggleGroupMultiple(t *testing.T) {
	s := New("nav-2", groupedItem())
	s.Toggle()
	s.ToggleGroup(1)
	s.ToggleGroup(0)
	assert.Equal(t, []int{0, 1}, s.ExpandedGroups())

	assert.False(t, s.ToggleGroup(2), "out of range")
	assert.False(t, s.ToggleGroup(-1), "out of range")
}

func TestToggleGroupRequiresOpenDropdown(t *testing.T) {
	s := New("nav-2", groupedItem())
	assert.False(t, s.ToggleGroup(1))
	assert.Empty(t, s.ExpandedGroups())
	assert.Equal(t, KeyResult{}, s.HandleKey(KeyEscape))

	s.Toggle()
	require.True(t, s.ToggleGroup(1))
	s.Toggle()
	assert.Empty(t, s.ExpandedGroups(), "closing collapses groups")
	assert.False(t, s.ToggleGroup(0))
}

func TestToggleGroupRequiresGrouped(t *testing.T) {
	s := New("nav-1", flatItem())
	s.Toggle()
	assert.False(t, s.ToggleGroup(0))
	assert.Empty(t, s.ExpandedGroups())
}

func TestCloseCollapsesGroups(t *testing.T) {
	s := New("nav-2", groupedItem())
	s.Toggle()
	s.ToggleGroup(0)
	s.Close()
	assert.Empty(t, s.ExpandedGroups())
}

func TestOutsidePointerCloses(t *testing.T) {
	doc := env.NewDocument()
	notified := 0
	s := New("nav-1", flatItem(), WithListeners(doc), WithNotify(func() { notified++ }))

	s.Toggle()
	require.True(t, s.Listening())
	require.Equal(t, 1, doc.ListenerCount())

	doc.PointerDown(env.PointerEvent{Target: "nav-1-link", Path: []string{"nav-1-link", "nav-1"}})
	assert.True(t, s.IsOpen(), "inside pointer keeps it open")
	assert.Equal(t, 0, notified)

	doc.PointerDown(env.PointerEvent{Target: "main", Path: []string{"main", "body"}})
	assert.False(t, s.IsOpen())
	assert.Equal(t, 1, notified)
	assert.False(t, s.Listening())
	assert.Equal(t, 0, doc.ListenerCount())
}

func TestListenerTracksOpenLifetime(t *testing.T) {
	doc := env.NewDocument()
	s := New("nav-1", flatItem(), WithListeners(doc))

	for range 3 {
		s.Toggle()
		assert.Equal(t, 1, doc.ListenerCount())
		s.Toggle()
		assert.Equal(t, 0, doc.ListenerCount())
	}

	s.Toggle()
	s.Release()
	assert.Equal(t, 0, doc.ListenerCount())
	s.Release()
	assert.Equal(t, 0, doc.ListenerCount())
}

func TestStaleListenerDoesNotCloseOtherDropdown(t *testing.T) {
	doc := env.NewDocument()
	a := New("nav-1", flatItem(), WithListeners(doc))
	b := New("nav-2", groupedItem(), WithListeners(doc))

	a.Toggle()
	a.Close()
	b.Toggle()

	doc.PointerDown(env.PointerEvent{Target: "nav-2-toggle", Path: []string{"nav-2-toggle", "nav-2"}})
	assert.True(t, b.IsOpen())
	assert.Equal(t, 1, doc.ListenerCount())
}

func TestHandleKey(t *testing.T) {
	s := New("nav-2", groupedItem())

	r := s.HandleKey(KeyEnter)
	assert.True(t, r.Handled)
	assert.True(t, s.IsOpen())

	r = s.HandleKey(KeySpace)
	assert.True(t, r.Handled)
	assert.False(t, s.IsOpen())

	assert.Equal(t, KeyResult{}, s.HandleKey(KeyEscape), "escape on closed dropdown does nothing")

	s.HandleKey(KeySpacebar)
	s.ToggleGroup(0)
	s.ToggleGroup(1)

	r = s.HandleKey(KeyEscape)
	assert.Equal(t, KeyResult{Handled: true}, r)
	assert.Equal(t, []int{0}, s.ExpandedGroups(), "most recent group collapses first")

	s.HandleKey(KeyEscape)
	assert.True(t, s.IsOpen())
	assert.Empty(t, s.ExpandedGroups())

	r = s.HandleKey(KeyEscape)
	assert.Equal(t, KeyResult{Handled: true, Focus: "nav-2-toggle"}, r)
	assert.False(t, s.IsOpen())

	assert.Equal(t, KeyResult{}, s.HandleKey("Tab"))
}
