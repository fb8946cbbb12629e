package menu

import (
	"strconv"

	"github.com/mchmarny/navmenu/pkg/dropdown"
	"github.com/mchmarny/navmenu/pkg/nav"
	"github.com/mchmarny/navmenu/pkg/theme"
)

// AriaCurrentPage marks the link of the page being displayed.
const AriaCurrentPage = "page"

// View is a consistent snapshot of the menu for a renderer.
type View struct {
	MobileMenuOpen bool             `json:"mobile_menu_open"`
	OverlayVisible bool             `json:"overlay_visible"`
	CurrentPath    string           `json:"current_path"`
	Theme          theme.Preference `json:"theme"`
	MobileToggle   Toggle           `json:"mobile_toggle"`
	Items          []ItemView       `json:"items"`
}

// Toggle describes a disclosure button and its accessibility attributes.
type Toggle struct {
	ID       string `json:"id,omitempty"`
	Controls string `json:"aria_controls"`
	Expanded bool   `json:"aria_expanded"`
	Label    string `json:"aria_label"`
}

// ItemView is one top-level item.
type ItemView struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Path                string        `json:"path"`
	Kind                nav.Kind      `json:"kind"`
	Active              bool          `json:"active"`
	HasActiveDescendant bool          `json:"has_active_descendant"`
	Open                bool          `json:"open"`
	AriaCurrent         string        `json:"aria_current,omitempty"`
	Toggle              *Toggle       `json:"toggle,omitempty"`
	Children            *ChildrenView `json:"children,omitempty"`
}

// ChildrenView is the dropdown content of an item.
type ChildrenView struct {
	Kind    nav.Kind    `json:"kind"`
	Hidden  bool        `json:"aria_hidden"`
	Entries []EntryView `json:"entries,omitempty"`
	Groups  []GroupView `json:"groups,omitempty"`
}

// EntryView is a link inside a dropdown.
type EntryView struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Active      bool   `json:"active"`
	AriaCurrent string `json:"aria_current,omitempty"`
}

// GroupView is a group header and its entries.
type GroupView struct {
	Index    int         `json:"index"`
	Header   EntryView   `json:"header"`
	Expanded bool        `json:"expanded"`
	Toggle   *Toggle     `json:"toggle,omitempty"`
	Entries  []EntryView `json:"entries"`
}

// View returns the current snapshot.
func (c *Controller) View() View {
	v := render(c.items, c.ids, c.CurrentPath(), func(id string) *dropdown.State {
		return c.dropdowns[id]
	})
	v.MobileMenuOpen = c.mobileOpen
	v.OverlayVisible = c.mobileOpen
	v.MobileToggle.Expanded = c.mobileOpen
	v.MobileToggle.Label = mobileLabel(c.mobileOpen)
	v.Theme = c.theme
	return v
}

// Render returns the snapshot of a freshly mounted menu at path, with
// everything closed. It is used for the first paint before a session exists.
func Render(items []nav.Item, path string) View {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = ItemID(i)
	}
	if path == "" {
		path = nav.RootPath
	}
	return render(items, ids, path, func(string) *dropdown.State { return nil })
}

func render(items []nav.Item, ids []string, current string, lookup func(id string) *dropdown.State) View {
	v := View{
		CurrentPath: current,
		MobileToggle: Toggle{
			Controls: NavigationID,
			Label:    mobileLabel(false),
		},
		Items: make([]ItemView, 0, len(items)),
	}

	for i, item := range items {
		v.Items = append(v.Items, renderItem(ids[i], item, current, lookup(ids[i])))
	}

	return v
}

func renderItem(id string, item nav.Item, current string, d *dropdown.State) ItemView {
	iv := ItemView{
		ID:                  id,
		Name:                item.Name,
		Path:                item.Path,
		Kind:                nav.Classify(item),
		Active:              nav.IsActive(item.Path, current),
		HasActiveDescendant: nav.HasActiveDescendant(item, current),
	}
	iv.AriaCurrent = ariaCurrent(iv.Active)

	if iv.Kind == nav.Leaf {
		return iv
	}

	open := d != nil && d.IsOpen()
	iv.Open = open
	iv.Toggle = &Toggle{
		ID:       id + "-toggle",
		Controls: id + "-dropdown",
		Expanded: open,
		Label:    dropdownLabel(open, item.Name),
	}

	children := nav.ChildrenOf(item, item.Path)
	cv := &ChildrenView{Kind: children.Kind, Hidden: !open}

	for _, e := range children.Entries {
		cv.Entries = append(cv.Entries, entryView(e, current))
	}

	for _, g := range children.Groups {
		expanded := d != nil && d.Expanded(g.Index)
		gv := GroupView{
			Index:    g.Index,
			Header:   entryView(g.Header, current),
			Expanded: expanded,
			Entries:  make([]EntryView, 0, len(g.Entries)),
		}
		if len(g.Entries) > 0 {
			gv.Toggle = &Toggle{
				Controls: id + "-group-" + strconv.Itoa(g.Index),
				Expanded: expanded,
				Label:    groupLabel(expanded, g.Header.Name),
			}
		}
		for _, e := range g.Entries {
			gv.Entries = append(gv.Entries, entryView(e, current))
		}
		cv.Groups = append(cv.Groups, gv)
	}

	iv.Children = cv
	return iv
}

func entryView(e nav.Entry, current string) EntryView {
	active := nav.IsActive(e.Resolved, current)
	return EntryView{
		Name:        e.Name,
		Path:        e.Resolved,
		Active:      active,
		AriaCurrent: ariaCurrent(active),
	}
}

func ariaCurrent(active bool) string {
	if active {
		return AriaCurrentPage
	}
	return ""
}

func mobileLabel(open bool) string {
	if open {
		return "Close menu"
	}
	return "Open menu"
}

func dropdownLabel(open bool, name string) string {
	if open {
		return "Close the " + name + " submenu"
	}
	return "Open the " + name + " submenu"
}

func groupLabel(expanded bool, name string) string {
	if expanded {
		return "Collapse the " + name + " group"
	}
	return "Expand the " + name + " group"
}
