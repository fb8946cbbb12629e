package nav

import "fmt"

// MaxDepth is the deepest level the menu renders: top bar, group, entry.
const MaxDepth = 3

// Entry is a navigable child together with its resolved path.
type Entry struct {
	Item     Item   `json:"-"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Resolved string `json:"resolved"`
}

// Group is one header of a grouped dropdown and the entries beneath it.
type Group struct {
	Index   int     `json:"index"`
	Header  Entry   `json:"header"`
	Entries []Entry `json:"entries"`
}

// Children is the uniform description of what a dropdown renders.
// Entries is set for FlatList, Groups for Grouped, neither for Leaf.
type Children struct {
	Kind    Kind    `json:"kind"`
	Entries []Entry `json:"entries,omitempty"`
	Groups  []Group `json:"groups,omitempty"`
}

func newEntry(item Item, parent string) Entry {
	return Entry{
		Item:     item,
		Name:     item.Name,
		Path:     item.Path,
		Resolved: ResolvePath(parent, item.Path),
	}
}

// ChildrenOf normalizes the children of an item whose resolved path is
// resolved, so renderers never re-implement the classification rule.
func ChildrenOf(item Item, resolved string) Children {
	kind := Classify(item)
	out := Children{Kind: kind}

	switch kind {
	case FlatList:
		out.Entries = make([]Entry, 0, len(item.Children))
		for _, child := range item.Children {
			out.Entries = append(out.Entries, newEntry(child, resolved))
		}
	case Grouped:
		out.Groups = make([]Group, 0, len(item.Children))
		for i, group := range item.Children {
			header := newEntry(group, resolved)
			g := Group{Index: i, Header: header, Entries: []Entry{}}
			for _, sub := range group.Children {
				g.Entries = append(g.Entries, newEntry(sub, header.Resolved))
			}
			out.Groups = append(out.Groups, g)
		}
	}

	return out
}

// GroupCount returns the number of groups of a Grouped item, zero otherwise.
func GroupCount(item Item) int {
	if Classify(item) != Grouped {
		return 0
	}
	return len(item.Children)
}

// WalkFunc is called for every entry of a tree with its depth, starting at 1.
// Returning false stops the walk.
type WalkFunc func(e Entry, depth int) bool

// Walk visits every item of the tree depth first, in declaration order.
func Walk(items []Item, fn WalkFunc) {
	walk(items, "", 1, fn)
}

func walk(items []Item, parent string, depth int, fn WalkFunc) bool {
	for _, item := range items {
		e := newEntry(item, parent)
		if !fn(e, depth) {
			return false
		}
		if !walk(item.Children, e.Resolved, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the first entry whose resolved path equals resolved.
func Find(items []Item, resolved string) (Entry, bool) {
	var (
		found Entry
		ok    bool
	)
	Walk(items, func(e Entry, _ int) bool {
		if e.Resolved == resolved {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// Validate reports structural problems that classification tolerates but
// that usually indicate a mistake in the navigation document.
func Validate(items []Item) []string {
	var problems []string

	Walk(items, func(e Entry, depth int) bool {
		if e.Name == "" {
			problems = append(problems, fmt.Sprintf("%s: missing name", e.Resolved))
		}
		if depth > MaxDepth {
			problems = append(problems, fmt.Sprintf("%s: depth %d exceeds %d", e.Resolved, depth, MaxDepth))
		}
		if Classify(e.Item) == Grouped {
			for i, group := range e.Item.Children {
				if !group.HasChildren() {
					problems = append(problems, fmt.Sprintf("%s: group %d has no children, mixed shapes are not supported", e.Resolved, i))
				}
			}
		}
		return true
	})

	return problems
}
