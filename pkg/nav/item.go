package nav

import "fmt"

// Item represents an individual navigation entry, which may contain sub-items.
type Item struct {
	// Path is the segment of the entry relative to its parent's resolved path.
	Path string `json:"path" yaml:"path" toml:"path"`

	// Name is the display label of the entry.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Children are the sub-items of this entry. A nil or empty slice is a leaf.
	Children []Item `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Kind is the structural classification of an item's children.
type Kind int

const (
	// Leaf has no children and renders without a dropdown affordance.
	Leaf Kind = iota

	// FlatList has a single level of children.
	FlatList

	// Grouped has children that are themselves group headers with children.
	Grouped
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case FlatList:
		return "flat"
	case Grouped:
		return "grouped"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name so views serialize readably.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "leaf":
		*k = Leaf
	case "flat":
		*k = FlatList
	case "grouped":
		*k = Grouped
	default:
		return fmt.Errorf("unknown kind %q", b)
	}
	return nil
}

// HasChildren reports whether the item carries at least one child.
func (i Item) HasChildren() bool {
	return len(i.Children) > 0
}

// Classify assigns the structural kind of the item.
// Only the first child is inspected: an item is Grouped when its first child
// has children of its own, FlatList when it has any children, Leaf otherwise.
// The grouped check must come first so that flat siblings are never promoted.
func Classify(item Item) Kind {
	if len(item.Children) == 0 {
		return Leaf
	}
	if item.Children[0].HasChildren() {
		return Grouped
	}
	return FlatList
}

// ResolvePath joins a parent's resolved path with a child segment.
func ResolvePath(parent, segment string) string {
	return parent + segment
}
