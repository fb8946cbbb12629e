package nav

import "strings"

// RootPath is the landing page path. It only matches itself.
const RootPath = "/"

// IsActive reports whether path should read as active for the current location.
// The root path is active only on the root page; any other path is active
// when the current location starts with it, so section pages stay highlighted
// while one of their descendants is open.
func IsActive(path, current string) bool {
	if path == RootPath {
		return current == RootPath
	}
	if path == "" {
		return false
	}
	return strings.HasPrefix(current, path)
}

// HasActiveDescendant reports whether any child of a top-level item, at any
// depth, is active for the current location. The item's own path is used as
// its resolved path.
func HasActiveDescendant(item Item, current string) bool {
	return HasActiveDescendantAt(item, item.Path, current)
}

// HasActiveDescendantAt is HasActiveDescendant for an item whose resolved
// path is already known.
func HasActiveDescendantAt(item Item, resolved, current string) bool {
	for _, child := range item.Children {
		childPath := ResolvePath(resolved, child.Path)
		if IsActive(childPath, current) {
			return true
		}
		if HasActiveDescendantAt(child, childPath, current) {
			return true
		}
	}
	return false
}
