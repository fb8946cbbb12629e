package theme

import (
	"context"
	"fmt"
)

const (
	// KeyTheme holds the persisted theme name.
	KeyTheme = "dashboard-theme"

	// KeyManual is set once the user picked a theme explicitly.
	KeyManual = "dashboard-theme-manual"

	Light = "light"
	Dark  = "dark"
)

// Preference is the persisted theme context, consumed read-only.
// An empty Theme means no valid value was persisted.
type Preference struct {
	Theme  string `json:"theme,omitempty"`
	Manual bool   `json:"manual"`
}

// Reader looks up persisted values by key.
type Reader interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
}

// Valid reports whether name is a supported theme.
func Valid(name string) bool {
	return name == Light || name == Dark
}

// Read loads the preference. Unsupported theme values are ignored.
func Read(ctx context.Context, r Reader) (Preference, error) {
	var p Preference

	name, ok, err := r.Get(ctx, KeyTheme)
	if err != nil {
		return p, fmt.Errorf("reading %s: %w", KeyTheme, err)
	}
	if ok && Valid(name) {
		p.Theme = name
	}

	manual, ok, err := r.Get(ctx, KeyManual)
	if err != nil {
		return p, fmt.Errorf("reading %s: %w", KeyManual, err)
	}
	p.Manual = ok && manual != "" && manual != "false"

	return p, nil
}

// FromValues builds a preference from raw client storage values.
func FromValues(values map[string]string) Preference {
	// MemoryStore never fails
	p, _ := Read(context.Background(), MemoryStore(values))
	return p
}

// MemoryStore is a Reader over a fixed map, such as values a browser
// reported from its local storage.
type MemoryStore map[string]string

// Get implements Reader.
func (m MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}
