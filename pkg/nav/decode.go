package nav

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultKey is the document key holding the top-level menu.
const DefaultKey = "main_menu"

// Format is the encoding of a navigation document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported navigation file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads a navigation document from disk.
func LoadFile(path, key string) ([]Item, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading navigation %s: %w", path, err)
	}

	items, err := Decode(data, format, key)
	if err != nil {
		return nil, fmt.Errorf("decoding navigation %s: %w", path, err)
	}

	return items, nil
}

// Decode parses a navigation document. The top-level value is either the
// list of items or an object holding that list under key.
// Entries with an unexpected shape are decoded as leniently as possible:
// children that are not a list make the entry a leaf, and list elements
// that are not objects are skipped.
func Decode(data []byte, format Format, key string) ([]Item, error) {
	var raw any

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	if key == "" {
		key = DefaultKey
	}

	switch v := raw.(type) {
	case []any:
		return FromValue(v), nil
	case map[string]any:
		list, ok := v[key]
		if !ok {
			return nil, fmt.Errorf("key %q not found", key)
		}
		return FromValue(list), nil
	case nil:
		return []Item{}, nil
	default:
		return nil, fmt.Errorf("unexpected top-level %T", raw)
	}
}

// FromValue converts a generic decoded value into items.
// Anything that is not a list yields no items.
func FromValue(v any) []Item {
	list, ok := v.([]any)
	if !ok {
		// go-toml decodes arrays of tables into typed slices
		if maps, isMaps := v.([]map[string]any); isMaps {
			list = make([]any, 0, len(maps))
			for _, m := range maps {
				list = append(list, m)
			}
		} else {
			return nil
		}
	}

	items := make([]Item, 0, len(list))
	for _, el := range list {
		fields, ok := asObject(el)
		if !ok {
			continue
		}
		items = append(items, Item{
			Path:     asString(fields["path"]),
			Name:     asString(fields["name"]),
			Children: nonEmpty(FromValue(fields["children"])),
		})
	}

	return items
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func nonEmpty(items []Item) []Item {
	if len(items) == 0 {
		return nil
	}
	return items
}
