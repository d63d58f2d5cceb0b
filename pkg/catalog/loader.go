package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSource names the built-in catalog.
const DefaultSource = "builtin:default.yaml"

//go:embed default.yaml
var defaultCatalog []byte

// Parse decodes a YAML catalog document.
func Parse(data []byte, source string) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: %s: %w", source, ErrEmpty)
	}
	var lists map[string][]Entry
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", source, err)
	}
	c, err := New(lists, source)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", source, err)
	}
	return c, nil
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog, DefaultSource)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
}

// LoadOrDefault loads path, falling back to the built-in catalog when path is
// empty or cannot be loaded. The returned error reports why the fallback was
// used; the catalog is never nil.
func LoadOrDefault(path string, logger *slog.Logger) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	c, err := LoadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn("animation catalog unusable, using built-in", "path", path, "error", err)
		}
		return Default(), err
	}
	return c, nil
}
