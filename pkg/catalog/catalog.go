// Package catalog holds the named animation lists the behavior engine draws idle
// gestures and expressions from.
//
// A catalog document maps a list name such as "idle_gestures" to an ordered
// sequence of entries. Each entry carries a fire probability and the ranges its
// parameters are drawn from.
package catalog

import (
	"fmt"
	"sort"
)

// Entry is one animation in a list.
type Entry struct {
	Name        string  `yaml:"name" json:"name"`
	Probability float64 `yaml:"probability" json:"probability"`

	SpeedMin     float64 `yaml:"speed_min,omitempty" json:"speed_min,omitempty"`
	SpeedMax     float64 `yaml:"speed_max,omitempty" json:"speed_max,omitempty"`
	MagnitudeMin float64 `yaml:"magnitude_min,omitempty" json:"magnitude_min,omitempty"`
	MagnitudeMax float64 `yaml:"magnitude_max,omitempty" json:"magnitude_max,omitempty"`
	DurationMin  float64 `yaml:"duration_min,omitempty" json:"duration_min,omitempty"`
	DurationMax  float64 `yaml:"duration_max,omitempty" json:"duration_max,omitempty"`
}

// Validate checks the entry's name, probability and ranges.
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if e.Probability < 0 || e.Probability > 1 {
		return fmt.Errorf("%w: %s: probability %v outside [0,1]", ErrInvalidEntry, e.Name, e.Probability)
	}
	ranges := []struct {
		field    string
		min, max float64
	}{
		{"speed", e.SpeedMin, e.SpeedMax},
		{"magnitude", e.MagnitudeMin, e.MagnitudeMax},
		{"duration", e.DurationMin, e.DurationMax},
	}
	for _, r := range ranges {
		if r.max < r.min {
			return fmt.Errorf("%w: %s: %s_max %v below %s_min %v", ErrInvalidEntry, e.Name, r.field, r.max, r.field, r.min)
		}
	}
	return nil
}

// Catalog is an immutable set of named animation lists.
type Catalog struct {
	lists  map[string][]Entry
	source string
}

// New builds a catalog from lists after validating every entry.
// source describes where the lists came from and is only used for display.
func New(lists map[string][]Entry, source string) (*Catalog, error) {
	if len(lists) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{lists: make(map[string][]Entry, len(lists)), source: source}
	for name, entries := range lists {
		for i, e := range entries {
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
		}
		c.lists[name] = append([]Entry(nil), entries...)
	}
	return c, nil
}

// List returns the entries of the named list in file order.
func (c *Catalog) List(name string) ([]Entry, error) {
	entries, ok := c.lists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return entries, nil
}

// Has reports whether the named list exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.lists[name]
	return ok
}

// Names returns all list names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.lists))
	for name := range c.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source describes where the catalog was loaded from.
func (c *Catalog) Source() string {
	return c.source
}

// Count returns the number of lists.
func (c *Catalog) Count() int {
	return len(c.lists)
}
