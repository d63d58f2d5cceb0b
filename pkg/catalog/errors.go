package catalog

import "errors"

var (
	// ErrNotFound is returned when a named list is not in the catalog.
	ErrNotFound = errors.New("animation list not found")

	// ErrInvalidEntry is returned when an entry fails validation.
	ErrInvalidEntry = errors.New("invalid animation entry")

	// ErrEmpty is returned when a catalog document holds no lists.
	ErrEmpty = errors.New("animation catalog is empty")
)
