package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrCountryNotFound = fmt.Errorf("%w: country", ErrNotFound)

	// Collaborator errors
	ErrWorldUnavailable = errors.New("world boundary dataset unavailable")

	// Determinism errors
	ErrSeedMismatch  = errors.New("seed mismatch")
	ErrInvalidSeries = errors.New("series violates invariants")

	// Session errors
	ErrSessionClosed = errors.New("render session closed")
)

// NewCountryNotFoundError names the country that is missing from the dataset.
func NewCountryNotFoundError(name string) error {
	return fmt.Errorf("%w %q", ErrCountryNotFound, name)
}

// NewSeriesError reports a broken series invariant at a given index.
func NewSeriesError(field string, index int, reason string) error {
	return fmt.Errorf("%w: %s[%d] %s", ErrInvalidSeries, field, index, reason)
}

