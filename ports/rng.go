package ports

import (
	"context"
)

// Draw returns the next value of a seeded stream, in [0, 1).
type Draw func() float64

// RNGPort provides keyed random streams for deterministic series synthesis
type RNGPort interface {
	// Stream creates a deterministic draw function for a text key.
	// The same key always yields the same sequence of draws.
	Stream(ctx context.Context, key string) (Draw, error)

	// ValidateSeed checks that the first draws of key match expected
	ValidateSeed(ctx context.Context, key string, expected []float64) error
}
