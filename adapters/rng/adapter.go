package rng

import (
	"context"
	"fmt"
	"math"

	"waterglobe/domain/core"
	"waterglobe/internal/errors"
	"waterglobe/ports"
)

// seedTolerance absorbs decimal round-tripping of expected draws.
const seedTolerance = 1e-12

// Adapter implements ports.RNGPort on top of Stream.
type Adapter struct{}

// NewAdapter creates the keyed stream adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

var _ ports.RNGPort = (*Adapter)(nil)

// Stream returns the draw function for key. It fails only on a cancelled context.
func (a *Adapter) Stream(ctx context.Context, key string) (ports.Draw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewStream(key).Next, nil
}

// ValidateSeed compares the first len(expected) draws of key with expected.
func (a *Adapter) ValidateSeed(ctx context.Context, key string, expected []float64) error {
	draw, err := a.Stream(ctx, key)
	if err != nil {
		return err
	}
	for i, want := range expected {
		got := draw()
		if math.Abs(got-want) > seedTolerance {
			return errors.WithCode(errors.CodeValidationError,
				fmt.Errorf("%w: key %q draw %d = %v, expected %v", core.ErrSeedMismatch, key, i, got, want))
		}
	}
	return nil
}
