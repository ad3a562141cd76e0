package ports

import (
	"context"

	"waterglobe/domain/water"
)

// WorldReader provides read-only access to the boundary dataset for UI/API
type WorldReader interface {
	// World returns the loaded dataset, loading it on first use.
	World(ctx context.Context) (*water.World, error)

	// Country looks a feature up by name, case-insensitively.
	Country(ctx context.Context, name string) (water.CountryProps, error)
}
