package series

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"waterglobe/domain/water"
)

// DefaultBatchConcurrency bounds Batch when the caller passes a limit < 1.
const DefaultBatchConcurrency = 4

// Batch synthesizes series for several names concurrently. Duplicate names
// are generated once. The first error cancels the rest.
func (s *Synthesizer) Batch(ctx context.Context, names []string, year int, concurrency int) (map[string]water.Series, error) {
	if concurrency < 1 {
		concurrency = DefaultBatchConcurrency
	}

	var (
		mu      sync.Mutex
		results = make(map[string]water.Series, len(names))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := s.ForYear(ctx, name, year)
			if err != nil {
				return err
			}
			mu.Lock()
			results[name] = out
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
