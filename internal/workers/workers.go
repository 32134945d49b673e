package workers

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// EnvOverride names the environment variable that fixes the worker count.
const EnvOverride = "THUMBNAIL_WORKERS"

// Count returns the number of workers for a task whose per-CPU demand is
// multiplier, capped at limit (0 for no cap). GOMAXPROCS is used rather than
// NumCPU so container CPU limits are respected. THUMBNAIL_WORKERS overrides
// the calculation.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
// The limit parameter caps the maximum number of workers.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// Each calls fn for every item using at most n goroutines. The first error
// returned by fn cancels the context passed to the remaining calls and is
// returned; fn should swallow errors it wants to treat as per-item.
func Each[T any](parent context.Context, n int, items []T, fn func(ctx context.Context, item T) error) error {
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(max(n, 1))

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		item := item // per-iteration copy; go 1.21 loop variables are shared
		g.Go(func() error {
			return fn(ctx, item)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
