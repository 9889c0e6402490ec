package portal

import (
	"context"
	"errors"
	"sync"

	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent page loads; the provider throttles requests anyway
const DefaultWorkers = 4

// LoadAdvancedAll loads the full page of every tournament with at most
// workers loads in flight. A failing tournament does not stop the others;
// failures are returned keyed by tournament URL. The error result is only
// set when ctx is done.
func LoadAdvancedAll(ctx context.Context, fetcher tournament.Fetcher, tournaments []*tournament.Tournament, workers int) (map[string]error, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu       sync.Mutex
		failures = make(map[string]error)
		seen     = make(map[*tournament.Tournament]bool)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, t := range tournaments {
		if seen[t] || t.Loaded() {
			continue
		}
		seen[t] = true

		t := t
		g.Go(func() error {
			err := t.LoadAdvanced(ctx, fetcher)
			if err == nil {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			logger.IncrCounter("tournament.load_failures")
			logger.Warn("Failed to load tournament", logger.Fields{
				"url":   t.URL,
				"error": err.Error(),
			})
			mu.Lock()
			failures[t.URL] = err
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return failures, err
	}
	return failures, nil
}

// LoadAdvanced loads every tournament of the portal, see LoadAdvancedAll
func (p *Portal) LoadAdvanced(ctx context.Context, workers int) (map[string]error, error) {
	return LoadAdvancedAll(ctx, p.fetcher, p.tournaments, workers)
}
