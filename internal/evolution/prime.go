package evolution

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// ProgressFunc receives the completed percentage of a PrimeAll batch.
type ProgressFunc func(percent int)

// PrimeAll loads details for every ref concurrently. Results keep the input
// order. Progress is reported as floor(completed*100/total), never decreases,
// and ends at exactly 100. Individual failures degrade and never abort the
// batch; only ctx cancellation stops it early. After a cancellation, refs
// whose load did not finish are left as zero values with Loaded false.
func (l *Loader) PrimeAll(ctx context.Context, refs []models.PokemonRef, progress ProgressFunc) ([]models.EnrichedPokemon, error) {
	if progress == nil {
		progress = func(int) {}
	}
	if len(refs) == 0 {
		progress(100)
		return []models.EnrichedPokemon{}, nil
	}

	results := make([]models.EnrichedPokemon, len(refs))
	tracker := &progressTracker{total: len(refs), report: progress, last: -1}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, ref := range refs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := l.LoadDetails(gctx, ref)
			if err := gctx.Err(); err != nil {
				cached, ok := l.Cached(ref.ID)
				if !ok {
					return err
				}
				p = cached
			}
			results[i] = p
			tracker.done()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.logger.Info("priming cancelled",
			zap.Int("completed", tracker.completed),
			zap.Int("total", tracker.total))
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	l.logger.Debug("priming complete", zap.Int("total", len(refs)))
	return results, nil
}

// progressTracker serializes progress reports so percentages stay monotonic.
type progressTracker struct {
	mu        sync.Mutex
	completed int
	total     int
	last      int
	report    ProgressFunc
}

func (t *progressTracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed++
	percent := t.completed * 100 / t.total
	if percent > t.last {
		t.last = percent
		t.report(percent)
	}
}
