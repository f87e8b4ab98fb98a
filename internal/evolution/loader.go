package evolution

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ramonehamilton/pokemon-catcher/internal/catch"
	"github.com/ramonehamilton/pokemon-catcher/internal/metrics"
	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// DefaultConcurrency bounds the fan-out of PrimeAll.
const DefaultConcurrency = 8

// Loader fetches species and evolution chain data and caches the result per id.
type Loader struct {
	source      pokeapi.Source
	cache       Cache
	metrics     *metrics.LoaderMetrics
	logger      *zap.Logger
	concurrency int

	group singleflight.Group

	mu      sync.RWMutex
	details map[int]models.EnrichedPokemon
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache sets the persistent cache consulted before the data source.
func WithCache(cache Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.LoaderMetrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithLogger sets the loader logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger.Named("loader")
	}
}

// WithConcurrency sets the PrimeAll worker limit. Values below 1 are ignored.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader creates a loader reading from source.
func NewLoader(source pokeapi.Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:      source,
		metrics:     metrics.NewLoaderMetrics(),
		logger:      zap.NewNop(),
		concurrency: DefaultConcurrency,
		details:     make(map[int]models.EnrichedPokemon),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Metrics returns the loader metrics collector.
func (l *Loader) Metrics() *metrics.LoaderMetrics {
	return l.metrics
}

// Cached returns the resolved details for id if they were loaded before.
func (l *Loader) Cached(id int) (models.EnrichedPokemon, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.details[id]
	return p, ok
}

// Stage returns the cached stage for id, or 0 when nothing is loaded yet.
func (l *Loader) Stage(id int) int {
	p, ok := l.Cached(id)
	if !ok {
		return 0
	}
	return p.Stage
}

// LoadDetails resolves the stage and chain of ref. It never fails: any error
// is logged and degrades to stage 0 with an empty chain.
//
// Concurrent calls for the same id share one load. A caller whose ctx ends
// first returns an unresolved stage-0 result (Loaded false) without waiting;
// a live caller whose shared load was cut short by another caller's
// cancellation loads again.
func (l *Loader) LoadDetails(ctx context.Context, ref models.PokemonRef) models.EnrichedPokemon {
	if p, ok := l.Cached(ref.ID); ok {
		l.metrics.RecordCache(true)
		return p
	}

	key := strconv.Itoa(ref.ID)
	for {
		ch := l.group.DoChan(key, func() (interface{}, error) {
			if p, ok := l.Cached(ref.ID); ok {
				return p, nil
			}
			return l.load(ctx, ref)
		})

		select {
		case res := <-ch:
			if res.Err == nil || ctx.Err() != nil {
				return res.Val.(models.EnrichedPokemon)
			}
			l.logger.Debug("shared evolution lookup was cancelled, reloading", zap.Int("id", ref.ID))
		case <-ctx.Done():
			return unresolved(ref)
		}
	}
}

// load returns ctx.Err() alongside an unresolved result when ctx ended
// mid-fetch. Such results are neither cached nor persisted.
func (l *Loader) load(ctx context.Context, ref models.PokemonRef) (models.EnrichedPokemon, error) {
	if p, ok := l.fromCache(ctx, ref); ok {
		l.metrics.RecordCache(true)
		l.remember(p)
		return p, nil
	}
	l.metrics.RecordCache(false)

	start := time.Now()
	stage, chain, err := l.fetch(ctx, ref)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return unresolved(ref), ctxErr
		}
		p := enrich(ref, 0, models.EvolutionChain{})

		l.metrics.RecordLoad(time.Since(start), true)
		l.logger.Warn("evolution lookup failed, using stage 0",
			zap.Int("id", ref.ID),
			zap.String("name", ref.Name),
			zap.Error(err))
		l.remember(p)
		return p, nil
	}
	l.metrics.RecordLoad(time.Since(start), false)

	p := enrich(ref, stage, chain)
	l.remember(p)
	l.store(context.WithoutCancel(ctx), p)
	return p, nil
}

func (l *Loader) fetch(ctx context.Context, ref models.PokemonRef) (int, models.EvolutionChain, error) {
	start := time.Now()
	species, err := l.source.GetSpecies(ctx, ref.ID)
	l.metrics.RecordFetch(time.Since(start), err)
	if err != nil {
		return 0, nil, fmt.Errorf("species: %w", err)
	}

	if species.EvolutionChain == nil || species.EvolutionChain.URL == "" {
		return 0, models.EvolutionChain{}, nil
	}

	start = time.Now()
	resource, err := l.source.GetEvolutionChain(ctx, species.EvolutionChain.URL)
	l.metrics.RecordFetch(time.Since(start), err)
	if err != nil {
		return 0, nil, fmt.Errorf("evolution chain: %w", err)
	}

	chain := WalkChain(resource.Chain)
	return FindStage(chain, ref.Name), chain, nil
}

func (l *Loader) fromCache(ctx context.Context, ref models.PokemonRef) (models.EnrichedPokemon, bool) {
	if l.cache == nil {
		return models.EnrichedPokemon{}, false
	}
	entry, err := l.cache.Get(ctx, ref.ID)
	if err != nil {
		l.logger.Warn("evolution cache read failed", zap.Int("id", ref.ID), zap.Error(err))
		return models.EnrichedPokemon{}, false
	}
	if entry == nil {
		return models.EnrichedPokemon{}, false
	}
	return enrich(ref, entry.Stage, entry.Chain), true
}

func (l *Loader) store(ctx context.Context, p models.EnrichedPokemon) {
	if l.cache == nil {
		return
	}
	err := l.cache.Put(ctx, &models.CachedEvolution{
		PokemonID: p.ID,
		Stage:     p.Stage,
		Chain:     p.Chain,
		FetchedAt: time.Now(),
	})
	if err != nil {
		l.logger.Warn("evolution cache write failed", zap.Int("id", p.ID), zap.Error(err))
	}
}

func (l *Loader) remember(p models.EnrichedPokemon) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.details[p.ID] = p
}

// unresolved is the stage-0 answer for a caller that stopped waiting.
// Loaded stays false so it is never mistaken for a lookup result.
func unresolved(ref models.PokemonRef) models.EnrichedPokemon {
	p := enrich(ref, 0, models.EvolutionChain{})
	p.Loaded = false
	return p
}

func enrich(ref models.PokemonRef, stage int, chain models.EvolutionChain) models.EnrichedPokemon {
	if chain == nil {
		chain = models.EvolutionChain{}
	}
	if stage < 0 || (len(chain) > 0 && stage >= len(chain)) {
		stage = 0
	}
	return models.EnrichedPokemon{
		PokemonRef:  ref,
		Stage:       stage,
		Chain:       chain,
		CatchChance: catch.ChanceFor(stage),
		Loaded:      true,
	}
}
