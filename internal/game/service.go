// Package game wires the catalog, evolution loader, catch evaluator and
// collection store into the catch/release/evolve flows.
package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/catalog"
	"github.com/ramonehamilton/pokemon-catcher/internal/catch"
	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
	"github.com/ramonehamilton/pokemon-catcher/internal/events"
	"github.com/ramonehamilton/pokemon-catcher/internal/evolution"
	"github.com/ramonehamilton/pokemon-catcher/internal/metrics"
	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/repository"
)

// DefaultCatalogLimit is the catalog size fetched when no limit is given.
const DefaultCatalogLimit = 251

// ErrUnknownPokemon is returned when a name or id cannot be resolved.
var ErrUnknownPokemon = errors.New("unknown pokemon")

// Service runs the game flows. Safe for concurrent use.
type Service struct {
	source     pokeapi.Source
	catalog    *catalog.Catalog
	loader     *evolution.Loader
	attempter  *catch.Attempter
	store      *collection.Store
	dispatcher *events.EventDispatcher

	catalogRepo repository.CatalogRepository
	attempts    repository.AttemptRepository

	logger *zap.Logger
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithDispatcher sets the event dispatcher.
func WithDispatcher(d *events.EventDispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

// WithCatalogRepository persists the catalog list.
func WithCatalogRepository(r repository.CatalogRepository) Option {
	return func(s *Service) {
		s.catalogRepo = r
	}
}

// WithAttemptRepository records catch attempts.
func WithAttemptRepository(r repository.AttemptRepository) Option {
	return func(s *Service) {
		s.attempts = r
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger.Named("game")
	}
}

// NewService creates a game service.
func NewService(
	source pokeapi.Source,
	cat *catalog.Catalog,
	loader *evolution.Loader,
	attempter *catch.Attempter,
	store *collection.Store,
	opts ...Option,
) *Service {
	s := &Service{
		source:     source,
		catalog:    cat,
		loader:     loader,
		attempter:  attempter,
		store:      store,
		dispatcher: events.NewEventDispatcher(nil),
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Collection returns the current collection state.
func (s *Service) Collection() collection.State {
	return s.store.State()
}

// View returns the collection and the id the viewer should focus next,
// clearing that focus.
func (s *Service) View() (collection.State, *int) {
	return s.store.View()
}

// LoaderStats returns evolution loader statistics.
func (s *Service) LoaderStats() *metrics.LoaderStats {
	return s.loader.Metrics().GetStats()
}

// LoadCatalog fetches one page of the catalog and makes it current.
func (s *Service) LoadCatalog(ctx context.Context, limit, offset int) ([]models.CatalogItem, error) {
	if limit <= 0 {
		limit = DefaultCatalogLimit
	}

	items, err := s.source.ListPokemon(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.catalog.Set(items)

	if s.catalogRepo != nil {
		if err := s.catalogRepo.ReplaceAll(ctx, items); err != nil {
			s.logger.Warn("failed to persist catalog", zap.Error(err))
		}
	}

	s.logger.Info("catalog loaded", zap.Int("count", len(items)), zap.Int("offset", offset))
	return items, nil
}

// RestoreCatalog loads the persisted catalog, returning the number of items.
func (s *Service) RestoreCatalog(ctx context.Context) (int, error) {
	if s.catalogRepo == nil {
		return 0, nil
	}
	items, err := s.catalogRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore catalog: %w", err)
	}
	s.catalog.Set(items)
	return len(items), nil
}

// PrimeCatalog loads evolution details for every catalog item.
// progress, when non-nil, receives the same percentages as the
// catalog:progress events.
func (s *Service) PrimeCatalog(ctx context.Context, progress evolution.ProgressFunc) error {
	report := func(percent int) {
		s.dispatcher.Dispatch(events.NewTypedEvent(ctx, events.TypeCatalogProgress,
			events.CatalogProgressEvent{Percent: percent}))
		if progress != nil {
			progress(percent)
		}
	}

	// Refs left unfinished by a cancellation come back with Loaded false.
	results, err := s.loader.PrimeAll(ctx, s.catalog.Refs(), report)
	for _, details := range results {
		s.catalog.Update(details)
	}
	if err != nil {
		return fmt.Errorf("prime catalog: %w", err)
	}
	return nil
}

// Details returns the evolution details of a catalog Pokémon, loading them
// on first use. A cancelled ctx returns its error and leaves the catalog alone.
func (s *Service) Details(ctx context.Context, nameOrID string) (models.EnrichedPokemon, error) {
	ref, err := s.resolve(ctx, nameOrID)
	if err != nil {
		return models.EnrichedPokemon{}, err
	}
	details := s.loader.LoadDetails(ctx, ref)
	if err := ctx.Err(); err != nil {
		return models.EnrichedPokemon{}, err
	}
	s.catalog.Update(details)
	return details, nil
}

// CatchOutcome is the result of one catch attempt.
type CatchOutcome struct {
	AttemptID string                 `json:"attemptId"`
	Pokemon   models.EnrichedPokemon `json:"pokemon"`
	Result    catch.Result           `json:"result"`
	Count     int                    `json:"count"`             // Copies held after the attempt
	Warning   string                 `json:"warning,omitempty"` // Persistence warning
}

// Catch resolves nameOrID, waits out the suspense delay and rolls the catch.
// A success adds one copy to the collection. Cancelling ctx abandons the
// attempt without touching the collection.
func (s *Service) Catch(ctx context.Context, nameOrID string) (*CatchOutcome, error) {
	ref, err := s.resolve(ctx, nameOrID)
	if err != nil {
		return nil, err
	}

	details := s.loader.LoadDetails(ctx, ref)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("catch %s abandoned: %w", ref.Name, err)
	}
	s.catalog.Update(details)

	result, err := s.attempter.Attempt(ctx, details.Stage)
	if err != nil {
		return nil, fmt.Errorf("catch %s abandoned: %w", ref.Name, err)
	}

	outcome := &CatchOutcome{
		AttemptID: s.newID(),
		Pokemon:   details,
		Result:    result,
	}

	if result.Success {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("catch %s abandoned: %w", ref.Name, err)
		}
		if err := s.store.AddOne(ctx, ref, details.Stage); err != nil {
			outcome.Warning = err.Error()
		}
	}
	outcome.Count = s.store.State().Count(ref.ID)

	s.recordAttempt(ctx, outcome)
	s.dispatcher.Dispatch(events.NewTypedEvent(ctx, events.TypeCatchResolved, events.CatchResolvedEvent{
		AttemptID: outcome.AttemptID,
		PokemonID: ref.ID,
		Name:      ref.Name,
		Stage:     result.Stage,
		Chance:    result.Chance,
		Roll:      result.Roll,
		Success:   result.Success,
	}))

	s.logger.Debug("catch resolved",
		zap.String("attempt", outcome.AttemptID),
		zap.String("name", ref.Name),
		zap.Float64("chance", result.Chance),
		zap.Float64("roll", result.Roll),
		zap.Bool("success", result.Success))
	return outcome, nil
}

func (s *Service) recordAttempt(ctx context.Context, o *CatchOutcome) {
	if s.attempts == nil {
		return
	}
	err := s.attempts.Record(ctx, &models.CatchAttempt{
		ID:          o.AttemptID,
		PokemonID:   o.Pokemon.ID,
		Name:        o.Pokemon.Name,
		Stage:       o.Result.Stage,
		Chance:      o.Result.Chance,
		Roll:        o.Result.Roll,
		Success:     o.Result.Success,
		AttemptedAt: time.Now(),
	})
	if err != nil {
		s.logger.Warn("failed to record catch attempt", zap.Error(err))
	}
}

// Release removes one copy of id. It reports whether a copy was held.
func (s *Service) Release(ctx context.Context, id int) (bool, error) {
	if s.store.State().Count(id) == 0 {
		return false, nil
	}
	return true, s.store.RemoveOne(ctx, id)
}

// EvolutionOption describes the next form an entry can evolve into.
type EvolutionOption struct {
	Entry     models.CaughtEntry    `json:"entry"`
	Next      *models.EvolutionNode `json:"next,omitempty"`
	CanEvolve bool                  `json:"canEvolve"`
	Cost      int                   `json:"cost"`
}

// EvolutionFor returns the evolution option of a caught entry.
func (s *Service) EvolutionFor(ctx context.Context, id int) (EvolutionOption, error) {
	entry, ok := s.store.State().Get(id)
	if !ok {
		return EvolutionOption{}, fmt.Errorf("%w: %d not caught", ErrUnknownPokemon, id)
	}

	option := EvolutionOption{Entry: entry, Cost: collection.EvolveCost}
	details := s.loader.LoadDetails(ctx, entry.PokemonRef)
	if err := ctx.Err(); err != nil {
		return EvolutionOption{}, err
	}
	if next, ok := details.Chain.Next(id); ok {
		option.Next = &next
		option.CanEvolve = entry.Count >= collection.EvolveCost
	}
	return option, nil
}

// Evolve trades three copies of fromID for one copy of toID. toID must be
// the form following fromID in its chain; ineligible requests are no-ops
// reported as false.
func (s *Service) Evolve(ctx context.Context, fromID, toID int) (bool, error) {
	option, err := s.EvolutionFor(ctx, fromID)
	if errors.Is(err, ErrUnknownPokemon) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !option.CanEvolve || option.Next.ID != toID {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	details := s.loader.LoadDetails(ctx, option.Entry.PokemonRef)
	toStage := details.Chain.IndexOfID(toID)

	to := models.PokemonRef{ID: option.Next.ID, Name: option.Next.Name, Sprite: option.Next.Sprite}
	if item, ok := s.catalog.Get(toID); ok {
		to = item.Ref()
	}

	applied, err := s.store.Evolve(ctx, fromID, to, toStage)
	if applied {
		s.logger.Info("evolved",
			zap.String("from", option.Entry.Name),
			zap.String("to", to.Name))
	}
	return applied, err
}

// Clear empties the collection.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// RecentAttempts returns the latest recorded catch attempts.
func (s *Service) RecentAttempts(ctx context.Context, limit int) ([]*models.CatchAttempt, error) {
	if s.attempts == nil {
		return nil, nil
	}
	return s.attempts.Recent(ctx, limit)
}

// AttemptSummary returns catch attempts aggregated per stage.
func (s *Service) AttemptSummary(ctx context.Context) ([]models.StageSummary, error) {
	if s.attempts == nil {
		return nil, nil
	}
	return s.attempts.SummaryByStage(ctx)
}

// resolve finds a Pokémon by catalog id or name, falling back to the data
// source for names outside the catalog.
func (s *Service) resolve(ctx context.Context, nameOrID string) (models.PokemonRef, error) {
	key := strings.TrimSpace(nameOrID)
	if key == "" {
		return models.PokemonRef{}, fmt.Errorf("%w: empty name", ErrUnknownPokemon)
	}

	if id, err := strconv.Atoi(key); err == nil {
		if item, ok := s.catalog.Get(id); ok {
			return item.Ref(), nil
		}
		return models.PokemonRef{}, fmt.Errorf("%w: id %d", ErrUnknownPokemon, id)
	}

	if item, ok := s.catalog.FindByName(key); ok {
		return item.Ref(), nil
	}

	p, err := s.source.GetPokemon(ctx, key)
	if pokeapi.IsNotFound(err) {
		return models.PokemonRef{}, fmt.Errorf("%w: %s", ErrUnknownPokemon, key)
	}
	if err != nil {
		return models.PokemonRef{}, fmt.Errorf("resolve %s: %w", key, err)
	}
	return p.Ref(), nil
}

// CollectionListener returns a store listener that broadcasts every
// transition as a collection:updated event.
func CollectionListener(d *events.EventDispatcher) collection.Listener {
	return func(state collection.State) {
		d.Dispatch(events.NewTypedEvent(context.Background(), events.TypeCollectionUpdated,
			events.CollectionUpdatedEvent{
				Entries: state.Entries,
				Total:   state.Total(),
				Focus:   state.LastMutatedID,
			}))
	}
}
