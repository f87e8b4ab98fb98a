package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// ErrPersistence marks a failed snapshot write. It is a warning: the
// in-memory collection has already been updated.
var ErrPersistence = errors.New("collection not persisted")

// Persister saves and restores collection snapshots.
type Persister interface {
	// Load returns the stored collection. An absent or malformed record
	// must be reported as an empty State, not as an error.
	Load(ctx context.Context) (State, error)

	// Save stores the collection entries.
	Save(ctx context.Context, state State) error
}

// Listener is notified with the new state after every transition.
type Listener func(State)

// Store is the single source of truth for the caught collection.
// Transitions are serialized; each one is persisted before the lock is released.
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
	listeners []Listener
	logger    *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger.Named("collection")
	}
}

// WithListener registers a listener for state changes.
func WithListener(l Listener) Option {
	return func(s *Store) {
		s.listeners = append(s.listeners, l)
	}
}

// NewStore creates an empty store. A nil persister keeps the collection in memory.
func NewStore(persister Persister, opts ...Option) *Store {
	s := &Store{
		state:     Empty(),
		persister: persister,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store restored from the persister. Absent or malformed
// records are the persister's concern and load as empty; any error it does
// return fails Open, so a read failure never leads to the saved collection
// being overwritten.
func Open(ctx context.Context, persister Persister, opts ...Option) (*Store, error) {
	s := NewStore(persister, opts...)
	if persister == nil {
		return s, nil
	}

	state, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore collection: %w", err)
	}
	s.state = Sanitize(state.Entries)
	s.logger.Debug("Restored collection",
		zap.Int("entries", s.state.Len()),
		zap.Int("total", s.state.Total()))
	return s, nil
}

// State returns a copy of the current collection.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddOne stacks one catch of ref.
func (s *Store) AddOne(ctx context.Context, ref models.PokemonRef, stage int) error {
	return s.apply(ctx, "add", func(st State) State {
		return AddOne(st, ref, stage)
	})
}

// RemoveOne releases one copy of id. Unknown ids are a no-op.
func (s *Store) RemoveOne(ctx context.Context, id int) error {
	return s.apply(ctx, "remove", func(st State) State {
		return RemoveOne(st, id)
	})
}

// Evolve trades three copies of fromID for one copy of to.
// Returns whether the evolution was applied.
func (s *Store) Evolve(ctx context.Context, fromID int, to models.PokemonRef, toStage int) (bool, error) {
	applied := false
	err := s.apply(ctx, "evolve", func(st State) State {
		if !st.CanEvolve(fromID) || to.ID == fromID {
			return st
		}
		applied = true
		return Evolve(st, fromID, to, toStage)
	})
	return applied, err
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) error {
	return s.apply(ctx, "clear", Clear)
}

// ConsumeFocus returns and clears the pending focus id.
func (s *Store) ConsumeFocus() *int {
	_, id := s.View()
	return id
}

// View returns a copy of the collection together with the pending focus id,
// clearing the focus in the same step. The focus, when set, is always an
// entry of the returned state.
func (s *Store) View() (State, *int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, id := ConsumeFocus(s.state)
	s.state = next
	return next.clone(), id
}

// apply runs a reducer, persists the result and notifies listeners.
func (s *Store) apply(ctx context.Context, op string, reduce func(State) State) error {
	s.mu.Lock()
	s.state = reduce(s.state)
	snapshot := s.state.clone()

	var warn error
	if s.persister != nil {
		if err := s.persister.Save(ctx, snapshot); err != nil {
			s.logger.Warn("Failed to persist collection",
				zap.String("op", op),
				zap.Error(err))
			warn = fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
	return warn
}
