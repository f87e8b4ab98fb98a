package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// EvolutionRepository caches resolved evolution lookups.
type EvolutionRepository interface {
	// Get returns the cached lookup for a Pokémon id, or nil if absent.
	Get(ctx context.Context, pokemonID int) (*models.CachedEvolution, error)

	// Put stores a lookup, replacing any previous one.
	Put(ctx context.Context, entry *models.CachedEvolution) error

	// Clear drops every cached lookup.
	Clear(ctx context.Context) error
}

type evolutionRepository struct {
	db *sql.DB
}

// NewEvolutionRepository creates a new evolution cache repository.
func NewEvolutionRepository(db *sql.DB) EvolutionRepository {
	return &evolutionRepository{db: db}
}

func (r *evolutionRepository) Get(ctx context.Context, pokemonID int) (*models.CachedEvolution, error) {
	var (
		entry     models.CachedEvolution
		chainJSON string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT pokemon_id, stage, chain_json, fetched_at
		FROM evolution_cache WHERE pokemon_id = ?
	`, pokemonID).Scan(&entry.PokemonID, &entry.Stage, &chainJSON, &entry.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evolution %d: %w", pokemonID, err)
	}

	if err := json.Unmarshal([]byte(chainJSON), &entry.Chain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evolution chain %d: %w", pokemonID, err)
	}
	if entry.Chain == nil {
		entry.Chain = models.EvolutionChain{}
	}
	return &entry, nil
}

func (r *evolutionRepository) Put(ctx context.Context, entry *models.CachedEvolution) error {
	chain := entry.Chain
	if chain == nil {
		chain = models.EvolutionChain{}
	}
	chainJSON, err := json.Marshal(chain)
	if err != nil {
		return fmt.Errorf("failed to marshal evolution chain %d: %w", entry.PokemonID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO evolution_cache (pokemon_id, stage, chain_json, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(pokemon_id) DO UPDATE SET
			stage = excluded.stage,
			chain_json = excluded.chain_json,
			fetched_at = excluded.fetched_at
	`, entry.PokemonID, entry.Stage, string(chainJSON), entry.FetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to put evolution %d: %w", entry.PokemonID, err)
	}
	return nil
}

func (r *evolutionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM evolution_cache"); err != nil {
		return fmt.Errorf("failed to clear evolution cache: %w", err)
	}
	return nil
}
