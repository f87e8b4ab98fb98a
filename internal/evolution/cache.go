package evolution

import (
	"context"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// Cache persists resolved evolution lookups across restarts.
type Cache interface {
	// Get returns the cached lookup for a Pokémon id, or nil if absent.
	Get(ctx context.Context, pokemonID int) (*models.CachedEvolution, error)

	// Put stores a resolved lookup.
	Put(ctx context.Context, entry *models.CachedEvolution) error
}
