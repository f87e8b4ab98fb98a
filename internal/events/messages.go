package events

import (
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// Event types.
const (
	TypeCollectionUpdated = "collection:updated"
	TypeCatalogProgress   = "catalog:progress"
	TypeCatchResolved     = "catch:resolved"
)

// CollectionUpdatedEvent is sent after every collection transition.
type CollectionUpdatedEvent struct {
	Entries []models.CaughtEntry `json:"entries"`
	Total   int                  `json:"total"`           // Sum of all counts
	Focus   *int                 `json:"focus,omitempty"` // Pending focus id
}

// CatalogProgressEvent is sent while the catalog is being primed.
type CatalogProgressEvent struct {
	Percent int `json:"percent"` // 0-100, never decreasing within one run
}

// CatchResolvedEvent is sent when a catch attempt finishes.
type CatchResolvedEvent struct {
	AttemptID string  `json:"attemptId"`
	PokemonID int     `json:"pokemonId"`
	Name      string  `json:"name"`
	Stage     int     `json:"stage"`
	Chance    float64 `json:"chance"`
	Roll      float64 `json:"roll"`
	Success   bool    `json:"success"`
}
