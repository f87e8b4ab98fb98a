// Package catalog keeps the list of catchable Pokémon and their loaded details.
package catalog

import (
	"sync"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// Item is a catalog row with its evolution details once loaded.
type Item struct {
	models.CatalogItem
	Details *models.EnrichedPokemon `json:"details,omitempty"`
}

// Ref returns the Pokémon identity of the item.
func (i Item) Ref() models.PokemonRef {
	if i.Details != nil {
		return i.Details.PokemonRef
	}
	return i.CatalogItem.Ref()
}

// Catalog is an ordered, concurrency-safe list of catalog items.
type Catalog struct {
	mu     sync.RWMutex
	items  []Item
	byID   map[int]int
	byName map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID:   make(map[int]int),
		byName: make(map[string]int),
	}
}

// Set replaces the catalog. Details already loaded for ids that remain are kept;
// duplicate ids keep the first occurrence.
func (c *Catalog) Set(list []models.CatalogItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous := make(map[int]*models.EnrichedPokemon, len(c.items))
	for _, item := range c.items {
		if item.Details != nil {
			previous[item.ID] = item.Details
		}
	}

	c.items = make([]Item, 0, len(list))
	c.byID = make(map[int]int, len(list))
	c.byName = make(map[string]int, len(list))
	for _, entry := range list {
		if _, dup := c.byID[entry.ID]; dup {
			continue
		}
		c.byID[entry.ID] = len(c.items)
		c.byName[models.NameKey(entry.Name)] = len(c.items)
		c.items = append(c.items, Item{CatalogItem: entry, Details: previous[entry.ID]})
	}
}

// Get returns the item with the given id.
func (c *Catalog) Get(id int) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// FindByName returns the item whose name matches case-insensitively.
func (c *Catalog) FindByName(name string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byName[models.NameKey(name)]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Update attaches loaded details to the matching item.
// It reports false when the id is not in the catalog or details are not loaded.
func (c *Catalog) Update(details models.EnrichedPokemon) bool {
	if !details.Loaded {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[details.ID]
	if !ok {
		return false
	}
	d := details
	c.items[i].Details = &d
	return true
}

// Items returns a copy of the catalog in order.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Refs returns the identities of all items in order.
func (c *Catalog) Refs() []models.PokemonRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	refs := make([]models.PokemonRef, len(c.items))
	for i, item := range c.items {
		refs[i] = item.Ref()
	}
	return refs
}

// List returns the bare catalog rows in order.
func (c *Catalog) List() []models.CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CatalogItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.CatalogItem
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IsFullyLoaded reports whether the catalog is non-empty and every item has
// its details loaded.
func (c *Catalog) IsFullyLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return false
	}
	for _, item := range c.items {
		if item.Details == nil || !item.Details.Loaded {
			return false
		}
	}
	return true
}
