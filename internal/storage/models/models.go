package models

import (
	"fmt"
	"strings"
	"time"
)

// SpriteURLTemplate is the default sprite location for a Pokémon id.
const SpriteURLTemplate = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"

// SpriteURL returns the default sprite URL for the given Pokémon id.
func SpriteURL(id int) string {
	return fmt.Sprintf(SpriteURLTemplate, id)
}

// PokemonRef is the immutable identity of a Pokémon as returned by the catalog.
type PokemonRef struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Sprite     string `json:"sprite"`      // front_default sprite URL
	SpeciesURL string `json:"species_url"` // Species resource reference
}

// NameKey returns the lookup key for a Pokémon name (lowercase, trimmed).
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EvolutionNode is one link of an evolution chain.
type EvolutionNode struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Sprite string `json:"sprite"`
}

// EvolutionChain is the ordered lineage of a species. Index 0 is the base form.
type EvolutionChain []EvolutionNode

// IndexOf returns the position of name in the chain (case-insensitive exact match)
// or -1 if absent.
func (c EvolutionChain) IndexOf(name string) int {
	key := NameKey(name)
	for i, node := range c {
		if NameKey(node.Name) == key {
			return i
		}
	}
	return -1
}

// IndexOfID returns the position of the node with the given id or -1.
func (c EvolutionChain) IndexOfID(id int) int {
	for i, node := range c {
		if node.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the node following the one with the given id.
func (c EvolutionChain) Next(id int) (EvolutionNode, bool) {
	i := c.IndexOfID(id)
	if i < 0 || i+1 >= len(c) {
		return EvolutionNode{}, false
	}
	return c[i+1], true
}

// EnrichedPokemon is a catalog Pokémon with its evolution details resolved.
type EnrichedPokemon struct {
	PokemonRef
	Stage       int            `json:"stage"`
	Chain       EvolutionChain `json:"chain"`
	CatchChance float64        `json:"catch_chance"`
	Loaded      bool           `json:"loaded"`
}

// CaughtEntry is one stacked row of the caught collection.
type CaughtEntry struct {
	PokemonRef
	Count int `json:"count"` // Stacked duplicate catches, always >= 1
	Stage int `json:"stage"` // Index into the entry's evolution chain
}

// CatalogItem is a row of the paginated catalog list.
type CatalogItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	SpeciesURL string `json:"species_url,omitempty"`
}

// Ref converts a catalog item into a PokemonRef.
func (i CatalogItem) Ref() PokemonRef {
	return PokemonRef{ID: i.ID, Name: i.Name, Sprite: i.Image, SpeciesURL: i.SpeciesURL}
}

// CachedEvolution is a persisted evolution lookup keyed by Pokémon id.
type CachedEvolution struct {
	PokemonID int
	Stage     int
	Chain     EvolutionChain
	FetchedAt time.Time
}

// CatchAttempt is one resolved catch roll.
type CatchAttempt struct {
	ID          string    `json:"id"` // uuid
	PokemonID   int       `json:"pokemon_id"`
	Name        string    `json:"name"`
	Stage       int       `json:"stage"`
	Chance      float64   `json:"chance"`
	Roll        float64   `json:"roll"`
	Success     bool      `json:"success"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// StageSummary aggregates catch attempts for one stage.
type StageSummary struct {
	Stage     int `json:"stage"`
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
}
