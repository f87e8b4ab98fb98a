package pokeapi

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// NamedResource is a name/url reference used throughout PokeAPI.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonList is one page of the /pokemon endpoint.
type PokemonList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Sprites holds the sprite URLs of a Pokémon.
type Sprites struct {
	FrontDefault string `json:"front_default"`
}

// Pokemon is the /pokemon/{name} resource, reduced to the fields we use.
type Pokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Sprites Sprites       `json:"sprites"`
	Species NamedResource `json:"species"`
}

// Ref converts the Pokémon into its catalog identity.
func (p Pokemon) Ref() models.PokemonRef {
	sprite := p.Sprites.FrontDefault
	if sprite == "" {
		sprite = models.SpriteURL(p.ID)
	}
	return models.PokemonRef{
		ID:         p.ID,
		Name:       p.Name,
		Sprite:     sprite,
		SpeciesURL: p.Species.URL,
	}
}

// APIResource is an unnamed url reference.
type APIResource struct {
	URL string `json:"url"`
}

// Species is the /pokemon-species/{id} resource.
type Species struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	EvolutionChain *APIResource `json:"evolution_chain"`
}

// ChainLink is one node of an evolution chain graph.
type ChainLink struct {
	Species   NamedResource `json:"species"`
	EvolvesTo []ChainLink   `json:"evolves_to"`
	IsBaby    bool          `json:"is_baby,omitempty"`
}

// EvolutionChain is the /evolution-chain/{id} resource.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}

// resourceIDRegex matches the trailing numeric id of a resource URL.
// Example: https://pokeapi.co/api/v2/pokemon-species/25/
var resourceIDRegex = regexp.MustCompile(`/(\d+)/?$`)

// IDFromURL extracts the numeric id from a resource URL, 0 if none.
func IDFromURL(url string) int {
	match := resourceIDRegex.FindStringSubmatch(url)
	if len(match) < 2 {
		return 0
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return id
}

// APIError represents a non-success response from the API.
type APIError struct {
	Status int
	Body   string
	URL    string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("PokeAPI error (HTTP %d) for %s: %s", e.Status, e.URL, e.Body)
	}
	return fmt.Sprintf("PokeAPI error (HTTP %d) for %s", e.Status, e.URL)
}

// NotFoundError represents a 404 from the API or a missing fixture entry.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
