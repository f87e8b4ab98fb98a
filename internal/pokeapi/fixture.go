package pokeapi

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

const (
	fixtureChainURL   = "fixture://evolution-chain/%d"
	fixtureSpeciesURL = "fixture://pokemon-species/%d/"
)

// FixtureFile is the YAML layout of an offline data set.
//
//	pokemon:
//	  - {id: 1, name: bulbasaur}
//	  - {id: 2, name: ivysaur}
//	chains:
//	  - {id: 1, members: [bulbasaur, ivysaur]}
type FixtureFile struct {
	Pokemon []FixturePokemon `yaml:"pokemon"`
	Chains  []FixtureChain   `yaml:"chains"`
}

// FixturePokemon is one Pokémon of a fixture file.
type FixturePokemon struct {
	ID     int    `yaml:"id"`
	Name   string `yaml:"name"`
	Sprite string `yaml:"sprite,omitempty"`
}

// FixtureChain is a linear evolution chain listed by member names, base first.
type FixtureChain struct {
	ID      int      `yaml:"id"`
	Members []string `yaml:"members"`
}

// FixtureSource serves catalog and evolution data from a YAML fixture.
// It never touches the network.
type FixtureSource struct {
	pokemon []FixturePokemon
	byName  map[string]FixturePokemon
	byID    map[int]FixturePokemon
	chains  map[int]FixtureChain
	chainOf map[string]int // pokemon name -> chain id
}

var _ Source = (*FixtureSource)(nil)

// LoadFixture reads a fixture file from disk.
func LoadFixture(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture builds a fixture source from YAML.
func ParseFixture(data []byte) (*FixtureSource, error) {
	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return NewFixtureSource(file)
}

// NewFixtureSource indexes a fixture data set.
func NewFixtureSource(file FixtureFile) (*FixtureSource, error) {
	f := &FixtureSource{
		byName:  make(map[string]FixturePokemon, len(file.Pokemon)),
		byID:    make(map[int]FixturePokemon, len(file.Pokemon)),
		chains:  make(map[int]FixtureChain, len(file.Chains)),
		chainOf: make(map[string]int),
	}

	for _, p := range file.Pokemon {
		if p.ID <= 0 || p.Name == "" {
			return nil, fmt.Errorf("fixture pokemon needs id and name: %+v", p)
		}
		if _, dup := f.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate fixture pokemon id %d", p.ID)
		}
		if p.Sprite == "" {
			p.Sprite = models.SpriteURL(p.ID)
		}
		f.pokemon = append(f.pokemon, p)
		f.byID[p.ID] = p
		f.byName[models.NameKey(p.Name)] = p
	}
	sort.Slice(f.pokemon, func(i, j int) bool { return f.pokemon[i].ID < f.pokemon[j].ID })

	for _, c := range file.Chains {
		if len(c.Members) == 0 {
			return nil, fmt.Errorf("fixture chain %d has no members", c.ID)
		}
		for _, name := range c.Members {
			if _, ok := f.byName[models.NameKey(name)]; !ok {
				return nil, fmt.Errorf("fixture chain %d references unknown pokemon %q", c.ID, name)
			}
			f.chainOf[models.NameKey(name)] = c.ID
		}
		f.chains[c.ID] = c
	}

	return f, nil
}

// ListPokemon returns one page of fixture Pokémon ordered by id.
func (f *FixtureSource) ListPokemon(_ context.Context, limit, offset int) ([]models.CatalogItem, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(f.pokemon) {
		return []models.CatalogItem{}, nil
	}
	end := len(f.pokemon)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	items := make([]models.CatalogItem, 0, end-offset)
	for _, p := range f.pokemon[offset:end] {
		items = append(items, models.CatalogItem{
			ID:         p.ID,
			Name:       p.Name,
			Image:      p.Sprite,
			SpeciesURL: fmt.Sprintf(fixtureSpeciesURL, p.ID),
		})
	}
	return items, nil
}

// GetPokemon returns a fixture Pokémon by name.
func (f *FixtureSource) GetPokemon(_ context.Context, name string) (*Pokemon, error) {
	p, ok := f.byName[models.NameKey(name)]
	if !ok {
		return nil, &NotFoundError{URL: "fixture://pokemon/" + models.NameKey(name)}
	}
	return &Pokemon{
		ID:      p.ID,
		Name:    p.Name,
		Sprites: Sprites{FrontDefault: p.Sprite},
		Species: NamedResource{Name: p.Name, URL: fmt.Sprintf(fixtureSpeciesURL, p.ID)},
	}, nil
}

// GetSpecies returns species metadata for a fixture Pokémon.
func (f *FixtureSource) GetSpecies(_ context.Context, id int) (*Species, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, &NotFoundError{URL: fmt.Sprintf("fixture://pokemon-species/%d", id)}
	}

	species := &Species{ID: p.ID, Name: p.Name}
	if chainID, ok := f.chainOf[models.NameKey(p.Name)]; ok {
		species.EvolutionChain = &APIResource{URL: fmt.Sprintf(fixtureChainURL, chainID)}
	}
	return species, nil
}

// GetEvolutionChain returns the linked chain for a fixture chain URL.
func (f *FixtureSource) GetEvolutionChain(_ context.Context, url string) (*EvolutionChain, error) {
	c, ok := f.chains[IDFromURL(url)]
	if !ok {
		return nil, &NotFoundError{URL: url}
	}

	// Build the linked graph from the tail up.
	var link *ChainLink
	for i := len(c.Members) - 1; i >= 0; i-- {
		p := f.byName[models.NameKey(c.Members[i])]
		node := ChainLink{
			Species: NamedResource{
				Name: p.Name,
				URL:  fmt.Sprintf(fixtureSpeciesURL, p.ID),
			},
			EvolvesTo: []ChainLink{},
		}
		if link != nil {
			node.EvolvesTo = []ChainLink{*link}
		}
		link = &node
	}

	return &EvolutionChain{ID: c.ID, Chain: *link}, nil
}
