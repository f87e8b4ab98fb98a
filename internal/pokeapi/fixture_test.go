package pokeapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFixture = `
pokemon:
  - {id: 2, name: ivysaur}
  - {id: 1, name: Bulbasaur}
  - {id: 3, name: venusaur}
  - {id: 83, name: farfetchd}
chains:
  - {id: 1, members: [bulbasaur, ivysaur, venusaur]}
`

func TestParseFixture_ListOrderedByID(t *testing.T) {
	src, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)

	items, err := src.ListPokemon(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 2, items[1].ID)
	assert.NotEmpty(t, items[0].Image)
	assert.Equal(t, 2, IDFromURL(items[1].SpeciesURL))
	assert.Equal(t, items[1].SpeciesURL, items[1].Ref().SpeciesURL)

	items, err = src.ListPokemon(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "farfetchd", items[0].Name)

	items, err = src.ListPokemon(context.Background(), 10, 50)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFixture_SpeciesAndChain(t *testing.T) {
	src, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	ctx := context.Background()

	species, err := src.GetSpecies(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, species.EvolutionChain)

	chain, err := src.GetEvolutionChain(ctx, species.EvolutionChain.URL)
	require.NoError(t, err)
	assert.Equal(t, "Bulbasaur", chain.Chain.Species.Name)
	require.Len(t, chain.Chain.EvolvesTo, 1)
	assert.Equal(t, "ivysaur", chain.Chain.EvolvesTo[0].Species.Name)
	require.Len(t, chain.Chain.EvolvesTo[0].EvolvesTo, 1)
	assert.Empty(t, chain.Chain.EvolvesTo[0].EvolvesTo[0].EvolvesTo)
	assert.Equal(t, 3, IDFromURL(chain.Chain.EvolvesTo[0].EvolvesTo[0].Species.URL))
}

func TestFixture_NoChain(t *testing.T) {
	src, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)

	species, err := src.GetSpecies(context.Background(), 83)
	require.NoError(t, err)
	assert.Nil(t, species.EvolutionChain)
}

func TestFixture_NotFound(t *testing.T) {
	src, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = src.GetSpecies(ctx, 999)
	assert.True(t, IsNotFound(err))

	_, err = src.GetPokemon(ctx, "missingno")
	assert.True(t, IsNotFound(err))

	_, err = src.GetEvolutionChain(ctx, "fixture://evolution-chain/42")
	assert.True(t, IsNotFound(err))
}

func TestFixture_GetPokemonCaseInsensitive(t *testing.T) {
	src, err := ParseFixture([]byte(testFixture))
	require.NoError(t, err)

	p, err := src.GetPokemon(context.Background(), "BULBASAUR")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, 1, IDFromURL(p.Species.URL))
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed yaml": "pokemon: [",
		"missing name":   "pokemon:\n  - {id: 1}\n",
		"duplicate id":   "pokemon:\n  - {id: 1, name: a}\n  - {id: 1, name: b}\n",
		"unknown member": "pokemon:\n  - {id: 1, name: a}\nchains:\n  - {id: 1, members: [a, b]}\n",
		"empty chain":    "pokemon:\n  - {id: 1, name: a}\nchains:\n  - {id: 1, members: []}\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixture([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokedex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testFixture), 0o644))

	src, err := LoadFixture(path)
	require.NoError(t, err)

	items, err := src.ListPokemon(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
