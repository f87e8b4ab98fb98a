// Package evolution resolves evolution chains and stages for catalog Pokémon.
package evolution

import (
	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// WalkChain flattens a linked chain into a linear lineage by following the
// first successor of every node. Branches past the first are ignored.
func WalkChain(root pokeapi.ChainLink) models.EvolutionChain {
	chain := models.EvolutionChain{}
	link := &root
	for {
		id := pokeapi.IDFromURL(link.Species.URL)
		chain = append(chain, models.EvolutionNode{
			ID:     id,
			Name:   link.Species.Name,
			Sprite: models.SpriteURL(id),
		})
		if len(link.EvolvesTo) == 0 {
			return chain
		}
		link = &link.EvolvesTo[0]
	}
}

// FindStage returns the index of name in chain, or 0 if it is not a member.
func FindStage(chain models.EvolutionChain, name string) int {
	if i := chain.IndexOf(name); i >= 0 {
		return i
	}
	return 0
}
