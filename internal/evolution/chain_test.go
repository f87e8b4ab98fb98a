package evolution

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

func species(name string, id string) pokeapi.NamedResource {
	return pokeapi.NamedResource{Name: name, URL: "https://pokeapi.co/api/v2/pokemon-species/" + id + "/"}
}

func TestWalkChain_FollowsFirstSuccessor(t *testing.T) {
	// eevee branches; only the first branch is followed
	root := pokeapi.ChainLink{
		Species: species("eevee", "133"),
		EvolvesTo: []pokeapi.ChainLink{
			{Species: species("vaporeon", "134")},
			{Species: species("jolteon", "135")},
		},
	}

	got := WalkChain(root)
	want := models.EvolutionChain{
		{ID: 133, Name: "eevee", Sprite: models.SpriteURL(133)},
		{ID: 134, Name: "vaporeon", Sprite: models.SpriteURL(134)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WalkChain() mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkChain_SingleNode(t *testing.T) {
	got := WalkChain(pokeapi.ChainLink{Species: species("tauros", "128")})
	if len(got) != 1 || got[0].ID != 128 {
		t.Errorf("WalkChain() = %+v, want single tauros node", got)
	}
}

func TestFindStage(t *testing.T) {
	chain := models.EvolutionChain{
		{ID: 10, Name: "caterpie"},
		{ID: 11, Name: "metapod"},
		{ID: 12, Name: "butterfree"},
	}

	tests := []struct {
		name string
		want int
	}{
		{"caterpie", 0},
		{"Metapod", 1},
		{"BUTTERFREE", 2},
		{"pikachu", 0},
		{"meta", 0},
	}
	for _, tt := range tests {
		if got := FindStage(chain, tt.name); got != tt.want {
			t.Errorf("FindStage(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	if got := FindStage(models.EvolutionChain{}, "caterpie"); got != 0 {
		t.Errorf("FindStage on empty chain = %d, want 0", got)
	}
}
