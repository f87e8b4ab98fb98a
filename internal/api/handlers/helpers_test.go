package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ramonehamilton/pokemon-catcher/internal/catalog"
	"github.com/ramonehamilton/pokemon-catcher/internal/catch"
	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
	"github.com/ramonehamilton/pokemon-catcher/internal/evolution"
	"github.com/ramonehamilton/pokemon-catcher/internal/game"
	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
)

const pokedex = `
pokemon:
  - {id: 1, name: bulbasaur}
  - {id: 2, name: ivysaur}
  - {id: 3, name: venusaur}
  - {id: 4, name: charmander}
  - {id: 5, name: charmeleon}
  - {id: 6, name: charizard}
  - {id: 83, name: farfetchd}
chains:
  - {id: 1, members: [bulbasaur, ivysaur, venusaur]}
  - {id: 2, members: [charmander, charmeleon, charizard]}
`

// newTestService builds a game service over the fixture pokedex with an
// immediate catch roll of roll.
func newTestService(t *testing.T, roll float64) *game.Service {
	t.Helper()

	source, err := pokeapi.ParseFixture([]byte(pokedex))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	svc := game.NewService(
		source,
		catalog.New(),
		evolution.NewLoader(source, evolution.WithLogger(logger)),
		catch.NewAttempter(catch.NewEvaluator(catch.FixedSource(roll)), 0),
		collection.NewStore(nil),
		game.WithLogger(logger),
	)
	_, err = svc.LoadCatalog(context.Background(), 0, 0)
	require.NoError(t, err)
	return svc
}

func newTestRouter(t *testing.T, svc *game.Service) chi.Router {
	t.Helper()

	catalogHandler := NewCatalogHandler(context.Background(), svc, zaptest.NewLogger(t))
	collectionHandler := NewCollectionHandler(svc)

	r := chi.NewRouter()
	r.Get("/catalog", catalogHandler.ListCatalog)
	r.Get("/catalog/search", catalogHandler.SearchCatalog)
	r.Get("/catalog/{id}", catalogHandler.GetPokemon)
	r.Post("/catalog/prime", catalogHandler.PrimeCatalog)
	r.Post("/catch", collectionHandler.Catch)
	r.Get("/collection", collectionHandler.GetCollection)
	r.Delete("/collection", collectionHandler.ClearCollection)
	r.Delete("/collection/{id}", collectionHandler.Release)
	r.Get("/collection/{id}/evolution", collectionHandler.GetEvolution)
	r.Post("/collection/{id}/evolve", collectionHandler.Evolve)
	r.Get("/attempts", collectionHandler.GetAttempts)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success envelope into v.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}
