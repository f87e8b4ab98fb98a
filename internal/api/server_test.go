package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apiwebsocket "github.com/ramonehamilton/pokemon-catcher/internal/api/websocket"
	"github.com/ramonehamilton/pokemon-catcher/internal/catalog"
	"github.com/ramonehamilton/pokemon-catcher/internal/catch"
	"github.com/ramonehamilton/pokemon-catcher/internal/collection"
	"github.com/ramonehamilton/pokemon-catcher/internal/events"
	"github.com/ramonehamilton/pokemon-catcher/internal/evolution"
	"github.com/ramonehamilton/pokemon-catcher/internal/game"
	"github.com/ramonehamilton/pokemon-catcher/internal/pokeapi"
)

const pokedex = `
pokemon:
  - {id: 1, name: bulbasaur}
  - {id: 2, name: ivysaur}
  - {id: 25, name: pikachu}
chains:
  - {id: 1, members: [bulbasaur, ivysaur]}
`

func newTestServer(t *testing.T) (*Server, *events.EventDispatcher) {
	t.Helper()

	source, err := pokeapi.ParseFixture([]byte(pokedex))
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	dispatcher := events.NewEventDispatcher(logger)
	svc := game.NewService(
		source,
		catalog.New(),
		evolution.NewLoader(source),
		catch.NewAttempter(catch.NewEvaluator(catch.FixedSource(0)), 0),
		collection.NewStore(nil, collection.WithListener(game.CollectionListener(dispatcher))),
		game.WithDispatcher(dispatcher),
	)
	_, err = svc.LoadCatalog(context.Background(), 0, 0)
	require.NoError(t, err)

	server := NewServer(&Config{Port: 0}, svc, logger)
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })
	return server, dispatcher
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.OpenBrowser)
	assert.Empty(t, cfg.FrontendURL)
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, nil, nil)

	assert.Equal(t, 8080, server.Port())
	assert.NotNil(t, server.WebSocketHub())
	assert.IsType(t, &apiwebsocket.Observer{}, server.NewWebSocketObserver())
}

func TestServer_Shutdown_NotStarted(t *testing.T) {
	server := NewServer(nil, nil, nil)

	assert.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, server.Shutdown(context.Background()))
}

func TestServer_HealthCheck(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(3), body["catalog_size"])
	assert.Equal(t, false, body["fully_loaded"])
}

func TestServer_RejectsNonJSONBody(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catch", strings.NewReader("pokemon=pikachu"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestServer_CatchBroadcastsOverWebSocket(t *testing.T) {
	server, dispatcher := newTestServer(t)
	hub := server.WebSocketHub()
	go hub.Run()
	dispatcher.Register(server.NewWebSocketObserver())

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	resp, err := http.Post(ts.URL+"/api/v1/catch", "application/json", strings.NewReader(`{"pokemon":"pikachu"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	seen := map[string]bool{}
	for len(seen) < 2 {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)

		var event apiwebsocket.Event
		require.NoError(t, json.Unmarshal(message, &event))
		seen[event.Type] = true
	}
	assert.True(t, seen[events.TypeCollectionUpdated])
	assert.True(t, seen[events.TypeCatchResolved])
}

func TestServer_RoutesCollection(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/collection", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/collection/25", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=saur", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
