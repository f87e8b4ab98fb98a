package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/pokemon-catcher/internal/api/handlers"
	"github.com/ramonehamilton/pokemon-catcher/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	catalogHandler := handlers.NewCatalogHandler(s.baseCtx, s.service, s.logger)
	collectionHandler := handlers.NewCollectionHandler(s.service)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCatalog)
			r.Get("/search", catalogHandler.SearchCatalog)
			r.Post("/prime", catalogHandler.PrimeCatalog)
			r.Get("/{id}", catalogHandler.GetPokemon)
		})

		r.Post("/catch", collectionHandler.Catch)
		r.Get("/attempts", collectionHandler.GetAttempts)

		r.Route("/collection", func(r chi.Router) {
			r.Get("/", collectionHandler.GetCollection)
			r.Delete("/", collectionHandler.ClearCollection)
			r.Delete("/{id}", collectionHandler.Release)
			r.Get("/{id}/evolution", collectionHandler.GetEvolution)
			r.Post("/{id}/evolve", collectionHandler.Evolve)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	cat := s.service.Catalog()
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"service":      "pokemon-catcher-api",
		"catalog_size": cat.Len(),
		"fully_loaded": cat.IsFullyLoaded(),
		"ws_clients":   s.wsHub.ClientCount(),
		"loader":       s.service.LoaderStats(),
		"collection":   s.service.Collection().Total(),
	})
}
