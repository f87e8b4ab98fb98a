package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/pokemon-catcher/internal/api/response"
	"github.com/ramonehamilton/pokemon-catcher/internal/game"
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// CollectionHandler handles catch, release and evolve requests.
type CollectionHandler struct {
	service *game.Service
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service *game.Service) *CollectionHandler {
	return &CollectionHandler{service: service}
}

// CollectionResponse is the body of GET /collection.
type CollectionResponse struct {
	Entries []models.CaughtEntry `json:"entries"`
	Total   int                  `json:"total"`
	Focus   *int                 `json:"focus,omitempty"`
}

// CatchRequest is the body of POST /catch.
type CatchRequest struct {
	Pokemon string `json:"pokemon"`
}

// EvolveRequest is the body of POST /collection/{id}/evolve.
type EvolveRequest struct {
	To int `json:"to"`
}

// GetCollection returns the collection and consumes the pending focus.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, _ *http.Request) {
	state, focus := h.service.View()
	response.Success(w, CollectionResponse{
		Entries: state.Entries,
		Total:   state.Total(),
		Focus:   focus,
	})
}

// Catch attempts to catch a Pokémon. The request blocks for the suspense
// delay; a client disconnect abandons the attempt.
func (h *CollectionHandler) Catch(w http.ResponseWriter, r *http.Request) {
	var req CatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Pokemon == "" {
		response.BadRequest(w, errors.New("pokemon is required"))
		return
	}

	outcome, err := h.service.Catch(r.Context(), req.Pokemon)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, outcome)
}

// Release removes one copy of a caught Pokémon.
func (h *CollectionHandler) Release(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	released, err := h.service.Release(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !released {
		response.NotFound(w, fmt.Errorf("pokemon %d is not in the collection", id))
		return
	}

	response.Success(w, map[string]int{"count": h.service.Collection().Count(id)})
}

// GetEvolution returns the evolution option of a caught Pokémon.
func (h *CollectionHandler) GetEvolution(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	option, err := h.service.EvolutionFor(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, option)
}

// Evolve trades copies of a caught Pokémon for its next form.
func (h *CollectionHandler) Evolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req EvolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}

	evolved, err := h.service.Evolve(r.Context(), id, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	if !evolved {
		response.Conflict(w, fmt.Errorf("pokemon %d cannot evolve into %d", id, req.To))
		return
	}

	response.Success(w, map[string]bool{"evolved": true})
}

// ClearCollection empties the collection.
func (h *CollectionHandler) ClearCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// GetAttempts returns the latest catch attempts.
func (h *CollectionHandler) GetAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.service.RecentAttempts(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, err)
		return
	}
	if attempts == nil {
		attempts = []*models.CatchAttempt{}
	}

	response.Success(w, attempts)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		response.BadRequest(w, fmt.Errorf("invalid pokemon id %q", chi.URLParam(r, "id")))
		return 0, false
	}
	return id, true
}
