package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramonehamilton/pokemon-catcher/internal/api/response"
	"github.com/ramonehamilton/pokemon-catcher/internal/catalog"
	"github.com/ramonehamilton/pokemon-catcher/internal/game"
)

const defaultPageSize = 50

// CatalogHandler handles catalog-related API requests.
type CatalogHandler struct {
	service *game.Service
	baseCtx context.Context
	priming atomic.Bool
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler. Background priming runs
// under baseCtx so it outlives the request that started it.
func NewCatalogHandler(baseCtx context.Context, service *game.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{service: service, baseCtx: baseCtx, logger: logger}
}

// ListCatalog returns one page of the catalog.
func (h *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", defaultPageSize)

	items := h.service.Catalog().Items()
	start := min((page-1)*pageSize, len(items))
	end := min(start+pageSize, len(items))

	response.Paginated(w, items[start:end], page, pageSize, len(items))
}

// SearchCatalog returns name suggestions for the q parameter.
func (h *CatalogHandler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("q parameter is required"))
		return
	}

	limit := queryInt(r, "limit", catalog.DefaultSuggestLimit)
	response.Success(w, h.service.Catalog().Suggest(query, limit))
}

// GetPokemon returns the evolution details of one Pokémon by id or name.
func (h *CatalogHandler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, details)
}

// PrimeCatalog starts loading every catalog entry's evolution details in
// the background. Progress is broadcast as catalog:progress events.
func (h *CatalogHandler) PrimeCatalog(w http.ResponseWriter, _ *http.Request) {
	if !h.priming.CompareAndSwap(false, true) {
		response.Conflict(w, errors.New("catalog priming already running"))
		return
	}

	go func() {
		defer h.priming.Store(false)
		if err := h.service.PrimeCatalog(h.baseCtx, nil); err != nil {
			h.logger.Warn("catalog priming stopped", zap.Error(err))
		}
	}()

	response.Accepted(w, map[string]int{"size": h.service.Catalog().Len()})
}

// Priming reports whether a background prime is running.
func (h *CatalogHandler) Priming() bool {
	return h.priming.Load()
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}
