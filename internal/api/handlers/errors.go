package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ramonehamilton/pokemon-catcher/internal/api/response"
	"github.com/ramonehamilton/pokemon-catcher/internal/game"
)

// writeError maps game errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownPokemon):
		response.NotFound(w, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Error(w, http.StatusServiceUnavailable, err)
	default:
		response.InternalError(w, err)
	}
}
