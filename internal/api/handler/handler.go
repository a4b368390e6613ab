package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Rrens/notebooklm/internal/api/response"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

func notebookID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "notebookID"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid notebook ID")
	}
	return id, nil
}

// writeError maps service errors onto HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotebookNotFound):
		response.NotFound(w, "Notebook not found")
	case errors.Is(err, domain.ErrTeamNotFound):
		response.NotFound(w, "Team not found")
	case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrTitleTooLong):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrAgentNotReady):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("run requested before agent runtime was initialized")
		response.InternalError(w, "Agent runtime not initialized")
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		response.InternalError(w, "internal server error")
	}
}
