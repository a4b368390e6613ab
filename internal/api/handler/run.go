package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rrens/notebooklm/internal/api/middleware"
	"github.com/Rrens/notebooklm/internal/api/response"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/Rrens/notebooklm/internal/service"
	"github.com/rs/zerolog/log"
)

const maxFormMemory = 32 << 20

// RunHandler handles chat runs against a notebook
type RunHandler struct {
	runService *service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{runService: runService}
}

// Run accepts form fields message, stream, session_id and user_id. Streams
// are answered with server-sent events, buffered runs with JSON.
func (h *RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := notebookID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		response.BadRequest(w, "invalid form body")
		return
	}

	stream := true
	if raw := strings.TrimSpace(r.FormValue("stream")); raw != "" {
		stream, err = strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "stream must be a boolean")
			return
		}
	}

	req := domain.RunRequest{
		NotebookID: id,
		Message:    r.FormValue("message"),
		Stream:     stream,
		SessionID:  r.FormValue("session_id"),
		UserID:     r.FormValue("user_id"),
	}
	if req.UserID == "" {
		if subject, ok := middleware.GetUserID(r.Context()); ok {
			req.UserID = subject
		}
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "message is required")
		return
	}

	result, err := h.runService.Run(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Session-ID", result.SessionID)

	if !req.Stream {
		response.OK(w, result.Output)
		return
	}

	events, err := response.NewEventStream(w)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	for ev := range result.Events {
		if err := events.Send(string(ev.Event), ev); err != nil {
			log.Debug().Err(err).Str("session_id", result.SessionID).Msg("client went away during stream")
			// drain so the producer can finish
			for range result.Events {
			}
			return
		}
	}
}
