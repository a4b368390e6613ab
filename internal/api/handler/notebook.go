package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Rrens/notebooklm/internal/api/response"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/Rrens/notebooklm/internal/service"
)

// NotebookHandler handles notebook endpoints
type NotebookHandler struct {
	notebookService *service.NotebookService
}

// NewNotebookHandler creates a new notebook handler
func NewNotebookHandler(notebookService *service.NotebookService) *NotebookHandler {
	return &NotebookHandler{notebookService: notebookService}
}

// List handles listing notebooks
func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.notebookService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, notebooks)
}

// Create handles notebook creation
func (h *NotebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.NotebookCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	notebook, err := h.notebookService.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, notebook)
}

// Get handles getting a notebook by ID
func (h *NotebookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := notebookID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	notebook, err := h.notebookService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, notebook)
}

// Update handles partial notebook updates. Fields absent from the body are
// left untouched.
func (h *NotebookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := notebookID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var patch domain.NotebookUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}

	notebook, err := h.notebookService.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, notebook)
}

// Delete handles notebook deletion
func (h *NotebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := notebookID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.notebookService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// ListSessions handles listing the sessions linked to a notebook
func (h *NotebookHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	id, err := notebookID(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sessions, err := h.notebookService.ListSessions(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, sessions)
}
