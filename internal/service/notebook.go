package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/notebooklm/internal/domain"
)

// NotebookService handles notebook CRUD operations
type NotebookService struct {
	notebookRepo domain.NotebookRepository
	sessionRepo  domain.NotebookSessionRepository
	now          func() time.Time
}

// NewNotebookService creates a new notebook service
func NewNotebookService(notebookRepo domain.NotebookRepository, sessionRepo domain.NotebookSessionRepository) *NotebookService {
	return &NotebookService{
		notebookRepo: notebookRepo,
		sessionRepo:  sessionRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// List returns all notebooks, most recently updated first
func (s *NotebookService) List(ctx context.Context) ([]domain.Notebook, error) {
	notebooks, err := s.notebookRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	if notebooks == nil {
		notebooks = []domain.Notebook{}
	}
	return notebooks, nil
}

// Create creates a new notebook
func (s *NotebookService) Create(ctx context.Context, req domain.NotebookCreate) (*domain.Notebook, error) {
	notebook := &domain.Notebook{
		Title:        req.TitleOrDefault(),
		Description:  req.Description,
		Instructions: req.Instructions,
		CreatedAt:    s.now(),
	}

	if err := s.notebookRepo.Create(ctx, notebook); err != nil {
		return nil, fmt.Errorf("failed to create notebook: %w", err)
	}

	return notebook, nil
}

// Get retrieves a notebook by ID
func (s *NotebookService) Get(ctx context.Context, id int64) (*domain.Notebook, error) {
	notebook, err := s.notebookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notebook: %w", err)
	}
	if notebook == nil {
		return nil, domain.ErrNotebookNotFound
	}
	return notebook, nil
}

// Update applies a partial update and refreshes updated_at
func (s *NotebookService) Update(ctx context.Context, id int64, patch domain.NotebookUpdate) (*domain.Notebook, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	notebook, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(notebook)
	now := s.now()
	notebook.UpdatedAt = &now

	if err := s.notebookRepo.Update(ctx, notebook); err != nil {
		return nil, fmt.Errorf("failed to update notebook: %w", err)
	}

	return notebook, nil
}

// Delete removes a notebook together with its session links
func (s *NotebookService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.notebookRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete notebook: %w", err)
	}
	if !deleted {
		return domain.ErrNotebookNotFound
	}
	return nil
}

// ListSessions returns the sessions linked to a notebook, newest first
func (s *NotebookService) ListSessions(ctx context.Context, id int64) ([]domain.NotebookSession, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByNotebook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.NotebookSession{}
	}
	return sessions, nil
}
