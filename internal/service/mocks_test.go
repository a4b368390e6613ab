package service

import (
	"context"

	"github.com/Rrens/notebooklm/internal/agent"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockNotebookRepository mocks the NotebookRepository interface
type MockNotebookRepository struct {
	mock.Mock
}

func (m *MockNotebookRepository) Create(ctx context.Context, notebook *domain.Notebook) error {
	args := m.Called(ctx, notebook)
	return args.Error(0)
}

func (m *MockNotebookRepository) GetByID(ctx context.Context, id int64) (*domain.Notebook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notebook), args.Error(1)
}

func (m *MockNotebookRepository) List(ctx context.Context) ([]domain.Notebook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notebook), args.Error(1)
}

func (m *MockNotebookRepository) Update(ctx context.Context, notebook *domain.Notebook) error {
	args := m.Called(ctx, notebook)
	return args.Error(0)
}

func (m *MockNotebookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockNotebookSessionRepository mocks the NotebookSessionRepository interface
type MockNotebookSessionRepository struct {
	mock.Mock
}

func (m *MockNotebookSessionRepository) Link(ctx context.Context, link *domain.NotebookSession) (bool, error) {
	args := m.Called(ctx, link)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotebookSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.NotebookSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotebookSession), args.Error(1)
}

func (m *MockNotebookSessionRepository) ListByNotebook(ctx context.Context, notebookID int64) ([]domain.NotebookSession, error) {
	args := m.Called(ctx, notebookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotebookSession), args.Error(1)
}

// MockRunner mocks agent.Runner
type MockRunner struct {
	mock.Mock
	team *agent.Team
}

func (m *MockRunner) Team() *agent.Team {
	return m.team
}

func (m *MockRunner) Run(ctx context.Context, in agent.RunInput) (*agent.RunOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.RunOutput), args.Error(1)
}

func (m *MockRunner) Stream(ctx context.Context, in agent.RunInput) (<-chan agent.Event, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan agent.Event), args.Error(1)
}
