package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/notebooklm/internal/agent"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunResult is either a stream of events or a finished buffered run
type RunResult struct {
	SessionID string
	Events    <-chan agent.Event
	Output    *agent.RunOutput
}

// RunService executes chat turns against notebooks
type RunService struct {
	notebookRepo domain.NotebookRepository
	sessionRepo  domain.NotebookSessionRepository
	agents       *agent.Handle
	teamID       string
	newSessionID func() string
	now          func() time.Time
}

// NewRunService creates a new run service. The agent handle may still be
// empty at construction time.
func NewRunService(
	notebookRepo domain.NotebookRepository,
	sessionRepo domain.NotebookSessionRepository,
	agents *agent.Handle,
) *RunService {
	return &RunService{
		notebookRepo: notebookRepo,
		sessionRepo:  sessionRepo,
		agents:       agents,
		teamID:       agent.NotebookLMTeamID,
		newSessionID: uuid.NewString,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// BuildRunMessage prefixes the user's message with the notebook's context
func BuildRunMessage(notebook *domain.Notebook, message string) string {
	lines := []string{fmt.Sprintf("[Notebook: %s]", notebook.Title)}
	if notebook.Description != nil && *notebook.Description != "" {
		lines = append(lines, fmt.Sprintf("[Description: %s]", *notebook.Description))
	}
	if notebook.Instructions != nil && *notebook.Instructions != "" {
		lines = append(lines, fmt.Sprintf("[Instructions: %s]", *notebook.Instructions))
	}
	return strings.Join(lines, "\n") + "\n\n" + message
}

// Run links the session to the notebook and dispatches the turn to the team
func (s *RunService) Run(ctx context.Context, req domain.RunRequest) (*RunResult, error) {
	// 1. Agent runtime must be up
	runtime, err := s.agents.Get()
	if err != nil {
		return nil, err
	}

	// 2. Load notebook
	notebook, err := s.notebookRepo.GetByID(ctx, req.NotebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notebook: %w", err)
	}
	if notebook == nil {
		return nil, domain.ErrNotebookNotFound
	}

	message := BuildRunMessage(notebook, req.Message)

	// 3. Resolve team
	team, err := runtime.GetTeam(s.teamID)
	if err != nil {
		return nil, err
	}

	// 4. Resolve session and link it
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.newSessionID()
	}

	if err := s.linkSession(ctx, notebook.ID, sessionID); err != nil {
		return nil, err
	}

	var userID *string
	if req.UserID != "" {
		userID = &req.UserID
	}
	in := agent.RunInput{
		Message:   message,
		SessionID: sessionID,
		UserID:    userID,
	}

	log.Debug().
		Int64("notebook_id", notebook.ID).
		Str("session_id", sessionID).
		Bool("stream", req.Stream).
		Msg("dispatching notebook run")

	// 5. Dispatch
	if req.Stream {
		events, err := team.Stream(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("failed to start run: %w", err)
		}
		return &RunResult{SessionID: sessionID, Events: events}, nil
	}

	output, err := team.Run(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to run team: %w", err)
	}
	return &RunResult{SessionID: sessionID, Output: output}, nil
}

func (s *RunService) linkSession(ctx context.Context, notebookID int64, sessionID string) error {
	created, err := s.sessionRepo.Link(ctx, &domain.NotebookSession{
		NotebookID: notebookID,
		SessionID:  sessionID,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to link session: %w", err)
	}
	if created {
		return nil
	}

	existing, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to look up existing session link")
		return nil
	}
	if existing != nil && existing.NotebookID != notebookID {
		log.Warn().
			Str("session_id", sessionID).
			Int64("linked_notebook_id", existing.NotebookID).
			Int64("notebook_id", notebookID).
			Msg("session is linked to another notebook")
	}
	return nil
}
