package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/notebooklm/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunInput is one user turn sent to a team
type RunInput struct {
	Message   string
	SessionID string
	UserID    *string
}

// Runner executes runs of one team
type Runner interface {
	Team() *Team
	Run(ctx context.Context, in RunInput) (*RunOutput, error)
	Stream(ctx context.Context, in RunInput) (<-chan Event, error)
}

// TeamRunner executes a team against a single model provider
type TeamRunner struct {
	team     *Team
	provider llm.Provider
	model    string
	history  HistoryStore
	now      func() time.Time
}

// NewTeamRunner creates a runner. history may be nil, in which case runs are
// neither persisted nor replayed.
func NewTeamRunner(team *Team, provider llm.Provider, model string, history HistoryStore) *TeamRunner {
	if model == "" {
		model = provider.DefaultModel()
	}
	return &TeamRunner{
		team:     team,
		provider: provider,
		model:    model,
		history:  history,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Team returns the team definition
func (r *TeamRunner) Team() *Team {
	return r.team
}

// Run executes the turn and returns the whole answer
func (r *TeamRunner) Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	req, err := r.buildRequest(ctx, in)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	createdAt := r.now()

	resp, err := r.provider.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to run team %s: %w", r.team.ID, err)
	}

	r.saveRun(ctx, runID, in, resp, createdAt)

	return &RunOutput{
		RunID:         runID,
		TeamID:        r.team.ID,
		TeamName:      r.team.Name,
		SessionID:     in.SessionID,
		UserID:        in.UserID,
		Content:       resp.Content,
		ContentType:   "str",
		Model:         resp.Model,
		ModelProvider: r.provider.Name(),
		CreatedAt:     createdAt,
		Metrics: Metrics{
			TotalTokens: resp.TokensUsed,
			DurationMs:  resp.LatencyMs,
		},
	}, nil
}

// Stream executes the turn and emits events as output arrives. The channel is
// closed after a TeamRunCompleted or TeamRunError event, or once ctx is done.
func (r *TeamRunner) Stream(ctx context.Context, in RunInput) (<-chan Event, error) {
	req, err := r.buildRequest(ctx, in)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	createdAt := r.now()
	events := make(chan Event, 16)

	base := Event{
		RunID:     runID,
		TeamID:    r.team.ID,
		TeamName:  r.team.Name,
		SessionID: in.SessionID,
		Model:     req.Model,
		CreatedAt: createdAt.Unix(),
	}

	send := func(ev Event) error {
		select {
		case events <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	go func() {
		defer close(events)

		started := base
		started.Event = EventTeamRunStarted
		if err := send(started); err != nil {
			return
		}

		resp, err := r.provider.ChatStream(ctx, req, func(chunk string) error {
			ev := base
			ev.Event = EventTeamRunContent
			ev.Content = chunk
			ev.ContentType = "str"
			return send(ev)
		})
		if err != nil {
			if ctx.Err() != nil {
				log.Debug().Str("run_id", runID).Msg("stream cancelled by client")
				return
			}
			log.Error().Err(err).Str("run_id", runID).Str("team_id", r.team.ID).Msg("team run failed")
			failed := base
			failed.Event = EventTeamRunError
			failed.Error = err.Error()
			send(failed)
			return
		}

		r.saveRun(ctx, runID, in, resp, createdAt)

		completed := base
		completed.Event = EventTeamRunCompleted
		completed.Content = resp.Content
		completed.ContentType = "str"
		completed.Model = resp.Model
		completed.Metrics = &Metrics{
			TotalTokens: resp.TokensUsed,
			DurationMs:  resp.LatencyMs,
		}
		send(completed)
	}()

	return events, nil
}

func (r *TeamRunner) buildRequest(ctx context.Context, in RunInput) (llm.Request, error) {
	var messages []llm.Message

	if r.team.AddHistoryToContext && r.history != nil && r.team.NumHistoryRuns > 0 {
		runs, err := r.history.RecentRuns(ctx, in.SessionID, r.team.NumHistoryRuns)
		if err != nil {
			return llm.Request{}, fmt.Errorf("failed to load session history: %w", err)
		}
		for _, run := range runs {
			messages = append(messages,
				llm.Message{Role: llm.RoleUser, Content: run.Input},
				llm.Message{Role: llm.RoleAssistant, Content: run.Content},
			)
		}
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: in.Message})

	return llm.Request{
		Model:    r.model,
		System:   r.team.SystemPrompt(r.now()),
		Messages: messages,
	}, nil
}

func (r *TeamRunner) saveRun(ctx context.Context, runID string, in RunInput, resp *llm.Response, createdAt time.Time) {
	if r.history == nil {
		return
	}

	record := &RunRecord{
		RunID:      runID,
		SessionID:  in.SessionID,
		TeamID:     r.team.ID,
		UserID:     in.UserID,
		Input:      in.Message,
		Content:    resp.Content,
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
		CreatedAt:  createdAt,
	}

	// Detached so a client that disconnects after the answer still gets its run recorded.
	if err := r.history.SaveRun(context.WithoutCancel(ctx), record); err != nil {
		log.Error().Err(err).Str("run_id", runID).Str("session_id", in.SessionID).Msg("failed to save team run")
	}
}
