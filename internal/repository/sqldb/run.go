package sqldb

import (
	"context"
	"fmt"

	"github.com/Rrens/notebooklm/internal/agent"
)

// RunRepository implements agent.HistoryStore
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new agent run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun persists a completed team run
func (r *RunRepository) SaveRun(ctx context.Context, run *agent.RunRecord) error {
	query := `
		INSERT INTO agent_runs (run_id, session_id, team_id, user_id, input, content, model, tokens_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.RunID,
		run.SessionID,
		run.TeamID,
		run.UserID,
		run.Input,
		run.Content,
		run.Model,
		run.TokensUsed,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// RecentRuns returns up to limit runs of a session in chronological order
func (r *RunRepository) RecentRuns(ctx context.Context, sessionID string, limit int) ([]agent.RunRecord, error) {
	query := `
		SELECT run_id, session_id, team_id, user_id, input, content, model, tokens_used, created_at
		FROM agent_runs
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []agent.RunRecord
	for rows.Next() {
		var run agent.RunRecord
		if err := rows.Scan(
			&run.RunID,
			&run.SessionID,
			&run.TeamID,
			&run.UserID,
			&run.Input,
			&run.Content,
			&run.Model,
			&run.TokensUsed,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	// Reverse to return chronological order (oldest first)
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}

	return runs, nil
}
