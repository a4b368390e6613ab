package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/jackc/pgx/v5"
)

// NotebookSessionRepository implements domain.NotebookSessionRepository
type NotebookSessionRepository struct {
	db *DB
}

// NewNotebookSessionRepository creates a new session link repository
func NewNotebookSessionRepository(db *DB) *NotebookSessionRepository {
	return &NotebookSessionRepository{db: db}
}

// Link inserts the session link in a single statement. A concurrent request
// carrying the same session id loses the race silently instead of failing on
// the unique constraint.
func (r *NotebookSessionRepository) Link(ctx context.Context, link *domain.NotebookSession) (bool, error) {
	query := `
		INSERT INTO notebook_sessions (notebook_id, session_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO NOTHING
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		link.NotebookID,
		link.SessionID,
		link.CreatedAt,
	).Scan(&link.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to link session: %w", err)
	}

	return true, nil
}

// GetBySessionID retrieves the link for a session id
func (r *NotebookSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.NotebookSession, error) {
	query := `
		SELECT id, notebook_id, session_id, created_at
		FROM notebook_sessions
		WHERE session_id = $1
	`

	var s domain.NotebookSession
	err := r.db.Pool.QueryRow(ctx, query, sessionID).Scan(
		&s.ID,
		&s.NotebookID,
		&s.SessionID,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session link: %w", err)
	}

	return &s, nil
}

// ListByNotebook retrieves all session links of a notebook, newest first
func (r *NotebookSessionRepository) ListByNotebook(ctx context.Context, notebookID int64) ([]domain.NotebookSession, error) {
	query := `
		SELECT id, notebook_id, session_id, created_at
		FROM notebook_sessions
		WHERE notebook_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, notebookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.NotebookSession{}
	for rows.Next() {
		var s domain.NotebookSession
		if err := rows.Scan(
			&s.ID,
			&s.NotebookID,
			&s.SessionID,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}
