package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rrens/notebooklm/internal/config"
	"github.com/Rrens/notebooklm/internal/domain"
)

// NotebookSessionRepository implements domain.NotebookSessionRepository
type NotebookSessionRepository struct {
	db *DB
}

// NewNotebookSessionRepository creates a new session link repository
func NewNotebookSessionRepository(db *DB) *NotebookSessionRepository {
	return &NotebookSessionRepository{db: db}
}

// Link inserts the session link unless the session id is already linked.
// MySQL reports zero affected rows for a no-op ON DUPLICATE KEY UPDATE, and
// unlike INSERT IGNORE it still fails on a missing notebook.
func (r *NotebookSessionRepository) Link(ctx context.Context, link *domain.NotebookSession) (bool, error) {
	query := `
		INSERT INTO notebook_sessions (notebook_id, session_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO NOTHING
	`
	if r.db.Dialect() == config.DialectMySQL {
		query = `
			INSERT INTO notebook_sessions (notebook_id, session_id, created_at)
			VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE session_id = session_id
		`
	}

	res, err := r.db.ExecContext(ctx, query,
		link.NotebookID,
		link.SessionID,
		link.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to link session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to link session: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if id, err := res.LastInsertId(); err == nil {
		link.ID = id
	}
	return true, nil
}

// GetBySessionID retrieves the link for a session id
func (r *NotebookSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.NotebookSession, error) {
	query := `
		SELECT id, notebook_id, session_id, created_at
		FROM notebook_sessions
		WHERE session_id = ?
	`

	var s domain.NotebookSession
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.ID,
		&s.NotebookID,
		&s.SessionID,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		WHERE notebook_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, notebookID)
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
