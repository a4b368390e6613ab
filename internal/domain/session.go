package domain

import (
	"context"
	"time"
)

// NotebookSession links a conversation thread of the agent runtime to the
// notebook it belongs to. A session id belongs to exactly one notebook.
type NotebookSession struct {
	ID         int64     `json:"-"`
	NotebookID int64     `json:"notebook_id"`
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotebookSessionRepository defines the interface for session link storage
type NotebookSessionRepository interface {
	// Link inserts the link unless one already exists for the session id.
	// It reports whether a new row was written.
	Link(ctx context.Context, link *NotebookSession) (bool, error)
	GetBySessionID(ctx context.Context, sessionID string) (*NotebookSession, error)
	ListByNotebook(ctx context.Context, notebookID int64) ([]NotebookSession, error)
}
