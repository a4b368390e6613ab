package agent

import (
	"context"
	"time"
)

// RunRecord is one completed team run as stored in the history store
type RunRecord struct {
	RunID      string
	SessionID  string
	TeamID     string
	UserID     *string
	Input      string
	Content    string
	Model      string
	TokensUsed int
	CreatedAt  time.Time
}

// HistoryStore persists team runs per session
type HistoryStore interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	// RecentRuns returns up to limit runs of the session, oldest first
	RecentRuns(ctx context.Context, sessionID string, limit int) ([]RunRecord, error)
}
