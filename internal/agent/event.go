package agent

import "time"

// EventType names a streamed run event
type EventType string

const (
	EventTeamRunStarted   EventType = "TeamRunStarted"
	EventTeamRunContent   EventType = "TeamRunContent"
	EventTeamRunCompleted EventType = "TeamRunCompleted"
	EventTeamRunError     EventType = "TeamRunError"
)

// Metrics of a finished run
type Metrics struct {
	TotalTokens int   `json:"total_tokens"`
	DurationMs  int64 `json:"duration_ms"`
}

// Event is one frame of a streamed run
type Event struct {
	Event       EventType `json:"event"`
	RunID       string    `json:"run_id"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	SessionID   string    `json:"session_id"`
	Content     string    `json:"content,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Model       string    `json:"model,omitempty"`
	Metrics     *Metrics  `json:"metrics,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   int64     `json:"created_at"`
}

// RunOutput is the result of a buffered run
type RunOutput struct {
	RunID         string    `json:"run_id"`
	TeamID        string    `json:"team_id"`
	TeamName      string    `json:"team_name"`
	SessionID     string    `json:"session_id"`
	UserID        *string   `json:"user_id,omitempty"`
	Content       string    `json:"content"`
	ContentType   string    `json:"content_type"`
	Model         string    `json:"model"`
	ModelProvider string    `json:"model_provider"`
	CreatedAt     time.Time `json:"created_at"`
	Metrics       Metrics   `json:"metrics"`
}
