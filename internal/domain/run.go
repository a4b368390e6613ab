package domain

// RunRequest carries a chat turn against a notebook
type RunRequest struct {
	NotebookID int64
	Message    string `validate:"required"`
	Stream     bool
	SessionID  string
	UserID     string
}
