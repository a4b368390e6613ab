package domain

import "errors"

var (
	ErrNotebookNotFound = errors.New("notebook not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrAgentNotReady    = errors.New("agent runtime not initialized")

	ErrTitleRequired = errors.New("title cannot be null")
	ErrTitleTooLong  = errors.New("title must be at most 255 characters")
)
