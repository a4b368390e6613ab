package domain

import (
	"context"
	"time"
)

// DefaultNotebookTitle is used when a notebook is created without a title
const DefaultNotebookTitle = "Untitled notebook"

// Notebook is a named container of context and instructions that chat runs
// are executed against
type Notebook struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Instructions *string    `json:"instructions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// NotebookCreate represents notebook creation data
type NotebookCreate struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description  *string `json:"description,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
}

// TitleOrDefault returns the requested title, or DefaultNotebookTitle when absent
func (c NotebookCreate) TitleOrDefault() string {
	if c.Title == nil {
		return DefaultNotebookTitle
	}
	return *c.Title
}

// NotebookUpdate is a partial update. Only fields present in the request body
// are applied; an explicit null clears description or instructions.
type NotebookUpdate struct {
	Title        Optional[string] `json:"title"`
	Description  Optional[string] `json:"description"`
	Instructions Optional[string] `json:"instructions"`
}

// Validate checks the patch against the column constraints
func (u NotebookUpdate) Validate() error {
	if u.Title.Set {
		if u.Title.Value == nil {
			return ErrTitleRequired
		}
		if len([]rune(*u.Title.Value)) > 255 {
			return ErrTitleTooLong
		}
	}
	return nil
}

// IsEmpty reports whether the patch carries no fields
func (u NotebookUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set && !u.Instructions.Set
}

// Apply merges the fields present in the patch into n
func (u NotebookUpdate) Apply(n *Notebook) {
	if u.Title.Set && u.Title.Value != nil {
		n.Title = *u.Title.Value
	}
	if u.Description.Set {
		n.Description = u.Description.Value
	}
	if u.Instructions.Set {
		n.Instructions = u.Instructions.Value
	}
}

// NotebookRepository defines the interface for notebook storage.
// GetByID returns (nil, nil) when the notebook does not exist and Delete
// reports whether a row was removed.
type NotebookRepository interface {
	Create(ctx context.Context, notebook *Notebook) error
	GetByID(ctx context.Context, id int64) (*Notebook, error)
	List(ctx context.Context) ([]Notebook, error)
	Update(ctx context.Context, notebook *Notebook) error
	Delete(ctx context.Context, id int64) (bool, error)
}
