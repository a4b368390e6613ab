package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/jackc/pgx/v5"
)

// NotebookRepository implements domain.NotebookRepository
type NotebookRepository struct {
	db *DB
}

// NewNotebookRepository creates a new notebook repository
func NewNotebookRepository(db *DB) *NotebookRepository {
	return &NotebookRepository{db: db}
}

const notebookColumns = `id, title, description, instructions, created_at, updated_at`

// Create inserts a notebook and fills in its generated id
func (r *NotebookRepository) Create(ctx context.Context, notebook *domain.Notebook) error {
	query := `
		INSERT INTO notebooks (title, description, instructions, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		notebook.Title,
		notebook.Description,
		notebook.Instructions,
		notebook.CreatedAt,
	).Scan(&notebook.ID)
	if err != nil {
		return fmt.Errorf("failed to create notebook: %w", err)
	}

	return nil
}

// GetByID retrieves a notebook by ID
func (r *NotebookRepository) GetByID(ctx context.Context, id int64) (*domain.Notebook, error) {
	query := `SELECT ` + notebookColumns + ` FROM notebooks WHERE id = $1`

	var n domain.Notebook
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&n.ID,
		&n.Title,
		&n.Description,
		&n.Instructions,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notebook: %w", err)
	}

	return &n, nil
}

// List retrieves all notebooks, most recently touched first
func (r *NotebookRepository) List(ctx context.Context) ([]domain.Notebook, error) {
	query := `
		SELECT ` + notebookColumns + `
		FROM notebooks
		ORDER BY COALESCE(updated_at, created_at) DESC, created_at DESC, id DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	defer rows.Close()

	notebooks := []domain.Notebook{}
	for rows.Next() {
		var n domain.Notebook
		if err := rows.Scan(
			&n.ID,
			&n.Title,
			&n.Description,
			&n.Instructions,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notebook: %w", err)
		}
		notebooks = append(notebooks, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}

	return notebooks, nil
}

// Update writes the mutable fields of a notebook
func (r *NotebookRepository) Update(ctx context.Context, notebook *domain.Notebook) error {
	query := `
		UPDATE notebooks
		SET title = $2,
		    description = $3,
		    instructions = $4,
		    updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		notebook.ID,
		notebook.Title,
		notebook.Description,
		notebook.Instructions,
		notebook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update notebook: %w", err)
	}

	return nil
}

// Delete deletes a notebook; linked sessions go with it through the foreign key
func (r *NotebookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM notebooks WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete notebook: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
