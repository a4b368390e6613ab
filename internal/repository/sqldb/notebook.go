package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rrens/notebooklm/internal/domain"
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

type scanner interface {
	Scan(dest ...any) error
}

func scanNotebook(row scanner) (*domain.Notebook, error) {
	var n domain.Notebook
	if err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Description,
		&n.Instructions,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a notebook and fills in its generated id
func (r *NotebookRepository) Create(ctx context.Context, notebook *domain.Notebook) error {
	query := `
		INSERT INTO notebooks (title, description, instructions, created_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		notebook.Title,
		notebook.Description,
		notebook.Instructions,
		notebook.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notebook: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read notebook id: %w", err)
	}
	notebook.ID = id

	return nil
}

// GetByID retrieves a notebook by ID
func (r *NotebookRepository) GetByID(ctx context.Context, id int64) (*domain.Notebook, error) {
	query := `SELECT ` + notebookColumns + ` FROM notebooks WHERE id = ?`

	n, err := scanNotebook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notebook: %w", err)
	}

	return n, nil
}

// List retrieves all notebooks, most recently touched first
func (r *NotebookRepository) List(ctx context.Context) ([]domain.Notebook, error) {
	query := `
		SELECT ` + notebookColumns + `
		FROM notebooks
		ORDER BY COALESCE(updated_at, created_at) DESC, created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	defer rows.Close()

	notebooks := []domain.Notebook{}
	for rows.Next() {
		n, err := scanNotebook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notebook: %w", err)
		}
		notebooks = append(notebooks, *n)
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
		SET title = ?,
		    description = ?,
		    instructions = ?,
		    updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		notebook.Title,
		notebook.Description,
		notebook.Instructions,
		notebook.UpdatedAt,
		notebook.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notebook: %w", err)
	}

	return nil
}

// Delete deletes a notebook; linked sessions go with it through the foreign key
func (r *NotebookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notebooks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete notebook: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete notebook: %w", err)
	}

	return affected > 0, nil
}
