// Package repository selects the storage backend for the configured dialect
// and runs schema migrations against it.
package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/Rrens/notebooklm/internal/agent"
	"github.com/Rrens/notebooklm/internal/config"
	"github.com/Rrens/notebooklm/internal/domain"
	"github.com/Rrens/notebooklm/internal/repository/postgres"
	"github.com/Rrens/notebooklm/internal/repository/sqldb"
)

// Store bundles the repositories of one database connection
type Store struct {
	Notebooks domain.NotebookRepository
	Sessions  domain.NotebookSessionRepository
	Runs      agent.HistoryStore

	db interface {
		Ping(ctx context.Context) error
		io.Closer
	}
}

// Open connects to the configured database and builds its repositories
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Dialect() {
	case config.DialectPostgres:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Notebooks: postgres.NewNotebookRepository(db),
			Sessions:  postgres.NewNotebookSessionRepository(db),
			Runs:      postgres.NewRunRepository(db),
			db:        db,
		}, nil

	case config.DialectMySQL, config.DialectSQLite:
		db, err := sqldb.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Notebooks: sqldb.NewNotebookRepository(db),
			Sessions:  sqldb.NewNotebookSessionRepository(db),
			Runs:      sqldb.NewRunRepository(db),
			db:        db,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
