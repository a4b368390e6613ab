// Package sqldb implements the repositories on database/sql for the MySQL and
// SQLite dialects. Both drivers use "?" placeholders and LastInsertId, so the
// dialects only differ in the session link upsert.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rrens/notebooklm/internal/config"
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// DB wraps a database/sql handle together with its dialect
type DB struct {
	*sql.DB
	dialect string
}

// NewDB opens and verifies a connection for the configured dialect
func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	dialect := cfg.Dialect()

	var driverName string
	switch dialect {
	case config.DialectMySQL:
		driverName = "mysql"
	case config.DialectSQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported dialect for sqldb: %s", dialect)
	}

	db, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == config.DialectSQLite {
		// SQLite only supports one writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(int(cfg.MaxConns))
		db.SetMaxIdleConns(int(cfg.MinConns))
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, dialect: dialect}, nil
}

// Dialect returns the SQL dialect of the connection
func (db *DB) Dialect() string {
	return db.dialect
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
