// Package sqlite opens SQLite databases holding feed tables.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"herdcheck/internal/infra/persistence/feedtable"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "herdcheck.db"

// Dialect describes SQLite statement differences for feedtable.
var Dialect = feedtable.Dialect{
	Name:        "sqlite",
	SeqColumn:   "seq INTEGER PRIMARY KEY AUTOINCREMENT",
	Placeholder: func(int) string { return "?" },
}

// Open opens (creating if needed) the database at path and ensures table exists.
func Open(ctx context.Context, path, table string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath
	}
	if table == "" {
		table = feedtable.DefaultTable
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := feedtable.Ensure(ctx, db, Dialect, table); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
