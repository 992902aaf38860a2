// Package postgres opens Postgres databases holding feed tables through the
// pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"herdcheck/internal/infra/persistence/feedtable"
)

const (
	defaultDriver = "pgx"
	// DefaultDSN points at a local database when none is configured.
	DefaultDSN = "postgres://localhost/herdcheck?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Dialect describes Postgres statement differences for feedtable.
var Dialect = feedtable.Dialect{
	Name:        "postgres",
	SeqColumn:   "seq BIGSERIAL PRIMARY KEY",
	Placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
}

// Open connects using dsn (falls back to DefaultDSN), pings and ensures table exists.
func Open(ctx context.Context, dsn, table string) (*sql.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if table == "" {
		table = feedtable.DefaultTable
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := feedtable.Ensure(ctx, db, Dialect, table); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
