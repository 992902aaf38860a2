package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"herdcheck/internal/blob"
	"herdcheck/internal/core"
	"herdcheck/internal/infra/persistence/postgres"
	"herdcheck/internal/infra/persistence/sqlite"
)

// Feed drivers.
const (
	DriverFile     = "file"
	DriverBlob     = "blob"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultKey is the blob object read when no key is configured.
const DefaultKey = "feeds/data.csv"

// ErrUnknownDriver is returned for unsupported feed drivers.
var ErrUnknownDriver = errors.New("feed: unknown driver")

// Config selects where the feed lives.
type Config struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// Source is a RowSource holding resources released by Close.
type Source interface {
	core.RowSource
	io.Closer
}

type source struct {
	core.RowSource
	close func() error
}

func (s source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open resolves cfg into a Source. blobCfg is only consulted by the blob driver.
func Open(ctx context.Context, cfg Config, blobCfg blob.Config) (Source, error) {
	switch driver(cfg) {
	case DriverFile:
		return source{RowSource: File(cfg.Path)}, nil
	case DriverBlob:
		store, err := blob.Open(ctx, blobCfg)
		if err != nil {
			return nil, fmt.Errorf("open feed store: %w", err)
		}
		return source{RowSource: Blob(store, key(cfg))}, nil
	case DriverSQLite, DriverPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return source{RowSource: SQL(db, cfg.Table), close: db.Close}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, cfg.Driver)
	}
}

func driver(cfg Config) string {
	if cfg.Driver == "" {
		return DriverFile
	}
	return cfg.Driver
}

func key(cfg Config) string {
	if cfg.Key == "" {
		return DefaultKey
	}
	return cfg.Key
}

func openDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	if driver(cfg) == DriverPostgres {
		return postgres.Open(ctx, cfg.DSN, cfg.Table)
	}
	path := cfg.Path
	if path == "" {
		path = sqlite.DefaultPath
	}
	return sqlite.Open(ctx, path, cfg.Table)
}
