// Package blob selects a concrete object store for feed files.
package blob

import (
	"context"
	"fmt"

	"herdcheck/internal/blob/core"
	"herdcheck/internal/infra/blob/fs"
	"herdcheck/internal/infra/blob/memory"
	infraS3 "herdcheck/internal/infra/blob/s3"
)

type (
	// Store aliases core.Store.
	Store = core.Store
	// Info aliases core.Info.
	Info = core.Info
	// PutOptions aliases core.PutOptions.
	PutOptions = core.PutOptions
	// Driver aliases core.Driver.
	Driver = core.Driver
)

// Driver identifiers re-exported for configuration.
const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

// Sentinel errors re-exported for callers.
var (
	ErrNotFound = core.ErrNotFound
	ErrExists   = core.ErrExists
)

// Config selects and configures a driver. S3 settings come from
// HERDCHECK_BLOB_S3_* environment variables.
type Config struct {
	Driver string `mapstructure:"driver"`
	Root   string `mapstructure:"root"`
}

// Open returns the store named by cfg.Driver (default fs).
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		s, err := fs.New(cfg.Root)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverS3:
		s, err := infraS3.OpenFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
