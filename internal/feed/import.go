package feed

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"herdcheck/internal/blob"
	"herdcheck/internal/infra/persistence/feedtable"
	"herdcheck/internal/infra/persistence/postgres"
	"herdcheck/internal/infra/persistence/sqlite"
)

// ImportReport summarizes an Import call.
type ImportReport struct {
	Driver   string `json:"driver"`
	Target   string `json:"target"`
	Rows     int    `json:"rows"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// Import copies a header-first row set into the feed location described by
// cfg so a later Open reads it back. Fields are stored verbatim; parsing
// stays with the registry. SQL targets drop rows with too few fields.
func Import(ctx context.Context, rows [][]string, cfg Config, blobCfg blob.Config) (ImportReport, error) {
	report := ImportReport{Driver: driver(cfg)}
	if len(rows) == 0 {
		return report, fmt.Errorf("import: feed has no header row")
	}
	data := rows[1:]
	report.Rows = len(data)
	switch report.Driver {
	case DriverBlob:
		store, err := blob.Open(ctx, blobCfg)
		if err != nil {
			return report, fmt.Errorf("open feed store: %w", err)
		}
		report.Target = key(cfg)
		var buf bytes.Buffer
		if err := WriteCSV(&buf, append([][]string{feedtable.Header}, data...)); err != nil {
			return report, err
		}
		_, err = store.Put(ctx, report.Target, &buf, blob.PutOptions{
			ContentType: "text/csv",
			Metadata:    map[string]string{"rows": strconv.Itoa(len(data))},
		})
		if err != nil {
			return report, fmt.Errorf("store feed object: %w", err)
		}
		report.Imported = len(data)
		return report, nil
	case DriverSQLite, DriverPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return report, err
		}
		defer func() { _ = db.Close() }()
		report.Target = cfg.Table
		if report.Target == "" {
			report.Target = feedtable.DefaultTable
		}
		dialect := sqlite.Dialect
		if report.Driver == DriverPostgres {
			dialect = postgres.Dialect
		}
		report.Imported, report.Skipped, err = feedtable.Insert(ctx, db, dialect, report.Target, data)
		if err != nil {
			return report, fmt.Errorf("import rows: %w", err)
		}
		return report, nil
	case DriverFile:
		return report, fmt.Errorf("import: the file driver is read-only, pick blob, sqlite or postgres")
	default:
		return report, fmt.Errorf("%w %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Objects lists the feed objects stored under prefix in the configured blob
// store, ordered by key.
func Objects(ctx context.Context, blobCfg blob.Config, prefix string) ([]blob.Info, error) {
	store, err := blob.Open(ctx, blobCfg)
	if err != nil {
		return nil, fmt.Errorf("open feed store: %w", err)
	}
	infos, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list feed objects: %w", err)
	}
	if infos == nil {
		infos = []blob.Info{}
	}
	return infos, nil
}
