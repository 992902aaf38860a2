// Package feed provides the row sources the registry loads from: CSV files,
// CSV objects in a blob store, and SQL feed tables.
package feed

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"herdcheck/internal/blob"
	"herdcheck/internal/core"
	"herdcheck/internal/infra/persistence/feedtable"
)

// DefaultPath is the CSV feed read when no path is configured.
const DefaultPath = "data.csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV tokenizes a header-first CSV feed. Rows may carry any number of
// fields; the registry decides which ones are usable.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = string(bytes.TrimPrefix([]byte(rows[0][0]), utf8BOM))
	}
	return rows, nil
}

// WriteCSV encodes rows as CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	return nil
}

type readerSource struct{ r io.Reader }

// CSV returns a source that parses r on the first call to Rows.
func CSV(r io.Reader) core.RowSource { return readerSource{r: r} }

func (s readerSource) Rows(context.Context) ([][]string, error) { return ReadCSV(s.r) }

type fileSource struct{ path string }

// File returns a source reading the CSV file at path. The file is opened
// lazily so a missing feed surfaces through the registry's load report.
func File(path string) core.RowSource {
	if path == "" {
		path = DefaultPath
	}
	return fileSource{path: path}
}

func (s fileSource) Rows(context.Context) ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

type blobSource struct {
	store blob.Store
	key   string
}

// Blob returns a source reading the CSV object stored at key.
func Blob(store blob.Store, key string) core.RowSource {
	return blobSource{store: store, key: key}
}

func (s blobSource) Rows(ctx context.Context) ([][]string, error) {
	_, rc, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("get feed object: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return ReadCSV(rc)
}

type sqlSource struct {
	db    *sql.DB
	table string
}

// SQL returns a source selecting every row of a feed table in insertion order.
func SQL(db *sql.DB, table string) core.RowSource {
	if table == "" {
		table = feedtable.DefaultTable
	}
	return sqlSource{db: db, table: table}
}

func (s sqlSource) Rows(ctx context.Context) ([][]string, error) {
	return feedtable.Select(ctx, s.db, s.table)
}
