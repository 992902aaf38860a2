// Package feedtable stores feed rows in a SQL table whose columns mirror the
// CSV feed verbatim, so the registry remains the only place fields are parsed.
package feedtable

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// Header is the column order rows are returned in.
var Header = []string{"id", "category", "age_years", "age_months", "udders"}

// DefaultTable is used when no table name is configured.
const DefaultTable = "herd_records"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Dialect captures the statements that differ between SQL engines.
type Dialect struct {
	Name string
	// SeqColumn declares the auto-incrementing ordering column.
	SeqColumn string
	// Placeholder renders the i-th (1-based) bind parameter.
	Placeholder func(i int) string
}

// ValidateTable rejects names that are not plain SQL identifiers.
func ValidateTable(table string) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("invalid feed table name %q", table)
	}
	return nil
}

// Ensure creates the feed table if it does not exist.
func Ensure(ctx context.Context, db *sql.DB, d Dialect, table string) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		id TEXT NOT NULL,
		category TEXT NOT NULL,
		age_years TEXT,
		age_months TEXT,
		udders TEXT
	)`, table, d.SeqColumn)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure %s table: %w", d.Name, err)
	}
	return nil
}

// Insert appends data rows (no header) in one transaction. Rows with fewer
// than len(Header) fields are not inserted and are counted in skipped. Empty
// id and category fields are stored as empty text; empty numeric fields as
// NULL. On error nothing is committed and inserted is 0.
func Insert(ctx context.Context, db *sql.DB, d Dialect, table string, rows [][]string) (inserted, skipped int, retErr error) {
	if err := ValidateTable(table); err != nil {
		return 0, 0, err
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (id, category, age_years, age_months, udders) VALUES (%s, %s, %s, %s, %s)`,
		table, d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4), d.Placeholder(5))
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, row := range rows {
		if len(row) < len(Header) {
			skipped++
			continue
		}
		args := []any{row[0], row[1], nullable(row[2]), nullable(row[3]), nullable(row[4])}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return 0, skipped, fmt.Errorf("insert row %d: %w", inserted+skipped+1, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, skipped, fmt.Errorf("commit: %w", err)
	}
	return inserted, skipped, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Select returns Header followed by every stored row in insertion order.
// NULL columns come back as empty fields.
func Select(ctx context.Context, db *sql.DB, table string) ([][]string, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT id, category, COALESCE(age_years, ''), COALESCE(age_months, ''), COALESCE(udders, '') FROM %s ORDER BY seq`, table)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	out := [][]string{append([]string(nil), Header...)}
	for rows.Next() {
		rec := make([]string, len(Header))
		if err := rows.Scan(&rec[0], &rec[1], &rec[2], &rec[3], &rec[4]); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}
