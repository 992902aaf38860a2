package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"herdcheck/internal/infra/persistence/feedtable"
)

func TestOpenInsertSelect(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "herd.db")
	db, err := Open(ctx, path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	inserted, skipped, err := feedtable.Insert(ctx, db, Dialect, feedtable.DefaultTable, [][]string{
		{"12345678", "cow", "3", "2", "4"},
		{"87654321", "goat", "1", "0", ""},
		{"short", "row"},
		{"12345678", "goat", "", "", ""},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted != 3 || skipped != 1 {
		t.Fatalf("inserted=%d skipped=%d", inserted, skipped)
	}
	got, err := feedtable.Select(ctx, db, feedtable.DefaultTable)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want := [][]string{
		feedtable.Header,
		{"12345678", "cow", "3", "2", "4"},
		{"87654321", "goat", "1", "0", ""},
		{"12345678", "goat", "", "", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenReusesExistingTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "herd.db")
	db, err := Open(ctx, path, "cattle")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, _, err := feedtable.Insert(ctx, db, Dialect, "cattle", [][]string{{"12345678", "cow", "1", "1", "3"}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_ = db.Close()

	db, err = Open(ctx, path, "cattle")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	rows, err := feedtable.Select(ctx, db, "cattle")
	if err != nil || len(rows) != 2 {
		t.Fatalf("select after reopen: %v %v", err, rows)
	}
}

func TestInvalidTableNames(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, filepath.Join(t.TempDir(), "x.db"), "herd; DROP TABLE x"); err == nil {
		t.Fatalf("expected invalid table error")
	}
	for _, name := range []string{"", "1herd", "herd-records", "a b"} {
		if err := feedtable.ValidateTable(name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestSelectMissingTable(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "x.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if _, err := feedtable.Select(ctx, db, "absent"); err == nil {
		t.Fatalf("expected error selecting a missing table")
	}
}

func TestInsertKeepsEmptyIdentityFields(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "herd.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	inserted, _, err := feedtable.Insert(ctx, db, Dialect, feedtable.DefaultTable, [][]string{
		{"11111111", "", "1", "1", "4"},
		{"", "cow", "", "", ""},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("inserted = %d, want 2", inserted)
	}
	got, err := feedtable.Select(ctx, db, feedtable.DefaultTable)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want := [][]string{
		feedtable.Header,
		{"11111111", "", "1", "1", "4"},
		{"", "cow", "", "", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertFailureCommitsNothing(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "herd.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	const ddl = `CREATE TABLE strict_herd (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category <> 'sheep'),
		age_years TEXT,
		age_months TEXT,
		udders TEXT
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		t.Fatalf("create: %v", err)
	}

	inserted, skipped, err := feedtable.Insert(ctx, db, Dialect, "strict_herd", [][]string{
		{"12345678", "cow", "3", "2", "4"},
		{"short"},
		{"22222222", "sheep", "1", "1", ""},
	})
	if err == nil {
		t.Fatalf("expected constraint error")
	}
	if inserted != 0 || skipped != 1 {
		t.Fatalf("inserted=%d skipped=%d, want 0 and 1", inserted, skipped)
	}
	rows, err := feedtable.Select(ctx, db, "strict_herd")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rolled back insert left rows: %v", rows)
	}
}
