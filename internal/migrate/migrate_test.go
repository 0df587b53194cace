package migrate

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/mouradf/it-asset-tracker/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ledgerNames(t *testing.T, db *database.DB) []string {
	t.Helper()
	rows, err := db.QueryContext(context.Background(), "SELECT name FROM migrations ORDER BY name")
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan ledger: %v", err)
		}
		names = append(names, n)
	}
	return names
}

func TestRunAppliesInOrderOnce(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"002_add_note.sql":     {Data: []byte("ALTER TABLE gadgets ADD COLUMN note TEXT;")},
		"001_create_table.sql": {Data: []byte("CREATE TABLE gadgets (id INTEGER PRIMARY KEY, name TEXT);")},
		"README.md":            {Data: []byte("not a migration")},
	}

	applied, err := Run(ctx, db, fsys)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if applied != 2 {
		t.Fatalf("applied = %d, want 2", applied)
	}
	// 002 depends on the table 001 creates; reaching this insert proves order.
	if _, err := db.ExecContext(ctx, "INSERT INTO gadgets (name, note) VALUES ('x', 'y')"); err != nil {
		t.Fatalf("schema incomplete after run: %v", err)
	}

	got := ledgerNames(t, db)
	want := []string{"001_create_table.sql", "002_add_note.sql"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ledger = %v, want %v", got, want)
	}

	// A second run finds everything in the ledger and applies nothing.
	applied, err = Run(ctx, db, fsys)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if applied != 0 {
		t.Fatalf("rerun applied = %d, want 0", applied)
	}
}

func TestRunFailsFastAndRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	fsys := fstest.MapFS{
		"001_ok.sql":    {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"002_bad.sql":   {Data: []byte("THIS IS NOT SQL;")},
		"003_never.sql": {Data: []byte("CREATE TABLE never_made (id INTEGER PRIMARY KEY);")},
	}

	applied, err := Run(ctx, db, fsys)
	if err == nil {
		t.Fatalf("expected failure from 002_bad.sql")
	}
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}

	// The failed script is not in the ledger, and the later one was never run.
	got := ledgerNames(t, db)
	if len(got) != 1 || got[0] != "001_ok.sql" {
		t.Fatalf("ledger = %v, want [001_ok.sql]", got)
	}
	if _, err := db.ExecContext(ctx, "SELECT * FROM never_made"); err == nil {
		t.Fatalf("003 ran after 002 failed")
	}

	// Fixing the bad script lets a rerun pick up where it stopped.
	fsys["002_bad.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE fixed (id INTEGER PRIMARY KEY);")}
	applied, err = Run(ctx, db, fsys)
	if err != nil {
		t.Fatalf("rerun after fix: %v", err)
	}
	if applied != 2 {
		t.Fatalf("rerun applied = %d, want 2", applied)
	}
}

func TestRunRollsBackPartiallyExecutedScript(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	// The first statement succeeds before the second fails, so the rollback
	// must undo work the script already did.
	fsys := fstest.MapFS{
		"001_half.sql": {Data: []byte(
			"CREATE TABLE half_done (id INTEGER PRIMARY KEY);\nTHIS IS NOT SQL;")},
	}

	applied, err := Run(ctx, db, fsys)
	if err == nil {
		t.Fatalf("expected failure from 001_half.sql")
	}
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
	if _, err := db.ExecContext(ctx, "SELECT * FROM half_done"); err == nil {
		t.Fatalf("half_done survived the rollback")
	}
	if names := ledgerNames(t, db); len(names) != 0 {
		t.Fatalf("ledger = %v, want empty", names)
	}
}
