// Package migrate applies ordered SQL change scripts exactly once each,
// tracked by filename in the migrations ledger. Unlike the per-start schema
// bootstrap, the runner is invoked explicitly and is fail-fast: a script and
// its ledger insert commit in one transaction, and the first failure aborts
// the remaining scripts.
package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"

	"github.com/mouradf/it-asset-tracker/internal/database"
)

// Run applies every *.sql file in fsys, in lexicographic order, skipping
// names already present in the migrations ledger. It returns how many
// scripts were applied in this run.
func Run(ctx context.Context, db *database.DB, fsys fs.FS) (int, error) {
	if err := ensureLedger(ctx, db); err != nil {
		return 0, err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	applied := 0
	for _, name := range names {
		done, err := alreadyApplied(ctx, db, name)
		if err != nil {
			return applied, err
		}
		if done {
			log.Printf("migrate: skipping %s (already executed)", name)
			continue
		}
		if err := applyOne(ctx, db, fsys, name); err != nil {
			// Fail fast: a later script is never attempted after an earlier
			// one fails.
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		log.Printf("migrate: applied %s", name)
		applied++
	}
	return applied, nil
}

// ensureLedger creates the append-only migrations table.
func ensureLedger(ctx context.Context, db *database.DB) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.Driver() == database.DriverPostgres {
		serial = "SERIAL PRIMARY KEY"
	}
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS migrations (
		id %s,
		name TEXT UNIQUE NOT NULL,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, serial)
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}
	return nil
}

func alreadyApplied(ctx context.Context, db *database.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		db.Rebind("SELECT COUNT(*) FROM migrations WHERE name = ?"), name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check ledger for %s: %w", name, err)
	}
	return n > 0, nil
}

// applyOne executes one script and its ledger insert inside a single
// transaction, rolling back both on any failure.
func applyOne(ctx context.Context, db *database.DB, fsys fs.FS, name string) error {
	script, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("execute: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		db.Rebind("INSERT INTO migrations (name) VALUES (?)"), name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record in ledger: %w", err)
	}
	return tx.Commit()
}
