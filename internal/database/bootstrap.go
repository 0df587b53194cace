package database

// Per-start schema bootstrap.  Unlike the ledgered migration runner, these
// statements run unconditionally on every boot and are idempotent by
// construction: CREATE TABLE IF NOT EXISTS plus additive ADD COLUMN calls
// whose duplicate-column failures are swallowed.  Columns that arrived in
// later iterations of the product (inventory fields on materials, serial and
// image on branch_pcs) live in the additive list so databases created by any
// earlier version converge to the same shape.

import (
	"context"
	"fmt"
	"strings"
)

// Bootstrap creates the core tables and applies additive column changes.
func (db *DB) Bootstrap(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == DriverPostgres {
		serial = "SERIAL PRIMARY KEY"
	}

	tables := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id %s,
			task_name TEXT NOT NULL,
			branch_name TEXT NOT NULL,
			description TEXT,
			status TEXT
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS materials (
			id %s,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit TEXT,
			task_id INTEGER REFERENCES tasks(id)
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS branch_pcs (
			id %s,
			branch_name TEXT,
			city TEXT,
			branch_code TEXT,
			desktop_name TEXT,
			pc_number TEXT,
			motherboard TEXT,
			processor TEXT,
			storage TEXT,
			ram TEXT,
			psu TEXT,
			monitor TEXT
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'User',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMP
		)`, serial),
	}
	for _, stmt := range tables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap table: %w", err)
		}
	}

	// Columns accreted after the tables first shipped.
	additive := []string{
		`ALTER TABLE materials ADD COLUMN part_type TEXT`,
		`ALTER TABLE materials ADD COLUMN status TEXT`,
		`ALTER TABLE materials ADD COLUMN serial_number TEXT`,
		`ALTER TABLE materials ADD COLUMN warranty_date TEXT`,
		`ALTER TABLE materials ADD COLUMN condition TEXT DEFAULT 'Good'`,
		`ALTER TABLE materials ADD COLUMN image_path TEXT`,
		`ALTER TABLE materials ADD COLUMN created_at TIMESTAMP`,
		`ALTER TABLE materials ADD COLUMN updated_at TIMESTAMP`,
		`ALTER TABLE branch_pcs ADD COLUMN motherboard_serial TEXT`,
		`ALTER TABLE branch_pcs ADD COLUMN pc_image_path TEXT`,
	}
	for _, stmt := range additive {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("bootstrap column: %w", err)
		}
	}
	return nil
}

// isDuplicateColumn matches the "column already exists" errors of both
// engines so additive statements stay idempotent without IF NOT EXISTS,
// which SQLite's ALTER TABLE does not accept.
func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column") || strings.Contains(msg, "42701")
}
