// Package database opens the relational store and applies the idempotent
// per-start schema bootstrap.  Two engines are supported: PostgreSQL for
// deployments (pgx stdlib driver) and SQLite for local development and
// tests (modernc driver).  The engine is picked from the DATABASE_URL
// shape so the rest of the application never branches on it directly.
package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DB wraps the sql connection pool together with the driver it was opened
// with, so queries written with '?' placeholders can be rebound for postgres.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the database named by databaseURL and verifies the
// connection.  URLs with a postgres scheme use pgx; anything else is treated
// as a SQLite file path (":memory:" included).
func Open(databaseURL string) (*DB, error) {
	driver := DriverSQLite
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = DriverPostgres
	}

	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &DB{DB: db, driver: driver}, nil
}

// Driver reports which database/sql driver the pool was opened with.
func (db *DB) Driver() string { return db.driver }

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either engine.  Postgres surfaces SQLSTATE 23505, SQLite a literal
// "UNIQUE constraint failed" message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
