// internal/storage/db.go

// Package storage persists workout plans, favorites and history records in
// SQLite. Plans are stored as JSON documents alongside queryable columns.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and provides repository methods.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{sql: db}, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			fallback   INTEGER NOT NULL DEFAULT 0,
			document   TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			plan_id    TEXT PRIMARY KEY,
			snapshot   TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id           TEXT PRIMARY KEY,
			plan_id      TEXT NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			rating       INTEGER,
			notes        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_created ON plans (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_history_completed ON history (completed_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Handle exposes the underlying *sql.DB so other components (the durable
// plan-store tier) can share the connection.
func (db *DB) Handle() *sql.DB {
	return db.sql
}

// Close closes the database.
func (db *DB) Close() error {
	return db.sql.Close()
}
