// internal/planstore/sqlite.go
package planstore

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteTier is the durable primary tier. Capacity is modeled as a budget
// over the total bytes held in the table: a write that would push the total
// past the ceiling fails with ErrCapacity so the store can evict and retry.
type SQLiteTier struct {
	db      *sql.DB
	ceiling int
}

func NewSQLiteTier(db *sql.DB, ceiling int) (*SQLiteTier, error) {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS current_plans (
			key        TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return nil, fmt.Errorf("create current_plans table: %w", err)
	}
	return &SQLiteTier{db: db, ceiling: ceiling}, nil
}

func (t *SQLiteTier) Name() string { return "sqlite" }

func (t *SQLiteTier) Ceiling() int { return t.ceiling }

func (t *SQLiteTier) Put(ctx context.Context, key, payload string) error {
	var used int
	err := t.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(payload)), 0) FROM current_plans WHERE key != ?`, key,
	).Scan(&used)
	if err != nil {
		return fmt.Errorf("measure tier usage: %w", err)
	}
	if used+len(payload) > t.ceiling {
		return ErrCapacity
	}

	_, err = t.db.ExecContext(ctx,
		`INSERT INTO current_plans (key, payload) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		key, payload,
	)
	if err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

func (t *SQLiteTier) Get(ctx context.Context, key string) (string, error) {
	var payload string
	err := t.db.QueryRowContext(ctx,
		`SELECT payload FROM current_plans WHERE key = ?`, key,
	).Scan(&payload)
	if err != nil {
		return "", err
	}
	return payload, nil
}

func (t *SQLiteTier) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT key FROM current_plans WHERE key LIKE ? || '%' ORDER BY key ASC`, prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (t *SQLiteTier) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := t.db.ExecContext(ctx, `DELETE FROM current_plans WHERE key = ?`, k); err != nil {
			return err
		}
	}
	return nil
}
