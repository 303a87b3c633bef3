// internal/storage/plans.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"workout-service/internal/workout"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// SavePlan inserts or replaces a plan document.
func (db *DB) SavePlan(ctx context.Context, plan *workout.Plan) error {
	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("serializing plan: %w", err)
	}

	_, err = db.sql.ExecContext(ctx,
		`INSERT INTO plans (id, title, fallback, document, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, document = excluded.document`,
		plan.ID, plan.Title, boolToInt(plan.Fallback), string(doc), plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by id.
func (db *DB) GetPlan(ctx context.Context, id string) (*workout.Plan, error) {
	var doc string
	err := db.sql.QueryRowContext(ctx,
		`SELECT document FROM plans WHERE id = ?`, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}

	var plan workout.Plan
	if err := json.Unmarshal([]byte(doc), &plan); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", id, err)
	}
	return &plan, nil
}

// ListPlans returns stored plans, newest first, up to limit.
func (db *DB) ListPlans(ctx context.Context, limit int) ([]*workout.Plan, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.sql.QueryContext(ctx,
		`SELECT document FROM plans ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var plans []*workout.Plan
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		var plan workout.Plan
		if err := json.Unmarshal([]byte(doc), &plan); err != nil {
			continue // skip undecodable rows rather than failing the list
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

// DeletePlan removes a plan and its favorite reference.
func (db *DB) DeletePlan(ctx context.Context, id string) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	_, _ = db.sql.ExecContext(ctx, `DELETE FROM favorites WHERE plan_id = ?`, id)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
