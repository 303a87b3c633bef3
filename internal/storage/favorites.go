// internal/storage/favorites.go
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"workout-service/internal/workout"
)

// AddFavorite marks a stored plan as a favorite, keeping a denormalized
// snapshot so the favorite survives deletion of the original plan row.
func (db *DB) AddFavorite(ctx context.Context, plan *workout.Plan) error {
	snapshot, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("serializing favorite snapshot: %w", err)
	}

	_, err = db.sql.ExecContext(ctx,
		`INSERT INTO favorites (plan_id, snapshot) VALUES (?, ?)
		 ON CONFLICT(plan_id) DO UPDATE SET snapshot = excluded.snapshot`,
		plan.ID, string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unmarks a plan.
func (db *DB) RemoveFavorite(ctx context.Context, planID string) error {
	res, err := db.sql.ExecContext(ctx, `DELETE FROM favorites WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFavorites returns favorited plan snapshots, newest first.
func (db *DB) ListFavorites(ctx context.Context) ([]*workout.Plan, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT snapshot FROM favorites ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var plans []*workout.Plan
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		var plan workout.Plan
		if err := json.Unmarshal([]byte(snapshot), &plan); err != nil {
			continue
		}
		plans = append(plans, &plan)
	}
	return plans, rows.Err()
}

// IsFavorite reports whether a plan is favorited.
func (db *DB) IsFavorite(ctx context.Context, planID string) (bool, error) {
	var count int
	err := db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE plan_id = ?`, planID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
