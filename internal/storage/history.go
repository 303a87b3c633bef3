// internal/storage/history.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"workout-service/internal/workout"
)

// RecordHistory stores one completed-workout record. A zero ID is filled
// in; a zero completion time defaults to now.
func (db *DB) RecordHistory(ctx context.Context, rec *workout.HistoryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now().UTC()
	}

	_, err := db.sql.ExecContext(ctx,
		`INSERT INTO history (id, plan_id, completed_at, rating, notes) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.PlanID, rec.CompletedAt, rec.Rating, rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting history record: %w", err)
	}
	return nil
}

// ListHistory returns completion records, newest first, up to limit.
func (db *DB) ListHistory(ctx context.Context, limit int) ([]workout.HistoryRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, plan_id, completed_at, rating, notes FROM history
		 ORDER BY completed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []workout.HistoryRecord
	for rows.Next() {
		var rec workout.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.PlanID, &rec.CompletedAt, &rec.Rating, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scanning history record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
