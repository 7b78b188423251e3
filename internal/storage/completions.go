package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
)

// RecordCompletion stores a completion record. The workout name and body part
// are copied from the routine so history survives its deletion. Inserting the
// same record twice is a no-op, which lets the outbox retry safely.
func (db *DB) RecordCompletion(ctx context.Context, rec session.CompletionRecord) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO completions (id, user_id, workout_id, workout_name, body_part,
		 duration_seconds, calories_burned, sets_completed, sets_total, finished, started_at, ended_at)
		 VALUES ($1, $2, $3,
		         COALESCE((SELECT name FROM workouts WHERE id = $3), ''),
		         COALESCE((SELECT body_part FROM workouts WHERE id = $3), ''),
		         $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.UserID, rec.WorkoutID,
		rec.DurationSeconds, rec.CaloriesBurned, rec.SetsCompleted, rec.SetsTotal,
		rec.Finished, rec.StartedAt, rec.EndedAt)
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}
	return nil
}

// QueryCompletions returns completion records that ended in [start, end),
// newest first. limit <= 0 means no limit.
func (db *DB) QueryCompletions(ctx context.Context, start, end time.Time, userID, limit int) ([]models.CompletionRow, error) {
	query := `SELECT id, user_id, workout_id, workout_name, body_part, duration_seconds, calories_burned,
		 sets_completed, sets_total, finished, started_at, ended_at
		 FROM completions
		 WHERE ended_at >= $1 AND ended_at < $2 AND user_id = $3
		 ORDER BY ended_at DESC`
	args := []any{start, end, userID}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	var result []models.CompletionRow
	for rows.Next() {
		var c models.CompletionRow
		if err := rows.Scan(&c.ID, &c.UserID, &c.WorkoutID, &c.WorkoutName, &c.BodyPart,
			&c.DurationSeconds, &c.CaloriesBurned, &c.SetsCompleted, &c.SetsTotal,
			&c.Finished, &c.StartedAt, &c.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
