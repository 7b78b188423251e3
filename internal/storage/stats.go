package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalWorkouts        int64         `json:"total_workouts"`
	TotalCompletions     int64         `json:"total_completions"`
	FinishedCompletions  int64         `json:"finished_completions"`
	TotalDurationSec     int64         `json:"total_duration_sec"`
	TotalCalories        int64         `json:"total_calories"`
	EarliestSession      *time.Time    `json:"earliest_session"`
	LatestSession        *time.Time    `json:"latest_session"`
	CompletionsByRoutine []RoutineStat `json:"completions_by_routine"`
}

// RoutineStat holds completion stats for a single routine name.
type RoutineStat struct {
	Name          string `json:"name"`
	Count         int64  `json:"count"`
	TotalDuration int64  `json:"total_duration_sec"`
	TotalCalories int64  `json:"total_calories"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	// Own routines only; catalog routines are shared
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workouts WHERE user_id = $1`, userID,
	).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE finished),
		        COALESCE(SUM(duration_seconds), 0),
		        COALESCE(SUM(calories_burned), 0),
		        MIN(started_at),
		        MAX(ended_at)
		 FROM completions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalCompletions, &stats.FinishedCompletions, &stats.TotalDurationSec,
		&stats.TotalCalories, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting completions: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT workout_name, COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(calories_burned), 0)
		 FROM completions
		 WHERE user_id = $1
		 GROUP BY workout_name
		 ORDER BY COUNT(*) DESC, workout_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying completions by routine: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s RoutineStat
		if err := rows.Scan(&s.Name, &s.Count, &s.TotalDuration, &s.TotalCalories); err != nil {
			return nil, fmt.Errorf("scanning routine stat: %w", err)
		}
		stats.CompletionsByRoutine = append(stats.CompletionsByRoutine, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
