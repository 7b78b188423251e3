package storage

import (
	"context"
	"fmt"
	"time"
)

// BodyPartPeriodSummary holds aggregated session stats for one body part within a period.
type BodyPartPeriodSummary struct {
	BodyPart      string  `json:"body_part"`
	Sessions      int     `json:"sessions"`
	AvgDuration   float64 `json:"avg_duration_sec"`
	TotalCalories int     `json:"total_calories"`
}

// TrainingSummaryPeriod holds combined session data for one time period.
type TrainingSummaryPeriod struct {
	Period           string                  `json:"period"`
	Sessions         int                     `json:"sessions"`
	Finished         int                     `json:"finished"`
	TotalDurationSec int                     `json:"total_duration_sec"`
	TotalCalories    int                     `json:"total_calories"`
	SetsCompleted    int                     `json:"sets_completed"`
	BodyParts        []BodyPartPeriodSummary `json:"body_parts"`
}

// GetTrainingSummary returns aggregated completion stats per period, newest first.
// bucket is "1 day", "1 week" or "1 month".
func (db *DB) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]TrainingSummaryPeriod, error) {
	interval := truncInterval(bucket)

	totals, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, ended_at)::date AS period,
		        COUNT(*)::int,
		        COUNT(*) FILTER (WHERE finished)::int,
		        COALESCE(SUM(duration_seconds), 0)::int,
		        COALESCE(SUM(calories_burned), 0)::int,
		        COALESCE(SUM(sets_completed), 0)::int
		 FROM completions
		 WHERE ended_at >= $2 AND ended_at < $3 AND user_id = $4
		 GROUP BY period
		 ORDER BY period DESC`,
		interval, start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer totals.Close()

	periodMap := make(map[string]*TrainingSummaryPeriod)
	var periodOrder []string

	for totals.Next() {
		var periodTime time.Time
		var p TrainingSummaryPeriod
		if err := totals.Scan(&periodTime, &p.Sessions, &p.Finished, &p.TotalDurationSec, &p.TotalCalories, &p.SetsCompleted); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		p.Period = periodTime.Format("2006-01-02")
		periodMap[p.Period] = &p
		periodOrder = append(periodOrder, p.Period)
	}
	if err := totals.Err(); err != nil {
		return nil, err
	}

	parts, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, ended_at)::date AS period,
		        body_part,
		        COUNT(*)::int,
		        AVG(duration_seconds),
		        COALESCE(SUM(calories_burned), 0)::int
		 FROM completions
		 WHERE ended_at >= $2 AND ended_at < $3 AND user_id = $4
		 GROUP BY period, body_part
		 ORDER BY period DESC, COUNT(*) DESC`,
		interval, start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying body part summary: %w", err)
	}
	defer parts.Close()

	for parts.Next() {
		var periodTime time.Time
		var bp BodyPartPeriodSummary
		if err := parts.Scan(&periodTime, &bp.BodyPart, &bp.Sessions, &bp.AvgDuration, &bp.TotalCalories); err != nil {
			return nil, fmt.Errorf("scanning body part summary: %w", err)
		}
		if p, ok := periodMap[periodTime.Format("2006-01-02")]; ok {
			p.BodyParts = append(p.BodyParts, bp)
		}
	}
	if err := parts.Err(); err != nil {
		return nil, err
	}

	result := make([]TrainingSummaryPeriod, 0, len(periodOrder))
	for _, key := range periodOrder {
		result = append(result, *periodMap[key])
	}
	return result, nil
}

// truncInterval converts bucket strings like "1 month" to the interval name
// that date_trunc expects (e.g. "month", "week").
func truncInterval(bucket string) string {
	switch bucket {
	case "1 day":
		return "day"
	case "1 week":
		return "week"
	default:
		return "month"
	}
}
