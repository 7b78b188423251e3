package session

import (
	"time"

	"github.com/claude/gymlog/internal/calories"
	"github.com/google/uuid"
)

// CompletionRecord is the immutable result of a finished or abandoned session.
type CompletionRecord struct {
	ID              uuid.UUID `json:"id"`
	WorkoutID       uuid.UUID `json:"workout_id"`
	UserID          int       `json:"user_id"`
	DurationSeconds int       `json:"duration_seconds"`
	CaloriesBurned  int       `json:"calories_burned"`
	SetsCompleted   int       `json:"sets_completed"`
	SetsTotal       int       `json:"sets_total"`
	Finished        bool      `json:"finished"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
}

// CompletionInput carries what a record needs besides the session state.
type CompletionInput struct {
	WorkoutID  uuid.UUID
	UserID     int
	BodyPart   string
	BodyMassKg float64
	// DurationSeconds replaces the state's elapsed time when set.
	DurationSeconds *int
	Finished        bool
	StartedAt       time.Time
	EndedAt         time.Time
}

// Complete builds the completion record for a stopped session. The caller must
// have stopped the timer so ElapsedSeconds no longer changes.
func Complete(s State, in CompletionInput) CompletionRecord {
	seconds := s.ElapsedSeconds
	if in.DurationSeconds != nil && *in.DurationSeconds >= 0 {
		seconds = *in.DurationSeconds
	}
	return CompletionRecord{
		ID:              uuid.New(),
		WorkoutID:       in.WorkoutID,
		UserID:          in.UserID,
		DurationSeconds: seconds,
		CaloriesBurned:  calories.Estimate(in.BodyPart, float64(seconds)/60, in.BodyMassKg),
		SetsCompleted:   s.SetsDone(),
		SetsTotal:       s.SetsTotal(),
		Finished:        in.Finished,
		StartedAt:       in.StartedAt,
		EndedAt:         in.EndedAt,
	}
}
