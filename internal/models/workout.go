package models

import (
	"time"

	"github.com/claude/gymlog/internal/session"
	"github.com/google/uuid"
)

// WorkoutRow is a row of the workouts table. UserID is nil for catalog routines
// shared by every user.
type WorkoutRow struct {
	ID          uuid.UUID `json:"id"`
	UserID      *int      `json:"user_id,omitempty"`
	Name        string    `json:"name"`
	BodyPart    string    `json:"body_part"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutExerciseRow is a row of the workout_exercises table.
type WorkoutExerciseRow struct {
	WorkoutID  uuid.UUID `json:"workout_id"`
	Position   int       `json:"position"`
	ExerciseID *string   `json:"exercise_id,omitempty"`
	Name       string    `json:"name"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	WeightKg   *float64  `json:"weight_kg,omitempty"`
}

// ExerciseRow is an entry of the exercise library.
type ExerciseRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BodyPart     string `json:"body_part"`
	Equipment    string `json:"equipment,omitempty"`
	Target       string `json:"target,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// BodyPartRow is an entry of the body_parts table.
type BodyPartRow struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProfileRow holds the onboarding answers that sessions are configured with.
type ProfileRow struct {
	UserID     int       `json:"user_id"`
	BodyMassKg *float64  `json:"body_mass_kg,omitempty"`
	Units      string    `json:"units"`
	Onboarded  bool      `json:"onboarded"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CompletionRow is a stored completion record joined with the routine it ran.
type CompletionRow struct {
	session.CompletionRecord
	WorkoutName string `json:"workout_name"`
	BodyPart    string `json:"body_part"`
}
