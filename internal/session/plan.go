package session

import (
	"fmt"

	"github.com/google/uuid"
)

// ExercisePlan is one entry of a workout. It is never modified once a session
// has started.
type ExercisePlan struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Sets     int      `json:"sets"`
	Reps     int      `json:"reps"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
}

// Upper bounds on a single exercise. The per-set completion grid is sized by Sets.
const (
	MaxSets = 100
	MaxReps = 1000
)

// Workout is the typed workout definition a session is started from.
type Workout struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	BodyPart  string         `json:"body_part"`
	Exercises []ExercisePlan `json:"exercises"`
}

// TotalSets returns the number of Advance calls needed to finish the workout.
func (w Workout) TotalSets() int {
	n := 0
	for _, ex := range w.Exercises {
		n += ex.Sets
	}
	return n
}

// Validate checks that the workout can drive a session.
func (w Workout) Validate() error {
	if len(w.Exercises) == 0 {
		return fmt.Errorf("workout %q has no exercises", w.Name)
	}
	for i, ex := range w.Exercises {
		if ex.Name == "" {
			return fmt.Errorf("exercise %d: name is required", i+1)
		}
		if ex.Sets < 1 || ex.Sets > MaxSets {
			return fmt.Errorf("exercise %d (%s): sets must be between 1 and %d, got %d", i+1, ex.Name, MaxSets, ex.Sets)
		}
		if ex.Reps < 0 || ex.Reps > MaxReps {
			return fmt.Errorf("exercise %d (%s): reps must be between 0 and %d, got %d", i+1, ex.Name, MaxReps, ex.Reps)
		}
		if ex.WeightKg != nil && *ex.WeightKg < 0 {
			return fmt.Errorf("exercise %d (%s): weight must not be negative", i+1, ex.Name)
		}
	}
	return nil
}
