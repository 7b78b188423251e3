// Package ingest converts workout records arriving from storage or from API
// clients into the typed session model, and defines import results.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/google/uuid"
)

// flexNumber accepts a JSON number, a numeric string, or null.
type flexNumber struct {
	Value float64
	Set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("not a number: %q", s)
		}
		n.Value, n.Set = f, true
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Set = true
	return nil
}

func (n flexNumber) int() (int, error) {
	if math.IsNaN(n.Value) || math.Abs(n.Value) > math.MaxInt32 {
		return 0, fmt.Errorf("%v is out of range", n.Value)
	}
	if n.Value != math.Trunc(n.Value) {
		return 0, fmt.Errorf("%v is not a whole number", n.Value)
	}
	return int(n.Value), nil
}

type rawExercise struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Sets   flexNumber `json:"sets"`
	Reps   flexNumber `json:"reps"`
	Weight flexNumber `json:"weight"`
}

type rawWorkout struct {
	ID          string        `json:"id"`
	WorkoutID   string        `json:"workoutId"`
	WorkoutIDSn string        `json:"workout_id"`
	Name        string        `json:"name"`
	BodyPart    string        `json:"bodyPart"`
	BodyPartSn  string        `json:"body_part"`
	Exercises   []rawExercise `json:"exercises"`
}

// DecodeWorkout parses a workout record as stored by the hosted backend or
// posted by the app. Field names may be camelCase or snake_case, and numbers
// may arrive as strings. A missing ID yields a fresh one.
func DecodeWorkout(data []byte) (session.Workout, error) {
	var raw rawWorkout
	if err := json.Unmarshal(data, &raw); err != nil {
		return session.Workout{}, fmt.Errorf("decoding workout: %w", err)
	}

	w := session.Workout{
		Name:     strings.TrimSpace(raw.Name),
		BodyPart: strings.ToLower(strings.TrimSpace(firstNonEmpty(raw.BodyPart, raw.BodyPartSn))),
	}

	if idStr := firstNonEmpty(raw.WorkoutID, raw.WorkoutIDSn, raw.ID); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return session.Workout{}, fmt.Errorf("invalid workout id %q: %w", idStr, err)
		}
		w.ID = id
	} else {
		w.ID = uuid.New()
	}

	for i, ex := range raw.Exercises {
		plan, err := ex.plan()
		if err != nil {
			return session.Workout{}, fmt.Errorf("exercise %d: %w", i+1, err)
		}
		w.Exercises = append(w.Exercises, plan)
	}

	if err := w.Validate(); err != nil {
		return session.Workout{}, err
	}
	return w, nil
}

func (ex rawExercise) plan() (session.ExercisePlan, error) {
	if !ex.Sets.Set {
		return session.ExercisePlan{}, fmt.Errorf("sets is required")
	}
	sets, err := ex.Sets.int()
	if err != nil {
		return session.ExercisePlan{}, fmt.Errorf("sets: %w", err)
	}
	reps := 0
	if ex.Reps.Set {
		if reps, err = ex.Reps.int(); err != nil {
			return session.ExercisePlan{}, fmt.Errorf("reps: %w", err)
		}
	}
	plan := session.ExercisePlan{
		ID:   strings.TrimSpace(ex.ID),
		Name: strings.TrimSpace(ex.Name),
		Sets: sets,
		Reps: reps,
	}
	if ex.Weight.Set {
		w := ex.Weight.Value
		plan.WeightKg = &w
	}
	return plan, nil
}

// FromRows assembles a workout from its stored rows, ordered by position.
func FromRows(w models.WorkoutRow, exercises []models.WorkoutExerciseRow) (session.Workout, error) {
	out := session.Workout{
		ID:       w.ID,
		Name:     w.Name,
		BodyPart: w.BodyPart,
	}
	for _, ex := range exercises {
		if ex.WorkoutID != w.ID {
			return session.Workout{}, fmt.Errorf("exercise %q belongs to workout %s, not %s", ex.Name, ex.WorkoutID, w.ID)
		}
		plan := session.ExercisePlan{
			Name:     ex.Name,
			Sets:     ex.Sets,
			Reps:     ex.Reps,
			WeightKg: ex.WeightKg,
		}
		if ex.ExerciseID != nil {
			plan.ID = *ex.ExerciseID
		}
		out.Exercises = append(out.Exercises, plan)
	}
	if err := out.Validate(); err != nil {
		return session.Workout{}, fmt.Errorf("workout %s: %w", w.ID, err)
	}
	return out, nil
}

// ToRows is the inverse of FromRows for a user-owned workout.
func ToRows(w session.Workout, userID *int, source, description string) (models.WorkoutRow, []models.WorkoutExerciseRow) {
	row := models.WorkoutRow{
		ID:          w.ID,
		UserID:      userID,
		Name:        w.Name,
		BodyPart:    w.BodyPart,
		Description: description,
		Source:      source,
	}
	exRows := make([]models.WorkoutExerciseRow, len(w.Exercises))
	for i, ex := range w.Exercises {
		exRows[i] = models.WorkoutExerciseRow{
			WorkoutID: w.ID,
			Position:  i + 1,
			Name:      ex.Name,
			Sets:      ex.Sets,
			Reps:      ex.Reps,
			WeightKg:  ex.WeightKg,
		}
		if ex.ID != "" {
			id := ex.ID
			exRows[i].ExerciseID = &id
		}
	}
	return row, exRows
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
