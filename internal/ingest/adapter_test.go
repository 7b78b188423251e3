package ingest

import (
	"testing"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/uuid"
)

// TestDecodeWorkoutCamelCase verifies the app's camelCase shape with a
// missing weight on one exercise.
func TestDecodeWorkoutCamelCase(t *testing.T) {
	raw := `{
		"workoutId": "8d3b4a1e-6f21-4f0c-8a52-2c1f9b7e4d10",
		"name": "Push",
		"bodyPart": "Chest",
		"exercises": [
			{"name": "Bench Press", "sets": 3, "reps": 8, "weight": 80},
			{"name": "Dips", "sets": 3, "reps": 12}
		]
	}`
	w, err := DecodeWorkout([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID.String() != "8d3b4a1e-6f21-4f0c-8a52-2c1f9b7e4d10" {
		t.Errorf("id = %s", w.ID)
	}
	if w.BodyPart != "chest" {
		t.Errorf("body part = %q, want chest", w.BodyPart)
	}
	if len(w.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(w.Exercises))
	}
	if w.Exercises[0].WeightKg == nil || *w.Exercises[0].WeightKg != 80 {
		t.Errorf("bench weight = %v, want 80", w.Exercises[0].WeightKg)
	}
	if w.Exercises[1].WeightKg != nil {
		t.Errorf("dips weight = %v, want nil", *w.Exercises[1].WeightKg)
	}
}

// TestDecodeWorkoutLooseTypes verifies snake_case keys, numeric strings,
// European decimals and null weights.
func TestDecodeWorkoutLooseTypes(t *testing.T) {
	raw := `{
		"id": "0e7f2a44-1c55-4d8b-9f0a-3b6c5d7e8f90",
		"name": " Legs ",
		"body_part": "legs",
		"exercises": [
			{"id": "squat", "name": "Squat", "sets": "4", "reps": "6", "weight": "102,5"},
			{"name": "Calf Raise", "sets": 3, "reps": null, "weight": null}
		]
	}`
	w, err := DecodeWorkout([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Name != "Legs" {
		t.Errorf("name = %q", w.Name)
	}
	sq := w.Exercises[0]
	if sq.ID != "squat" || sq.Sets != 4 || sq.Reps != 6 || sq.WeightKg == nil || *sq.WeightKg != 102.5 {
		t.Errorf("squat = %+v", sq)
	}
	if w.TotalSets() != 7 {
		t.Errorf("total sets = %d, want 7", w.TotalSets())
	}
}

// TestDecodeWorkoutGeneratesID verifies a record without an ID gets one.
func TestDecodeWorkoutGeneratesID(t *testing.T) {
	w, err := DecodeWorkout([]byte(`{"name":"x","exercises":[{"name":"a","sets":1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if w.ID == uuid.Nil {
		t.Error("expected generated ID")
	}
}

// TestDecodeWorkoutErrors verifies malformed records are rejected at the boundary.
func TestDecodeWorkoutErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"bad id", `{"workoutId":"nope","exercises":[{"name":"a","sets":1}]}`},
		{"no exercises", `{"name":"x","exercises":[]}`},
		{"missing sets", `{"exercises":[{"name":"a","reps":5}]}`},
		{"fractional sets", `{"exercises":[{"name":"a","sets":2.5}]}`},
		{"text sets", `{"exercises":[{"name":"a","sets":"three"}]}`},
		{"zero sets", `{"exercises":[{"name":"a","sets":0}]}`},
		{"unnamed", `{"exercises":[{"sets":1}]}`},
		{"huge sets", `{"exercises":[{"name":"squat","sets":"2000000000","reps":5}]}`},
		{"too many sets", `{"exercises":[{"name":"squat","sets":101,"reps":5}]}`},
		{"too many reps", `{"exercises":[{"name":"squat","sets":3,"reps":"1001"}]}`},
		{"sets beyond int", `{"exercises":[{"name":"squat","sets":1e30}]}`},
		{"nan weight", `{"exercises":[{"name":"squat","sets":3,"weight":"NaN"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeWorkout([]byte(tt.raw)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestRowsRoundTrip verifies ToRows and FromRows agree on exercise order and fields.
func TestRowsRoundTrip(t *testing.T) {
	weight := 60.0
	uid := 7
	w, err := DecodeWorkout([]byte(`{"name":"Pull","bodyPart":"back","exercises":[
		{"id":"row","name":"Row","sets":3,"reps":10,"weight":60},
		{"name":"Curl","sets":2,"reps":12}]}`))
	if err != nil {
		t.Fatal(err)
	}
	row, exRows := ToRows(w, &uid, "user", "")
	if *row.UserID != 7 || row.Source != "user" {
		t.Errorf("row = %+v", row)
	}
	if exRows[0].Position != 1 || exRows[1].Position != 2 {
		t.Errorf("positions = %d,%d", exRows[0].Position, exRows[1].Position)
	}

	back, err := FromRows(row, exRows)
	if err != nil {
		t.Fatal(err)
	}
	if back.Exercises[0].ID != "row" || *back.Exercises[0].WeightKg != weight {
		t.Errorf("first exercise = %+v", back.Exercises[0])
	}
	if back.Exercises[1].ID != "" || back.Exercises[1].WeightKg != nil {
		t.Errorf("second exercise = %+v", back.Exercises[1])
	}
}

// TestFromRowsRejectsForeignExercise verifies rows from another workout are caught.
func TestFromRowsRejectsForeignExercise(t *testing.T) {
	w := models.WorkoutRow{ID: uuid.New(), Name: "x"}
	ex := []models.WorkoutExerciseRow{{WorkoutID: uuid.New(), Name: "a", Sets: 1}}
	if _, err := FromRows(w, ex); err == nil {
		t.Error("expected error")
	}
}
