package catalog

import "testing"

// TestDefaultCatalog verifies the embedded catalog parses and cross-references.
func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.BodyParts) == 0 || len(c.Exercises) == 0 || len(c.Routines) == 0 {
		t.Fatalf("empty catalog: %d body parts, %d exercises, %d routines",
			len(c.BodyParts), len(c.Exercises), len(c.Routines))
	}
	for _, r := range c.Routines {
		if err := r.Workout.Validate(); err != nil {
			t.Errorf("routine %q: %v", r.Workout.Name, err)
		}
	}
}

// TestRoutineIDsStable verifies routine IDs do not change between parses.
func TestRoutineIDsStable(t *testing.T) {
	a, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Routines {
		if a.Routines[i].Workout.ID != b.Routines[i].Workout.ID {
			t.Errorf("routine %q ID changed", a.Routines[i].Workout.Name)
		}
	}
}

// TestExercisesFor verifies body-part filtering.
func TestExercisesFor(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	legs := c.ExercisesFor("Legs")
	if len(legs) == 0 {
		t.Fatal("no leg exercises")
	}
	for _, ex := range legs {
		if ex.BodyPart != "legs" {
			t.Errorf("%s has body part %q", ex.ID, ex.BodyPart)
		}
	}
	if got := len(c.ExercisesFor("")); got != len(c.Exercises) {
		t.Errorf("unfiltered = %d, want %d", got, len(c.Exercises))
	}
	if _, ok := c.Exercise("bench-press"); !ok {
		t.Error("bench-press missing")
	}
}

// TestParseRejectsBrokenReferences verifies cross-checks catch bad data.
func TestParseRejectsBrokenReferences(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown body part", `
body_parts: [{name: chest}]
exercises: [{id: squat, name: Squat, body_part: legs}]
`},
		{"unknown exercise", `
body_parts: [{name: chest}]
exercises: [{id: bench, name: Bench, body_part: chest}]
routines: [{name: R, exercises: [{exercise: squat, sets: 1}]}]
`},
		{"zero sets", `
body_parts: [{name: chest}]
exercises: [{id: bench, name: Bench, body_part: chest}]
routines: [{name: R, exercises: [{exercise: bench, sets: 0}]}]
`},
		{"duplicate id", `
body_parts: [{name: chest}]
exercises: [{id: bench, name: Bench, body_part: chest}, {id: bench, name: Bench 2, body_part: chest}]
`},
		{"bad yaml", `body_parts: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
