package alpha

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/gymlog/internal/session"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions verifies a multi-session export parses into
// sessions, exercises, warmups and working sets.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	// First session: all 6 exercises
	s1 := sessions[0]
	if s1.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("s1.Name = %q", s1.Name)
	}
	if s1.Duration != "1:02 hr" {
		t.Errorf("s1.Duration = %q", s1.Duration)
	}
	if len(s1.Exercises) != 6 {
		t.Fatalf("s1 exercises = %d, want 6", len(s1.Exercises))
	}

	// Exercise 1: Hack Squats: 2 warmups + 3 working sets, single-word equipment
	ex1 := s1.Exercises[0]
	if ex1.Name != "Hack Squats" {
		t.Errorf("ex1.Name = %q, want Hack Squats", ex1.Name)
	}
	if ex1.Equipment != "Machine" {
		t.Errorf("ex1.Equipment = %q, want Machine", ex1.Equipment)
	}
	if ex1.TargetReps != 8 {
		t.Errorf("ex1.TargetReps = %d, want 8", ex1.TargetReps)
	}
	if len(ex1.Sets) != 5 { // 2 warmup + 3 working
		t.Errorf("ex1 sets = %d, want 5", len(ex1.Sets))
	}

	// Exercise 2: Sumo Squats: multi-word equipment ("Smith machine")
	ex2 := s1.Exercises[1]
	if ex2.Name != "Sumo Squats" {
		t.Errorf("ex2.Name = %q, want Sumo Squats", ex2.Name)
	}
	if ex2.Equipment != "Smith machine" {
		t.Errorf("ex2.Equipment = %q, want Smith machine", ex2.Equipment)
	}
	if len(ex2.Sets) != 3 { // 1 warmup + 2 working
		t.Errorf("ex2 sets = %d, want 3", len(ex2.Sets))
	}

	// Exercise 3: Hyperextensions: multi-word name, bodyweight equipment
	ex3 := s1.Exercises[2]
	if ex3.Name != "Hyperextensions on Roman Chair" {
		t.Errorf("ex3.Name = %q, want Hyperextensions on Roman Chair", ex3.Name)
	}
	if ex3.Equipment != "Bodyweight" {
		t.Errorf("ex3.Equipment = %q, want Bodyweight", ex3.Equipment)
	}

	// Exercise 4: Reverse Lunges: no warmups
	ex4 := s1.Exercises[3]
	if ex4.Name != "Reverse Lunges" {
		t.Errorf("ex4.Name = %q, want Reverse Lunges", ex4.Name)
	}
	if ex4.Equipment != "Dumbbells" {
		t.Errorf("ex4.Equipment = %q, want Dumbbells", ex4.Equipment)
	}
	if len(ex4.Sets) != 3 { // 0 warmup + 3 working
		t.Errorf("ex4 sets = %d, want 3", len(ex4.Sets))
	}

	// Exercise 5: Standing Calf Raises: warmup with European decimal weight
	ex5 := s1.Exercises[4]
	if ex5.Name != "Standing Calf Raises" {
		t.Errorf("ex5.Name = %q, want Standing Calf Raises", ex5.Name)
	}
	if ex5.Equipment != "Machine" {
		t.Errorf("ex5.Equipment = %q, want Machine", ex5.Equipment)
	}
	if len(ex5.Sets) != 4 { // 1 warmup + 3 working
		t.Errorf("ex5 sets = %d, want 4", len(ex5.Sets))
	}

	// Exercise 6: Hanging Leg Raises: modifier "· 2 dropsets", no warmups, bodyweight
	ex6 := s1.Exercises[5]
	if ex6.Name != "Hanging Leg Raises" {
		t.Errorf("ex6.Name = %q, want Hanging Leg Raises", ex6.Name)
	}
	if ex6.Equipment != "Bodyweight" {
		t.Errorf("ex6.Equipment = %q, want Bodyweight", ex6.Equipment)
	}
	if ex6.TargetReps != 12 {
		t.Errorf("ex6.TargetReps = %d, want 12", ex6.TargetReps)
	}
	if len(ex6.Sets) != 3 { // 0 warmup + 3 working
		t.Errorf("ex6 sets = %d, want 3", len(ex6.Sets))
	}

	// Second session
	s2 := sessions[1]
	if s2.Name != "Push · Day 1 · Week 4 · Push-Pull-Legs" {
		t.Errorf("s2.Name = %q", s2.Name)
	}
}

// TestParseWeights covers comma decimals and bodyweight-plus notation.
func TestParseWeights(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantBW bool
	}{
		{"102,5", 102.5, false},
		{"115", 115, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" 0,5 ", 0.5, false},
		{"garbage", 0, false},
	}
	for _, tt := range tests {
		got, bw := parseWeight(tt.in)
		if got != tt.want || bw != tt.wantBW {
			t.Errorf("parseWeight(%q) = (%v, %v), want (%v, %v)", tt.in, got, bw, tt.want, tt.wantBW)
		}
	}
}

// TestWarmupParsing verifies warmups are read from the header's second field.
func TestWarmupParsing(t *testing.T) {
	sets := parseWarmups("WU1 · 37,5 kg · 9 reps<br>WU2 · +0 kg · 7 reps")
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if sets[0].WeightKg != 37.5 || sets[0].Reps != 9 || !sets[0].IsWarmup {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if !sets[1].IsBodyweightPlus || sets[1].WeightKg != 0 {
		t.Errorf("wu2 = %+v", sets[1])
	}
	if parseWarmups("") != nil {
		t.Error("empty warmup field should give no sets")
	}
}

// TestParseErrors verifies structural errors are reported.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"exercise without session", `"1. Bench Press · Barbell · 6 reps"`},
		{"set without exercise", "\"Push · Day 1\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;6;0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestRoutineName verifies week and program suffixes are dropped.
func TestRoutineName(t *testing.T) {
	tests := map[string]string{
		"Legs · Day 2 · Week 4 · Push-Pull-Legs": "Legs · Day 2",
		"Push · Day 1":                           "Push · Day 1",
		"Full Body":                              "Full Body",
		"Week 1 · Deload":                        "Week 1 · Deload",
	}
	for in, want := range tests {
		if got := RoutineName(in); got != want {
			t.Errorf("RoutineName(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestBodyPart verifies program day names map to calorie tags.
func TestBodyPart(t *testing.T) {
	tests := map[string]string{
		"Legs · Day 2":       "legs",
		"Push · Day 1":       "chest",
		"Pull":               "back",
		"Upper A":            "upper body",
		"Something Else · 3": "full body",
	}
	for in, want := range tests {
		if got := BodyPart(in); got != want {
			t.Errorf("BodyPart(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestRoutines verifies sessions become routines with working-set counts,
// target reps and top loads.
func TestRoutines(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	routines := Routines(sessions)
	if len(routines) != 2 {
		t.Fatalf("routines = %d, want 2", len(routines))
	}

	legs := routines[0]
	if legs.Name != "Legs · Day 2" || legs.BodyPart != "legs" {
		t.Errorf("legs = %q/%q", legs.Name, legs.BodyPart)
	}
	if len(legs.Exercises) != 6 {
		t.Fatalf("legs exercises = %d, want 6", len(legs.Exercises))
	}
	hack := legs.Exercises[0]
	if hack.Sets != 3 || hack.Reps != 8 || hack.WeightKg == nil || *hack.WeightKg != 115 {
		t.Errorf("hack squats = %+v", hack)
	}
	if sumo := legs.Exercises[1]; sumo.Sets != 2 {
		t.Errorf("sumo sets = %d, want 2", sumo.Sets)
	}
	if calf := legs.Exercises[4]; calf.WeightKg == nil || *calf.WeightKg != 157.5 {
		t.Errorf("calf raises = %+v", calf)
	}
	if hlr := legs.Exercises[5]; hlr.WeightKg != nil {
		t.Errorf("hanging leg raises weight = %v, want nil", *hlr.WeightKg)
	}
	if legs.TotalSets() != 17 {
		t.Errorf("legs total sets = %d, want 17", legs.TotalSets())
	}

	push := routines[1]
	if push.Name != "Push · Day 1" || push.BodyPart != "chest" {
		t.Errorf("push = %q/%q", push.Name, push.BodyPart)
	}
	if bench := push.Exercises[0]; *bench.WeightKg != 102.5 {
		t.Errorf("bench top weight = %v, want 102.5", *bench.WeightKg)
	}
}

type fakeStore struct {
	existing map[string]bool
	created  []session.Workout
}

func (f *fakeStore) WorkoutNameExists(_ context.Context, _ int, name string) (bool, error) {
	return f.existing[name], nil
}

func (f *fakeStore) CreateWorkout(_ context.Context, _ int, w session.Workout, source string) (int64, error) {
	f.created = append(f.created, w)
	return int64(len(w.Exercises)), nil
}

// TestProviderIngest verifies existing routines are skipped and dry runs write nothing.
func TestProviderIngest(t *testing.T) {
	store := &fakeStore{existing: map[string]bool{"Push · Day 1": true}}
	p := NewProvider(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.RoutinesReceived != 2 || res.RoutinesInserted != 1 || res.RoutinesSkipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.ExercisesInserted != 6 {
		t.Errorf("exercises inserted = %d, want 6", res.ExercisesInserted)
	}
	if len(store.created) != 1 || store.created[0].Name != "Legs · Day 2" {
		t.Errorf("created = %+v", store.created)
	}

	dry := &fakeStore{}
	res, err = NewProvider(dry, slog.New(slog.NewTextHandler(io.Discard, nil))).
		Ingest(context.Background(), strings.NewReader(sampleCSV), 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if res.RoutinesInserted != 2 || len(dry.created) != 0 {
		t.Errorf("dry run result = %+v, created %d", res, len(dry.created))
	}
}
