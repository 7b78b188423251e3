package models

import "time"

// AlphaSession is one logged session from an Alpha Progression CSV export.
type AlphaSession struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []AlphaExercise
}

// AlphaExercise is one exercise block within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// AlphaSet is a single working or warmup set.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	IsWarmup         bool
}

// WorkingSets returns the sets that are not warmups.
func (e AlphaExercise) WorkingSets() []AlphaSet {
	var out []AlphaSet
	for _, s := range e.Sets {
		if !s.IsWarmup {
			out = append(out, s)
		}
	}
	return out
}

// TopWeightKg is the heaviest working-set load, and false when the exercise
// has no external load (bodyweight only or no working sets).
func (e AlphaExercise) TopWeightKg() (float64, bool) {
	top, found := 0.0, false
	for _, s := range e.WorkingSets() {
		if s.WeightKg > top || !found {
			top, found = s.WeightKg, true
		}
	}
	if !found || top == 0 {
		return 0, false
	}
	return top, true
}
