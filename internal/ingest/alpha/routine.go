package alpha

import (
	"sort"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/google/uuid"
)

// splitBodyPart maps the first segment of a program day name to the body-part
// tag used for calorie estimates.
var splitBodyPart = map[string]string{
	"push":  "chest",
	"pull":  "back",
	"legs":  "legs",
	"leg":   "legs",
	"upper": "upper body",
	"lower": "lower body",
	"full":  "full body",
	"arms":  "arms",
	"core":  "core",
}

// RoutineName is the program day without week and program suffixes:
// "Legs · Day 2 · Week 4 · Push-Pull-Legs" becomes "Legs · Day 2".
func RoutineName(sessionName string) string {
	parts := strings.Split(sessionName, " · ")
	keep := parts[:0:0]
	for _, p := range parts {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(p)), "week ") {
			break
		}
		keep = append(keep, strings.TrimSpace(p))
	}
	if len(keep) == 0 {
		return strings.TrimSpace(sessionName)
	}
	return strings.Join(keep, " · ")
}

// BodyPart guesses the body-part tag from a session name.
func BodyPart(sessionName string) string {
	first := strings.ToLower(strings.TrimSpace(strings.Split(sessionName, " · ")[0]))
	for _, word := range strings.Fields(first) {
		if bp, ok := splitBodyPart[word]; ok {
			return bp
		}
	}
	return "full body"
}

// Routines turns logged sessions into reusable routines, one per routine name.
// The most recent session of each name wins. Sets are the working sets that
// were logged, reps the exercise's target and weight the top working load.
func Routines(sessions []models.AlphaSession) []session.Workout {
	latest := make(map[string]models.AlphaSession)
	for _, s := range sessions {
		name := RoutineName(s.Name)
		if prev, ok := latest[name]; !ok || s.Date.After(prev.Date) {
			latest[name] = s
		}
	}

	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []session.Workout
	for _, name := range names {
		s := latest[name]
		w := session.Workout{
			ID:       uuid.New(),
			Name:     name,
			BodyPart: BodyPart(s.Name),
		}
		for _, ex := range s.Exercises {
			sets := len(ex.WorkingSets())
			if sets == 0 {
				continue
			}
			plan := session.ExercisePlan{
				Name: ex.Name,
				Sets: sets,
				Reps: ex.TargetReps,
			}
			if top, ok := ex.TopWeightKg(); ok {
				plan.WeightKg = &top
			}
			w.Exercises = append(w.Exercises, plan)
		}
		if len(w.Exercises) > 0 {
			out = append(out, w)
		}
	}
	return out
}
