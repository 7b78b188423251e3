// Package catalog holds the static body-part, exercise-library and starter
// routine data shipped with the app.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// routineNamespace derives stable routine IDs from routine names so reseeding
// never duplicates them.
var routineNamespace = uuid.MustParse("3f6c2b9e-8a41-4d7f-b1c5-0e2d9a7f6b34")

type routineEntry struct {
	Exercise string   `yaml:"exercise"`
	Sets     int      `yaml:"sets"`
	Reps     int      `yaml:"reps"`
	WeightKg *float64 `yaml:"weight_kg"`
}

type routine struct {
	Name        string         `yaml:"name"`
	BodyPart    string         `yaml:"body_part"`
	Description string         `yaml:"description"`
	Exercises   []routineEntry `yaml:"exercises"`
}

type exercise struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	BodyPart     string `yaml:"body_part"`
	Equipment    string `yaml:"equipment"`
	Target       string `yaml:"target"`
	Instructions string `yaml:"instructions"`
}

type bodyPart struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type file struct {
	BodyParts []bodyPart `yaml:"body_parts"`
	Exercises []exercise `yaml:"exercises"`
	Routines  []routine  `yaml:"routines"`
}

// Routine is a starter routine with its description.
type Routine struct {
	Workout     session.Workout
	Description string
}

// Catalog is the parsed, cross-checked catalog.
type Catalog struct {
	BodyParts []models.BodyPartRow
	Exercises []models.ExerciseRow
	Routines  []Routine

	byID map[string]models.ExerciseRow
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes and validates catalog YAML. Every exercise must name a known
// body part and every routine entry a known exercise.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]models.ExerciseRow)}
	parts := make(map[string]bool)
	for _, bp := range f.BodyParts {
		name := strings.ToLower(strings.TrimSpace(bp.Name))
		parts[name] = true
		c.BodyParts = append(c.BodyParts, models.BodyPartRow{Name: name, Description: bp.Description})
	}

	for _, ex := range f.Exercises {
		if ex.ID == "" || ex.Name == "" {
			return nil, fmt.Errorf("exercise %q: id and name are required", ex.Name)
		}
		if _, dup := c.byID[ex.ID]; dup {
			return nil, fmt.Errorf("duplicate exercise id %q", ex.ID)
		}
		if !parts[ex.BodyPart] {
			return nil, fmt.Errorf("exercise %q: unknown body part %q", ex.ID, ex.BodyPart)
		}
		row := models.ExerciseRow{
			ID:           ex.ID,
			Name:         ex.Name,
			BodyPart:     ex.BodyPart,
			Equipment:    ex.Equipment,
			Target:       ex.Target,
			Instructions: strings.TrimSpace(ex.Instructions),
		}
		c.byID[ex.ID] = row
		c.Exercises = append(c.Exercises, row)
	}

	for _, r := range f.Routines {
		w := session.Workout{
			ID:       uuid.NewSHA1(routineNamespace, []byte(r.Name)),
			Name:     r.Name,
			BodyPart: r.BodyPart,
		}
		for _, e := range r.Exercises {
			ex, ok := c.byID[e.Exercise]
			if !ok {
				return nil, fmt.Errorf("routine %q: unknown exercise %q", r.Name, e.Exercise)
			}
			w.Exercises = append(w.Exercises, session.ExercisePlan{
				ID:       ex.ID,
				Name:     ex.Name,
				Sets:     e.Sets,
				Reps:     e.Reps,
				WeightKg: e.WeightKg,
			})
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("routine %q: %w", r.Name, err)
		}
		c.Routines = append(c.Routines, Routine{Workout: w, Description: r.Description})
	}
	return c, nil
}

// Exercise looks up a library exercise by ID.
func (c *Catalog) Exercise(id string) (models.ExerciseRow, bool) {
	ex, ok := c.byID[id]
	return ex, ok
}

// ExercisesFor lists library exercises for a body part; an empty body part lists all.
func (c *Catalog) ExercisesFor(bodyPart string) []models.ExerciseRow {
	bodyPart = strings.ToLower(strings.TrimSpace(bodyPart))
	if bodyPart == "" {
		return append([]models.ExerciseRow(nil), c.Exercises...)
	}
	var out []models.ExerciseRow
	for _, ex := range c.Exercises {
		if ex.BodyPart == bodyPart {
			out = append(out, ex)
		}
	}
	return out
}
