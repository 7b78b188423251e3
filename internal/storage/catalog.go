package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymlog/internal/catalog"
	"github.com/claude/gymlog/internal/models"
)

// SeedCatalog upserts body parts, library exercises and starter routines.
// Safe to run on every start.
func (db *DB) SeedCatalog(ctx context.Context, c *catalog.Catalog) error {
	for _, bp := range c.BodyParts {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO body_parts (name, description) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`,
			bp.Name, bp.Description)
		if err != nil {
			return fmt.Errorf("seeding body part %q: %w", bp.Name, err)
		}
	}
	for _, ex := range c.Exercises {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO exercises (id, name, body_part, equipment, target, instructions)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT (id) DO UPDATE
				SET name = EXCLUDED.name, body_part = EXCLUDED.body_part, equipment = EXCLUDED.equipment,
				    target = EXCLUDED.target, instructions = EXCLUDED.instructions`,
			ex.ID, ex.Name, ex.BodyPart, ex.Equipment, ex.Target, ex.Instructions)
		if err != nil {
			return fmt.Errorf("seeding exercise %q: %w", ex.ID, err)
		}
	}
	for _, r := range c.Routines {
		if _, err := db.UpsertCatalogRoutine(ctx, r.Workout, r.Description); err != nil {
			return fmt.Errorf("seeding routine %q: %w", r.Workout.Name, err)
		}
	}
	return nil
}

// ListBodyParts returns all body parts ordered by name.
func (db *DB) ListBodyParts(ctx context.Context) ([]models.BodyPartRow, error) {
	rows, err := db.Pool.Query(ctx, `SELECT name, description FROM body_parts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying body parts: %w", err)
	}
	defer rows.Close()

	var result []models.BodyPartRow
	for rows.Next() {
		var bp models.BodyPartRow
		if err := rows.Scan(&bp.Name, &bp.Description); err != nil {
			return nil, fmt.Errorf("scanning body part: %w", err)
		}
		result = append(result, bp)
	}
	return result, rows.Err()
}

// ListExercises returns library exercises, filtered by body part when non-empty.
func (db *DB) ListExercises(ctx context.Context, bodyPart string) ([]models.ExerciseRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, body_part, equipment, target, instructions
		 FROM exercises
		 WHERE $1 = '' OR body_part = $1
		 ORDER BY body_part, name`,
		bodyPart)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRow
	for rows.Next() {
		var ex models.ExerciseRow
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.BodyPart, &ex.Equipment, &ex.Target, &ex.Instructions); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}
