package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WorkoutDetail is a routine with its ordered exercise plans.
type WorkoutDetail struct {
	models.WorkoutRow
	Exercises []models.WorkoutExerciseRow `json:"exercises"`
}

const workoutColumns = `id, user_id, name, body_part, description, source, created_at`

// ListWorkouts returns the catalog routines plus the user's own, optionally
// filtered by body part.
func (db *DB) ListWorkouts(ctx context.Context, userID int, bodyPart string) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+`
		 FROM workouts
		 WHERE (user_id IS NULL OR user_id = $1) AND ($2 = '' OR body_part = $2)
		 ORDER BY user_id NULLS FIRST, name`,
		userID, bodyPart)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves a routine visible to the user with its exercises.
func (db *DB) GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (*WorkoutDetail, error) {
	w, err := scanWorkout(db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+`
		 FROM workouts
		 WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`,
		workoutID, userID))
	if err != nil {
		return nil, notFound(err, "workout")
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT workout_id, position, exercise_id, name, sets, reps, weight_kg
		 FROM workout_exercises
		 WHERE workout_id = $1
		 ORDER BY position ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout exercises: %w", err)
	}
	defer rows.Close()

	detail := &WorkoutDetail{WorkoutRow: w}
	for rows.Next() {
		var e models.WorkoutExerciseRow
		if err := rows.Scan(&e.WorkoutID, &e.Position, &e.ExerciseID, &e.Name, &e.Sets, &e.Reps, &e.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning workout exercise: %w", err)
		}
		detail.Exercises = append(detail.Exercises, e)
	}
	return detail, rows.Err()
}

// SessionWorkout loads a routine in the shape the session tracker consumes.
func (db *DB) SessionWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (session.Workout, error) {
	detail, err := db.GetWorkout(ctx, workoutID, userID)
	if err != nil {
		return session.Workout{}, err
	}
	return ingest.FromRows(detail.WorkoutRow, detail.Exercises)
}

// WorkoutNameExists reports whether the user already owns a routine with this name.
func (db *DB) WorkoutNameExists(ctx context.Context, userID int, name string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workouts WHERE user_id = $1 AND name = $2)`,
		userID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking workout name: %w", err)
	}
	return exists, nil
}

// CreateWorkout stores a user routine and its exercises in one transaction.
// Returns the number of exercise rows inserted.
func (db *DB) CreateWorkout(ctx context.Context, userID int, w session.Workout, source string) (int64, error) {
	return db.insertWorkout(ctx, &userID, w, source, "")
}

// UpsertCatalogRoutine stores a shared routine, replacing its exercises if it
// already exists.
func (db *DB) UpsertCatalogRoutine(ctx context.Context, w session.Workout, description string) (int64, error) {
	return db.insertWorkout(ctx, nil, w, "catalog", description)
}

func (db *DB) insertWorkout(ctx context.Context, userID *int, w session.Workout, source, description string) (int64, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}
	head, exercises := ingest.ToRows(w, userID, source, description)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The WHERE clause keeps one owner from overwriting another's routine.
	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO workouts (id, user_id, name, body_part, description, source)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, body_part = EXCLUDED.body_part, description = EXCLUDED.description
			WHERE workouts.user_id IS NOT DISTINCT FROM EXCLUDED.user_id
		 RETURNING id`,
		head.ID, head.UserID, head.Name, head.BodyPart, head.Description, head.Source).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
		return 0, fmt.Errorf("workout %q: %w", head.Name, ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting workout: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM workout_exercises WHERE workout_id = $1`, head.ID); err != nil {
		return 0, fmt.Errorf("clearing workout exercises: %w", err)
	}

	args := make([]any, 0, len(exercises)*7)
	for _, e := range exercises {
		args = append(args, e.WorkoutID, e.Position, e.ExerciseID, e.Name, e.Sets, e.Reps, e.WeightKg)
	}
	tag, err := tx.Exec(ctx,
		`INSERT INTO workout_exercises (workout_id, position, exercise_id, name, sets, reps, weight_kg)
		 VALUES `+valuesList(len(exercises), 7),
		args...)
	if err != nil {
		return 0, fmt.Errorf("inserting workout exercises: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing workout: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteWorkout removes a routine the user owns. Catalog routines cannot be deleted.
func (db *DB) DeleteWorkout(ctx context.Context, workoutID uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, workoutID, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout %s: %w", workoutID, ErrNotFound)
	}
	return nil
}

func scanWorkout(row pgx.Row) (models.WorkoutRow, error) {
	var w models.WorkoutRow
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.BodyPart, &w.Description, &w.Source, &w.CreatedAt)
	return w, err
}
