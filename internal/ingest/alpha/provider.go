package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/session"
)

// Store is the persistence the importer needs.
type Store interface {
	WorkoutNameExists(ctx context.Context, userID int, name string) (bool, error)
	CreateWorkout(ctx context.Context, userID int, w session.Workout, source string) (int64, error)
}

// Provider imports Alpha Progression CSV exports as routines.
type Provider struct {
	store Store
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression import provider.
func NewProvider(store Store, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

// Ingest parses a CSV export and creates one routine per program day the user
// does not already have. With dryRun set nothing is written.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int, dryRun bool) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	routines := Routines(sessions)
	result := &ingest.Result{RoutinesReceived: len(routines)}

	for _, w := range routines {
		exists, err := p.store.WorkoutNameExists(ctx, userID, w.Name)
		if err != nil {
			return nil, fmt.Errorf("checking routine %q: %w", w.Name, err)
		}
		if exists {
			result.RoutinesSkipped++
			p.log.Info("skipping routine (already exists)", "name", w.Name)
			continue
		}
		if dryRun {
			result.RoutinesInserted++
			result.ExercisesInserted += int64(len(w.Exercises))
			continue
		}
		n, err := p.store.CreateWorkout(ctx, userID, w, "alpha")
		if err != nil {
			return nil, fmt.Errorf("creating routine %q: %w", w.Name, err)
		}
		result.RoutinesInserted++
		result.ExercisesInserted += n
	}

	result.Message = fmt.Sprintf("%d sessions, %d routines", len(sessions), len(routines))
	return result, nil
}
