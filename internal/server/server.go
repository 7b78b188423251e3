package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence the HTTP API reads and writes. *storage.DB satisfies it.
type Store interface {
	UserResolver

	ListBodyParts(ctx context.Context) ([]models.BodyPartRow, error)
	ListExercises(ctx context.Context, bodyPart string) ([]models.ExerciseRow, error)

	ListWorkouts(ctx context.Context, userID int, bodyPart string) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (*storage.WorkoutDetail, error)
	CreateWorkout(ctx context.Context, userID int, w session.Workout, source string) (int64, error)
	DeleteWorkout(ctx context.Context, workoutID uuid.UUID, userID int) error

	QueryCompletions(ctx context.Context, start, end time.Time, userID, limit int) ([]models.CompletionRow, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.TrainingSummaryPeriod, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)

	GetProfile(ctx context.Context, userID int) (models.ProfileRow, error)
	UpsertProfile(ctx context.Context, p models.ProfileRow) (models.ProfileRow, error)

	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
}

// RoutineImporter turns an uploaded training export into routines.
type RoutineImporter interface {
	Ingest(ctx context.Context, r io.Reader, userID int, dryRun bool) (*ingest.Result, error)
}

// Options configures a Server.
type Options struct {
	APIKey string
	// DefaultBodyMassKg is used for users who have not entered their body mass.
	DefaultBodyMassKg float64
	// Identity resolves the calling user. Requests are rejected when nil.
	Identity func(http.Handler) http.Handler
	// MCP, when set, is mounted at /mcp behind the identity middleware.
	MCP http.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    Store
	sessions *tracker.Manager
	importer RoutineImporter
	opts     Options
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, sessions *tracker.Manager, importer RoutineImporter, opts Options, log *slog.Logger) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
		importer: importer,
		opts:     opts,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	identity := s.opts.Identity
	if identity == nil {
		identity = rejectAnonymous
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(identity)

		r.Get("/me", s.handleMe)
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)

		r.Get("/body-parts", s.handleBodyParts)
		r.Get("/exercises", s.handleExercises)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
		r.With(APIKeyAuth(s.opts.APIKey)).Post("/workouts/import", s.handleImportWorkouts)
		r.Get("/imports", s.handleImportLogs)

		r.Post("/sessions", s.handleStartSession)
		r.Route("/sessions/current", func(r chi.Router) {
			r.Get("/", s.handleCurrentSession)
			r.Delete("/", s.handleCancelSession)
			r.Post("/advance", s.handleAdvance)
			r.Post("/retreat", s.sessionEvent(s.sessions.Retreat))
			r.Post("/end-rest", s.sessionEvent(s.sessions.EndRest))
			r.Post("/pause", s.sessionEvent(s.sessions.Pause))
			r.Post("/resume", s.sessionEvent(s.sessions.Resume))
			r.Post("/quit", s.handleQuit)
		})

		r.Get("/completions", s.handleCompletions)
		r.Get("/completions/summary", s.handleTrainingSummary)
		r.Get("/stats", s.handleStats)

		r.Post("/calories/estimate", s.handleEstimateCalories)
	})

	if s.opts.MCP != nil {
		s.router.With(identity).Handle("/mcp", s.opts.MCP)
	}
}
