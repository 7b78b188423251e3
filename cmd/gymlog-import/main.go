package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	login := flag.String("login", "local", "login of the user the routines belong to")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymlog-import -config config.yaml -file export.csv [-login user@example.com] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Error("failed to open export", "path", *filePath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no routines will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	uid, err := db.GetOrCreateUser(ctx, *login, *login)
	if err != nil {
		log.Error("failed to resolve user", "login", *login, "error", err)
		os.Exit(1)
	}

	// Track the run in the import log unless nothing is written
	var logID int64
	if !*dryRun {
		logID, err = db.InsertImportLog(ctx, storage.ImportLog{UserID: uid, Source: "alpha_cli", Status: "running"})
		if err != nil {
			log.Warn("failed to create import log", "error", err)
		}
	}

	start := time.Now()
	result, importErr := alpha.NewProvider(db, log).Ingest(ctx, f, uid, *dryRun)
	durationMs := int(time.Since(start).Milliseconds())

	if logID != 0 {
		if err := db.UpdateImportLog(ctx, logID, importLogEntry(result, importErr, durationMs)); err != nil {
			log.Warn("failed to update import log", "id", logID, "error", err)
		}
	}

	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}

	log.Info("import stats",
		"user_id", uid,
		"routines_received", result.RoutinesReceived,
		"routines_inserted", result.RoutinesInserted,
		"routines_skipped", result.RoutinesSkipped,
		"exercises_inserted", result.ExercisesInserted,
		"summary", result.Message,
	)
	log.Info("import complete")
}

func importLogEntry(result *ingest.Result, importErr error, durationMs int) storage.ImportLog {
	entry := storage.ImportLog{Status: "success", DurationMs: &durationMs}
	if importErr != nil {
		msg := importErr.Error()
		entry.Status = "error"
		entry.ErrorMessage = &msg
	}
	if result != nil {
		entry.RoutinesReceived = int64(result.RoutinesReceived)
		entry.RoutinesInserted = int64(result.RoutinesInserted)
		entry.ExercisesInserted = result.ExercisesInserted
	}
	return entry
}
