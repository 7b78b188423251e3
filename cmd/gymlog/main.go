package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymlog/internal/catalog"
	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/ingest/alpha"
	gymmcp "github.com/claude/gymlog/internal/mcp"
	"github.com/claude/gymlog/internal/outbox"
	"github.com/claude/gymlog/internal/server"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/timer"
	"github.com/claude/gymlog/internal/tracker"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymLog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Seed starter routines and the exercise library (idempotent)
	cat, err := catalog.Default()
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	if err := db.SeedCatalog(ctx, cat); err != nil {
		log.Error("failed to seed catalog", "error", err)
		os.Exit(1)
	}
	log.Info("catalog seeded", "routines", len(cat.Routines), "exercises", len(cat.Exercises))

	// Completion records go through a local queue when the database is unreachable
	queue, err := outbox.OpenQueue(cfg.Outbox.Dir)
	if err != nil {
		log.Error("failed to open outbox", "error", err)
		os.Exit(1)
	}
	defer queue.Close()
	if dead, err := queue.DeadLetters(ctx, 100); err == nil && len(dead) > 0 {
		log.Warn("outbox holds undeliverable completion records", "count", len(dead), "last_error", dead[len(dead)-1].LastError)
	}
	recorder := outbox.NewRecorder(db, queue, time.Second, log)
	go recorder.Run(ctx, cfg.Outbox.FlushInterval)

	sessions := tracker.NewManager(db, recorder, func() timer.Ticker {
		return timer.NewWallTicker(cfg.Session.TickInterval)
	}, log)
	defer sessions.Shutdown()

	opts := server.Options{
		APIKey:            cfg.Auth.APIKey,
		DefaultBodyMassKg: cfg.Session.DefaultBodyMassKg,
		MCP:               server.NewMCPHandler(gymmcp.New(db, Version, log)),
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		whois := func(ctx context.Context, remoteAddr string) (string, string, error) {
			resp, err := lc.WhoIs(ctx, remoteAddr)
			if err != nil {
				return "", "", err
			}
			if resp.UserProfile == nil {
				return "", "", errors.New("peer has no user profile")
			}
			return resp.UserProfile.LoginName, resp.UserProfile.DisplayName, nil
		}
		opts.Identity = server.TailscaleIdentity(whois, db, log)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		uid, err := db.GetOrCreateUser(ctx, "local", "Local Dev User")
		if err != nil {
			log.Error("failed to create local user", "error", err)
			os.Exit(1)
		}
		opts.Identity = server.DevIdentity(uid)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)", "user_id", uid)
	}

	srv := server.New(db, sessions, alpha.NewProvider(db, log), opts, log)
	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if n, err := queue.Len(shutdownCtx); err == nil && n > 0 {
		log.Warn("completion records still queued", "count", n)
	}
	log.Info("server stopped")
}
