package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymlog/internal/config"
	gymmcp "github.com/claude/gymlog/internal/mcp"
	"github.com/claude/gymlog/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "GymLog server URL for remote mode (e.g. https://gymlog.tail1234.ts.net)")
	login := flag.String("login", "local", "login of the user to query as (local mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymlog-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds gymmcp.DataSource
	uid := 1

	if *serverURL != "" {
		ds = gymmcp.NewHTTPClient(*serverURL)
		log.Info("remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		ctx := context.Background()
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		uid, err = db.GetOrCreateUser(ctx, *login, *login)
		if err != nil {
			log.Error("failed to resolve user", "login", *login, "error", err)
			os.Exit(1)
		}
		ds = db
		log.Info("local mode", "user_id", uid)
	}

	s := gymmcp.New(ds, Version, log)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return gymmcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
