package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/leca/prompt-studio/internal/config"
	"github.com/leca/prompt-studio/internal/database"
	"github.com/leca/prompt-studio/internal/provider"
	"github.com/leca/prompt-studio/internal/router"
	"github.com/leca/prompt-studio/internal/session"
	"github.com/leca/prompt-studio/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// A .env file is optional; the environment wins either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := config.Load()

	settings, err := config.OpenStore(cfg.SettingsPath())
	if err != nil {
		slog.Error("failed to open settings", "error", err)
		os.Exit(1)
	}

	db, err := database.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	saver := storage.NewFileSystem()
	gen := provider.NewClient(settings)
	sessions := session.NewManager()

	srv := router.New(db, saver, cfg, settings, gen, sessions)

	slog.Info("starting server", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
