package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/MclaughlinSteve/github-automerge/internal/adapter/driven/github"
	sqliteadapter "github.com/MclaughlinSteve/github-automerge/internal/adapter/driven/sqlite"
	httphandler "github.com/MclaughlinSteve/github-automerge/internal/adapter/driving/http"
	"github.com/MclaughlinSteve/github-automerge/internal/application"
	"github.com/MclaughlinSteve/github-automerge/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"repos", cfg.Repos,
		"merge_label", cfg.MergeLabel,
		"merge_method", cfg.MergeMethod,
		"poll_interval", cfg.PollInterval,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters and services.
	decisionStore := sqliteadapter.NewDecisionRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	gateSvc := application.NewGateService(ghClient, decisionStore, cfg.MergeLabel, cfg.MergeMethod)
	pollSvc := application.NewPollService(ghClient, gateSvc, cfg.Repos, cfg.MergeLabel, cfg.PollInterval)
	go pollSvc.Start(ctx)

	// 6. Create HTTP handler and server.
	apiHandler := httphandler.NewHandler(decisionStore, pollSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("automerge started",
		"repos", len(cfg.Repos),
		"poll_interval", cfg.PollInterval,
	)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
