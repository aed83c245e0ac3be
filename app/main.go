package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dkotenko/newsdeck/app/api"
	"github.com/dkotenko/newsdeck/app/cache"
	"github.com/dkotenko/newsdeck/app/cfg"
	"github.com/dkotenko/newsdeck/app/database"
	"github.com/dkotenko/newsdeck/app/news"
	"github.com/dkotenko/newsdeck/app/tasks"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Newsdeck", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	sources, err := news.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load source configurations", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded source configurations", "file", appCfg.SourcesFile, "count", len(sources))

	articleRepo := database.NewArticleRepo(db)
	prefsRepo := database.NewPreferencesRepo(db)

	client := news.NewClient(appCfg.UserAgent)
	orchestrator := tasks.NewOrchestrator(sources, client, articleRepo)

	if appCfg.Ingest {
		runIngestion(orchestrator)
		return
	}

	scheduler := tasks.NewScheduler(orchestrator)
	scheduler.Start()
	defer scheduler.Stop()

	// Caching is optional; the service degrades to direct database reads
	// when Redis is unavailable or not configured.
	var listCache cache.ListCache
	if appCfg.RedisAddr != "" {
		redisCache, err := cache.NewCache(appCfg.RedisAddr)
		if err != nil {
			slog.Warn("Redis unavailable, caching disabled", "addr", appCfg.RedisAddr, "error", err)
		} else {
			defer redisCache.Close()
			listCache = redisCache
		}
	}

	handler := api.NewHandler(articleRepo, prefsRepo, listCache)
	server := api.NewServer(handler, appCfg.AuthSecret)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

// runIngestion performs a single ingestion pass across all sources and
// reports per-source results. Partial failures are reported but do not
// change the exit code; a run that ingests from some sources succeeded.
func runIngestion(orchestrator *tasks.Orchestrator) {
	report := orchestrator.Run(context.Background())

	for source, result := range report.Results {
		fmt.Printf("Successfully ingested %d articles from %s (%d fetched, %d duplicates, %d skipped)\n",
			result.Saved, source, result.Fetched, result.Duplicates, result.Skipped)
	}
	for source, message := range report.Errors {
		fmt.Printf("Error ingesting %s: %s\n", source, message)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
