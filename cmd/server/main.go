// Package main is the entrypoint for the resumelens API server and its
// background analysis worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/anikamehra/resumelens/internal/ai"
	"github.com/anikamehra/resumelens/internal/analysis"
	"github.com/anikamehra/resumelens/internal/api"
	"github.com/anikamehra/resumelens/internal/api/handler"
	mw "github.com/anikamehra/resumelens/internal/api/middleware"
	"github.com/anikamehra/resumelens/internal/api/response"
	"github.com/anikamehra/resumelens/internal/cache"
	"github.com/anikamehra/resumelens/internal/config"
	"github.com/anikamehra/resumelens/internal/queue"
	"github.com/anikamehra/resumelens/internal/store"
	"github.com/anikamehra/resumelens/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create job queue
	jobQueue, err := queue.NewRedisQueue(cfg.Redis.URL, cfg.Worker.QueueKey)
	if err != nil {
		return fmt.Errorf("create job queue: %w", err)
	}
	defer jobQueue.Close()

	// 6. Create AI provider
	aiProvider, err := ai.NewProvider(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name(), "model", aiProvider.Model())

	// 7. Create store and services
	pgStore := store.NewPostgresStore(pool)
	svc := analysis.NewService(pgStore, jobQueue, redisCache)

	// 8. Start the analysis worker pool
	w := worker.NewWorker(pgStore, redisCache, aiProvider, cfg.AI.InferenceTimeout)
	runner := worker.NewRunner(jobQueue, w, cfg.Worker.Concurrency)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		runner.Run(workerCtx)
	}()
	slog.Info("worker pool started", "concurrency", cfg.Worker.Concurrency)

	// 9. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(pgStore),
		RateLimit: mw.NewRateLimit(redisCache, 60),

		HealthHandler: healthHandler(pgStore, redisCache),
		SubmitHandler: handler.NewSubmitHandler(svc),
		StatusHandler: handler.NewStatusHandler(svc),
	}

	router := api.NewRouter(deps)

	// 10. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout. HTTP drains first so no new jobs
	// arrive, then the workers stop pulling from the queue. Jobs already
	// claimed run to completion on their own context.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	stopWorkers()
	select {
	case <-workersDone:
	case <-shutdownCtx.Done():
		slog.Warn("workers did not stop within shutdown timeout")
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
