package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/plexbridge/internal/api/v1"
	"github.com/vmunix/plexbridge/internal/bridge"
	"github.com/vmunix/plexbridge/internal/config"
	"github.com/vmunix/plexbridge/internal/events"
	"github.com/vmunix/plexbridge/internal/mediaserver"
	"github.com/vmunix/plexbridge/internal/migrations"
	"github.com/vmunix/plexbridge/internal/plex"
	"github.com/vmunix/plexbridge/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Events ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger)
	defer bus.Close()

	// === Bridge pool ===
	pool := bridge.NewPool(cfg.Bridge.Workers, cfg.Bridge.QueueDepth, logger)
	defer pool.Close()

	// === Media server service ===
	connect := func() (mediaserver.Handle, error) {
		opts := []plex.Option{plex.WithTimeout(cfg.Plex.Timeout.Std())}
		if cfg.Plex.LocalPath != "" {
			opts = append(opts, plex.WithPathMapping(cfg.Plex.LocalPath, cfg.Plex.RemotePath))
		}
		return plex.New(cfg.Plex.URL, cfg.Plex.Token, opts...), nil
	}
	service := mediaserver.New(pool, connect, bus, logger)

	// === Background jobs ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := server.NewRunner(service, eventLog, server.Config{
		PollInterval:   cfg.Health.PollInterval.Std(),
		EventRetention: cfg.Health.EventRetention.Std(),
	}, logger)
	go func() {
		if err := runner.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("runner stopped", "error", err)
		}
	}()

	// === HTTP Setup ===
	mux := http.NewServeMux()

	apiV1 := v1.New(service)
	apiV1.SetEventLog(eventLog)
	apiV1.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"plex_url", cfg.Plex.URL,
		"bridge_workers", cfg.Bridge.Workers,
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Stop background jobs
	cancel()

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
