// Package server provides the background components of the bridge daemon.
package server

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/plexbridge/internal/events"
	"github.com/vmunix/plexbridge/internal/mediaserver"
)

// pruneInterval is how often the event log is swept for expired entries.
const pruneInterval = time.Hour

// Config for the background runner.
type Config struct {
	PollInterval   time.Duration
	EventRetention time.Duration
}

// Runner manages the health poller and the event log pruner.
type Runner struct {
	service  *mediaserver.Service
	eventLog *events.EventLog // may be nil
	config   Config
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(service *mediaserver.Service, eventLog *events.EventLog, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		service:  service,
		eventLog: eventLog,
		config:   cfg,
		logger:   logger.With("component", "runner"),
	}
}

// Run starts all background components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.healthLoop(ctx) })

	if r.eventLog != nil && r.config.EventRetention > 0 {
		g.Go(func() error { return r.pruneLoop(ctx) })
	}

	return g.Wait()
}

// healthLoop pings the media server at the configured interval. The ping
// itself drives the connect guard: it establishes the first connection,
// and a transport failure invalidates the cached handle so the next ping
// reconnects.
func (r *Runner) healthLoop(ctx context.Context) error {
	r.logger.Info("health poller started", "interval", r.config.PollInterval)

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	r.ping(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("health poller stopped")
			return ctx.Err()
		case <-ticker.C:
			r.ping(ctx)
		}
	}
}

func (r *Runner) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, r.config.PollInterval)
	defer cancel()

	identity, err := r.service.Ping(pingCtx)
	if err != nil {
		r.logger.Warn("health check failed", "error", err)
		return
	}
	r.logger.Debug("health check ok", "server", identity.Name, "version", identity.Version)
}

// pruneLoop removes expired events from the log.
func (r *Runner) pruneLoop(ctx context.Context) error {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pruned, err := r.eventLog.Prune(r.config.EventRetention)
			if err != nil {
				r.logger.Error("event prune failed", "error", err)
				continue
			}
			if pruned > 0 {
				r.logger.Debug("pruned events", "count", pruned)
			}
		}
	}
}
