// Package daemon runs the continuous tracking loop: a gocron job polls
// the sensor gateway and feeds the tracker, a file watcher hot-reloads the
// catalog, and an HTTP server exposes summaries and metrics.
package daemon

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/croptrack/internal/config"
	"git.home.luguber.info/inful/croptrack/internal/live"
	"git.home.luguber.info/inful/croptrack/internal/logfields"
)

// Refresher is a live source that fetches a fresh snapshot on demand.
// The HTTP gateway source implements it; the static source does not need
// to.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Daemon owns the poll scheduler, catalog watcher and status server.
type Daemon struct {
	cfg       *config.Config
	guard     *Guard
	src       live.Source
	locator   live.Locator
	scheduler gocron.Scheduler
	watcher   *CatalogWatcher
	server    *StatusServer
}

// New wires a daemon. registry may be nil to disable the /metrics
// endpoint.
func New(cfg *config.Config, guard *Guard, src live.Source, locator live.Locator, registry *prom.Registry) (*Daemon, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}

	watcher, err := NewCatalogWatcher(cfg.Catalog, guard)
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}

	return &Daemon{
		cfg:       cfg,
		guard:     guard,
		src:       src,
		locator:   locator,
		scheduler: scheduler,
		watcher:   watcher,
		server:    NewStatusServer(cfg.Server.Addr, guard, registry),
	}, nil
}

// Run starts all daemon components and blocks until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	// Summaries from the previous run become available before the first
	// poll completes.
	d.guard.Reset()

	_, err := d.scheduler.NewJob(
		gocron.DurationJob(d.cfg.Poll.Interval),
		gocron.NewTask(d.poll, ctx),
		gocron.WithName("ingest-poll"),
	)
	if err != nil {
		return fmt.Errorf("create poll job: %w", err)
	}

	if err := d.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start catalog watcher: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- d.server.Start() }()

	slog.Info("Daemon started",
		slog.Duration("poll_interval", d.cfg.Poll.Interval),
		slog.String("addr", d.cfg.Server.Addr))
	d.scheduler.Start()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("status server: %w", err)
		}
	}

	return d.shutdown()
}

func (d *Daemon) shutdown() error {
	slog.Info("Stopping daemon")
	var firstErr error
	if err := d.scheduler.Shutdown(); err != nil {
		firstErr = err
	}
	if err := d.watcher.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Gateway.Timeout)
	defer cancel()
	if err := d.server.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// poll runs one ingest cycle: refresh the gateway snapshot, locate the
// subject and hand the location to the tracker.
func (d *Daemon) poll(ctx context.Context) {
	if r, ok := d.src.(Refresher); ok {
		if err := r.Refresh(ctx); err != nil {
			slog.Warn("Gateway refresh failed", logfields.Error(err))
			return
		}
	}

	loc, ok := d.locator.Location()
	if !ok {
		slog.Debug("No location in gateway snapshot; skipping ingest")
		return
	}

	if d.guard.Ingest(loc) {
		slog.Debug("Ingest changed tracked state", logfields.Region(loc.RegionID))
	}
}
