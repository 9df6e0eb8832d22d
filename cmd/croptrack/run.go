package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/croptrack/internal/catalog"
	"git.home.luguber.info/inful/croptrack/internal/config"
	"git.home.luguber.info/inful/croptrack/internal/daemon"
	"git.home.luguber.info/inful/croptrack/internal/live"
	"git.home.luguber.info/inful/croptrack/internal/metrics"
	"git.home.luguber.info/inful/croptrack/internal/notify"
	"git.home.luguber.info/inful/croptrack/internal/statestore"
	"git.home.luguber.info/inful/croptrack/internal/tracker"
)

func runDaemon(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer func() { _ = store.Close() }()

	notifier, cleanup, err := buildNotifier(cfg)
	if err != nil {
		return fmt.Errorf("set up notifier: %w", err)
	}
	defer cleanup()

	src := live.NewHTTPSource(cfg.Gateway.URL, cfg.Gateway.Timeout)

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	tr := tracker.New(cat, store, src, notifier, recorder, cfg.Profile)
	guard := daemon.NewGuard(tr)

	d, err := daemon.New(cfg, guard, src, src, registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

func openStore(cfg *config.Config) (statestore.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return statestore.NewMemoryStore(), nil
	case "nats":
		return statestore.NewNATSKVStore(cfg.Store.URL, cfg.Store.Bucket)
	default:
		return statestore.NewSQLiteStore(cfg.Store.Path)
	}
}

func buildNotifier(cfg *config.Config) (notify.Notifier, func(), error) {
	if cfg.Notify.NATS == nil {
		return notify.SlogNotifier{}, func() {}, nil
	}
	nn, err := notify.NewNATSNotifier(cfg.Notify.NATS.URL, cfg.Notify.NATS.Subject)
	if err != nil {
		return nil, nil, err
	}
	return notify.Multi{notify.SlogNotifier{}, nn}, func() { _ = nn.Close() }, nil
}
