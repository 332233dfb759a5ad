package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Constellab/gws-plate-reader/internal/build"
	"github.com/Constellab/gws-plate-reader/internal/metrics"
	"github.com/Constellab/gws-plate-reader/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	MetricsAddr string `help:"Override watch.metrics_addr from the configuration"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := openStore(root, cfg)
	if store != nil {
		defer store.Close()
	}

	metricsAddr := cfg.Watch.MetricsAddr
	if w.MetricsAddr != "" {
		metricsAddr = w.MetricsAddr
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if metricsAddr != "" {
		registry := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	builder := build.NewBuilder(cfg, store, recorder)
	rebuild := func(ctx context.Context) error {
		_, err := builder.Run(ctx, build.Options{Root: root.Root, Incremental: true})
		return err
	}

	daemon, err := watch.NewDaemon(cfg, root.Root, rebuild, recorder, watch.Options{
		Debounce:        cfg.Watch.DebounceDuration(),
		RebuildInterval: cfg.Watch.RebuildIntervalDuration(),
		MetricsAddr:     metricsAddr,
		MetricsHandler:  metricsHandler,
	})
	if err != nil {
		return fmt.Errorf("failed to create watch daemon: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := daemon.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watch daemon: %w", err)
	}

	slog.Info("Watching for translation changes, press Ctrl-C to stop")
	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return daemon.Stop(stopCtx)
}
