// Package watch implements daemon mode: rebuild translations when source
// files change, with periodic full rebuilds and an optional metrics endpoint.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/Constellab/gws-plate-reader/internal/config"
	"github.com/Constellab/gws-plate-reader/internal/metrics"
)

// RebuildFunc runs one full translation build.
type RebuildFunc func(ctx context.Context) error

// Options configure the daemon beyond what the build config carries.
type Options struct {
	Debounce        time.Duration
	RebuildInterval time.Duration
	MetricsAddr     string
	// MetricsHandler serves the metrics endpoint when MetricsAddr is set
	// (typically promhttp.HandlerFor over the recorder's registry).
	MetricsHandler http.Handler
}

// Daemon watches translation sources and triggers debounced rebuilds.
type Daemon struct {
	cfg      *config.Config
	root     string
	rebuild  RebuildFunc
	recorder metrics.Recorder
	opts     Options

	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler

	// generatedDirs holds the dashboard dirs whose <lang>.json files are
	// build outputs, not sources.
	generatedDirs map[string]bool

	buildMu    sync.Mutex
	stopOnce   sync.Once
	stopChan   chan struct{}
	triggerCh  chan struct{}
	metricsSrv *http.Server
}

// NewDaemon creates a daemon. recorder may be nil.
func NewDaemon(cfg *config.Config, root string, rebuild RebuildFunc, recorder metrics.Recorder, opts Options) (*Daemon, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}

	return &Daemon{
		cfg:           cfg,
		root:          root,
		rebuild:       rebuild,
		recorder:      recorder,
		opts:          opts,
		watcher:       watcher,
		scheduler:     scheduler,
		generatedDirs: make(map[string]bool),
		stopChan:      make(chan struct{}),
		triggerCh:     make(chan struct{}, 1),
	}, nil
}

// Start begins watching and scheduling. It runs an initial build before
// returning so artifacts are current from the moment the daemon is up.
func (d *Daemon) Start(ctx context.Context) error {
	dirs := d.sourceDirs()
	for _, dir := range dirs {
		if err := d.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		slog.Debug("Watching directory", "dir", dir)
	}
	d.recorder.SetWatchedDirs(len(dirs))

	if d.opts.RebuildInterval > 0 {
		_, err := d.scheduler.NewJob(
			gocron.DurationJob(d.opts.RebuildInterval),
			gocron.NewTask(func() { d.runBuild(ctx, "scheduled") }),
			gocron.WithName("periodic-rebuild"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule periodic rebuild: %w", err)
		}
	}
	d.scheduler.Start()

	if d.opts.MetricsAddr != "" && d.opts.MetricsHandler != nil {
		d.startMetricsServer()
	}

	go d.watchLoop(ctx)
	go d.rebuildLoop(ctx)

	slog.Info("Watch daemon started",
		"dirs", len(dirs),
		"debounce", d.opts.Debounce,
		"rebuild_interval", d.opts.RebuildInterval)

	d.runBuild(ctx, "startup")
	return nil
}

// Stop shuts the daemon down gracefully. Calling it again is a no-op.
func (d *Daemon) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		slog.Info("Stopping watch daemon")
		close(d.stopChan)

		if err := d.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", "error", err)
		}
		if err := d.scheduler.Shutdown(); err != nil {
			slog.Error("Error shutting down scheduler", "error", err)
		}
		if d.metricsSrv != nil {
			if err := d.metricsSrv.Shutdown(ctx); err != nil {
				slog.Error("Error shutting down metrics server", "error", err)
			}
		}
	})
	return nil
}

// sourceDirs returns the common directory plus every dashboard directory.
func (d *Daemon) sourceDirs() []string {
	dirs := []string{filepath.Join(d.root, d.cfg.Common.Path)}
	for _, dash := range d.cfg.Dashboards {
		dir := filepath.Join(d.root, dash.Path)
		dirs = append(dirs, dir)
		d.generatedDirs[dir] = true
	}
	return dirs
}

func (d *Daemon) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopChan:
			return
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !d.isSourceChange(event) {
				continue
			}
			slog.Debug("Source change detected", "file", event.Name, "op", event.Op.String())
			d.trigger()
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

// isSourceChange reports whether an event concerns a translation source
// rather than a generated artifact or unrelated file.
func (d *Daemon) isSourceChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}

	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".json") || strings.Contains(name, ".tmp-") {
		return false
	}

	// In dashboard dirs, <lang>.json is our own output. Reacting to it
	// would retrigger the build forever.
	if d.generatedDirs[filepath.Dir(event.Name)] && !strings.HasSuffix(name, "_specific.json") {
		return false
	}
	return true
}

// trigger requests a debounced rebuild.
func (d *Daemon) trigger() {
	select {
	case d.triggerCh <- struct{}{}:
	default:
		// Rebuild already pending.
	}
}

// rebuildLoop coalesces triggers and runs builds after the debounce window.
func (d *Daemon) rebuildLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-d.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-d.triggerCh:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(d.opts.Debounce, func() {
				d.runBuild(ctx, "file-change")
			})
		}
	}
}

// runBuild executes a single rebuild; concurrent requests queue behind the
// build mutex.
func (d *Daemon) runBuild(ctx context.Context, reason string) {
	d.buildMu.Lock()
	defer d.buildMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	slog.Info("Rebuilding translations", "reason", reason)
	if err := d.rebuild(ctx); err != nil {
		slog.Error("Rebuild failed", "reason", reason, "error", err)
	}
}

func (d *Daemon) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.opts.MetricsHandler)

	d.metricsSrv = &http.Server{
		Addr:              d.opts.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Metrics endpoint listening", "addr", d.opts.MetricsAddr)
		if err := d.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server error", "error", err)
		}
	}()
}
