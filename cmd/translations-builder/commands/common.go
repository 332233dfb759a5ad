// Package commands defines the translations-builder CLI.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/Constellab/gws-plate-reader/internal/config"
	"github.com/Constellab/gws-plate-reader/internal/state"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"translations.yaml"`
	Root    string           `short:"r" help:"Directory configuration paths are resolved against" default:"."`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Merge common and specific translations for every configured dashboard"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Discover DiscoverCmd `cmd:"" help:"Discover dashboard translation directories without building"`
	Lint     LintCmd     `cmd:"" help:"Validate translation sources"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild automatically when translation sources change"`
	History  HistoryCmd  `cmd:"" help:"Show recent build runs from the state store"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the build configuration named by the root flags.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}

// statePath resolves the configured state database path against --root, the
// same way the builder resolves source paths.
func statePath(root *CLI, cfg *config.Config) string {
	path := cfg.State.Path
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root.Root, path)
}

// openStore opens the configured state store. Failures are reported but
// non-fatal: a build without history is better than no build.
func openStore(root *CLI, cfg *config.Config) *state.Store {
	path := statePath(root, cfg)
	store, err := state.Open(path)
	if err != nil {
		slog.Warn("Failed to open state store, continuing without build history",
			"path", path, "error", err)
		return nil
	}
	return store
}
