package commands

import (
	"context"
	"fmt"

	"github.com/Constellab/gws-plate-reader/internal/build"
	"github.com/Constellab/gws-plate-reader/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Incremental bool `short:"i" help:"Skip artifacts whose inputs are unchanged since the last build"`
	DryRun      bool `help:"Report what would be written without writing anything"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := openStore(root, cfg)
	if store != nil {
		defer store.Close()
	}

	builder := build.NewBuilder(cfg, store, metrics.NoopRecorder{})
	result, err := builder.Run(context.Background(), build.Options{
		Root:        root.Root,
		Incremental: b.Incremental,
		DryRun:      b.DryRun,
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Built %d translation files (%d skipped, %d warnings)\n",
		result.Written(), result.SkippedCount(), len(result.Warnings))
	return nil
}
