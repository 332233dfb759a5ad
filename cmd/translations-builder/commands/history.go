package commands

import (
	"context"
	"fmt"

	"github.com/Constellab/gws-plate-reader/internal/state"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Maximum number of builds to show"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := state.Open(statePath(root, cfg))
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer store.Close()

	records, err := store.RecentBuilds(context.Background(), h.Limit)
	if err != nil {
		return fmt.Errorf("query build history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %s  %-8s  written=%d skipped=%d warnings=%d  (%s)\n",
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.ID,
			rec.Status,
			rec.ArtifactsWritten,
			rec.ArtifactsSkipped,
			rec.Warnings,
			rec.Duration)
	}
	return nil
}
