package commands

import (
	"fmt"
	"strings"

	"github.com/Constellab/gws-plate-reader/internal/discover"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	dashboards, err := discover.Scan(root.Root)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(dashboards) == 0 {
		fmt.Println("No dashboard translation directories found")
		return nil
	}

	fmt.Printf("Found %d dashboard translation directories:\n", len(dashboards))
	for _, dash := range dashboards {
		fmt.Printf("  %s (languages: %s)\n", dash.Path, strings.Join(dash.Languages, ", "))
	}
	return nil
}
