package main

import (
	"github.com/alecthomas/kong"

	"github.com/Constellab/gws-plate-reader/cmd/translations-builder/commands"
	"github.com/Constellab/gws-plate-reader/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("translations-builder"),
		kong.Description("Merge common and dashboard-specific translation files for the plate reader dashboards"),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
