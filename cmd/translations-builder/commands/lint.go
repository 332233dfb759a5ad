package commands

import (
	"fmt"
	"os"

	"github.com/Constellab/gws-plate-reader/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`

	Sources     *LintSourcesCmd `cmd:"" default:"1" help:"Lint the configured translation sources"`
	InstallHook *InstallHookCmd `cmd:"" help:"Install pre-commit hook for automatic linting"`
}

// LintSourcesCmd lints the sources named by the configuration.
type LintSourcesCmd struct{}

func (l *LintSourcesCmd) Run(parent *LintCmd, _ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	linter := lint.NewLinter(&lint.Config{
		Quiet:  parent.Quiet,
		Format: parent.Format,
	})

	result, err := linter.LintSources(root.Root, cfg)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	formatter := lint.NewFormatter(parent.Format)
	if err := formatter.Format(os.Stdout, result); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if result.HasErrors() {
		os.Exit(2) // Errors found (blocks build)
	} else if result.HasWarnings() && !parent.Quiet {
		os.Exit(1) // Warnings present
	}
	return nil
}
