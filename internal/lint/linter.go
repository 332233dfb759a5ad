// Package lint validates translation sources before they are merged:
// JSON shape, cross-language key coverage, placeholder consistency, empty
// values, and language-tag hygiene.
package lint

import (
	"github.com/Constellab/gws-plate-reader/internal/config"
)

// Linter performs linting operations on translation sources.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}

	return &Linter{
		cfg: cfg,
		rules: []Rule{
			JSONShapeRule{},
			KeyCoverageRule{},
			PlaceholderRule{},
			EmptyValueRule{},
			LangTagRule{},
		},
	}
}

// LintSources lints the common set and every dashboard's specific set
// configured in buildCfg, resolving paths against root.
func (l *Linter) LintSources(root string, buildCfg *config.Config) (*Result, error) {
	scopes, err := LoadScopes(root, buildCfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Issues: []Issue{}}
	for _, scope := range scopes {
		result.FilesTotal += len(scope.Files) + len(scope.UnconfiguredFiles)
		l.lintScope(scope, result)
	}
	return result, nil
}

func (l *Linter) lintScope(scope *Scope, result *Result) {
	for _, rule := range l.rules {
		for _, issue := range rule.Check(scope) {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
}
