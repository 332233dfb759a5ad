package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// InstallHookCmd implements the 'lint install-hook' command.
type InstallHookCmd struct {
	Force bool `help:"Overwrite existing hook without backup"`
}

// Run executes the install-hook command.
func (cmd *InstallHookCmd) Run(_ *LintCmd, _ *Global, _ *CLI) error {
	gitDir, err := findGitDir()
	if err != nil {
		return fmt.Errorf("not in a Git repository: %w", err)
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	hookPath := filepath.Join(hooksDir, "pre-commit")

	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	// Backup existing hook unless --force
	if _, err := os.Stat(hookPath); err == nil && !cmd.Force {
		backupPath := fmt.Sprintf("%s.backup-%s", hookPath, time.Now().Format("20060102-150405"))
		fmt.Printf("Backing up existing hook to: %s\n", backupPath)

		content, err := os.ReadFile(hookPath)
		if err != nil {
			return fmt.Errorf("failed to read existing hook: %w", err)
		}
		if err := os.WriteFile(backupPath, content, 0o755); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	hookContent := `#!/usr/bin/env bash
# translations-builder pre-commit hook - lint translation sources when staged
set -e

BUILDER_CMD=""
if command -v translations-builder &> /dev/null; then
    BUILDER_CMD="translations-builder"
elif [ -f "go.mod" ] && grep -q "gws-plate-reader" go.mod; then
    BUILDER_CMD="go run ./cmd/translations-builder"
else
    echo "translations-builder not found in PATH, skipping translation linting"
    exit 0
fi

# Only run when translation sources are staged
STAGED=$(git diff --cached --name-only --diff-filter=ACM | grep -E '(_specific)?\.json$' || true)
if [ -z "$STAGED" ]; then
    exit 0
fi

echo "Linting translation sources..."
if $BUILDER_CMD lint --quiet; then
    echo "Translation linting passed"
    exit 0
else
    EXIT_CODE=$?
    echo ""
    echo "Translation linting failed"
    echo "To bypass this check (not recommended): git commit --no-verify"
    exit $EXIT_CODE
fi
`

	if err := os.WriteFile(hookPath, []byte(hookContent), 0o755); err != nil {
		return fmt.Errorf("failed to write hook file: %w", err)
	}

	fmt.Println("Pre-commit hook installed successfully")
	fmt.Println()
	fmt.Println("The hook will lint translation sources on every commit that stages them.")
	fmt.Printf("To uninstall: rm %s\n", hookPath)
	return nil
}

// findGitDir locates the .git directory.
func findGitDir() (string, error) {
	if info, err := os.Stat(".git"); err == nil && info.IsDir() {
		return ".git", nil
	}

	// .git may be a file pointing elsewhere (worktree/submodule)
	if info, err := os.Stat(".git"); err == nil && !info.IsDir() {
		content, err := os.ReadFile(".git")
		if err != nil {
			return "", err
		}
		line := strings.TrimSpace(string(content))
		if strings.HasPrefix(line, "gitdir: ") {
			return strings.TrimPrefix(line, "gitdir: "), nil
		}
	}

	cmd := exec.Command("git", "rev-parse", "--git-dir")
	output, err := cmd.Output()
	if err != nil {
		return "", errors.New("not in a git repository")
	}
	return strings.TrimSpace(string(output)), nil
}
