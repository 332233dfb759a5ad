package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Constellab/gws-plate-reader/internal/config"
)

func fixtureConfig() *config.Config {
	return &config.Config{
		Languages: []string{"fr", "en"},
		Common:    config.CommonConfig{Path: "core"},
		Dashboards: []config.Dashboard{
			{Name: "Biolector", Path: "biolector"},
		},
		Output: config.OutputConfig{Indent: 4},
	}
}

func writeFixture(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeCleanFixture(t *testing.T, root string) {
	t.Helper()
	writeFixture(t, root, "core/fr.json", `{"btn_save": "Enregistrer"}`)
	writeFixture(t, root, "core/en.json", `{"btn_save": "Save"}`)
	writeFixture(t, root, "biolector/fr_specific.json", `{"wells": "Puits"}`)
	writeFixture(t, root, "biolector/en_specific.json", `{"wells": "Wells"}`)
}

func issuesByRule(result *Result, rule string) []Issue {
	var out []Issue
	for _, issue := range result.Issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestLinter_CleanSources(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 4, result.FilesTotal)
}

func TestLinter_MissingKeyIsError(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "core/en.json", `{}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "key-coverage")
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, "btn_save", issues[0].Key)
}

func TestLinter_ExtraKeyIsWarning(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "biolector/en_specific.json", `{"wells": "Wells", "only_en": "Extra"}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "key-coverage")
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "only_en", issues[0].Key)
}

func TestLinter_PlaceholderMismatchIsError(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "core/fr.json", `{"btn_save": "Enregistrer {name}"}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "placeholders")
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, "btn_save", issues[0].Key)
	assert.Contains(t, issues[0].Message, "{name}")
}

func TestLinter_PlaceholderOrderIrrelevant(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "core/fr.json", `{"btn_save": "{a} puis {b}"}`)
	writeFixture(t, root, "core/en.json", `{"btn_save": "{b} then {a}"}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)
	assert.Empty(t, issuesByRule(result, "placeholders"))
}

func TestLinter_EmptyValueIsWarning(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "biolector/fr_specific.json", `{"wells": "   "}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "empty-value")
	require.Len(t, issues, 1)
	assert.Equal(t, "wells", issues[0].Key)
}

func TestLinter_MalformedFileIsError(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "core/fr.json", `{"nested": {"x": "y"}}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "json-shape")
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.True(t, result.HasErrors())
}

func TestLinter_MissingFileIsWarning(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	require.NoError(t, os.Remove(filepath.Join(root, "biolector/en_specific.json")))

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "json-shape")
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "not found")
}

func TestLinter_UnconfiguredLanguageIsWarning(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "biolector/es_specific.json", `{"wells": "Pocillos"}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "lang-tag")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `"es" is not configured`)
}

func TestLinter_InvalidLanguageTagIsWarning(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "biolector/12_specific.json", `{"wells": "?"}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)

	issues := issuesByRule(result, "lang-tag")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "not a valid language tag")
}

func TestLinter_GeneratedOutputsIgnored(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	// Generated artifacts next to the specific sources must not be linted.
	writeFixture(t, root, "biolector/fr.json", `{"wells": "Puits", "btn_save": "Enregistrer"}`)
	writeFixture(t, root, "biolector/en.json", `{"wells": "Wells", "btn_save": "Save"}`)

	result, err := NewLinter(nil).LintSources(root, fixtureConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
}

func TestLinter_QuietSuppressesWarnings(t *testing.T) {
	root := t.TempDir()
	writeCleanFixture(t, root)
	writeFixture(t, root, "biolector/fr_specific.json", `{"wells": ""}`)

	result, err := NewLinter(&Config{Quiet: true}).LintSources(root, fixtureConfig())
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
}

func TestFormatter_Text(t *testing.T) {
	result := &Result{
		Issues: []Issue{
			{File: "core/en.json", Severity: SeverityError, Rule: "key-coverage", Key: "btn_save", Message: "missing key"},
			{File: "core/fr.json", Severity: SeverityWarning, Rule: "empty-value", Key: "x", Message: "empty translation value"},
		},
		FilesTotal: 4,
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&buf, result))

	out := buf.String()
	assert.Contains(t, out, "ERROR [key-coverage] core/en.json (btn_save): missing key")
	assert.Contains(t, out, "4 files checked: 1 errors, 1 warnings")
}

func TestFormatter_JSON(t *testing.T) {
	result := &Result{
		Issues: []Issue{
			{File: "core/en.json", Severity: SeverityError, Rule: "key-coverage", Message: "missing key"},
		},
		FilesTotal: 2,
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&buf, result))

	var decoded struct {
		Issues []struct {
			Severity string `json:"severity"`
			Rule     string `json:"rule"`
		} `json:"issues"`
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "ERROR", decoded.Issues[0].Severity)
	assert.Equal(t, 1, decoded.Errors)
	assert.Equal(t, 0, decoded.Warnings)
}
