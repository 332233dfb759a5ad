package build

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Constellab/gws-plate-reader/internal/config"
	"github.com/Constellab/gws-plate-reader/internal/state"
)

func testConfig() *config.Config {
	return &config.Config{
		Languages: []string{"fr", "en"},
		Common:    config.CommonConfig{Path: "core"},
		Dashboards: []config.Dashboard{
			{Name: "Biolector", Path: "biolector/_core"},
		},
		Output: config.OutputConfig{Indent: 4},
	}
}

func writeJSON(t *testing.T, root, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readMerged(t *testing.T, root, rel string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestBuilder_MergesSpecificOverCommon(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "core/fr.json", `{"title": "Tableau de bord", "btn_save": "Enregistrer"}`)
	writeJSON(t, root, "core/en.json", `{"title": "Dashboard", "btn_save": "Save"}`)
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"title": "Biolector", "wells": "Puits"}`)
	writeJSON(t, root, "biolector/_core/en_specific.json", `{"title": "Biolector", "wells": "Wells"}`)

	b := NewBuilder(testConfig(), nil, nil)
	result, err := b.Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	require.Len(t, result.Artifacts, 2)
	assert.Equal(t, 2, result.Written())
	assert.Empty(t, result.Warnings)

	fr := readMerged(t, root, "biolector/_core/fr.json")
	assert.Equal(t, "Biolector", fr["title"])
	assert.Equal(t, "Enregistrer", fr["btn_save"])
	assert.Equal(t, "Puits", fr["wells"])

	en := readMerged(t, root, "biolector/_core/en.json")
	assert.Equal(t, "Biolector", en["title"])
	assert.Equal(t, "Save", en["btn_save"])
}

func TestBuilder_MissingFilesAreWarnings(t *testing.T) {
	root := t.TempDir()
	// Only the specific file for fr exists; everything else is missing.
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"wells": "Puits"}`)

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, nil, nil)

	result, err := b.Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "common file not found")

	fr := readMerged(t, root, "biolector/_core/fr.json")
	assert.Equal(t, map[string]string{"wells": "Puits"}, fr)
}

func TestBuilder_BothMissingWritesEmptyObject(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "biolector/_core"), 0o755))

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, nil, nil)

	result, err := b.Run(context.Background(), Options{Root: root})
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)

	data, err := os.ReadFile(filepath.Join(root, "biolector/_core/fr.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestBuilder_MalformedInputFailsBuild(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "core/fr.json", `{"title": `)
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{}`)

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, nil, nil)

	_, err := b.Run(context.Background(), Options{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed translation file")
}

func TestBuilder_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "core/fr.json", `{"a": "1"}`)
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"b": "2"}`)

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, nil, nil)

	result, err := b.Run(context.Background(), Options{Root: root, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written())

	_, err = os.Stat(filepath.Join(root, "biolector/_core/fr.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuilder_IncrementalSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "core/fr.json", `{"a": "1"}`)
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"b": "2"}`)

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, store, nil)
	ctx := context.Background()

	first, err := b.Run(ctx, Options{Root: root, Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Written())
	assert.Equal(t, 0, first.SkippedCount())

	second, err := b.Run(ctx, Options{Root: root, Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Written())
	assert.Equal(t, 1, second.SkippedCount())

	// Changing an input invalidates the signature.
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"b": "3"}`)
	third, err := b.Run(ctx, Options{Root: root, Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 1, third.Written())
}

func TestBuilder_IncrementalRebuildsWhenArtifactDeleted(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "core/fr.json", `{"a": "1"}`)
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"b": "2"}`)

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, store, nil)
	ctx := context.Background()

	_, err = b.Run(ctx, Options{Root: root, Incremental: true})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "biolector/_core/fr.json")))

	result, err := b.Run(ctx, Options{Root: root, Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written())
}

func TestBuilder_RecordsHistory(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, root, "core/fr.json", `{"a": "1"}`)
	writeJSON(t, root, "biolector/_core/fr_specific.json", `{"b": "2"}`)

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := testConfig()
	cfg.Languages = []string{"fr"}
	b := NewBuilder(cfg, store, nil)

	result, err := b.Run(context.Background(), Options{Root: root})
	require.NoError(t, err)

	records, err := store.RecentBuilds(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.ID, records[0].ID)
	assert.Equal(t, "success", records[0].Status)
	assert.Equal(t, 1, records[0].ArtifactsWritten)
	assert.NotEmpty(t, records[0].Manifest)
}
