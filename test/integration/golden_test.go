package integration

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Constellab/gws-plate-reader/internal/build"
	"github.com/Constellab/gws-plate-reader/internal/config"
)

var updateGolden = flag.Bool("update-golden", false, "Update golden files")

// TestGolden_FullBuild runs a complete build over the fixture tree and
// compares every generated artifact byte-for-byte against the golden files.
// This pins the output contract: specific-over-common overlay, sorted keys,
// 4-space indent, verbatim non-ASCII, trailing newline.
func TestGolden_FullBuild(t *testing.T) {
	fixture := filepath.Join("..", "testdata", "fixture")
	goldenDir := filepath.Join("..", "testdata", "golden")

	root := t.TempDir()
	copyTree(t, fixture, root)

	cfg, err := config.Load(filepath.Join(root, "translations.yaml"))
	require.NoError(t, err)

	builder := build.NewBuilder(cfg, nil, nil)
	result, err := builder.Run(context.Background(), build.Options{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Written())
	assert.Empty(t, result.Warnings)

	if *updateGolden {
		for _, art := range result.Artifacts {
			rel, err := filepath.Rel(root, art.Output)
			require.NoError(t, err)
			dst := filepath.Join(goldenDir, rel)
			require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
			copyFile(t, art.Output, dst)
		}
		t.Log("golden files updated")
		return
	}

	for _, rel := range goldenFiles(t, goldenDir) {
		want, err := os.ReadFile(filepath.Join(goldenDir, rel))
		require.NoError(t, err)

		got, err := os.ReadFile(filepath.Join(root, rel))
		require.NoError(t, err, "expected artifact %s was not generated", rel)

		assert.Equal(t, string(want), string(got), "artifact %s differs from golden file", rel)
	}
}

// TestGolden_RebuildIsIdempotent verifies a second build over already
// generated artifacts produces identical bytes.
func TestGolden_RebuildIsIdempotent(t *testing.T) {
	fixture := filepath.Join("..", "testdata", "fixture")

	root := t.TempDir()
	copyTree(t, fixture, root)

	cfg, err := config.Load(filepath.Join(root, "translations.yaml"))
	require.NoError(t, err)

	builder := build.NewBuilder(cfg, nil, nil)
	ctx := context.Background()

	first, err := builder.Run(ctx, build.Options{Root: root})
	require.NoError(t, err)

	snapshot := make(map[string][]byte)
	for _, art := range first.Artifacts {
		data, err := os.ReadFile(art.Output)
		require.NoError(t, err)
		snapshot[art.Output] = data
	}

	_, err = builder.Run(ctx, build.Options{Root: root})
	require.NoError(t, err)

	for path, want := range snapshot {
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}
