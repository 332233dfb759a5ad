// Package build runs the merge pipeline: for every configured dashboard and
// language, overlay the dashboard-specific translations onto the common set
// and write the generated artifact.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Constellab/gws-plate-reader/internal/catalog"
	"github.com/Constellab/gws-plate-reader/internal/config"
	"github.com/Constellab/gws-plate-reader/internal/manifest"
	"github.com/Constellab/gws-plate-reader/internal/metrics"
	"github.com/Constellab/gws-plate-reader/internal/state"
)

// Options control a build run.
type Options struct {
	// Root is the directory config paths are resolved against.
	Root string
	// Incremental skips artifacts whose input signature is unchanged.
	Incremental bool
	// DryRun computes everything but writes nothing.
	DryRun bool
}

// ArtifactResult describes the outcome for one dashboard × language pair.
type ArtifactResult struct {
	Dashboard    string
	Language     string
	Output       string
	CommonKeys   int
	SpecificKeys int
	MergedKeys   int
	Skipped      bool
}

// Result summarizes a full build run.
type Result struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Artifacts []ArtifactResult
	Warnings  []string
}

// Written returns the number of artifacts actually written.
func (r *Result) Written() int {
	n := 0
	for _, a := range r.Artifacts {
		if !a.Skipped {
			n++
		}
	}
	return n
}

// SkippedCount returns the number of artifacts skipped by incremental mode.
func (r *Result) SkippedCount() int {
	return len(r.Artifacts) - r.Written()
}

// Builder executes translation builds.
type Builder struct {
	cfg      *config.Config
	store    *state.Store
	recorder metrics.Recorder
}

// NewBuilder creates a Builder. store may be nil (no history, no incremental
// skipping); recorder may be nil (no metrics).
func NewBuilder(cfg *config.Config, store *state.Store, recorder metrics.Recorder) *Builder {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Builder{cfg: cfg, store: store, recorder: recorder}
}

// Run executes the build and records it in the state store.
func (b *Builder) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	result := &Result{
		ID:        uuid.NewString(),
		StartedAt: started,
	}

	slog.Info("Starting translation build",
		"build_id", result.ID,
		"dashboards", len(b.cfg.Dashboards),
		"languages", b.cfg.Languages,
		"incremental", opts.Incremental,
		"dry_run", opts.DryRun)

	var records []manifest.ArtifactRecord
	for _, dashboard := range b.cfg.Dashboards {
		slog.Info("Building dashboard translations", "dashboard", dashboard.Name)

		for _, lang := range b.cfg.Languages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			rec, art, err := b.buildArtifact(ctx, dashboard, lang, opts, result)
			if err != nil {
				b.recorder.IncArtifactResult(dashboard.Name, metrics.ArtifactFailed)
				b.recorder.IncBuildOutcome("failed")
				return nil, fmt.Errorf("dashboard %s, language %s: %w", dashboard.Name, lang, err)
			}

			result.Artifacts = append(result.Artifacts, art)
			records = append(records, rec)
			if art.Skipped {
				b.recorder.IncArtifactResult(dashboard.Name, metrics.ArtifactSkipped)
			} else {
				b.recorder.IncArtifactResult(dashboard.Name, metrics.ArtifactWritten)
			}
		}
	}

	result.Duration = time.Since(started)
	b.recorder.ObserveBuildDuration(result.Duration)
	b.recorder.IncBuildOutcome("success")

	if err := b.persist(ctx, result, records, opts); err != nil {
		slog.Warn("Failed to persist build record", "build_id", result.ID, "error", err)
	}

	slog.Info("Translation build completed",
		"build_id", result.ID,
		"written", result.Written(),
		"skipped", result.SkippedCount(),
		"warnings", len(result.Warnings),
		"duration", result.Duration)
	return result, nil
}

// buildArtifact merges one dashboard × language pair.
func (b *Builder) buildArtifact(ctx context.Context, dashboard config.Dashboard, lang string, opts Options, result *Result) (manifest.ArtifactRecord, ArtifactResult, error) {
	commonPath := filepath.Join(opts.Root, b.cfg.Common.Path, lang+".json")
	specificPath := filepath.Join(opts.Root, dashboard.Path, lang+"_specific.json")
	outputPath := filepath.Join(opts.Root, dashboard.Path, lang+".json")

	commonData, err := readOptional(commonPath)
	if err != nil {
		return manifest.ArtifactRecord{}, ArtifactResult{}, err
	}
	if commonData == nil {
		b.warn(result, "common file not found: %s", commonPath)
	}

	specificData, err := readOptional(specificPath)
	if err != nil {
		return manifest.ArtifactRecord{}, ArtifactResult{}, err
	}
	if specificData == nil {
		b.warn(result, "specific file not found: %s", specificPath)
	}

	common, err := decodeOptional(commonPath, commonData)
	if err != nil {
		return manifest.ArtifactRecord{}, ArtifactResult{}, err
	}
	specific, err := decodeOptional(specificPath, specificData)
	if err != nil {
		return manifest.ArtifactRecord{}, ArtifactResult{}, err
	}

	signature := ArtifactSignature(commonData, specificData, b.cfg.Output.Indent)

	art := ArtifactResult{
		Dashboard:    dashboard.Name,
		Language:     lang,
		Output:       outputPath,
		CommonKeys:   len(common),
		SpecificKeys: len(specific),
	}
	rec := manifest.ArtifactRecord{
		Dashboard:      dashboard.Name,
		Language:       lang,
		Output:         outputPath,
		CommonKeys:     len(common),
		SpecificKeys:   len(specific),
		InputSignature: signature,
	}

	if opts.Incremental && b.canSkip(ctx, dashboard.Name, lang, signature, outputPath) {
		slog.Debug("Artifact up to date, skipping",
			"dashboard", dashboard.Name, "language", lang, "output", outputPath)
		art.Skipped = true
		rec.Skipped = true
		return rec, art, nil
	}

	merged := common.Merge(specific)
	art.MergedKeys = len(merged)
	rec.MergedKeys = len(merged)

	encoded, err := merged.Encode(b.cfg.Output.Indent)
	if err != nil {
		return manifest.ArtifactRecord{}, ArtifactResult{}, err
	}
	rec.OutputHash = ContentHash(encoded)

	if opts.DryRun {
		slog.Info("Would write translations (dry run)",
			"dashboard", dashboard.Name, "language", lang,
			"output", outputPath, "keys", len(merged))
		return rec, art, nil
	}

	if err := merged.WriteFile(outputPath, b.cfg.Output.Indent); err != nil {
		return manifest.ArtifactRecord{}, ArtifactResult{}, err
	}

	if b.store != nil {
		if err := b.store.SetArtifactSignature(ctx, dashboard.Name, lang, signature); err != nil {
			slog.Warn("Failed to record artifact signature",
				"dashboard", dashboard.Name, "language", lang, "error", err)
		}
	}

	slog.Info("Wrote translations",
		"dashboard", dashboard.Name, "language", lang,
		"output", outputPath, "keys", len(merged))
	return rec, art, nil
}

// canSkip reports whether an incremental build may keep the existing artifact.
func (b *Builder) canSkip(ctx context.Context, dashboard, lang, signature, outputPath string) bool {
	if b.store == nil {
		return false
	}
	prev, err := b.store.ArtifactSignature(ctx, dashboard, lang)
	if err != nil {
		slog.Warn("Failed to read artifact signature", "dashboard", dashboard, "error", err)
		return false
	}
	if prev == "" || prev != signature {
		return false
	}
	// The signature only vouches for the inputs; the artifact itself must
	// still be present.
	if _, err := os.Stat(outputPath); err != nil {
		return false
	}
	return true
}

func (b *Builder) persist(ctx context.Context, result *Result, records []manifest.ArtifactRecord, opts Options) error {
	if b.store == nil || opts.DryRun {
		return nil
	}

	m := &manifest.BuildManifest{
		ID:         result.ID,
		Timestamp:  result.StartedAt,
		ConfigHash: ConfigSignature(b.cfg),
		Artifacts:  records,
		Status:     "success",
		Duration:   result.Duration.Milliseconds(),
	}
	data, err := m.ToJSON()
	if err != nil {
		return err
	}

	return b.store.RecordBuild(ctx, state.BuildRecord{
		ID:               result.ID,
		StartedAt:        result.StartedAt,
		Duration:         result.Duration,
		Status:           "success",
		ArtifactsWritten: result.Written(),
		ArtifactsSkipped: result.SkippedCount(),
		Warnings:         len(result.Warnings),
		Manifest:         data,
	})
}

func (b *Builder) warn(result *Result, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn(msg)
	result.Warnings = append(result.Warnings, msg)
}

// readOptional reads a file, returning nil data (no error) when it does not
// exist.
func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// decodeOptional decodes file data, treating a missing file as an empty
// catalog. Malformed JSON is an error.
func decodeOptional(path string, data []byte) (catalog.Catalog, error) {
	if data == nil {
		return catalog.Catalog{}, nil
	}
	c, err := catalog.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
