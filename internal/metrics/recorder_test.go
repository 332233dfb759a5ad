package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SafeOnZeroValue(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("success")
	r.IncArtifactResult("Biolector", ArtifactWritten)
	r.SetWatchedDirs(3)
}

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveBuildDuration(250 * time.Millisecond)
	r.IncBuildOutcome("success")
	r.IncArtifactResult("Biolector", ArtifactWritten)
	r.IncArtifactResult("Biolector", ArtifactSkipped)
	r.SetWatchedDirs(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["translations_builder_build_duration_seconds"])
	assert.True(t, names["translations_builder_build_outcomes_total"])
	assert.True(t, names["translations_builder_artifact_results_total"])
	assert.True(t, names["translations_builder_watched_directories"])
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("failed")
	r.IncArtifactResult("X", ArtifactFailed)
	r.SetWatchedDirs(0)
}
