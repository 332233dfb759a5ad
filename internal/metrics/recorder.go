// Package metrics defines observability hooks for translation builds.
package metrics

import "time"

// ArtifactResult enumerates per-artifact outcomes for counters.
type ArtifactResult string

const (
	ArtifactWritten ArtifactResult = "written"
	ArtifactSkipped ArtifactResult = "skipped"
	ArtifactFailed  ArtifactResult = "failed"
)

// Recorder defines the hooks the builder and watch daemon emit. All methods
// must be safe on the zero NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	IncArtifactResult(dashboard string, result ArtifactResult)
	SetWatchedDirs(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)       {}
func (NoopRecorder) IncBuildOutcome(string)                   {}
func (NoopRecorder) IncArtifactResult(string, ArtifactResult) {}
func (NoopRecorder) SetWatchedDirs(int)                       {}
