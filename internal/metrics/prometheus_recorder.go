package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	buildDuration   prom.Histogram
	buildOutcome    *prom.CounterVec
	artifactResults *prom.CounterVec
	watchedDirs     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "translations_builder",
			Name:      "build_duration_seconds",
			Help:      "Total duration of a translation build run",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "translations_builder",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.artifactResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "translations_builder",
			Name:      "artifact_results_total",
			Help:      "Generated artifact results per dashboard",
		}, []string{"dashboard", "result"})
		pr.watchedDirs = prom.NewGauge(prom.GaugeOpts{
			Namespace: "translations_builder",
			Name:      "watched_directories",
			Help:      "Number of source directories the watch daemon observes",
		})
		reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.artifactResults, pr.watchedDirs)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncArtifactResult(dashboard string, result ArtifactResult) {
	if p == nil || p.artifactResults == nil {
		return
	}
	p.artifactResults.WithLabelValues(dashboard, string(result)).Inc()
}

func (p *PrometheusRecorder) SetWatchedDirs(n int) {
	if p == nil || p.watchedDirs == nil {
		return
	}
	p.watchedDirs.Set(float64(n))
}
