package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdbook"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	stageResults   *prom.CounterVec
	buildDuration  *prom.HistogramVec
	buildOutcomes  *prom.CounterVec
	chaptersStaged *prom.GaugeVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"renderer", "stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"renderer", "stage", "result"}),
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}, []string{"renderer"}),
		buildOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"renderer", "result"}),
		chaptersStaged: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "chapters_staged",
			Help:      "Chapters written to the staging area by the last build",
		}, []string{"renderer"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcomes, pr.chaptersStaged)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(renderer, stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(renderer, stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(renderer, stage string, result Result) {
	p.stageResults.WithLabelValues(renderer, stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(renderer string, d time.Duration) {
	p.buildDuration.WithLabelValues(renderer).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(renderer string, result Result) {
	p.buildOutcomes.WithLabelValues(renderer, string(result)).Inc()
}

func (p *PrometheusRecorder) SetChaptersStaged(renderer string, n int) {
	p.chaptersStaged.WithLabelValues(renderer).Set(float64(n))
}

// Compile-time interface check.
var _ Recorder = (*PrometheusRecorder)(nil)
