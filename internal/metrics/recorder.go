// Package metrics records build and stage timings for the book renderers.
package metrics

import "time"

// Result enumerates stage and build outcomes used as metric labels.
type Result string

const (
	ResultSuccess  Result = "success"
	ResultFailed   Result = "failed"
	ResultCanceled Result = "canceled"
)

// Stage names used by the renderers.
const (
	StagePrepare = "prepare"
	StagePublish = "publish"
	StageStage   = "stage"
	StageRender  = "render"
	StageCopy    = "copy"
	StageConvert = "convert"
	StagePrint   = "print"
)

// Recorder receives build observations. Implementations forward them to a metrics
// backend and must be safe for use from a single build goroutine.
type Recorder interface {
	ObserveStageDuration(renderer, stage string, d time.Duration)
	IncStageResult(renderer, stage string, result Result)
	ObserveBuildDuration(renderer string, d time.Duration)
	IncBuildOutcome(renderer string, result Result)
	SetChaptersStaged(renderer string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, string, Result)              {}
func (NoopRecorder) ObserveBuildDuration(string, time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string, Result)                     {}
func (NoopRecorder) SetChaptersStaged(string, int)                      {}

// Compile-time interface check.
var _ Recorder = NoopRecorder{}
