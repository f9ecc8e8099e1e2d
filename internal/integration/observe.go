package integration

import (
	"time"
)

// instrumentationName identifies the engine's spans.
const instrumentationName = "github.com/agbru/quadcalc/internal/integration"

// Mode names the code path that produced a result.
type Mode string

const (
	// ModeSequential is the single-pass path used at or below the threshold.
	ModeSequential Mode = "sequential"
	// ModeParallel is the worker fan-out path.
	ModeParallel Mode = "parallel"
)

// Recorder receives one observation per finished integration. Implementations
// must be safe for concurrent use.
type Recorder interface {
	// ObserveIntegration records a successful integration.
	ObserveIntegration(mode Mode, rule Rule, duration time.Duration, evaluations uint64)
	// ObserveFailure records a failed integration by failure kind.
	ObserveFailure(mode Mode, kind string)
}

// ProgressFunc is called once per finished worker with the number of workers
// done so far and the total. It may be called concurrently from several
// workers and must not block.
type ProgressFunc func(done, total int)

type nopRecorder struct{}

func (nopRecorder) ObserveIntegration(Mode, Rule, time.Duration, uint64) {}
func (nopRecorder) ObserveFailure(Mode, string)                         {}
