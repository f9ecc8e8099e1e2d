package orchestration

import (
	"context"

	"github.com/agbru/quadcalc/internal/integration"
)

// Request is one integration problem.
type Request struct {
	Integrand integration.Integrand
	Lower     float64
	Upper     float64
	Samples   uint64
}

// Job is one execution strategy for a Request. progress may be nil; when set
// it must be called without blocking.
type Job interface {
	Name() string
	Run(ctx context.Context, req Request, progress integration.ProgressFunc) (float64, error)
}

// Strategy names of the comparison jobs.
const (
	JobSequential    = "sequential"
	JobParallelFold  = "parallel/fold"
	JobParallelMutex = "parallel/mutex"
)

// EngineJob runs a request through an integration.Engine.
type EngineJob struct {
	Label   string
	Options integration.Options
	// ForceParallel calls IntegrateParallel directly, bypassing the threshold.
	ForceParallel bool
	// EngineOptions are extra engine options (recorder, logger, tracer).
	EngineOptions []integration.Option
}

// Name returns the job label.
func (j EngineJob) Name() string { return j.Label }

// Run integrates req on a fresh engine.
func (j EngineJob) Run(ctx context.Context, req Request, progress integration.ProgressFunc) (float64, error) {
	opts := append([]integration.Option{integration.WithOptions(j.Options)}, j.EngineOptions...)
	if progress != nil {
		opts = append(opts, integration.WithProgress(progress))
	}
	engine := integration.NewEngine(opts...)
	if j.ForceParallel {
		return engine.IntegrateParallel(ctx, req.Integrand, req.Lower, req.Upper, req.Samples)
	}
	return engine.Integrate(ctx, req.Integrand, req.Lower, req.Upper, req.Samples)
}

// PartitionedJob sums the parallel engine's partition on the calling
// goroutine, one sub-interval after the other. Its result is bit-identical to
// the fold accumulation of the parallel path.
type PartitionedJob struct {
	Label   string
	Options integration.Options
}

// Name returns the job label.
func (j PartitionedJob) Name() string { return j.Label }

// Run integrates req without spawning workers.
func (j PartitionedJob) Run(_ context.Context, req Request, progress integration.ProgressFunc) (float64, error) {
	maxSamples := j.Options.MaxSamples
	if maxSamples == 0 {
		maxSamples = integration.DefaultMaxSamples
	}
	if err := integration.ValidateRequest(req.Lower, req.Upper, req.Samples, maxSamples); err != nil {
		return 0, err
	}

	workers := max(j.Options.Workers, 1)
	step := (req.Upper - req.Lower) / float64(req.Samples)
	var sum float64
	for k, iv := range integration.Partition(req.Lower, req.Upper, workers) {
		sum += integration.AccumulateRange(req.Integrand, j.Options.Rule, iv.Lower, iv.Upper, step, j.Options.Boundary)
		if progress != nil {
			progress(k+1, workers)
		}
	}
	return sum * step, nil
}

// ComparisonJobs returns the strategies run by --compare: the partition
// summed sequentially, then the parallel path with each accumulator.
func ComparisonJobs(opts integration.Options, engineOpts ...integration.Option) []Job {
	fold, mutex := opts, opts
	fold.Accumulation = integration.FoldAccumulation
	mutex.Accumulation = integration.SharedAccumulation
	return []Job{
		PartitionedJob{Label: JobSequential, Options: opts},
		EngineJob{Label: JobParallelFold, Options: fold, ForceParallel: true, EngineOptions: engineOpts},
		EngineJob{Label: JobParallelMutex, Options: mutex, ForceParallel: true, EngineOptions: engineOpts},
	}
}
