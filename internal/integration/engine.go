package integration

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/quadcalc/internal/parallel"
)

// Options configures an Engine.
type Options struct {
	// Rule is the per-cell quadrature formula.
	Rule Rule
	// Workers is the number of sub-intervals (and goroutines) of the parallel
	// path. Values below 1 are treated as 1.
	Workers int
	// ParallelThreshold is the sample count above which Integrate delegates
	// to IntegrateParallel.
	ParallelThreshold uint64
	// MaxSamples is the hard ceiling on the requested sample count.
	MaxSamples uint64
	// Boundary is the final-cell policy of every range sum.
	Boundary Boundary
	// Accumulation is the partial-sum merge strategy of the parallel path.
	Accumulation Accumulation
}

// DefaultOptions returns the trapezoid preset with the default limits.
func DefaultOptions() Options {
	return Options{
		Rule:              Trapezoid,
		Workers:           TrapezoidWorkers,
		ParallelThreshold: DefaultParallelThreshold,
		MaxSamples:        DefaultMaxSamples,
		Boundary:          TruncateFinalStep,
		Accumulation:      FoldAccumulation,
	}
}

// Engine integrates a function over an interval. An Engine holds no mutable
// state between calls and may be shared by concurrent callers.
type Engine struct {
	opts     Options
	recorder Recorder
	progress ProgressFunc
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithOptions replaces the engine options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithProgress sets a callback invoked as parallel workers finish.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithLogger sets the logger used for dispatch debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTracerProvider sets the provider of the engine's spans. By default the
// global otel provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		if tp != nil {
			e.tracer = tp.Tracer(instrumentationName)
		}
	}
}

func withTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// NewEngine creates an engine with DefaultOptions, modified by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		opts:     DefaultOptions(),
		recorder: nopRecorder{},
		logger:   zerolog.Nop(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.opts.MaxSamples == 0 {
		e.opts.MaxSamples = DefaultMaxSamples
	}
	if e.opts.Workers < 1 {
		e.opts.Workers = 1
	}
	return e
}

// Options returns a copy of the engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// Integrate estimates the integral of f over [lower, upper] from samples
// uniform steps. It validates the request, then either runs one sequential
// pass or, when samples exceeds the parallel threshold, returns the result of
// IntegrateParallel unchanged.
//
// The context carries tracing spans only; an integration cannot be canceled
// once started.
func (e *Engine) Integrate(ctx context.Context, f Integrand, lower, upper float64, samples uint64) (float64, error) {
	ctx, span := e.tracer.Start(ctx, "integration.Integrate", trace.WithAttributes(
		requestAttributes(lower, upper, samples, e.opts.Rule)...,
	))
	defer span.End()

	if err := validateBounds(lower, upper); err != nil {
		return e.fail(span, ModeSequential, err)
	}
	if err := validateSamples(samples, e.opts.MaxSamples); err != nil {
		return e.fail(span, ModeSequential, err)
	}

	if samples > e.opts.ParallelThreshold {
		span.SetAttributes(attribute.String("integration.mode", string(ModeParallel)))
		return e.IntegrateParallel(ctx, f, lower, upper, samples)
	}
	span.SetAttributes(attribute.String("integration.mode", string(ModeSequential)))

	start := time.Now()
	step := (upper - lower) / float64(samples)
	sum, cells := accumulateRange(f, e.opts.Rule, lower, upper, step, e.opts.Boundary)
	elapsed := time.Since(start)

	e.recorder.ObserveIntegration(ModeSequential, e.opts.Rule, elapsed, cells*e.opts.Rule.evaluationsPerCell())
	e.logger.Debug().
		Str("mode", string(ModeSequential)).
		Uint64("samples", samples).
		Uint64("cells", cells).
		Dur("elapsed", elapsed).
		Msg("integration finished")
	return sum * step, nil
}

// IntegrateParallel splits [lower, upper] into Workers equal sub-intervals
// and sums each one in its own goroutine with the step of the global request,
// (upper-lower)/samples. Partial sums are merged through the configured
// Accumulator once every worker has finished. A worker panic fails the whole
// call with a *parallel.PanicError.
func (e *Engine) IntegrateParallel(ctx context.Context, f Integrand, lower, upper float64, samples uint64) (float64, error) {
	workers := e.opts.Workers
	_, span := e.tracer.Start(ctx, "integration.IntegrateParallel", trace.WithAttributes(
		append(requestAttributes(lower, upper, samples, e.opts.Rule),
			attribute.Int("integration.workers", workers),
			attribute.String("integration.accumulation", e.opts.Accumulation.String()),
		)...,
	))
	defer span.End()

	if err := validateBounds(lower, upper); err != nil {
		return e.fail(span, ModeParallel, err)
	}
	if err := validateSamples(samples, e.opts.MaxSamples); err != nil {
		return e.fail(span, ModeParallel, err)
	}

	start := time.Now()
	step := (upper - lower) / float64(samples)
	intervals := Partition(lower, upper, workers)
	acc := NewAccumulator(e.opts.Accumulation, workers)

	e.logger.Debug().
		Int("workers", workers).
		Float64("step", step).
		Float64("sub_interval_width", intervals[0].Width()).
		Str("accumulation", e.opts.Accumulation.String()).
		Msg("dispatching parallel integration")

	var (
		evaluations atomic.Uint64
		finished    atomic.Int64
	)
	err := parallel.ForEach(workers, func(k int) error {
		iv := intervals[k]
		partial, cells := accumulateRange(f, e.opts.Rule, iv.Lower, iv.Upper, step, e.opts.Boundary)
		acc.Add(k, partial)
		evaluations.Add(cells * e.opts.Rule.evaluationsPerCell())
		if e.progress != nil {
			e.progress(int(finished.Add(1)), workers)
		}
		return nil
	})
	if err != nil {
		return e.fail(span, ModeParallel, fmt.Errorf("parallel integration: %w", err))
	}

	elapsed := time.Since(start)
	e.recorder.ObserveIntegration(ModeParallel, e.opts.Rule, elapsed, evaluations.Load())
	e.logger.Debug().
		Str("mode", string(ModeParallel)).
		Uint64("samples", samples).
		Uint64("evaluations", evaluations.Load()).
		Dur("elapsed", elapsed).
		Msg("integration finished")
	return acc.Sum() * step, nil
}

func (e *Engine) fail(span trace.Span, mode Mode, err error) (float64, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.recorder.ObserveFailure(mode, failureKind(err))
	return 0, err
}

func requestAttributes(lower, upper float64, samples uint64, rule Rule) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("integration.lower", lower),
		attribute.Float64("integration.upper", upper),
		attribute.Int64("integration.samples", int64(samples)),
		attribute.String("integration.rule", rule.String()),
	}
}

var defaultEngine = NewEngine()

// Integrate runs the default trapezoid engine. See (*Engine).Integrate.
func Integrate(f Integrand, lower, upper float64, samples uint64) (float64, error) {
	return defaultEngine.Integrate(context.Background(), f, lower, upper, samples)
}

// IntegrateParallel runs the parallel path of the default trapezoid engine.
// See (*Engine).IntegrateParallel.
func IntegrateParallel(f Integrand, lower, upper float64, samples uint64) (float64, error) {
	return defaultEngine.IntegrateParallel(context.Background(), f, lower, upper, samples)
}
