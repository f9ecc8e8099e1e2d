package integration

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Estimate is the full report of a midpoint integration: the value, a
// high-resolution reference, and how the observed error compares with the
// analytic remainder bound.
type Estimate struct {
	// Value is the integral computed at the requested sample count.
	Value float64
	// Reference is the integral computed at ReferenceSamples.
	Reference float64
	// AbsoluteError is |Value - Reference|.
	AbsoluteError float64
	// ErrorBound is RemainderBound at the requested step.
	ErrorBound float64
	// WithinBound reports AbsoluteError <= ErrorBound.
	WithinBound bool
	// RelativeErrorPercent is AbsoluteError / |Reference| · 100. It is 0 when
	// both are 0 and +Inf when only the reference is 0.
	RelativeErrorPercent float64
	// Samples is the requested sample count.
	Samples uint64
	// ReferenceSamples is the sample count of the reference integration.
	ReferenceSamples uint64
	// Step is (upper - lower) / Samples.
	Step float64
}

// Estimator runs an integration together with its reference integration.
type Estimator struct {
	engine           *Engine
	referenceSamples uint64
	referenceOpts    []Option
}

// NewEstimator creates an estimator around engine. The reference integration
// uses the midpoint rule with IncludeFinalStep and the engine's worker count,
// threshold and sample ceiling. referenceSamples of 0 selects
// DefaultReferenceSamples. refOpts are applied to the reference engine after
// those settings (typically the same recorder and logger).
func NewEstimator(engine *Engine, referenceSamples uint64, refOpts ...Option) *Estimator {
	if referenceSamples == 0 {
		referenceSamples = DefaultReferenceSamples
	}
	return &Estimator{engine: engine, referenceSamples: referenceSamples, referenceOpts: refOpts}
}

// ReferenceSamplesFor returns the reference sample count used for a request
// of samples: max(referenceSamples, 16·samples), capped at maxSamples.
func ReferenceSamplesFor(samples, referenceSamples, maxSamples uint64) uint64 {
	ref := referenceSamples
	switch {
	case samples > math.MaxUint64/ReferenceOversampling:
		ref = math.MaxUint64
	case samples*ReferenceOversampling > ref:
		ref = samples * ReferenceOversampling
	}
	if ref > maxSamples {
		ref = maxSamples
	}
	return ref
}

// Estimate integrates fn.F over [lower, upper] with samples steps, and in
// parallel the reference integration, then derives the error report. An
// invalid request fails before either integration starts.
func (est *Estimator) Estimate(ctx context.Context, fn Function, lower, upper float64, samples uint64) (Estimate, error) {
	ctx, span := est.engine.tracer.Start(ctx, "integration.Estimate")
	defer span.End()

	opts := est.engine.Options()
	if err := ValidateRequest(lower, upper, samples, opts.MaxSamples); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Estimate{}, err
	}
	refSamples := ReferenceSamplesFor(samples, est.referenceSamples, opts.MaxSamples)

	refOpts := opts
	refOpts.Rule = Midpoint
	refOpts.Boundary = IncludeFinalStep
	reference := NewEngine(append([]Option{WithOptions(refOpts), withTracer(est.engine.tracer)}, est.referenceOpts...)...)

	var value, ref float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := est.engine.Integrate(gctx, fn.F, lower, upper, samples)
		value = v
		return err
	})
	g.Go(func() error {
		v, err := reference.Integrate(gctx, fn.F, lower, upper, refSamples)
		ref = v
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Estimate{}, err
	}

	step := (upper - lower) / float64(samples)
	report := Estimate{
		Value:            value,
		Reference:        ref,
		AbsoluteError:    math.Abs(value - ref),
		ErrorBound:       RemainderBound(fn.SecondDerivative, lower, upper, step),
		Samples:          samples,
		ReferenceSamples: refSamples,
		Step:             step,
	}
	report.WithinBound = report.AbsoluteError <= report.ErrorBound
	report.RelativeErrorPercent = relativeErrorPercent(report.AbsoluteError, ref)

	span.SetAttributes(
		attribute.Float64("integration.absolute_error", report.AbsoluteError),
		attribute.Float64("integration.error_bound", report.ErrorBound),
		attribute.Bool("integration.within_bound", report.WithinBound),
	)
	return report, nil
}

func relativeErrorPercent(absErr, reference float64) float64 {
	if reference == 0 {
		if absErr == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return absErr / math.Abs(reference) * 100
}
