package integration

import (
	"fmt"
	"strings"
)

// Variant is a named preset of engine settings.
type Variant struct {
	// Name is the flag spelling of the variant.
	Name string
	// Rule is the per-cell quadrature formula.
	Rule Rule
	// Workers is the default worker count of the parallel path.
	Workers int
	// Boundary is the default final-cell policy.
	Boundary Boundary
	// ReportsErrorBound is true when the variant produces a full Estimate
	// (reference value, remainder bound, errors) rather than a single value.
	ReportsErrorBound bool
}

var (
	// VariantTrapezoid averages the endpoint values of each cell, runs 16
	// workers and drops the final partial cell.
	VariantTrapezoid = Variant{
		Name:     "trapezoid",
		Rule:     Trapezoid,
		Workers:  TrapezoidWorkers,
		Boundary: TruncateFinalStep,
	}

	// VariantMidpoint evaluates cell midpoints, runs 32 workers, keeps the
	// final partial cell and reports the remainder bound.
	VariantMidpoint = Variant{
		Name:              "midpoint",
		Rule:              Midpoint,
		Workers:           MidpointWorkers,
		Boundary:          IncludeFinalStep,
		ReportsErrorBound: true,
	}
)

// Variants lists the available presets in display order.
func Variants() []Variant {
	return []Variant{VariantTrapezoid, VariantMidpoint}
}

// LookupVariant returns the preset with the given name. The letters "a" and
// "b" are accepted as aliases.
func LookupVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case VariantTrapezoid.Name, "a":
		return VariantTrapezoid, nil
	case VariantMidpoint.Name, "b":
		return VariantMidpoint, nil
	}
	return Variant{}, fmt.Errorf("unknown variant %q", name)
}

// Options returns engine options initialised from the preset.
func (v Variant) Options() Options {
	opts := DefaultOptions()
	opts.Rule = v.Rule
	opts.Workers = v.Workers
	opts.Boundary = v.Boundary
	return opts
}
