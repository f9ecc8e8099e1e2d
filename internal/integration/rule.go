package integration

import (
	"fmt"
	"strings"
)

// Rule selects the single-cell quadrature formula used by AccumulateRange.
type Rule int

const (
	// Trapezoid adds (f(x) + f(x+h)) / 2 for every cell.
	Trapezoid Rule = iota
	// Midpoint adds f(x + h/2) for every cell.
	Midpoint
)

// String returns the flag spelling of the rule.
func (r Rule) String() string {
	switch r {
	case Trapezoid:
		return "trapezoid"
	case Midpoint:
		return "midpoint"
	default:
		return fmt.Sprintf("Rule(%d)", int(r))
	}
}

// evaluationsPerCell is the number of integrand calls one cell costs.
func (r Rule) evaluationsPerCell() uint64 {
	if r == Trapezoid {
		return 2
	}
	return 1
}

// cell evaluates the rule on [left, right] and returns the unweighted
// contribution (an average height, not an area).
func (r Rule) cell(f Integrand, left, right float64) float64 {
	if r == Trapezoid {
		return (f(left) + f(right)) / 2
	}
	return f(left + (right-left)/2)
}

// ParseRule converts a flag value into a Rule.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trapezoid", "trapezoidal", "a":
		return Trapezoid, nil
	case "midpoint", "b":
		return Midpoint, nil
	}
	return 0, fmt.Errorf("unknown quadrature rule %q", s)
}

// Boundary controls what happens to the last cell of a range when the step
// does not divide the range width.
type Boundary int

const (
	// TruncateFinalStep stops as soon as x+step would reach the upper bound,
	// silently dropping the final cell.
	TruncateFinalStep Boundary = iota
	// IncludeFinalStep evaluates the remaining partial cell [x, b] with the
	// same rule and weights it by its width relative to the step.
	IncludeFinalStep
)

// String returns the flag spelling of the boundary policy.
func (b Boundary) String() string {
	switch b {
	case TruncateFinalStep:
		return "truncate"
	case IncludeFinalStep:
		return "include"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// ParseBoundary converts a flag value into a Boundary.
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "truncate":
		return TruncateFinalStep, nil
	case "include":
		return IncludeFinalStep, nil
	}
	return 0, fmt.Errorf("unknown boundary policy %q", s)
}
