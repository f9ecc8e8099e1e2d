package integration

import (
	"math"
	"testing"
)

func identity(x float64) float64 { return x }

func constant(c float64) Integrand {
	return func(float64) float64 { return c }
}

func TestAccumulateRange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		f        Integrand
		rule     Rule
		a, b     float64
		step     float64
		boundary Boundary
		want     float64
	}{
		{
			// Cells [0,1), [1,2), [2,3); the fourth would end at 4 = b and is dropped.
			name: "trapezoid truncates the final cell",
			f:    identity, rule: Trapezoid, a: 0, b: 4, step: 1, boundary: TruncateFinalStep,
			want: 0.5 + 1.5 + 2.5,
		},
		{
			name: "trapezoid includes the final cell",
			f:    identity, rule: Trapezoid, a: 0, b: 4, step: 1, boundary: IncludeFinalStep,
			want: 0.5 + 1.5 + 2.5 + 3.5,
		},
		{
			name: "midpoint truncates the final cell",
			f:    identity, rule: Midpoint, a: 0, b: 4, step: 1, boundary: TruncateFinalStep,
			want: 0.5 + 1.5 + 2.5,
		},
		{
			// Remaining cell [3, 3.5] has midpoint 3.25 and weight 0.5.
			name: "midpoint weights a partial final cell",
			f:    identity, rule: Midpoint, a: 0, b: 3.5, step: 1, boundary: IncludeFinalStep,
			want: 0.5 + 1.5 + 2.5 + 3.25*0.5,
		},
		{
			name: "constant function counts full cells",
			f:    constant(2), rule: Midpoint, a: 0, b: 1, step: 0.25, boundary: TruncateFinalStep,
			want: 2 * 3,
		},
		{
			name: "empty range",
			f:    identity, rule: Trapezoid, a: 1, b: 1, step: 0.1, boundary: IncludeFinalStep,
			want: 0,
		},
		{
			name: "inverted range",
			f:    identity, rule: Trapezoid, a: 2, b: 1, step: 0.1, boundary: IncludeFinalStep,
			want: 0,
		},
		{
			name: "zero step",
			f:    identity, rule: Midpoint, a: 0, b: 1, step: 0, boundary: IncludeFinalStep,
			want: 0,
		},
		{
			name: "NaN step",
			f:    identity, rule: Midpoint, a: 0, b: 1, step: math.NaN(), boundary: IncludeFinalStep,
			want: 0,
		},
		{
			name: "step wider than the range",
			f:    identity, rule: Midpoint, a: 0, b: 1, step: 2, boundary: TruncateFinalStep,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AccumulateRange(tt.f, tt.rule, tt.a, tt.b, tt.step, tt.boundary)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("AccumulateRange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccumulateRange_CellCount(t *testing.T) {
	t.Parallel()

	_, cells := accumulateRange(identity, Trapezoid, 0, 1, 0.001, TruncateFinalStep)
	if cells != 999 {
		t.Errorf("truncate: cells = %d, want 999", cells)
	}

	_, cells = accumulateRange(identity, Trapezoid, 0, 1, 0.001, IncludeFinalStep)
	if cells != 1000 {
		t.Errorf("include: cells = %d, want 1000", cells)
	}
}

// TestAccumulateRange_NoDrift checks that positions are derived from the
// index: on a long range the last midpoint still sits half a step from a
// grid point.
func TestAccumulateRange_NoDrift(t *testing.T) {
	t.Parallel()

	var last float64
	record := func(x float64) float64 {
		last = x
		return 0
	}
	const (
		a    = 1000.0
		step = 0.1
	)
	AccumulateRange(record, Midpoint, a, a+100_000*step, step, TruncateFinalStep)

	want := a + 99_998*step + step/2
	if math.Abs(last-want) > 1e-9 {
		t.Errorf("last midpoint = %.12f, want %.12f", last, want)
	}
}
