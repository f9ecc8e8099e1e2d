package integration

import (
	"context"
	"fmt"
	"math"
	"testing"
)

func negate(f Integrand) Integrand {
	return func(x float64) float64 { return -f(x) }
}

func TestRemainderBound_HoldsForMidpoint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		fn           Function
		lower, upper float64
		exact        float64
	}{
		{
			name:  "exp on [0,1]",
			fn:    Function{F: math.Exp, SecondDerivative: math.Exp},
			lower: 0, upper: 1,
			exact: math.E - 1,
		},
		{
			name:  "sin on [0,π]",
			fn:    Function{F: math.Sin, SecondDerivative: negate(math.Sin)},
			lower: 0, upper: math.Pi,
			exact: 2,
		},
		{
			name:  "cos on [-2,3]",
			fn:    Function{F: math.Cos, SecondDerivative: negate(math.Cos)},
			lower: -2, upper: 3,
			exact: math.Sin(3) - math.Sin(-2),
		},
	}

	engine := NewEngine(WithOptions(VariantMidpoint.Options()))
	for _, tt := range tests {
		for _, samples := range []uint64{10, 100, 1000, 5000, 20_000} {
			t.Run(fmt.Sprintf("%s/%d", tt.name, samples), func(t *testing.T) {
				t.Parallel()
				got, err := engine.Integrate(context.Background(), tt.fn.F, tt.lower, tt.upper, samples)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				step := (tt.upper - tt.lower) / float64(samples)
				bound := RemainderBound(tt.fn.SecondDerivative, tt.lower, tt.upper, step)
				if actual := math.Abs(got - tt.exact); actual > bound {
					t.Errorf("|error| = %g exceeds bound %g", actual, bound)
				}
			})
		}
	}
}

func TestRemainderBound_Formula(t *testing.T) {
	t.Parallel()

	// f'' ≡ 2 on [0,2] with step 0.5: 2 · 0.25 / 24 · 2.
	got := RemainderBound(constant(2), 0, 2, 0.5)
	want := 2 * 0.25 / 24 * 2
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("RemainderBound() = %v, want %v", got, want)
	}
}

func TestRemainderBound_Degenerate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name               string
		lower, upper, step float64
	}{
		{"empty interval", 1, 1, 0.1},
		{"inverted interval", 2, 1, 0.1},
		{"zero step", 0, 1, 0},
		{"negative step", 0, 1, -0.1},
		{"NaN step", 0, 1, math.NaN()},
	}
	for _, tt := range tests {
		if got := RemainderBound(constant(1), tt.lower, tt.upper, tt.step); got != 0 {
			t.Errorf("%s: RemainderBound() = %v, want 0", tt.name, got)
		}
	}
}

// TestArctanQuartic_SecondDerivative checks the analytic f'' against a
// central second difference.
func TestArctanQuartic_SecondDerivative(t *testing.T) {
	t.Parallel()

	const h = 1e-4
	f := ArctanQuartic.F
	for _, x := range []float64{-2, -1, -0.5, 0, 0.3, 1, 2.5} {
		numeric := (f(x+h) - 2*f(x) + f(x-h)) / (h * h)
		analytic := ArctanQuartic.SecondDerivative(x)
		if math.Abs(numeric-analytic) > 1e-5 {
			t.Errorf("f''(%v): analytic %v, numeric %v", x, analytic, numeric)
		}
	}
}

func TestArctanQuartic_Values(t *testing.T) {
	t.Parallel()

	if got := ArctanQuartic.F(0); got != 0 {
		t.Errorf("f(0) = %v, want 0", got)
	}
	if got, want := ArctanQuartic.F(1), math.Pi/8; math.Abs(got-want) > 1e-15 {
		t.Errorf("f(1) = %v, want %v", got, want)
	}
	if got := ArctanQuartic.F(-1); math.Abs(got+math.Pi/8) > 1e-15 {
		t.Errorf("f(-1) = %v, want %v", got, -math.Pi/8)
	}
}
