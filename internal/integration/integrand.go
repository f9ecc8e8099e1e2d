package integration

import "math"

// Integrand is a pure scalar function. It must not read or write shared
// state, since every worker calls it concurrently without synchronization.
type Integrand func(x float64) float64

// Function bundles an integrand with its analytic second derivative, which
// the remainder-bound estimator needs.
type Function struct {
	// Name is a human-readable rendering of the function.
	Name string
	// F evaluates the function.
	F Integrand
	// SecondDerivative evaluates f''(x).
	SecondDerivative Integrand
}

// ArctanQuartic is the compiled-in integrand f(x) = atan(x) / (x⁴ + 1).
var ArctanQuartic = Function{
	Name:             "atan(x) / (x^4 + 1)",
	F:                arctanQuartic,
	SecondDerivative: arctanQuarticSecondDerivative,
}

func arctanQuartic(x float64) float64 {
	return math.Atan(x) / (math.Pow(x, 4) + 1)
}

// arctanQuarticSecondDerivative is (u·v)'' = u''v + 2u'v' + uv'' with
// u = atan(x) and v = 1/(x⁴+1).
func arctanQuarticSecondDerivative(x float64) float64 {
	x2 := x * x
	x3 := x2 * x
	x4 := x2 * x2
	x6 := x4 * x2
	q := x4 + 1
	p := 1 + x2

	u := math.Atan(x)
	du := 1 / p
	d2u := -2 * x / (p * p)

	v := 1 / q
	dv := -4 * x3 / (q * q)
	d2v := (20*x6 - 12*x2) / (q * q * q)

	return d2u*v + 2*du*dv + u*d2v
}
