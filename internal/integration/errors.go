package integration

import (
	"errors"
	"fmt"
	"math"
)

// Validation failures. Callers match them with errors.Is; the returned errors
// wrap these sentinels with the offending values.
var (
	// ErrInvalidBounds is returned when the lower bound exceeds the upper
	// bound, or when a bound is not a finite number.
	ErrInvalidBounds = errors.New("lower bound is greater than upper bound")

	// ErrSampleCountExceeded is returned when the requested sample count is
	// above the engine's maximum.
	ErrSampleCountExceeded = errors.New("maximum sample count exceeded")

	// ErrNoSamples is returned for a sample count of zero.
	ErrNoSamples = errors.New("sample count must be positive")
)

func validateBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return fmt.Errorf("%w: bounds [%g, %g] are not finite", ErrInvalidBounds, lower, upper)
	}
	if lower > upper {
		return fmt.Errorf("%w: %g > %g", ErrInvalidBounds, lower, upper)
	}
	return nil
}

func validateSamples(samples, maxSamples uint64) error {
	if samples == 0 {
		return ErrNoSamples
	}
	if samples > maxSamples {
		return fmt.Errorf("%w: %d > %d", ErrSampleCountExceeded, samples, maxSamples)
	}
	return nil
}

// ValidateRequest checks a request the way Integrate does: bounds first, then
// the sample count against maxSamples.
func ValidateRequest(lower, upper float64, samples, maxSamples uint64) error {
	if err := validateBounds(lower, upper); err != nil {
		return err
	}
	return validateSamples(samples, maxSamples)
}

// failureKind names a validation error for metrics labels.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidBounds):
		return "invalid_bounds"
	case errors.Is(err, ErrSampleCountExceeded):
		return "sample_count_exceeded"
	case errors.Is(err, ErrNoSamples):
		return "no_samples"
	default:
		return "worker_failure"
	}
}
