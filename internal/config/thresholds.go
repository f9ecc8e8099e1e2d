package config

import (
	"runtime"

	"github.com/agbru/quadcalc/internal/integration"
)

// Worker count resolution chain (highest priority first):
//   1. CLI flag (--workers)
//   2. Environment variable (QUADCALC_WORKERS)
//   3. Cached calibration profile (~/.quadcalc_calibration.json)
//   4. Variant default (16 for trapezoid, 32 for midpoint)

// ApplyCalibratedWorkers sets the worker count from a calibration result when
// none was configured. A non-positive calibrated value is ignored.
func ApplyCalibratedWorkers(cfg AppConfig, calibrated int) AppConfig {
	if cfg.Workers == 0 && calibrated > 0 {
		cfg.Workers = calibrated
	}
	return cfg
}

// ApplyVariantDefaults fills the settings left unset with the selected
// variant's defaults. The configuration must have been validated.
func ApplyVariantDefaults(cfg AppConfig) AppConfig {
	variant, err := integration.LookupVariant(cfg.Variant)
	if err != nil {
		return cfg
	}
	cfg.Variant = variant.Name
	if cfg.Workers == 0 {
		cfg.Workers = variant.Workers
	}
	if cfg.Boundary == "" {
		cfg.Boundary = variant.Boundary.String()
	}
	return cfg
}

// EstimateOptimalWorkers provides a heuristic worker count from the number of
// CPUs without running benchmarks. Small machines are oversubscribed.
func EstimateOptimalWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return 1
	case numCPU <= 4:
		return numCPU * 4
	case numCPU <= 16:
		return numCPU * 2
	default:
		return numCPU
	}
}
