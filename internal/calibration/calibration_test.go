package calibration

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/ui"
)

func TestRunCalibration(t *testing.T) {
	previous := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(previous) })

	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer
	profile, err := RunCalibration(context.Background(), Options{
		Engine:      integration.DefaultOptions(),
		Candidates:  []int{1, 2, 4},
		Samples:     20_000,
		ProfilePath: path,
		Logger:      zerolog.Nop(),
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	switch profile.OptimalWorkers {
	case 1, 2, 4:
	default:
		t.Errorf("OptimalWorkers = %d, want one of the candidates", profile.OptimalWorkers)
	}
	if profile.CalibrationSamples != 20_000 {
		t.Errorf("CalibrationSamples = %d", profile.CalibrationSamples)
	}

	output := out.String()
	for _, want := range []string{"Calibration Summary", "Sequential", "(Optimal)", "Profile saved to " + path} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got:\n%s", want, output)
		}
	}

	workers, ok, err := LoadCachedCalibration(path)
	if err != nil || !ok || workers != profile.OptimalWorkers {
		t.Errorf("LoadCachedCalibration() = (%d, %v, %v), want (%d, true, nil)", workers, ok, err, profile.OptimalWorkers)
	}
}

func TestRunCalibration_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunCalibration(ctx, Options{Engine: integration.DefaultOptions(), Candidates: []int{1}, Samples: 100}, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRunCalibration_AllCandidatesFail(t *testing.T) {
	t.Parallel()
	opts := integration.DefaultOptions()
	opts.MaxSamples = 10

	_, err := RunCalibration(context.Background(), Options{Engine: opts, Candidates: []int{1, 2}, Samples: 100}, &bytes.Buffer{})
	if err == nil {
		t.Error("expected an error when every candidate fails")
	}
}

func TestFastest(t *testing.T) {
	t.Parallel()
	results := []calibrationResult{
		{Workers: 1, Duration: 30 * time.Millisecond},
		{Workers: 8, Duration: 10 * time.Millisecond},
		{Workers: 16, Duration: 10 * time.Millisecond},
		{Workers: 32, Duration: time.Millisecond, Err: errors.New("failed")},
	}
	if best, ok := fastest(results); !ok || best != 8 {
		t.Errorf("fastest() = (%d, %v), want (8, true)", best, ok)
	}
	if _, ok := fastest(results[3:]); ok {
		t.Error("fastest() over failures only should report false")
	}
}
