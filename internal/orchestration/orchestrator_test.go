package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integration"
)

// MockResultPresenter records what it was asked to present.
type MockResultPresenter struct {
	tableCalls int
	presented  *IntegrationResult
}

func (m *MockResultPresenter) PresentComparisonTable(results []IntegrationResult, out io.Writer) {
	m.tableCalls++
}

func (m *MockResultPresenter) PresentResult(result IntegrationResult, opts PresentationOptions, out io.Writer) {
	m.presented = &result
}

type mockErrorHandler struct{ code int }

func (m mockErrorHandler) HandleError(err error, duration time.Duration, out io.Writer) int {
	return m.code
}

// funcJob adapts a function to Job.
type funcJob struct {
	name string
	run  func(ctx context.Context, req Request, progress integration.ProgressFunc) (float64, error)
}

func (j funcJob) Name() string { return j.name }

func (j funcJob) Run(ctx context.Context, req Request, progress integration.ProgressFunc) (float64, error) {
	return j.run(ctx, req, progress)
}

func square(x float64) float64 { return x * x }

func TestExecuteIntegrations_ComparisonJobs(t *testing.T) {
	t.Parallel()

	jobs := ComparisonJobs(integration.VariantMidpoint.Options())
	req := Request{Integrand: square, Lower: 0, Upper: 1, Samples: 100_000}
	results := ExecuteIntegrations(context.Background(), jobs, req, NullProgressReporter{}, io.Discard)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, name := range []string{JobSequential, JobParallelFold, JobParallelMutex} {
		if results[i].Name != name {
			t.Errorf("results[%d].Name = %s, want %s", i, results[i].Name, name)
		}
		if results[i].Err != nil {
			t.Fatalf("%s: unexpected error: %v", name, results[i].Err)
		}
		if math.Abs(results[i].Value-1.0/3) > 1e-6 {
			t.Errorf("%s: value = %v, want about 1/3", name, results[i].Value)
		}
	}
	if results[0].Value != results[1].Value {
		t.Errorf("sequential %v and fold %v should be bit-identical", results[0].Value, results[1].Value)
	}
	if math.Abs(results[1].Value-results[2].Value) > 1e-12 {
		t.Errorf("fold %v and mutex %v differ", results[1].Value, results[2].Value)
	}
}

func TestExecuteIntegrations_Failures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"inverted bounds", Request{Integrand: square, Lower: 2, Upper: 1, Samples: 10}, integration.ErrInvalidBounds},
		{"zero samples", Request{Integrand: square, Lower: 0, Upper: 1, Samples: 0}, integration.ErrNoSamples},
		{"too many samples", Request{Integrand: square, Lower: 0, Upper: 1, Samples: integration.DefaultMaxSamples + 1}, integration.ErrSampleCountExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			results := ExecuteIntegrations(context.Background(), ComparisonJobs(integration.DefaultOptions()), tt.req, NullProgressReporter{}, io.Discard)
			for _, res := range results {
				if !errors.Is(res.Err, tt.wantErr) {
					t.Errorf("%s: error = %v, want %v", res.Name, res.Err, tt.wantErr)
				}
			}
		})
	}
}

func TestExecuteIntegrations_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	job := funcJob{name: "never", run: func(context.Context, Request, integration.ProgressFunc) (float64, error) {
		ran = true
		return 1, nil
	}}
	results := ExecuteIntegrations(ctx, []Job{job}, Request{}, NullProgressReporter{}, io.Discard)
	if ran {
		t.Error("job should not run on a canceled context")
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", results[0].Err)
	}
}

func TestExecuteIntegrations_ReportsCompletion(t *testing.T) {
	t.Parallel()

	job := funcJob{name: "one", run: func(context.Context, Request, integration.ProgressFunc) (float64, error) {
		return 1, nil
	}}

	var last ProgressUpdate
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, _ int, _ io.Writer) {
		defer wg.Done()
		for u := range ch {
			last = u
		}
	})
	ExecuteIntegrations(context.Background(), []Job{job}, Request{}, reporter, io.Discard)
	if last.Value != 1 {
		t.Errorf("last progress = %v, want 1", last.Value)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []IntegrationResult
		expectedStatus int
		wantPresented  string
	}{
		{
			name: "All success",
			results: []IntegrationResult{
				{Name: "A", Value: 0.5, Duration: 2 * time.Millisecond},
				{Name: "B", Value: 0.5, Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "B",
		},
		{
			name: "Within tolerance",
			results: []IntegrationResult{
				{Name: "A", Value: 0.5},
				{Name: "B", Value: 0.5 + 1e-12},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "A",
		},
		{
			name: "Relative tolerance for large values",
			results: []IntegrationResult{
				{Name: "A", Value: 1e6},
				{Name: "B", Value: 1e6 + 1e-4},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "A",
		},
		{
			name: "Mismatch",
			results: []IntegrationResult{
				{Name: "A", Value: 0.5},
				{Name: "B", Value: 0.6},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "NaN disagrees with a number",
			results: []IntegrationResult{
				{Name: "A", Value: 0.5},
				{Name: "B", Value: math.NaN()},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []IntegrationResult{
				{Name: "A", Err: errors.New("fail")},
				{Name: "B", Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorCalculation,
		},
		{
			name: "Mixed success/failure",
			results: []IntegrationResult{
				{Name: "A", Err: errors.New("fail")},
				{Name: "B", Value: 0.5, Duration: time.Second},
			},
			expectedStatus: apperrors.ExitSuccess,
			wantPresented:  "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &MockResultPresenter{}
			var out bytes.Buffer
			status := AnalyzeComparisonResults(tt.results, 1e-9, PresentationOptions{}, presenter, mockErrorHandler{code: apperrors.ExitErrorCalculation}, &out)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if presenter.tableCalls != 1 {
				t.Errorf("comparison table presented %d times, want 1", presenter.tableCalls)
			}
			if tt.wantPresented == "" {
				if presenter.presented != nil {
					t.Errorf("unexpected result presented: %+v", presenter.presented)
				}
				return
			}
			if presenter.presented == nil || presenter.presented.Name != tt.wantPresented {
				t.Errorf("presented %+v, want %s", presenter.presented, tt.wantPresented)
			}
			if !strings.Contains(out.String(), "Success") {
				t.Errorf("output %q should report success", out.String())
			}
		})
	}
}

func TestAnalyzeComparisonResults_SortsSuccessesFirst(t *testing.T) {
	t.Parallel()
	results := []IntegrationResult{
		{Name: "failed", Err: errors.New("fail")},
		{Name: "slow", Value: 1, Duration: time.Second},
		{Name: "fast", Value: 1, Duration: time.Millisecond},
	}
	AnalyzeComparisonResults(results, 1e-9, PresentationOptions{}, &MockResultPresenter{}, mockErrorHandler{}, io.Discard)

	want := []string{"fast", "slow", "failed"}
	for i, name := range want {
		if results[i].Name != name {
			t.Errorf("results[%d] = %s, want %s", i, results[i].Name, name)
		}
	}
}
