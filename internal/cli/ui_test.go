package cli

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
	"github.com/golang/mock/gomock"

	"github.com/agbru/quadcalc/internal/cli/mocks"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/ui"
)

// useNoColor switches to the colourless theme for the duration of a test.
// Callers must not run in parallel.
func useNoColor(t *testing.T) {
	t.Helper()
	previous := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(previous) })
}

// stubSpinner replaces newSpinner for the duration of a test.
func stubSpinner(t *testing.T, s Spinner) {
	t.Helper()
	original := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return s }
	t.Cleanup(func() { newSpinner = original })
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	rs := &realSpinner{spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))}

	rs.Start()
	rs.UpdateSuffix(" integrating")
	rs.Stop()
	if rs.s.Suffix != " integrating" {
		t.Errorf("suffix = %q", rs.s.Suffix)
	}
}

func TestDisplayProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSpinner := mocks.NewMockSpinner(ctrl)
	stubSpinner(t, mockSpinner)

	var suffixes []string
	mockSpinner.EXPECT().Start()
	mockSpinner.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
		suffixes = append(suffixes, s)
	}).AnyTimes()
	mockSpinner.EXPECT().Stop()

	progressChan := make(chan orchestration.ProgressUpdate, 2)
	progressChan <- orchestration.ProgressUpdate{JobIndex: 0, Value: 0.5}
	progressChan <- orchestration.ProgressUpdate{JobIndex: 0, Value: 1}
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 1, io.Discard)
	wg.Wait()

	if len(suffixes) == 0 {
		t.Fatal("expected progress suffix updates")
	}
	if last := suffixes[len(suffixes)-1]; !strings.Contains(last, "100.0%") {
		t.Errorf("final suffix %q should show completion", last)
	}
}

func TestDisplayProgress_ZeroJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	stubSpinner(t, mocks.NewMockSpinner(ctrl)) // no calls expected

	progressChan := make(chan orchestration.ProgressUpdate)
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}

func TestCLIProgressReporter_MultiJobLabel(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSpinner := mocks.NewMockSpinner(ctrl)
	stubSpinner(t, mockSpinner)

	var first string
	mockSpinner.EXPECT().UpdateSuffix(gomock.Any()).Do(func(s string) {
		if first == "" {
			first = s
		}
	}).AnyTimes()
	mockSpinner.EXPECT().Start()
	mockSpinner.EXPECT().Stop()

	progressChan := make(chan orchestration.ProgressUpdate)
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	CLIProgressReporter{}.DisplayProgress(&wg, progressChan, 3, io.Discard)
	wg.Wait()

	if !strings.Contains(first, "3 strategies") {
		t.Errorf("suffix %q should name the number of strategies", first)
	}
}
