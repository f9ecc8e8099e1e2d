package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/quadcalc/internal/cli"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/orchestration"
)

func stubCalculator(report cli.Report, err error) Calculator {
	return func(_ context.Context, in cli.ParsedInput, progress integration.ProgressFunc) (cli.Report, error) {
		progress(1, 2)
		progress(2, 2)
		report.Lower, report.Upper, report.Samples = in.Lower, in.Upper, in.Samples
		return report, err
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewModel_Presets(t *testing.T) {
	m := NewModel(context.Background(), stubCalculator(cli.Report{}, nil), "B", cli.Input{Lower: "-1", Upper: "2"})
	defer m.cancel()

	if got := m.inputs[fieldLower].Value(); got != "-1" {
		t.Errorf("lower = %q, want -1", got)
	}
	if got := m.inputs[fieldUpper].Value(); got != "2" {
		t.Errorf("upper = %q, want 2", got)
	}
	if got := m.inputs[fieldSamples].Value(); got != "" {
		t.Errorf("samples = %q, want empty", got)
	}
	if m.focus != fieldLower || !m.inputs[fieldLower].Focused() {
		t.Error("expected the lower bound field to be focused")
	}
}

func TestModel_TabNavigation(t *testing.T) {
	m := NewModel(context.Background(), nil, "A", cli.Input{})
	defer m.cancel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldUpper {
		t.Fatalf("focus after tab = %d, want %d", m.focus, fieldUpper)
	}
	if m.inputs[fieldLower].Focused() {
		t.Error("lower bound should be blurred after tab")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldLower {
		t.Errorf("focus should wrap to the first field, got %d", m.focus)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldSamples {
		t.Errorf("focus after shift+tab = %d, want %d", m.focus, fieldSamples)
	}
}

func TestModel_TypingFillsFocusedField(t *testing.T) {
	m := NewModel(context.Background(), nil, "A", cli.Input{})
	defer m.cancel()

	m = typeText(t, m, "0.5")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "3")

	if got := m.inputs[fieldLower].Value(); got != "0.5" {
		t.Errorf("lower = %q, want 0.5", got)
	}
	if got := m.inputs[fieldUpper].Value(); got != "3" {
		t.Errorf("upper = %q, want 3", got)
	}
}

func TestModel_SubmitInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		preset   cli.Input
		wantCode int
	}{
		{"bad lower bound", cli.Input{Lower: "abc", Upper: "1", Samples: "10"}, apperrors.ExitErrorLowerBound},
		{"bad upper bound", cli.Input{Lower: "0", Upper: "", Samples: "10"}, apperrors.ExitErrorUpperBound},
		{"bad samples", cli.Input{Lower: "0", Upper: "1", Samples: "-3"}, apperrors.ExitErrorSampleCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(context.Background(), nil, "A", tt.preset)
			defer m.cancel()

			m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			if cmd != nil {
				t.Error("invalid input should not start a calculation")
			}
			if m.running {
				t.Error("model should not be running")
			}
			if m.ExitCode() != tt.wantCode {
				t.Errorf("exit code = %d, want %d", m.ExitCode(), tt.wantCode)
			}
			if !strings.Contains(m.View(), "Error (exit") {
				t.Errorf("view should show the error panel:\n%s", m.View())
			}
		})
	}
}

func TestModel_SubmitStartsCalculation(t *testing.T) {
	m := NewModel(context.Background(), stubCalculator(cli.Report{Value: 0.5}, nil), "A", cli.Input{Lower: "0", Upper: "1", Samples: "100"})
	defer m.cancel()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if !m.running || m.generation != 1 {
		t.Fatalf("running = %v, generation = %d; want true, 1", m.running, m.generation)
	}
	if !strings.Contains(m.View(), "Integrating") {
		t.Errorf("view should show progress while running:\n%s", m.View())
	}

	// A second submit while running is ignored.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.generation != 1 {
		t.Error("submit while running should be ignored")
	}
}

func TestStartCalculationCmd(t *testing.T) {
	calc := stubCalculator(cli.Report{Value: 0.25}, nil)
	in := cli.ParsedInput{Lower: 0, Upper: 1, Samples: 100}

	msg := startCalculationCmd(&programRef{}, context.Background(), calc, in, 7)()
	res, ok := msg.(ResultMsg)
	if !ok {
		t.Fatalf("message is %T, want ResultMsg", msg)
	}
	if res.Generation != 7 || res.Err != nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Report.Value != 0.25 || res.Report.Samples != 100 {
		t.Errorf("report = %+v", res.Report)
	}
}

func TestModel_ResultMessages(t *testing.T) {
	m := NewModel(context.Background(), nil, "B", cli.Input{Lower: "0", Upper: "1", Samples: "100"})
	defer m.cancel()
	m.generation = 2
	m.running = true

	// Stale results are dropped.
	m, _ = update(t, m, ResultMsg{Generation: 1, Err: errors.New("stale")})
	if !m.running || m.err != nil {
		t.Fatal("stale result should be ignored")
	}

	m, _ = update(t, m, ProgressMsg{Generation: 2, AverageProgress: 0.5, ETA: time.Second})
	if m.progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", m.progress)
	}

	est := &integration.Estimate{Value: 0.5, Reference: 0.5, WithinBound: true}
	m, _ = update(t, m, ResultMsg{Generation: 2, Report: cli.Report{Value: 0.5, Estimate: est}})
	if m.running {
		t.Error("model should stop running after the result")
	}
	if m.ExitCode() != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want 0", m.ExitCode())
	}
	view := m.View()
	for _, want := range []string{"Integral value", "Reference value", "Error bound", "Within bound"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_CalculationError(t *testing.T) {
	m := NewModel(context.Background(), nil, "A", cli.Input{})
	defer m.cancel()
	m.generation = 1
	m.running = true

	err := apperrors.CalculationError{Cause: integration.ErrSampleCountExceeded}
	m, _ = update(t, m, ResultMsg{Generation: 1, Err: err})
	if m.ExitCode() != apperrors.ExitErrorCalculation {
		t.Errorf("exit code = %d, want %d", m.ExitCode(), apperrors.ExitErrorCalculation)
	}
	if m.report != nil {
		t.Error("report should be cleared on error")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(msg.String(), func(t *testing.T) {
			m := NewModel(context.Background(), nil, "A", cli.Input{})

			m, cmd := update(t, m, msg)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.ctx.Err() == nil {
				t.Error("quitting should cancel the model context")
			}

			// The cancellation echo must not turn a normal quit into exit 130.
			m, _ = update(t, m, ContextCancelledMsg{})
			if m.ExitCode() != apperrors.ExitSuccess {
				t.Errorf("exit code = %d, want 0", m.ExitCode())
			}
		})
	}
}

func TestModel_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewModel(parent, nil, "A", cli.Input{})
	defer m.cancel()

	cancel()
	msg := watchContextCmd(m.ctx)()
	m, cmd := update(t, m, msg)
	if m.ExitCode() != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", m.ExitCode(), apperrors.ExitErrorCanceled)
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestTUIProgressReporter_NoProgram(t *testing.T) {
	reporter := &TUIProgressReporter{ref: &programRef{}}
	ch := make(chan orchestration.ProgressUpdate, 2)
	ch <- orchestration.ProgressUpdate{Value: 0.5}
	ch <- orchestration.ProgressUpdate{Value: 1}
	close(ch)

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		wg.Add(1)
		reporter.DisplayProgress(&wg, ch, 1, nil)
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("DisplayProgress did not return after the channel closed")
	}
}
