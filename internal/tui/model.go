package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/cli"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/integration"
	"github.com/agbru/quadcalc/internal/orchestration"
)

const (
	fieldLower = iota
	fieldUpper
	fieldSamples
	fieldCount
)

const (
	fieldLabelWidth  = 14
	resultLabelWidth = 17
	progressBarWidth = 30
)

var fieldLabels = [fieldCount]string{"Lower bound", "Upper bound", "Samples"}

// Calculator runs one integration for the form. progress receives
// completed/total work units and may be called from several goroutines.
type Calculator func(ctx context.Context, in cli.ParsedInput, progress integration.ProgressFunc) (cli.Report, error)

// ProgressMsg carries aggregated progress of a running calculation.
type ProgressMsg struct {
	Generation      uint64
	AverageProgress float64
	ETA             time.Duration
}

// ResultMsg is sent when a calculation finishes.
type ResultMsg struct {
	Generation uint64
	Report     cli.Report
	Err        error
}

// ContextCancelledMsg is sent when the parent context is cancelled.
type ContextCancelledMsg struct{}

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	calc       Calculator
	generation uint64
	running    bool
	progress   float64
	eta        time.Duration
	report     *cli.Report
	err        error
	exitCode   int
	quitting   bool
}

// Model is the root bubbletea model: an input form with a result panel.
type Model struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	variant string

	keymap  KeyMap
	help    help.Model
	spinner spinner.Model

	ExecutionState

	// ref survives model copies so bridge goroutines can reach the program.
	ref *programRef
}

// NewModel builds the form. preset values are filled into the inputs.
func NewModel(parent context.Context, calc Calculator, variant string, preset cli.Input) Model {
	ctx, cancel := context.WithCancel(parent)

	values := [fieldCount]string{preset.Lower, preset.Upper, preset.Samples}
	placeholders := [fieldCount]string{"-1", "2", "1000000"}

	m := Model{
		variant: variant,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(runningStyle)),
		ExecutionState: ExecutionState{
			ctx:    ctx,
			cancel: cancel,
			calc:   calc,
		},
		ref: &programRef{},
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = "› "
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		in.SetValue(values[i])
		m.inputs[i] = in
	}
	m.inputs[fieldLower].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, watchContextCmd(m.ctx))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && m.running {
			m.progress = msg.AverageProgress
			m.eta = msg.ETA
		}
		return m, nil

	case ResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.running = false
		if msg.Err != nil {
			m.setError(msg.Err)
			return m, nil
		}
		report := msg.Report
		m.report = &report
		m.err = nil
		m.exitCode = apperrors.ExitSuccess
		return m, nil

	case ContextCancelledMsg:
		if m.quitting {
			return m, nil
		}
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Next):
		return m, m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keymap.Prev):
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// submit parses the form and starts a calculation. A second submit while one
// is running is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.running {
		return m, nil
	}
	parsed, err := cli.ParseInput(cli.Input{
		Lower:   m.inputs[fieldLower].Value(),
		Upper:   m.inputs[fieldUpper].Value(),
		Samples: m.inputs[fieldSamples].Value(),
	})
	if err != nil {
		m.setError(err)
		return m, nil
	}

	m.generation++
	m.running = true
	m.progress = 0
	m.eta = 0
	m.report = nil
	m.err = nil
	return m, tea.Batch(
		startCalculationCmd(m.ref, m.ctx, m.calc, parsed, m.generation),
		m.spinner.Tick,
	)
}

func (m *Model) setError(err error) {
	m.err = err
	m.report = nil
	m.exitCode = apperrors.ExitCodeFor(err)
}

// ExitCode returns the exit code of the last completed action.
func (m Model) ExitCode() int {
	return m.exitCode
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("quadcalc"))
	if m.variant != "" {
		b.WriteString(" " + variantStyle.Render("variant "+m.variant))
	}
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if status := m.statusView(); status != "" {
		b.WriteString(panelStyle.Render(status))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m Model) statusView() string {
	switch {
	case m.running:
		return m.spinner.View() + runningStyle.Render(" Integrating ") +
			format.FormatProgressBarWithETA(m.progress, m.eta, progressBarWidth)
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error (exit %d): %v", m.exitCode, m.err))
	case m.report != nil:
		lines := cli.FormatReportLines(*m.report)
		rows := make([]string, 0, len(lines)+1)
		for _, l := range lines {
			value := resultValueStyle.Render(l[1])
			if l[0] == "Within bound" {
				value = successStyle.Render(l[1])
				if l[1] != "true" {
					value = warningStyle.Render(l[1])
				}
			}
			rows = append(rows, resultLabelStyle.Render(l[0])+value)
		}
		rows = append(rows, resultLabelStyle.Render("Duration")+format.FormatExecutionDuration(m.report.Duration))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	return ""
}

// Run starts the form and blocks until the user quits. The returned code is
// that of the last calculation or input error, or ExitErrorCanceled when ctx
// is cancelled.
func Run(ctx context.Context, calc Calculator, variant string, preset cli.Input) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, calc, variant, preset)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startCalculationCmd returns a tea.Cmd that runs calc and relays its
// progress through a TUIProgressReporter.
func startCalculationCmd(ref *programRef, ctx context.Context, calc Calculator, in cli.ParsedInput, gen uint64) tea.Cmd {
	return func() tea.Msg {
		progressChan := make(chan orchestration.ProgressUpdate, orchestration.ProgressBufferMultiplier)
		reporter := &TUIProgressReporter{ref: ref, generation: gen}

		var wg sync.WaitGroup
		wg.Add(1)
		go reporter.DisplayProgress(&wg, progressChan, 1, io.Discard)

		report, err := calc(ctx, in, func(done, total int) {
			if total <= 0 {
				return
			}
			select {
			case progressChan <- orchestration.ProgressUpdate{Value: float64(done) / float64(total)}:
			default:
			}
		})
		close(progressChan)
		wg.Wait()

		return ResultMsg{Generation: gen, Report: report, Err: err}
	}
}

// watchContextCmd waits for ctx to end.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{}
	}
}
