package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/ui"
)

// Style variables for the form.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle        lipgloss.Style
	titleStyle        lipgloss.Style
	variantStyle      lipgloss.Style
	labelStyle        lipgloss.Style
	focusedLabelStyle lipgloss.Style
	resultLabelStyle  lipgloss.Style
	resultValueStyle  lipgloss.Style
	runningStyle      lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	variantStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Width(fieldLabelWidth)

	focusedLabelStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Width(fieldLabelWidth)

	resultLabelStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Width(resultLabelWidth)

	resultValueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	runningStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	successStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)
}
