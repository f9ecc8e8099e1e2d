// Package ui holds the colour themes shared by the CLI and the TUI. The CLI
// reads ANSI escape codes through the Color* helpers; the TUI reads lipgloss
// colours from the TUITheme.
package ui
