// Package format holds the display helpers shared by the CLI and the TUI:
// durations, sample counts, progress bars and ETA estimates.
package format
