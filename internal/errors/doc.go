// Package apperrors defines the structured application error types of the
// integration calculator and maps them onto process exit codes.
//
// Input parse failures, configuration errors and calculation errors each have
// their own type so that the CLI, the TUI and the comparison mode agree on the
// exit status. All wrapping types implement Unwrap so that engine sentinels
// remain reachable through errors.Is.
package apperrors
