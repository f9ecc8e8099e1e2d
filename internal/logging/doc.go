// Package logging provides the structured logging interface of the integration
// calculator. Components log through Logger so that the zerolog backend used
// by the CLI can be swapped for the standard library logger in tests or
// embedded use.
package logging
