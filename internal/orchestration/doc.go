// Package orchestration runs one integration request through several
// execution strategies concurrently and compares the outcomes. It depends on
// the presentation layer only through the ProgressReporter, ResultPresenter
// and ErrorHandler interfaces.
package orchestration
