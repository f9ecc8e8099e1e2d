package apperrors

import (
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape sequences used when printing errors.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleCalculationError prints err to out and returns the exit code for it.
// Errors with no dedicated code are reported as calculation failures.
//
// Parameters:
//   - err: The error returned by the calculation, or nil.
//   - duration: Time spent before the failure; omitted from the message when zero.
//   - out: Destination of the message.
//   - colors: Escape sequences for the message; nil prints plain text.
//
// Returns:
//   - int: The exit code.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration.Round(time.Microsecond))
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sCalculation canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return code
	case ExitErrorLowerBound, ExitErrorUpperBound, ExitErrorSampleCount:
		fmt.Fprintf(out, "%sInput error: %v%s\n", colors.Red(), err, colors.Reset())
		return code
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), err, colors.Reset())
		return code
	case ExitErrorGeneric:
		code = ExitErrorCalculation
	}
	fmt.Fprintf(out, "%sCalculation error%s: %v%s\n", colors.Red(), suffix, err, colors.Reset())
	return code
}
