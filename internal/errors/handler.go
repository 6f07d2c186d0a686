package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing error
// messages. A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleSimulationError prints a user-facing message for err and returns the
// exit code matching its class. The duration is the time the run spent before
// failing; it is printed when non-zero.
func HandleSimulationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	var timeoutErr TimeoutError
	var cancelErr CancellationError
	var conservationErr ConservationError

	switch {
	case errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sMission aborted: the simulation did not finish within %s.%s\n",
			red, timeoutErr.Limit, reset)
		fmt.Fprintf(out, "You can change the budget with %s--await-time <seconds>%s.\n", yellow, reset)
	case errors.As(err, &cancelErr):
		fmt.Fprintf(out, "%sSimulation canceled before completion", yellow)
		if duration > 0 {
			fmt.Fprintf(out, " after %s", duration.Round(time.Millisecond))
		}
		fmt.Fprintf(out, ".%s\n", reset)
	case errors.As(err, &conservationErr):
		fmt.Fprintf(out, "%sCRITICAL: %v.%s\n", red, conservationErr, reset)
	default:
		fmt.Fprintf(out, "%sSimulation failed: %v%s\n", red, err, reset)
	}
	return ExitCodeFor(err)
}
