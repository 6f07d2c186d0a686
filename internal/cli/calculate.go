package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/tulinakaya/galton/internal/config"
	"github.com/tulinakaya/galton/internal/ui"
)

// PrintExecutionConfig shows what is about to run: trials, bins, budget and
// the pool the trials will be spread over.
func PrintExecutionConfig(cfg config.AppConfig, width int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Dropping %s%d%s balls into %s%d%s bins (%d rows of pins) within %s%s%s.\n",
		ui.ColorMagenta(), cfg.Trials, ui.ColorReset(),
		ui.ColorMagenta(), cfg.Bins, ui.ColorReset(), cfg.Bins-1,
		ui.ColorYellow(), cfg.AwaitTime, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s workers, Go %s%s%s.\n",
		ui.ColorCyan(), width, ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
