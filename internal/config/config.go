// Package config defines the application configuration and parses it from
// command-line flags and GALTON_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/tulinakaya/galton/internal/errors"
)

const (
	// EnvPrefix is the prefix of every environment variable read by the
	// configuration layer.
	EnvPrefix = "GALTON_"

	// DefaultAwaitTime is the time budget applied when none is given.
	DefaultAwaitTime = 30 * time.Second

	// MinAwaitTime is the smallest accepted time budget.
	MinAwaitTime = time.Second
)

// AppConfig holds the parsed application configuration. It is built once by
// ParseConfig and passed by value afterwards.
type AppConfig struct {
	// Trials is the number of balls dropped through the board.
	Trials int
	// Bins is the number of landing slots. Must be even and at least 2.
	Bins int
	// AwaitTime is the global time budget for the whole batch of trials.
	AwaitTime time.Duration

	Verbose   bool
	Details   bool
	Quiet     bool
	NoColor   bool
	TUI       bool
	Histogram bool

	// OutputFile receives the sealed result as YAML when set.
	OutputFile string
	// MetricsFile receives the Prometheus text exposition of the run when set.
	MetricsFile string
	// Completion selects a shell for completion script generation.
	Completion string
}

// Validate checks the invariants the simulator relies on. The simulator
// itself never sees a configuration that fails this check.
func (c AppConfig) Validate() error {
	if c.Completion != "" {
		return nil
	}
	if c.Trials < 1 {
		return apperrors.ValidationError{Field: "trials", Message: "must be greater than or equal to 1"}
	}
	if c.Bins < 2 {
		return apperrors.ValidationError{Field: "bins", Message: "must be greater than or equal to 2"}
	}
	if c.Bins%2 != 0 {
		return apperrors.ValidationError{Field: "bins", Message: "must be even"}
	}
	if c.AwaitTime < MinAwaitTime {
		return apperrors.ValidationError{Field: "await-time", Message: "must be at least 1 second"}
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("--quiet and --tui cannot be combined")
	}
	return nil
}

// secondsValue parses either a bare integer number of seconds or a Go
// duration string ("1m30s").
type secondsValue struct {
	d *time.Duration
}

func (s secondsValue) String() string {
	if s.d == nil {
		return ""
	}
	return s.d.String()
}

func (s secondsValue) Set(v string) error {
	d, err := ParseAwaitTime(v)
	if err != nil {
		return err
	}
	*s.d = d
	return nil
}

// maxAwaitSeconds is the largest whole-second budget a time.Duration holds.
const maxAwaitSeconds = math.MaxInt64 / int64(time.Second)

// ParseAwaitTime parses a time budget given either as whole seconds or as a
// Go duration string. Negative budgets and budgets too large for a
// time.Duration are rejected.
func ParseAwaitTime(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		if secs < 0 || secs > maxAwaitSeconds {
			return 0, invalidDuration(v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, invalidDuration(v)
	}
	return d, nil
}

func invalidDuration(v string) error {
	return fmt.Errorf("invalid duration %q: use seconds (30) or a duration (1m30s)", v)
}

// ParseConfig parses command-line arguments into an AppConfig, applies
// GALTON_* environment overrides for flags not given on the command line, and
// validates the result.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: Command-line arguments without the program name.
//   - errWriter: Destination for usage and parse errors.
//
// Returns:
//   - AppConfig: The validated configuration.
//   - error: flag.ErrHelp when help was requested, or a ConfigError /
//     ValidationError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{AwaitTime: DefaultAwaitTime}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() { printUsage(fs, programName, errWriter) }

	for _, name := range []string{"n", "trials", "numThreads"} {
		fs.IntVar(&cfg.Trials, name, 0, "Number of balls to drop (must be >= 1).")
	}
	for _, name := range []string{"b", "bins", "numBins"} {
		fs.IntVar(&cfg.Bins, name, 0, "Number of bins (must be even and >= 2).")
	}
	for _, name := range []string{"t", "await-time", "awaitTime"} {
		fs.Var(secondsValue{&cfg.AwaitTime}, name, "Time budget for all trials, in seconds or as a duration (default 30s).")
	}
	for _, name := range []string{"v", "verbose"} {
		fs.BoolVar(&cfg.Verbose, name, false, "Enable debug logging.")
	}
	for _, name := range []string{"d", "details"} {
		fs.BoolVar(&cfg.Details, name, false, "Show distribution statistics.")
	}
	for _, name := range []string{"q", "quiet"} {
		fs.BoolVar(&cfg.Quiet, name, false, "Print only the bin lines.")
	}
	for _, name := range []string{"o", "output"} {
		fs.StringVar(&cfg.OutputFile, name, "", "Write the result to a YAML file.")
	}
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Run the interactive dashboard.")
	fs.BoolVar(&cfg.Histogram, "histogram", false, "Draw a histogram of the bins.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to a file.")
	fs.StringVar(&cfg.Completion, "completion", "", "Generate a completion script (bash, zsh, fish).")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("unable to parse command-line options: %v", err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errWriter, "Error: %v\n\n", err)
		fs.Usage()
		return cfg, err
	}
	return cfg, nil
}

func printUsage(fs *flag.FlagSet, programName string, out io.Writer) {
	fmt.Fprintf(out, "Usage: %s --trials N --bins B [--await-time SECONDS] [options]\n\n", programName)
	fmt.Fprintf(out, "Simulates a Galton board: N balls fall through B-1 rows of pins into B bins.\n\n")
	fmt.Fprintf(out, "Options:\n")
	fs.PrintDefaults()
}
