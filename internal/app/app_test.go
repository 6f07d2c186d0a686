package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tulinakaya/galton/internal/cli"
	apperrors "github.com/tulinakaya/galton/internal/errors"
	"github.com/tulinakaya/galton/internal/galton"
)

// stubRunner returns a fixed error without running anything.
type stubRunner struct {
	err   error
	width int
}

func (s stubRunner) Run(context.Context, galton.Params, chan<- galton.ProgressUpdate) (*galton.BinStore, error) {
	return nil, s.err
}

func (s stubRunner) Width() int { return s.width }

func newApp(t *testing.T, args []string, opts ...AppOption) *Application {
	t.Helper()
	var stderr bytes.Buffer
	a, err := New(append([]string{"galton"}, args...), &stderr, opts...)
	if err != nil {
		t.Fatalf("New(%v): %v\nstderr: %s", args, err, stderr.String())
	}
	return a
}

func TestNew_ParsesConfig(t *testing.T) {
	t.Parallel()
	a := newApp(t, []string{"-n", "100", "-b", "6", "-t", "5"})
	if a.Config.Trials != 100 || a.Config.Bins != 6 || a.Config.AwaitTime != 5*time.Second {
		t.Errorf("Config = %+v", a.Config)
	}
	if a.Runner != nil {
		t.Error("New should leave the runner to Run")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"zero trials", []string{"-n", "0", "-b", "10"}},
		{"odd bins", []string{"-n", "10", "-b", "7"}},
		{"short budget", []string{"-n", "10", "-b", "10", "-t", "0"}},
		{"unknown flag", []string{"--algo", "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var stderr bytes.Buffer
			_, err := New(append([]string{"galton"}, tt.args...), &stderr)
			if err == nil {
				t.Fatal("expected an error")
			}
			if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d, want %d (%v)", code, apperrors.ExitErrorConfig, err)
			}
		})
	}
}

func TestNew_Help(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	_, err := New([]string{"galton", "--help"}, &stderr)
	if !IsHelpError(err) {
		t.Fatalf("expected a help error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Errorf("usage not printed: %s", stderr.String())
	}
}

func TestRun_Report(t *testing.T) {
	a := newApp(t, []string{"-n", "10000", "-b", "10", "--no-color"})
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, output:\n%s", code, out.String())
	}
	report := out.String()
	for _, want := range []string{
		"--- Execution Configuration ---",
		"0\t", "9\t",
		"Number of requested trials: 10000",
		"Sum of bin values: 10000",
		"Nice work! Both of them are equal",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report should contain %q, got:\n%s", want, report)
		}
	}
}

func TestRun_Quiet(t *testing.T) {
	a := newApp(t, []string{"-n", "50", "-b", "4", "-q"})
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("quiet output should be exactly the 4 bin lines, got:\n%s", out.String())
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, string(rune('0'+i))+"\t") {
			t.Errorf("line %d = %q", i, line)
		}
	}
}

func TestRun_WritesOutputAndMetrics(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "result.yaml")
	metricsFile := filepath.Join(dir, "galton.prom")

	a := newApp(t, []string{"-n", "200", "-b", "8", "-q", "-d", "-o", outFile, "--metrics-file", metricsFile})
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}

	doc, err := cli.ReadResultFile(outFile)
	if err != nil {
		t.Fatalf("ReadResultFile: %v", err)
	}
	if doc.Trials != 200 || doc.Sum != 200 || len(doc.Bins) != 8 || !doc.Conserved {
		t.Errorf("result document = %+v", doc)
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{`galton_runs_total{outcome="success"} 1`, "galton_trials_total 200", `galton_bin_count{bin="7"}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics should contain %q, got:\n%s", want, data)
		}
	}
}

func TestRun_Timeout(t *testing.T) {
	runner := stubRunner{width: 2, err: apperrors.TimeoutError{Operation: galton.OperationName, Limit: time.Second}}
	dir := t.TempDir()
	outFile := filepath.Join(dir, "result.yaml")
	metricsFile := filepath.Join(dir, "galton.prom")
	a := newApp(t, []string{"-n", "10", "-b", "2", "--no-color", "-o", outFile, "--metrics-file", metricsFile}, WithRunner(runner))

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if strings.Contains(out.String(), "Number of requested trials") {
		t.Error("a timed-out run must not print a report")
	}
	if !strings.Contains(out.String(), "--await-time") {
		t.Errorf("timeout message should suggest --await-time, got:\n%s", out.String())
	}
	if _, err := os.Stat(outFile); !os.IsNotExist(err) {
		t.Error("no result file should be written for a timed-out run")
	}
	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), `galton_runs_total{outcome="timeout"} 1`) {
		t.Errorf("metrics should count the timeout, got:\n%s", data)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := newApp(t, []string{"-n", "1000", "-b", "10", "-q"})
	var out bytes.Buffer
	if code := a.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRun_Completion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell string
		code  int
	}{
		{"bash", apperrors.ExitSuccess},
		{"zsh", apperrors.ExitSuccess},
		{"fish", apperrors.ExitSuccess},
		{"powershell", apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var stderr, out bytes.Buffer
			a, err := New([]string{"galton", "--completion", tt.shell}, &stderr)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if code := a.Run(context.Background(), &out); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if tt.code == apperrors.ExitSuccess && !strings.Contains(out.String(), "galton") {
				t.Errorf("%s script should mention galton", tt.shell)
			}
		})
	}
}

func TestRunOutcome(t *testing.T) {
	t.Parallel()
	ok := orchestrationResult(4, 4)
	if got := runOutcome(ok); got != "success" {
		t.Errorf("runOutcome(conserved) = %q", got)
	}
	if got := runOutcome(orchestrationResult(4, 3)); got != "mismatch" {
		t.Errorf("runOutcome(unbalanced) = %q", got)
	}
	ok.Err = apperrors.CancellationError{Operation: galton.OperationName}
	if got := runOutcome(ok); got != "canceled" {
		t.Errorf("runOutcome(canceled) = %q", got)
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()
	for args, want := range map[string]bool{
		"--version":      true,
		"-V":             true,
		"-n 10 -b 2":     false,
		"-n 10 -version": true,
	} {
		if got := HasVersionFlag(strings.Fields(args)); got != want {
			t.Errorf("HasVersionFlag(%q) = %v, want %v", args, got, want)
		}
	}
	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.HasPrefix(out.String(), "galton "+Version) {
		t.Errorf("PrintVersion = %q", out.String())
	}
}
