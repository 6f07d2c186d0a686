package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tulinakaya/galton/internal/config"
)

func TestPrintExecutionConfig(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := config.AppConfig{Trials: 10000, Bins: 10, AwaitTime: 30 * time.Second}

	PrintExecutionConfig(cfg, 8, &buf)

	output := buf.String()
	for _, want := range []string{"Execution Configuration", "10000", "9 rows", "30s", "8", "Starting Execution"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got:\n%s", want, output)
		}
	}
}
