package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tulinakaya/galton/internal/ui"
)

func TestWriteResultToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	testCases := []struct {
		name       string
		outputFile string
		withStats  bool
	}{
		{"flat file", filepath.Join(tmpDir, "result.yaml"), false},
		{"nested directory", filepath.Join(tmpDir, "nested", "dir", "result.yaml"), false},
		{"with stats", filepath.Join(tmpDir, "stats.yaml"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc := NewResultDocument(sampleResult(), tc.withStats)
			if err := WriteResultToFile(tc.outputFile, doc); err != nil {
				t.Fatalf("WriteResultToFile: %v", err)
			}

			got, err := ReadResultFile(tc.outputFile)
			if err != nil {
				t.Fatalf("ReadResultFile: %v", err)
			}
			if got.Trials != 10 || got.BinCount != 4 || got.Sum != 10 || !got.Conserved {
				t.Errorf("document header = %+v", got)
			}
			if len(got.Bins) != 4 || got.Bins[1].Index != 1 || got.Bins[1].Count != 5 {
				t.Errorf("bins = %+v", got.Bins)
			}
			if (got.Stats != nil) != tc.withStats {
				t.Errorf("stats present = %v, want %v", got.Stats != nil, tc.withStats)
			}
			if tc.withStats && got.Stats.Peak != 1 {
				t.Errorf("stats.peak = %d, want 1", got.Stats.Peak)
			}
		})
	}
}

func TestWriteResultToFile_YAMLKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "r.yaml")
	if err := WriteResultToFile(path, NewResultDocument(sampleResult(), false)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"trials: 10", "bin_count: 4", "conserved: true", "- index: 0\n    count: 2"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("file should contain %q, got:\n%s", want, data)
		}
	}
}

func TestWriteResultToFile_EmptyPath(t *testing.T) {
	t.Parallel()
	if err := WriteResultToFile("", ResultDocument{}); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
}

func TestReadResultFile_Invalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("trials: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadResultFile(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveResult(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)
	tmpDir := t.TempDir()

	t.Run("announces the file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(tmpDir, "a.yaml")
		if err := SaveResult(&buf, path, sampleResult(), false, false); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output file should exist: %v", err)
		}
		if !strings.Contains(buf.String(), "Result saved to: "+path) {
			t.Errorf("should show file save message, got %q", buf.String())
		}
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		if err := SaveResult(&buf, filepath.Join(tmpDir, "b.yaml"), sampleResult(), false, true); err != nil {
			t.Fatal(err)
		}
		if buf.Len() != 0 {
			t.Errorf("quiet mode should print nothing, got %q", buf.String())
		}
	})
}
