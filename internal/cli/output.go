package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tulinakaya/galton/internal/galton"
	"github.com/tulinakaya/galton/internal/orchestration"
	"github.com/tulinakaya/galton/internal/ui"
)

// ResultDocument is the YAML form of a sealed run written by --output.
type ResultDocument struct {
	Generated time.Time      `yaml:"generated"`
	Trials    int            `yaml:"trials"`
	BinCount  int            `yaml:"bin_count"`
	Budget    string         `yaml:"budget"`
	Width     int            `yaml:"width"`
	Duration  string         `yaml:"duration"`
	Sum       int64          `yaml:"sum"`
	Conserved bool           `yaml:"conserved"`
	Bins      []galton.Bin   `yaml:"bins"`
	Stats     *StatsDocument `yaml:"stats,omitempty"`
}

// StatsDocument is the YAML form of galton.Stats.
type StatsDocument struct {
	Mean           float64 `yaml:"mean"`
	StdDev         float64 `yaml:"std_dev"`
	ExpectedMean   float64 `yaml:"expected_mean"`
	ExpectedStdDev float64 `yaml:"expected_std_dev"`
	Peak           int     `yaml:"peak"`
	ChiSquare      float64 `yaml:"chi_square"`
}

// NewResultDocument builds the document for a successful run. Statistics
// are included only when withStats is set.
func NewResultDocument(result orchestration.SimulationResult, withStats bool) ResultDocument {
	doc := ResultDocument{
		Generated: time.Now().UTC().Truncate(time.Second),
		Trials:    result.Params.Trials,
		BinCount:  result.Params.Bins,
		Budget:    result.Params.Budget.String(),
		Width:     result.Width,
		Duration:  result.Duration.String(),
		Sum:       result.Snapshot.Sum,
		Conserved: result.Snapshot.Sum == int64(result.Params.Trials),
		Bins:      result.Snapshot.Bins,
	}
	if withStats {
		st := result.Stats
		doc.Stats = &StatsDocument{
			Mean:           st.Mean,
			StdDev:         st.StdDev,
			ExpectedMean:   st.ExpectedMean,
			ExpectedStdDev: st.ExpectedStdDev,
			Peak:           st.Peak,
			ChiSquare:      st.ChiSquare,
		}
	}
	return doc
}

// WriteResultToFile writes doc as YAML to path, creating parent directories.
func WriteResultToFile(path string, doc ResultDocument) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return enc.Close()
}

// ReadResultFile loads a document written by WriteResultToFile.
func ReadResultFile(path string) (ResultDocument, error) {
	var doc ResultDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("invalid result file %s: %w", path, err)
	}
	return doc, nil
}

// SaveResult writes the result file when path is set and, unless quiet,
// confirms it on out.
func SaveResult(out io.Writer, path string, result orchestration.SimulationResult, withStats, quiet bool) error {
	if path == "" {
		return nil
	}
	if err := WriteResultToFile(path, NewResultDocument(result, withStats)); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
	}
	return nil
}
