// Package report writes the per-image and run-wide analysis outputs.
//
// Every file is written to a temporary name in the destination directory
// and renamed into place, so readers only ever see complete files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"semgrain/internal/grain"
)

// Output file naming.
const (
	ResultsSuffix      = "_results.json"
	OverlaySuffix      = "_visualized.jpg"
	HistogramSuffix    = "_histogram.png"
	SummaryFileName    = "analysis_summary.json"
	OverlayJPEGQuality = 95
)

// ResultsPath returns the per-image grain list path for base.
func ResultsPath(dir, base string) string {
	return filepath.Join(dir, base+ResultsSuffix)
}

// OverlayPath returns the per-image visualization path for base.
func OverlayPath(dir, base string) string {
	return filepath.Join(dir, base+OverlaySuffix)
}

// HistogramPath returns the per-image histogram path for base.
func HistogramPath(dir, base string) string {
	return filepath.Join(dir, base+HistogramSuffix)
}

// SummaryPath returns the run-wide summary path.
func SummaryPath(dir string) string {
	return filepath.Join(dir, SummaryFileName)
}

// WriteGrains writes grains as an indented JSON array to <base>_results.json.
func WriteGrains(dir, base string, grains []grain.Grain) (string, error) {
	if grains == nil {
		grains = []grain.Grain{}
	}
	path := ResultsPath(dir, base)
	if err := WriteJSON(path, grains); err != nil {
		return "", err
	}
	return path, nil
}

// ReadGrains loads a grain list previously written by WriteGrains.
func ReadGrains(path string) ([]grain.Grain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var grains []grain.Grain
	if err := json.Unmarshal(data, &grains); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return grains, nil
}

// WriteSummary writes the run-wide summary to analysis_summary.json.
// v is usually a *batch.RunSummary.
func WriteSummary(dir string, v any) (string, error) {
	path := SummaryPath(dir)
	if err := WriteJSON(path, v); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON marshals v with two-space indentation and writes it atomically.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	return writeAtomic(path, func(tmp string) error {
		return os.WriteFile(tmp, data, 0644)
	})
}

// writeAtomic calls write with a temporary path next to path, then renames
// the temporary file over path. The temporary file is removed on failure.
func writeAtomic(path string, write func(tmp string) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filepath.Base(path), err)
	}
	tmp := f.Name()
	f.Close()

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
