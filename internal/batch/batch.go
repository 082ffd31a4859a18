// Package batch drives grain analysis over a directory of micrographs.
//
// Images are processed one at a time. A failure in one image is recorded in
// the run summary and never stops the run; only setup problems (missing
// input directory, unwritable output directory, bad parameters) are fatal.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"semgrain/internal/grain"
	"semgrain/internal/micrograph"
	"semgrain/internal/report"

	"github.com/cyclopcam/logs"
)

var (
	// ErrInputDir means the input directory is missing or unreadable.
	ErrInputDir = errors.New("input directory not readable")

	// ErrPipeline wraps a panic recovered while analyzing one image.
	ErrPipeline = errors.New("pipeline failure")
)

// ListImages returns the supported image files directly inside dir, sorted
// by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputDir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !micrograph.IsSupportedFormat(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Runner processes images with one Analyzer and one set of Params.
type Runner struct {
	Analyzer  grain.Analyzer
	Params    grain.Params
	OutputDir string
	Log       logs.Log

	// Histograms also writes <base>_histogram.png for every image.
	Histograms bool
}

// Run analyzes every supported image in inputDir, writes the per-image
// outputs and analysis_summary.json to OutputDir, and returns the summary.
func (r *Runner) Run(inputDir string) (*RunSummary, error) {
	if r.Analyzer == nil {
		return nil, errors.New("runner has no analyzer")
	}
	if r.Log == nil {
		return nil, errors.New("runner has no logger")
	}
	if err := r.Params.Validate(); err != nil {
		return nil, err
	}
	paths, err := ListImages(inputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	r.Log.Infof("Analyzing %d images from %s (pixel size %g um, min grain %d px, %s grains)",
		len(paths), inputDir, r.Params.PixelSize, r.Params.MinGrainSize, r.Params.Polarity)

	summary := NewRunSummary()
	bases := map[string]string{}
	for i, path := range paths {
		name := filepath.Base(path)
		base := micrograph.BaseName(path)
		if prev, ok := bases[base]; ok {
			r.Log.Warnf("%s and %s share output name %s; outputs will be overwritten", prev, name, base)
		}
		bases[base] = name

		out := r.ProcessImage(path)
		summary.Record(name, out)
		if out.OK() {
			r.Log.Infof("[%d/%d] %s: %d grains", i+1, len(paths), name, out.Summary.GrainCount)
		} else {
			r.Log.Errorf("[%d/%d] %s: %v", i+1, len(paths), name, out.Err)
		}
	}

	summaryPath, err := report.WriteSummary(r.OutputDir, summary)
	if err != nil {
		return summary, err
	}
	r.Log.Infof("Processed %d images (%d failed), summary in %s", summary.Len(), summary.Failed(), summaryPath)
	return summary, nil
}

// ProcessImage loads, analyzes and reports one image. Errors and panics are
// returned in the Outcome.
func (r *Runner) ProcessImage(path string) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = Outcome{Err: fmt.Errorf("%w: %v", ErrPipeline, p)}
		}
	}()

	m, err := micrograph.Load(path)
	if err != nil {
		return Outcome{Err: err}
	}
	res, err := r.Analyzer.Analyze(m.Gray)
	if err != nil {
		return Outcome{Err: err}
	}

	base := micrograph.BaseName(path)
	if _, err := report.WriteGrains(r.OutputDir, base, res.Grains); err != nil {
		return Outcome{Err: err}
	}
	if _, err := report.WriteOverlay(r.OutputDir, base, res.Equalized, res.Grains); err != nil {
		return Outcome{Err: err}
	}
	if r.Histograms {
		if err := report.WriteHistogram(res.Areas(), report.HistogramPath(r.OutputDir, base)); err != nil {
			return Outcome{Err: err}
		}
	}

	s := grain.Summarize(res.Grains)
	r.Log.Debugf("%s: threshold %d, %d regions, %d grains", m.Name(), res.Threshold, res.RegionCount, len(res.Grains))
	return Outcome{Summary: &s}
}
