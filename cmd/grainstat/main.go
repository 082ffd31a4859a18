// Command grainstat measures the grains in a directory of SEM micrographs.
//
// For every image it writes <base>_results.json and <base>_visualized.jpg to
// the output directory, then analysis_summary.json for the whole run.
package main

import (
	"fmt"
	"os"

	"semgrain/internal/batch"
	"semgrain/internal/config"
	"semgrain/internal/cvgrain"
	"semgrain/internal/grain"
	"semgrain/internal/version"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
)

func main() {
	logger, err := logs.NewLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	parser := argparse.NewParser("grainstat", "Detect and measure grains in SEM micrographs")
	inputDir := parser.String("i", "input_dir", &argparse.Options{Help: "Directory of input images (default images)"})
	outputDir := parser.String("o", "output_dir", &argparse.Options{Help: "Directory for results (default results)"})
	pixelSize := parser.Float("", "pixel_size", &argparse.Options{Help: "Pixel size in um/pixel (default 0.1)"})
	minGrainSize := parser.Int("", "min_grain_size", &argparse.Options{Help: "Minimum grain area in pixels (default 50)"})
	configFile := parser.String("c", "config", &argparse.Options{Help: "YAML configuration file"})
	polarity := parser.Selector("", "polarity", []string{"bright", "dark"}, &argparse.Options{Help: "Which side of the threshold is grain (default bright)"})
	backend := parser.Selector("", "backend", []string{config.BackendNative, config.BackendOpenCV}, &argparse.Options{Help: "Analysis backend (default native)"})
	histogram := parser.Flag("", "histogram", &argparse.Options{Help: "Also write an area histogram for each image"})
	showVersion := parser.Flag("v", "version", &argparse.Options{Help: "Print version and exit"})
	err = parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version.String("grainstat"))
		return
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		if _, statErr := os.Stat(*configFile); os.IsNotExist(statErr) {
			logger.Warnf("Config file %s not found, using defaults", *configFile)
		}
		cfg, err = config.LoadConfig(*configFile)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	cfg.Apply(config.Overrides{
		InputDir:     *inputDir,
		OutputDir:    *outputDir,
		PixelSize:    *pixelSize,
		MinGrainSize: *minGrainSize,
		Polarity:     *polarity,
		Backend:      *backend,
		Histogram:    *histogram,
	})
	if err := cfg.Validate(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	params, err := cfg.GrainParams()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	analyzer, err := newAnalyzer(cfg.Backend, params)
	if err != nil {
		logger.Errorf("Failed to create %s analyzer: %v", cfg.Backend, err)
		os.Exit(1)
	}

	runner := &batch.Runner{
		Analyzer:   analyzer,
		Params:     params,
		OutputDir:  cfg.OutputDir,
		Log:        logger,
		Histograms: cfg.Histogram,
	}
	summary, err := runner.Run(cfg.InputDir)
	if err != nil {
		logger.Errorf("Run failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-32s %8s %12s %12s %12s %12s\n", "Image", "Grains", "Mean", "Median", "Min", "Max")
	for _, name := range summary.Names() {
		e, _ := summary.Get(name)
		if e.Summary == nil {
			fmt.Printf("%-32s error: %s\n", name, e.Error)
			continue
		}
		s := e.Summary
		fmt.Printf("%-32s %8d %12.3f %12.3f %12.3f %12.3f\n",
			name, s.GrainCount, s.MeanArea, s.MedianArea, s.MinArea, s.MaxArea)
	}
}

func newAnalyzer(backend string, params grain.Params) (grain.Analyzer, error) {
	if backend == config.BackendOpenCV {
		a, err := cvgrain.NewAnalyzer(params)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return grain.NewAnalyzer(params)
}
