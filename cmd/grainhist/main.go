// Command grainhist renders a grain area histogram from one or more
// <base>_results.json files written by grainstat.
package main

import (
	"fmt"
	"os"

	"semgrain/internal/report"
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

	parser := argparse.NewParser("grainhist", "Plot the grain area distribution of grainstat results")
	inputs := parser.StringList("r", "results", &argparse.Options{Help: "A <base>_results.json file (repeatable)"})
	output := parser.String("o", "output", &argparse.Options{Help: "Output PNG file", Default: "grain_histogram.png"})
	showVersion := parser.Flag("v", "version", &argparse.Options{Help: "Print version and exit"})
	err = parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version.String("grainhist"))
		return
	}
	if len(*inputs) == 0 {
		fmt.Print(parser.Usage("at least one --results file is required"))
		os.Exit(1)
	}

	var areas []float64
	for _, path := range *inputs {
		grains, err := report.ReadGrains(path)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		for _, g := range grains {
			areas = append(areas, g.AreaUM2)
		}
		logger.Infof("%s: %d grains", path, len(grains))
	}

	if err := report.WriteHistogram(areas, *output); err != nil {
		logger.Errorf("Failed to write histogram: %v", err)
		os.Exit(1)
	}
	logger.Infof("Wrote %d grain areas to %s", len(areas), *output)
}
