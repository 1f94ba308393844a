// Command histdir merges the pixel values of every matching file under
// a directory into a single histogram, optionally saving the binned
// data, a rendered plot, and a statistical summary.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/brp-optics/flimfitutils/pkg/histogram"
	"github.com/brp-optics/flimfitutils/pkg/visualization"
)

func main() {
	recursive := flag.Bool("recursive", false, "Recurse into subdirectories, otherwise only process top level")
	suffix := flag.String("suffix", "_color coded value.asc", "Suffix to consider for input files")
	logScale := flag.Bool("log", false, "Histogram log10 of values instead of values (for free/bound ratios)")
	min := flag.Float64("min", 0, "Lower edge of the histogram range")
	max := flag.Float64("max", 4000, "Upper edge of the histogram range")
	binWidth := flag.Float64("binwidth", 10, "Bin width (in log10 units with -log; 0.01 is typical there)")
	zeroCutoff := flag.Float64("zero-cutoff", 0, "Drop bins at or below this value (use to filter out zero pixels)")
	trim := flag.Bool("trim", false, "Remove outlier bins by percentile before calculating statistics")
	lowerPct := flag.Float64("lower-percentile", 1, "Lower percentile for outlier trimming")
	upperPct := flag.Float64("upper-percentile", 99, "Upper percentile for outlier trimming")
	saveHist := flag.String("save-hist", "", "Stem for saving histogram data (.hist/.bins/.width)")
	loadHist := flag.String("load-hist", "", "Recompute statistics from a saved histogram stem instead of reading grids")
	savePlot := flag.String("save-plot", "", "File for saving the histogram plot")
	statsOut := flag.String("stats-out", "", "Store the statistical summary in this text file instead of stdout")
	title := flag.String("title", "", "Graph title")
	workers := flag.Int("workers", 0, "Number of files to process concurrently (default: all cores)")
	verbose := flag.Bool("verbose", false, "Print a progress dot per file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var h *histogram.Histogram
	var err error
	if *loadHist != "" {
		if flag.NArg() != 0 {
			flag.Usage()
			os.Exit(1)
		}
		h, err = histogram.LoadSaved(*loadHist)
		if err != nil {
			log.Fatalf("Failed to load saved histogram: %v", err)
		}
		h.Log10 = *logScale
	} else {
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(1)
		}
		opts := histogram.AccumulateOptions{
			Suffixes:  []string{*suffix},
			Recursive: *recursive,
			Log10:     *logScale,
			Min:       *min,
			Max:       *max,
			BinWidth:  *binWidth,
			Workers:   *workers,
			Verbose:   *verbose,
		}
		h, err = histogram.AccumulateDir(flag.Arg(0), opts)
		if err != nil {
			log.Fatalf("Histogram accumulation failed: %v", err)
		}
	}

	if *saveHist != "" {
		if err := h.Save(*saveHist); err != nil {
			log.Fatalf("Failed to save histogram data: %v", err)
		}
	}

	trimmed := h
	if *zeroCutoff != 0 {
		trimmed = h.TrimBelow(*zeroCutoff)
	}
	if *trim {
		trimmed, err = histogram.TrimOutliers(trimmed, *lowerPct, *upperPct)
		if err != nil {
			log.Fatalf("Failed to trim outliers: %v", err)
		}
	}
	sum := histogram.Summarize(trimmed)

	if *savePlot != "" {
		if err := visualization.SaveHistogramPlot(*savePlot, trimmed, sum, *title); err != nil {
			log.Fatalf("Failed to save plot: %v", err)
		}
	}

	out := os.Stdout
	if *statsOut != "" {
		if _, err := os.Stat(*statsOut); err == nil {
			fmt.Fprintf(os.Stderr, "Warning: clobbering %s\n", *statsOut)
		}
		f, err := os.Create(*statsOut)
		if err != nil {
			log.Fatalf("Failed to open stats output: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := sum.WriteText(out, *logScale); err != nil {
		log.Fatalf("Failed to write statistics: %v", err)
	}
}
