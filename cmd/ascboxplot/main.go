// Command ascboxplot renders one boxplot per input directory from a
// random sample of the pixel values of the matching .asc grids inside,
// for comparing value distributions across experiments.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/brp-optics/flimfitutils/pkg/asc"
	"github.com/brp-optics/flimfitutils/pkg/fileutil"
	"github.com/brp-optics/flimfitutils/pkg/visualization"
)

func main() {
	suffix := flag.String("suffix", "_ar.asc", "Limit input from directories to files matching this suffix")
	recursive := flag.Bool("recursive", false, "Recurse into subdirectories")
	sample := flag.Float64("sample", 0.001, "Fraction of pixels to sample per file")
	logScale := flag.Bool("log", false, "Plot log of values instead of values")
	output := flag.String("output", "boxplot.png", "Output plot file")
	labels := flag.String("labels", "", "Comma-separated group labels (default: directory base names)")
	title := flag.String("title", "Full-image random points", "Plot title")
	ylabel := flag.String("ylabel", "value", "Y axis label")
	seed := flag.Int64("seed", 1, "Random seed for pixel sampling")
	verbose := flag.Bool("verbose", false, "Print per-file details")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <directory>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	dirs := flag.Args()

	var groupLabels []string
	if *labels != "" {
		groupLabels = strings.Split(*labels, ",")
		if len(groupLabels) != len(dirs) {
			log.Fatalf("Got %d labels for %d directories", len(groupLabels), len(dirs))
		}
	} else {
		for _, d := range dirs {
			base := filepath.Base(filepath.Clean(d))
			// Directory names like s2-exet-fitet-sz-b2 reduce to s2.
			groupLabels = append(groupLabels, strings.SplitN(base, "-", 2)[0])
		}
	}

	codec := asc.NewCodec(0, 0)
	codec.Verbose = *verbose
	rng := rand.New(rand.NewSource(*seed))

	var groups [][]float64
	for _, dir := range dirs {
		var files []string
		var err error
		if *recursive {
			files, err = fileutil.FilesRecursively(dir, *suffix)
		} else {
			files, err = fileutil.FilesNonRecursively(dir, *suffix)
		}
		if err != nil {
			log.Fatalf("Failed to list %s: %v", dir, err)
		}
		if len(files) == 0 {
			log.Fatalf("No files matching %q under %s", *suffix, dir)
		}

		var group []float64
		for _, f := range files {
			grid, err := codec.Load(f)
			if err != nil {
				log.Fatalf("Failed to load %s: %v", f, err)
			}
			group = append(group, visualization.SamplePixels(grid.Data, *sample, rng)...)
		}
		groups = append(groups, group)
	}

	opts := visualization.BoxPlotOptions{
		Title:  *title,
		XLabel: "Slide",
		YLabel: *ylabel,
		Log:    *logScale,
	}
	if *logScale {
		opts.YLabel = "log(" + *ylabel + ")"
	}
	if err := visualization.SaveBoxPlot(*output, groups, groupLabels, opts); err != nil {
		log.Fatalf("Failed to save boxplot: %v", err)
	}
	fmt.Printf("Saved boxplot to %s\n", *output)
}
