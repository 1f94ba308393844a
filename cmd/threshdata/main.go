// Command threshdata thresholds raw SPCImage exports so downstream
// analysis only sees pixels with sane fits. It loads every related
// grid of the input's file-set, rebins photons, masks pixels failing
// any validity criterion, derives the free/bound ratio, and exports
// all quantities with invalid pixels written as NaN.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/brp-optics/flimfitutils/pkg/asc"
	"github.com/brp-optics/flimfitutils/pkg/config"
	"github.com/brp-optics/flimfitutils/pkg/dataset"
	"github.com/brp-optics/flimfitutils/pkg/threshold"
)

func main() {
	bhBin := flag.Int("bh-bin", -1, "SPCImage bin setting, for (re)binning photons (required)")
	suffix := flag.String("suffix", "", "Suffix for output files (default from config, '.th.asc')")
	configPath := flag.String("config", "flimfitutils.yaml", "Path to YAML configuration file")
	verbose := flag.Bool("verbose", false, "Print details of file operations")
	dryRun := flag.Bool("dry-run", false, "Don't write to output files")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.asc> <output file or directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	if *bhBin < 0 {
		fmt.Fprintln(os.Stderr, "-bh-bin is a required argument.")
		os.Exit(1)
	}
	input := flag.Arg(0)
	out := flag.Arg(1)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *suffix == "" {
		*suffix = cfg.Output.Suffix
	}

	vocabulary, err := cfg.Vocabulary()
	if err != nil {
		log.Fatalf("Bad suffix vocabulary: %v", err)
	}

	codec := asc.NewCodec(cfg.Grid.Rows, cfg.Grid.Cols)
	codec.Verbose = *verbose
	codec.DryRun = *dryRun

	resolver := dataset.NewResolver(codec, vocabulary)
	resolver.Verbose = *verbose

	pipeline := &threshold.Pipeline{
		Codec:      codec,
		Resolver:   resolver,
		Thresholds: cfg.ThresholdSpec(),
		HalfWindow: *bhBin,
		OutSuffix:  *suffix,
		Fill:       math.NaN(),
		Verbose:    *verbose,
	}

	if err := pipeline.Run(input, out); err != nil {
		log.Fatalf("Thresholding failed: %v", err)
	}
}
