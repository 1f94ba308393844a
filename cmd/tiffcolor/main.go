// Command tiffcolor applies the rainbow colormap to a grayscale TIFF,
// writing the colored image plus a colormap legend strip.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/brp-optics/flimfitutils/pkg/tiffio"
)

func main() {
	low := flag.Float64("freeval", math.NaN(), "Value to map to blue (low end of colormap), required")
	high := flag.Float64("boundval", math.NaN(), "Value to map to red (high end of colormap), required")
	dryRun := flag.Bool("dry-run", false, "Process data but do not save output files")
	verbose := flag.Bool("verbose", false, "Print progress information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.tif> <output.tif>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 || math.IsNaN(*low) || math.IsNaN(*high) {
		flag.Usage()
		os.Exit(1)
	}

	if err := tiffio.Colorize(flag.Arg(0), flag.Arg(1), *low, *high, *dryRun, *verbose); err != nil {
		log.Fatalf("Colorize failed: %v", err)
	}
	if *verbose {
		fmt.Println("Done!")
	}
}
