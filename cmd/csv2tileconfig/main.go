// Command csv2tileconfig converts an acquisition coordinate CSV file
// to an ImageJ TileConfiguration file for stitching.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/brp-optics/flimfitutils/pkg/tileconfig"
)

func main() {
	pixelSize := flag.Float64("pixel-size-um", 1, "Size of a pixel in um")
	prefix := flag.String("prefix", "pos_", "Prefix for tile file names")
	suffix := flag.String("suffix", "_color_image", "Suffix for tile file names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.csv> <output TileConfiguration.txt>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	coords, err := tileconfig.Load(flag.Arg(0), *pixelSize)
	if err != nil {
		log.Fatalf("Failed to load coordinates: %v", err)
	}
	if err := tileconfig.Write(flag.Arg(1), coords, *prefix, *suffix); err != nil {
		log.Fatalf("Failed to write tile configuration: %v", err)
	}
	fmt.Printf("Wrote %d tile positions to %s\n", len(coords), flag.Arg(1))
}
