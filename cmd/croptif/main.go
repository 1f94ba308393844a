// Command croptif crops SPCImage TIFF exports to the scan size. It
// accepts a single file or a directory, in which case every matching
// file inside is cropped.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/brp-optics/flimfitutils/pkg/fileutil"
	"github.com/brp-optics/flimfitutils/pkg/tiffio"
)

func main() {
	sizeX := flag.Int("size-x", 256, "Crop width in pixels")
	sizeY := flag.Int("size-y", 256, "Crop height in pixels")
	corner := flag.String("corner", "upper-left", "Corner to anchor the crop to (upper-left, upper-right, lower-left, lower-right)")
	inSuffix := flag.String("suffix", ".tif", "Only files with this suffix are cropped")
	outSuffix := flag.String("out-suffix", "", "Replacement suffix for output files; empty clobbers the input")
	dryRun := flag.Bool("dry-run", false, "Don't write to output files")
	verbose := flag.Bool("verbose", false, "Print details of file operations")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file or directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	paths := []string{input}
	if info, err := os.Stat(input); err == nil && info.IsDir() {
		paths, err = fileutil.FilesNonRecursively(input, *inSuffix)
		if err != nil {
			log.Fatalf("Failed to list %s: %v", input, err)
		}
	}

	for _, p := range paths {
		err := tiffio.CropFile(p, *sizeX, *sizeY, tiffio.Corner(*corner), *inSuffix, *outSuffix, *dryRun, *verbose)
		if err != nil {
			log.Fatalf("Crop failed: %v", err)
		}
	}
}
