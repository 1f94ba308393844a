// Command mergechannels combines the split grayscale channel images in
// a directory (img_t1_z1_c1..c4) into one RGB(A) composite TIFF.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/brp-optics/flimfitutils/pkg/tiffio"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <directory>\n", os.Args[0])
		os.Exit(1)
	}
	dir := os.Args[1]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Fatalf("Error: %q is not a valid directory.", dir)
	}

	outPath, err := tiffio.MergeChannels(dir)
	if err != nil {
		log.Fatalf("Merge failed: %v", err)
	}
	fmt.Printf("Saved merged image to: %s\n", outPath)
}
