// Command asc2tiff converts whitespace-delimited ASCII float grids to
// 16-bit grayscale TIFFs, scaled to each grid's own value range.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brp-optics/flimfitutils/pkg/asc"
	"github.com/brp-optics/flimfitutils/pkg/fileutil"
	"github.com/brp-optics/flimfitutils/pkg/tiffio"
)

func main() {
	shape := flag.String("shape", "256x256", "Expected shape HxW")
	outDir := flag.String("outdir", "tiff_out", "Output directory")
	outSuffix := flag.String("suffix", "_g16.tif", "Output filename suffix")
	failFast := flag.Bool("fail-fast", false, "Stop on first error")
	verbose := flag.Bool("verbose", false, "Print per-file details")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <files, directories, or globs>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	rows, cols, err := parseShape(*shape)
	if err != nil {
		log.Fatalf("%v", err)
	}

	paths, err := fileutil.ResolveInputs(flag.Args(), nil, true)
	if err != nil {
		log.Fatalf("Failed to resolve inputs: %v", err)
	}
	if len(paths) == 0 {
		log.Fatal("No input files found.")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	codec := asc.NewCodec(rows, cols)
	ok, failed := 0, 0
	for _, p := range paths {
		if err := convert(codec, p, *outDir, *outSuffix); err != nil {
			fmt.Fprintf(os.Stderr, "[ERR] %s: %v\n", p, err)
			failed++
			if *failFast {
				os.Exit(1)
			}
			continue
		}
		if *verbose {
			fmt.Printf("[OK] %s\n", p)
		} else {
			fmt.Print(".")
		}
		ok++
	}
	if !*verbose {
		fmt.Println()
	}
	fmt.Printf("Done. Converted: %d, Failed: %d, Outdir: %s\n", ok, failed, *outDir)
}

func convert(codec *asc.Codec, path, outDir, outSuffix string) error {
	grid, err := codec.Load(path)
	if err != nil {
		return err
	}
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	min, max := tiffio.GridRange(grid)
	return tiffio.WriteGray16(filepath.Join(outDir, base+outSuffix), grid, min, max)
}

func parseShape(s string) (rows, cols int, err error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("-shape must look like HxW, e.g., 256x256")
	}
	rows, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("-shape must look like HxW, e.g., 256x256")
	}
	cols, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("-shape must look like HxW, e.g., 256x256")
	}
	return rows, cols, nil
}
