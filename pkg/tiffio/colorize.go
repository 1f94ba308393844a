package tiffio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
)

// Rainbow maps t in [0, 1] onto the rainbow colormap used for
// lifetime images: violet-blue at the low end through green to red.
func Rainbow(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	r := math.Abs(2*t - 0.5)
	if r > 1 {
		r = 1
	}
	g := math.Sin(math.Pi * t)
	b := math.Cos(math.Pi * t / 2)
	return color.RGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: 255,
	}
}

// Colorize reads a grayscale TIFF, normalizes its values so that low
// maps to the blue end and high to the red end of the rainbow
// colormap, and writes the colored RGB TIFF plus a colormap legend
// strip at outPath + ".colormap.tiff". low and high are in the
// normalized [0, 1] gray domain of the input.
//
// In dry-run mode the input is read and validated but nothing is
// written.
func Colorize(inPath, outPath string, low, high float64, dryRun, verbose bool) error {
	if verbose {
		fmt.Printf("Reading input file: %s\n", inPath)
	}
	src, err := ReadTIFF(inPath)
	if err != nil {
		return err
	}
	bounds := src.Bounds()
	if verbose {
		fmt.Printf("Input size: %dx%d\n", bounds.Dx(), bounds.Dy())
		fmt.Printf("Normalizing: low=%g (blue), high=%g (red)\n", low, high)
	}

	out := image.NewRGBA(bounds)
	if high == low {
		fmt.Fprintf(os.Stderr, "Warning: low equals high, all values will map to the same color\n")
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray := color.Gray16Model.Convert(src.At(x, y)).(color.Gray16)
			v := float64(gray.Y) / 65535
			var t float64
			if high != low {
				t = (v - low) / (high - low)
			}
			out.Set(x, y, Rainbow(t))
		}
	}

	if dryRun {
		if verbose {
			fmt.Printf("Dry run mode: skipping %s save\n", outPath)
		}
		return nil
	}

	if verbose {
		fmt.Printf("Saving output file: %s\n", outPath)
	}
	if err := WriteRGBA(outPath, out); err != nil {
		return err
	}

	legendPath := outPath + ".colormap.tiff"
	if verbose {
		fmt.Printf("Saving colormap: %s\n", legendPath)
	}
	return WriteRGBA(legendPath, ColormapLegend(256, 1024))
}

// ColormapLegend renders the colormap as a horizontal gradient strip
// for use as a figure legend.
func ColormapLegend(height, width int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		c := Rainbow(float64(x) / float64(width-1))
		for y := 0; y < height; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}
