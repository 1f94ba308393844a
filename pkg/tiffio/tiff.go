// Package tiffio converts between .asc grids and TIFF images: writing
// grayscale TIFFs from grids, applying a rainbow colormap, cropping
// SPCImage exports to the scan size, and merging grayscale channels
// into an RGB composite.
package tiffio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/brp-optics/flimfitutils/internal/models"
)

// WriteGray16 writes the grid as a 16-bit grayscale TIFF, linearly
// scaling [min, max] onto the sample range. Go's TIFF encoder has no
// floating-point sample format, so 16-bit linear scaling stands in for
// the float export; pass the data minimum and maximum to use the full
// dynamic range.
func WriteGray16(path string, g models.Grid, min, max float64) error {
	img := image.NewGray16(image.Rect(0, 0, g.Cols, g.Rows))
	span := max - min
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := g.At(r, c)
			var scaled float64
			if span > 0 && !math.IsNaN(v) {
				scaled = (v - min) / span
			}
			y := uint16(math.Max(0, math.Min(65535, scaled*65535)))
			img.SetGray16(c, r, color.Gray16{Y: y})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tiffio: creating %s: %w", path, err)
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		f.Close()
		return fmt.Errorf("tiffio: encoding %s: %w", path, err)
	}
	return f.Close()
}

// GridRange returns the finite minimum and maximum of the grid. NaN
// pixels (masked values) are ignored.
func GridRange(g models.Grid) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// ReadTIFF decodes a TIFF file.
func ReadTIFF(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tiffio: opening %s: %w", path, err)
	}
	defer f.Close()
	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tiffio: decoding %s: %w", path, err)
	}
	return img, nil
}

// WriteRGBA encodes an image as an uncompressed RGB TIFF.
func WriteRGBA(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tiffio: creating %s: %w", path, err)
	}
	if err := tiff.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("tiffio: encoding %s: %w", path, err)
	}
	return f.Close()
}
