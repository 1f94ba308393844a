package tiffio

import (
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/brp-optics/flimfitutils/internal/models"
)

func TestWriteGray16RoundTrip(t *testing.T) {
	g := models.Grid{Rows: 2, Cols: 2, Data: []float64{0, 50, 100, math.NaN()}}
	path := filepath.Join(t.TempDir(), "grid.tif")

	if err := WriteGray16(path, g, 0, 100); err != nil {
		t.Fatalf("WriteGray16 failed: %v", err)
	}

	img, err := ReadTIFF(path)
	if err != nil {
		t.Fatalf("ReadTIFF failed: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %v", img.Bounds())
	}

	at := func(x, y int) uint16 {
		return color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y
	}
	if at(0, 0) != 0 {
		t.Errorf("Expected minimum to map to 0, got %d", at(0, 0))
	}
	if at(0, 1) != 65535 {
		t.Errorf("Expected maximum to map to 65535, got %d", at(0, 1))
	}
	if mid := at(1, 0); mid < 32700 || mid > 32840 {
		t.Errorf("Expected mid value near 32767, got %d", mid)
	}
	// NaN pixels are written as 0.
	if at(1, 1) != 0 {
		t.Errorf("Expected NaN pixel to map to 0, got %d", at(1, 1))
	}
}

func TestGridRange(t *testing.T) {
	g := models.Grid{Rows: 1, Cols: 4, Data: []float64{3, math.NaN(), -2, 7}}
	min, max := GridRange(g)
	if min != -2 || max != 7 {
		t.Errorf("Expected range [-2, 7], got [%g, %g]", min, max)
	}
}

func TestRainbowEndpoints(t *testing.T) {
	low := Rainbow(0)
	if low.B != 255 || low.G != 0 {
		t.Errorf("Expected the low end blue, got %+v", low)
	}
	high := Rainbow(1)
	if high.R != 255 || high.G != 0 || high.B != 0 {
		t.Errorf("Expected the high end red, got %+v", high)
	}
	mid := Rainbow(0.5)
	if mid.G != 255 {
		t.Errorf("Expected full green at the midpoint, got %+v", mid)
	}
	// Out-of-range inputs clamp instead of wrapping.
	if Rainbow(-3) != low || Rainbow(7) != high {
		t.Error("Expected out-of-range inputs clamped to the endpoints")
	}
}

func TestColorize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "gray.tif")
	out := filepath.Join(dir, "color.tif")

	img := image.NewGray16(image.Rect(0, 0, 2, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 0})
	img.SetGray16(1, 0, color.Gray16{Y: 65535})
	if err := WriteRGBA(in, img); err != nil {
		t.Fatal(err)
	}

	if err := Colorize(in, out, 0, 1, false, false); err != nil {
		t.Fatalf("Colorize failed: %v", err)
	}

	colored, err := ReadTIFF(out)
	if err != nil {
		t.Fatalf("Reading colorized output failed: %v", err)
	}
	r0, g0, b0, _ := colored.At(0, 0).RGBA()
	if b0>>8 != 255 || g0>>8 != 0 {
		t.Errorf("Expected the low pixel blue, got (%d, %d, %d)", r0>>8, g0>>8, b0>>8)
	}
	r1, g1, b1, _ := colored.At(1, 0).RGBA()
	if r1>>8 != 255 || g1>>8 != 0 || b1>>8 != 0 {
		t.Errorf("Expected the high pixel red, got (%d, %d, %d)", r1>>8, g1>>8, b1>>8)
	}

	if _, err := ReadTIFF(out + ".colormap.tiff"); err != nil {
		t.Errorf("Expected a colormap legend next to the output: %v", err)
	}
}
