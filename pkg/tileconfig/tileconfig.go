// Package tileconfig converts stage-coordinate CSV exports into ImageJ
// TileConfiguration files for stitching.
package tileconfig

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Coord is one stage position in micrometers.
type Coord struct {
	X, Y, Z float64
}

// Load reads a headerless CSV of x,y,z stage coordinates and converts
// them to pixel units. The stage axes run opposite to image axes, so
// the division by the pixel size also flips the sign. A pixel size of
// zero or less is treated as 1 um per pixel.
func Load(path string, pixelSizeUm float64) ([]Coord, error) {
	if pixelSizeUm <= 0 {
		pixelSizeUm = 1
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tileconfig: opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tileconfig: reading %s: %w", path, err)
	}

	coords := make([]Coord, 0, len(records))
	for i, rec := range records {
		var vals [3]float64
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("tileconfig: %s line %d: bad value %q: %w", path, i+1, field, err)
			}
			vals[j] = v / -pixelSizeUm
		}
		coords = append(coords, Coord{X: vals[0], Y: vals[1], Z: vals[2]})
	}
	return coords, nil
}

// Write emits the coordinates as an ImageJ TileConfiguration file.
// Tile file names are <prefix><index (4 digits)><suffix>.tif, matching
// the acquisition's position numbering.
func Write(path string, coords []Coord, prefix, suffix string) error {
	if prefix == "" {
		prefix = "pos_"
	}
	if suffix == "" {
		suffix = "_color_image"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tileconfig: creating %s: %w", path, err)
	}

	fmt.Fprintln(f, "# Define the number of dimensions we are working on")
	fmt.Fprintln(f, "dim = 2")
	fmt.Fprintln(f)
	fmt.Fprintln(f, "# Define the image coordinates")
	for i, c := range coords {
		if _, err := fmt.Fprintf(f, "%s%04d%s.tif ; ; (%g, %g)\n", prefix, i, suffix, c.X, c.Y); err != nil {
			f.Close()
			return fmt.Errorf("tileconfig: writing %s: %w", path, err)
		}
	}
	return f.Close()
}
