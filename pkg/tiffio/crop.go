package tiffio

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Corner selects which corner of the image a crop is anchored to.
// SPCImage pads its exports on the right and bottom, so the scan data
// sits in the upper-left corner.
type Corner string

const (
	UpperLeft  Corner = "upper-left"
	UpperRight Corner = "upper-right"
	LowerLeft  Corner = "lower-left"
	LowerRight Corner = "lower-right"
)

// CropFile crops the image at path to sizeX x sizeY anchored at the
// given corner. Files not ending in inSuffix are skipped silently so a
// directory sweep can hand every entry to this function. When
// outSuffix is empty the input file is clobbered; otherwise inSuffix
// is replaced by outSuffix in the output name.
func CropFile(path string, sizeX, sizeY int, corner Corner, inSuffix, outSuffix string, dryRun, verbose bool) error {
	if inSuffix == "" {
		inSuffix = ".tif"
	}
	if !strings.HasSuffix(path, inSuffix) {
		return nil
	}

	if verbose {
		fmt.Printf("Loading %s\n", path)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("tiffio: opening %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	var rect image.Rectangle
	switch corner {
	case UpperLeft, "":
		rect = image.Rect(0, 0, sizeX, sizeY)
	case UpperRight:
		rect = image.Rect(w-sizeX, 0, w, sizeY)
	case LowerLeft:
		rect = image.Rect(0, h-sizeY, sizeX, h)
	case LowerRight:
		rect = image.Rect(w-sizeX, h-sizeY, w, h)
	default:
		return fmt.Errorf("tiffio: invalid corner: %s", corner)
	}
	cropped := imaging.Crop(img, rect)

	outPath := path
	if outSuffix != "" {
		outPath = strings.TrimSuffix(path, inSuffix) + outSuffix
	}

	if !dryRun {
		if err := imaging.Save(cropped, outPath); err != nil {
			return fmt.Errorf("tiffio: saving %s: %w", outPath, err)
		}
	}
	if verbose {
		fmt.Printf("Saved cropped image: %s\n", outPath)
	}
	return nil
}
