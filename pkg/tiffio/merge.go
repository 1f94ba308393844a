package tiffio

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Channel file names as written by the acquisition software's channel
// splitter. c4 is an optional alpha channel.
var channelNames = [4]string{"img_t1_z1_c1.tif", "img_t1_z1_c2.tif", "img_t1_z1_c3.tif", "img_t1_z1_c4.tif"}

// MergeChannels combines the per-channel grayscale images in dir into
// one RGB (or RGBA when the fourth channel exists) composite TIFF and
// returns its path. The first three channels are required; all
// channels must share one size.
func MergeChannels(dir string) (string, error) {
	var channels [4]*image.Gray
	for i, name := range channelNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if i == 3 {
				continue
			}
			return "", fmt.Errorf("tiffio: missing channel file: %s", path)
		}
		img, err := imaging.Open(path)
		if err != nil {
			return "", fmt.Errorf("tiffio: loading %s: %w", path, err)
		}
		channels[i] = toGray(img)
	}

	bounds := channels[0].Bounds()
	for i := 1; i < 4; i++ {
		if channels[i] != nil && channels[i].Bounds() != bounds {
			return "", fmt.Errorf("tiffio: channel %s size differs from %s",
				channelNames[i], channelNames[0])
		}
	}

	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := uint8(255)
			if channels[3] != nil {
				a = channels[3].GrayAt(x, y).Y
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: channels[0].GrayAt(x, y).Y,
				G: channels[1].GrayAt(x, y).Y,
				B: channels[2].GrayAt(x, y).Y,
				A: a,
			})
		}
	}

	outPath := filepath.Join(dir, "Composite.tif")
	if err := WriteRGBA(outPath, out); err != nil {
		return "", err
	}
	return outPath, nil
}

// toGray reduces any image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}
