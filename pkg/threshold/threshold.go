// Package threshold masks out pixels whose fit results fall outside
// configured validity ranges. One combined mask is built from all
// criteria and applied to every quantity of the set, so a single
// bad-fit pixel invalidates all of its co-located quantities.
package threshold

import (
	"fmt"
	"os"

	"github.com/brp-optics/flimfitutils/internal/models"
)

// Range is an inclusive validity interval. Values strictly below Min
// or strictly above Max fail the criterion.
type Range struct {
	Min, Max float64
}

// Spec maps quantity kinds to their validity ranges. Kinds listed here
// but absent from a dataset are skipped silently.
type Spec map[models.Kind]Range

// CombinedMask builds one invalidity mask over the whole pixel grid by
// ORing the per-kind range failures together. The mask starts all
// valid; OR combination makes the result independent of iteration
// order and monotone in the spec (adding criteria never unmasks).
func CombinedMask(ds models.Dataset, spec Spec) []bool {
	var mask []bool
	for _, grid := range ds {
		mask = make([]bool, len(grid.Data))
		break
	}
	if mask == nil {
		return nil
	}

	for kind, rng := range spec {
		grid, ok := ds[kind]
		if !ok {
			continue
		}
		for i, v := range grid.Data {
			if v < rng.Min || v > rng.Max {
				mask[i] = true
			}
		}
	}
	return mask
}

// Apply wraps every grid of the dataset with the same combined mask,
// whether or not that quantity contributed a criterion.
func Apply(ds models.Dataset, mask []bool) models.MaskedDataset {
	out := make(models.MaskedDataset, len(ds))
	for kind, grid := range ds {
		mg := models.NewMaskedGrid(grid)
		mg.Invalidate(mask)
		out[kind] = mg
	}
	return out
}

// Ratio computes the elementwise free/bound ratio num/den. A result
// pixel is invalid where either input was already invalid, or where
// either raw input value is <= 0: a non-positive amplitude makes the
// ratio physically meaningless, so it is masked instead of producing
// a negative or infinite value. Unmasked pixels hold exactly num/den.
//
// When source is non-empty, the count of invalid pixels is logged to
// stderr for traceability.
func Ratio(num, den models.MaskedGrid, source string) (models.MaskedGrid, error) {
	if !num.SameShape(den.Grid) {
		return models.MaskedGrid{}, fmt.Errorf(
			"threshold: ratio inputs have shapes %dx%d and %dx%d",
			num.Rows, num.Cols, den.Rows, den.Cols)
	}

	out := models.NewMaskedGrid(models.NewGrid(num.Rows, num.Cols))
	invalid := 0
	for i := range num.Data {
		if num.Mask[i] || den.Mask[i] || num.Data[i] <= 0 || den.Data[i] <= 0 {
			out.Mask[i] = true
			invalid++
			continue
		}
		out.Data[i] = num.Data[i] / den.Data[i]
	}

	if invalid > 0 && source != "" {
		fmt.Fprintf(os.Stderr, "ratio: %s: %d pixels masked due to invalid division\n", source, invalid)
	}
	return out, nil
}

// BinnedPhotonCount sums photon counts over a square window of side
// 2*halfWindow+1 centered on each pixel. The boundary is zero-padded:
// pixels near an edge get a partial-window sum rather than being
// rejected, so the binned grid stays co-registered with the rest of
// the set.
func BinnedPhotonCount(photons models.Grid, halfWindow int) models.Grid {
	out := models.NewGrid(photons.Rows, photons.Cols)
	for r := 0; r < photons.Rows; r++ {
		for c := 0; c < photons.Cols; c++ {
			sum := 0.0
			for dr := -halfWindow; dr <= halfWindow; dr++ {
				rr := r + dr
				if rr < 0 || rr >= photons.Rows {
					continue
				}
				for dc := -halfWindow; dc <= halfWindow; dc++ {
					cc := c + dc
					if cc < 0 || cc >= photons.Cols {
						continue
					}
					sum += photons.At(rr, cc)
				}
			}
			out.Set(r, c, sum)
		}
	}
	return out
}
