package threshold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brp-optics/flimfitutils/internal/models"
	"github.com/brp-optics/flimfitutils/pkg/asc"
	"github.com/brp-optics/flimfitutils/pkg/dataset"
)

// ExportAll fills the masked pixels of every quantity in the dataset
// with fill (canonically NaN) and writes each result through the codec
// to <stem>_<kind-suffix><outSuffix>. The codec's dry-run mode reports
// shape and destination per quantity without writing.
func ExportAll(codec *asc.Codec, stem string, mds models.MaskedDataset, outSuffix string, fill float64) error {
	for kind, mg := range mds {
		path := stem + "_" + kind.Suffix() + outSuffix
		if err := codec.Save(path, mg.Filled(fill)); err != nil {
			return err
		}
	}
	return nil
}

// Pipeline runs the full per-file-set masking pass: resolve and load
// the related grids, rebin photons, build the combined mask, apply it
// globally, derive the free/bound ratio, and export everything with
// invalid pixels marked as NaN.
type Pipeline struct {
	// Codec performs all grid file I/O; its DryRun and Verbose flags
	// govern the export step.
	Codec *asc.Codec

	// Resolver locates the related file-set.
	Resolver *dataset.Resolver

	// Thresholds are the validity criteria to combine.
	Thresholds Spec

	// HalfWindow is the photon rebinning half-window (the SPCImage
	// "bin" setting used during fitting).
	HalfWindow int

	// OutSuffix replaces the .asc extension on exported files.
	OutSuffix string

	// Fill is the sentinel written at masked pixels.
	Fill float64

	// Verbose enables progress output.
	Verbose bool
}

// Run processes the related file-set that input belongs to and exports
// the masked results. When out is an existing directory, outputs are
// written there under the input's base stem; otherwise out itself is
// treated as the output stem (any recognized suffix stripped first).
func (p *Pipeline) Run(input, out string) error {
	ds, err := p.Resolver.LoadRelated(input)
	if err != nil {
		return err
	}

	if photons, ok := ds[models.KindPhotons]; ok {
		ds[models.KindBinnedPhotons] = BinnedPhotonCount(photons, p.HalfWindow)
	}

	mask := CombinedMask(ds, p.Thresholds)
	mds := Apply(ds, mask)
	if p.Verbose {
		// Every member carries the same mask, so any one gives the count.
		for _, mg := range mds {
			masked := mg.InvalidCount()
			fmt.Printf("  TOTAL MASKED: %d/%d (%.1f%%)\n",
				masked, len(mg.Data), 100*float64(masked)/float64(len(mg.Data)))
			break
		}
	}

	a1, okA1 := mds[models.KindA1]
	a2, okA2 := mds[models.KindA2]
	if okA1 && okA2 {
		ratio, err := Ratio(a1, a2, input)
		if err != nil {
			return err
		}
		mds[models.KindRatio] = ratio
	}

	stem, err := p.outputStem(input, out)
	if err != nil {
		return err
	}
	return ExportAll(p.Codec, stem, mds, p.OutSuffix, p.Fill)
}

// outputStem decides where the exported files go.
func (p *Pipeline) outputStem(input, out string) (string, error) {
	info, err := os.Stat(out)
	if err == nil && info.IsDir() {
		base := p.Resolver.StemOf(filepath.Base(input))
		return filepath.Join(out, base), nil
	}
	return p.Resolver.StemOf(out), nil
}
