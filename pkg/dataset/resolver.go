// Package dataset discovers and loads the family of related per-pixel
// grids that SPCImage exports for one scan position. Family membership
// is encoded purely in file names: every member is <stem>_<suffix>.asc
// for a recognized quantity suffix.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brp-optics/flimfitutils/internal/models"
	"github.com/brp-optics/flimfitutils/pkg/asc"
)

// ShapeMismatchError reports that one member of a related file-set has
// a different shape than the rest. This is fatal for the file-set.
type ShapeMismatchError struct {
	Path       string
	Kind       models.Kind
	Rows, Cols int
	WantRows   int
	WantCols   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("dataset: %s (%s) has shape %dx%d, rest of the set is %dx%d",
		e.Path, e.Kind, e.Rows, e.Cols, e.WantRows, e.WantCols)
}

// Resolver maps any one member of a related file-set to the stem shared
// by the whole family and locates the members present on disk.
type Resolver struct {
	codec *asc.Codec

	// vocabulary is the ordered list of recognized kinds. Longer
	// suffixes must come first so that a1[%] is not conflated with a1.
	vocabulary []models.Kind

	// Verbose enables per-file progress output.
	Verbose bool
}

// NewResolver returns a resolver over the given vocabulary. A nil
// vocabulary selects the default SPCImage suffix list.
func NewResolver(codec *asc.Codec, vocabulary []models.Kind) *Resolver {
	if vocabulary == nil {
		vocabulary = models.DefaultVocabulary()
	}
	return &Resolver{codec: codec, vocabulary: vocabulary}
}

// StemOf strips the extension and the first matching quantity suffix
// from path, yielding the stem shared by the related file-set.
//
// A path with no recognized suffix and a .img extension is an image-set
// file and is returned without the extension. Any other unmatched path
// produces a warning and a best-effort fallback to the unmodified name;
// downstream discovery will then simply find no members.
func (r *Resolver) StemOf(path string) string {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(path, ext)

	for _, kind := range r.vocabulary {
		if s := "_" + kind.Suffix(); strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s)
		}
	}

	if ext == ".img" {
		return name
	}
	fmt.Fprintf(os.Stderr, "Warning: no related suffix found for %s.\n", path)
	fmt.Fprintf(os.Stderr, "Assuming the name is already a stem and matching suffixes against it.\n")
	return name
}

// Discover checks which related quantity files exist on disk for the
// stem and returns their kinds in vocabulary order.
//
// statistic_all is always excluded even when present: its grid has a
// different shape than the rest of the set and cannot share a mask.
func (r *Resolver) Discover(stem string) []models.Kind {
	var found []models.Kind
	for _, kind := range r.vocabulary {
		if kind == models.KindStatisticAll {
			continue
		}
		if _, err := os.Stat(memberPath(stem, kind)); err == nil {
			found = append(found, kind)
		}
	}
	return found
}

// LoadRelated resolves the stem of path, discovers the related files
// and loads them all. Absent kinds are skipped silently; different
// experiments export different quantity sets. All loaded grids must
// share one shape.
func (r *Resolver) LoadRelated(path string) (models.Dataset, error) {
	stem := r.StemOf(path)
	kinds := r.Discover(stem)
	if len(kinds) == 0 {
		return nil, fmt.Errorf("dataset: no related files found for stem %s", stem)
	}

	ds := make(models.Dataset, len(kinds))
	var first models.Grid
	haveFirst := false
	for _, kind := range kinds {
		member := memberPath(stem, kind)
		grid, err := r.codec.Load(member)
		if err != nil {
			return nil, err
		}
		if haveFirst && !grid.SameShape(first) {
			return nil, &ShapeMismatchError{
				Path: member, Kind: kind,
				Rows: grid.Rows, Cols: grid.Cols,
				WantRows: first.Rows, WantCols: first.Cols,
			}
		}
		if !haveFirst {
			first = grid
			haveFirst = true
		}
		ds[kind] = grid
	}
	if r.Verbose {
		fmt.Printf("Loaded %d related grids for stem %s (%dx%d)\n",
			len(ds), stem, first.Rows, first.Cols)
	}
	return ds, nil
}

func memberPath(stem string, kind models.Kind) string {
	return stem + "_" + kind.Suffix() + ".asc"
}
