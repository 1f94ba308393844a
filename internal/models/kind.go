package models

import "sort"

// Kind identifies what a grid represents within one related file-set.
// SPCImage exports every fitted quantity of a position as a separate
// ASCII grid whose file name is the shared stem plus one of these
// suffixes, so the vocabulary below is closed: an unknown suffix is a
// naming problem in the dataset, not a new quantity.
type Kind int

const (
	KindA1 Kind = iota
	KindA2
	KindT1
	KindT2
	KindA1Pct
	KindA2Pct
	KindChi
	KindPhasorG
	KindPhasorS
	KindScatter
	KindColorCoded
	KindPhotons
	KindOffset
	KindShift
	KindColorImage
	KindStatisticAll

	// Derived quantities, computed after load rather than read from disk.
	KindBinnedPhotons
	KindRatio

	numKinds
)

// kindSuffixes maps each kind to the filename suffix SPCImage uses for it.
// The bracket and space characters are literal parts of the file names.
var kindSuffixes = [numKinds]string{
	KindA1:           "a1",
	KindA2:           "a2",
	KindT1:           "t1",
	KindT2:           "t2",
	KindA1Pct:        "a1[%]",
	KindA2Pct:        "a2[%]",
	KindChi:          "chi",
	KindPhasorG:      "phasor_G",
	KindPhasorS:      "phasor_S",
	KindScatter:      "scatter",
	KindColorCoded:   "color coded value",
	KindPhotons:      "photons",
	KindOffset:       "offset",
	KindShift:        "shift",
	KindColorImage:   "color_image",
	KindStatisticAll: "statistic_all",
	KindBinnedPhotons: "binned_photons",
	KindRatio:         "ar",
}

// Suffix returns the filename suffix for the kind, without the leading
// underscore or the extension.
func (k Kind) Suffix() string {
	if k < 0 || k >= numKinds {
		return ""
	}
	return kindSuffixes[k]
}

// String returns the same text as Suffix; kinds are named after their
// on-disk spelling.
func (k Kind) String() string { return k.Suffix() }

// Derived reports whether the kind is computed from other grids rather
// than loaded from an export file.
func (k Kind) Derived() bool {
	return k == KindBinnedPhotons || k == KindRatio
}

// KindFromSuffix resolves a filename suffix back to its kind.
func KindFromSuffix(suffix string) (Kind, bool) {
	for k := Kind(0); k < numKinds; k++ {
		if kindSuffixes[k] == suffix {
			return k, true
		}
	}
	return 0, false
}

// DefaultVocabulary returns the recognized loadable kinds ordered with
// the longest suffix first, so that "a1[%]" is never mistaken for "a1"
// when a file name is matched against the list.
func DefaultVocabulary() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		if k.Derived() {
			continue
		}
		kinds = append(kinds, k)
	}
	sort.SliceStable(kinds, func(i, j int) bool {
		return len(kinds[i].Suffix()) > len(kinds[j].Suffix())
	})
	return kinds
}
