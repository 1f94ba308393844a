// Package histogram accumulates fixed-range histograms over .asc pixel
// data, merges partial histograms from many files, and derives summary
// statistics from the binned counts.
package histogram

import (
	"fmt"
	"math"
)

// logFloor replaces a non-positive range limit before its base-10 log,
// so a log histogram over [0, max] still has a finite lower edge.
const logFloor = 1e-16

// Histogram is a fixed-bin histogram. Edges has one more entry than
// Counts; bin i covers [Edges[i], Edges[i+1]), with the final bin
// closed on the right.
type Histogram struct {
	Counts   []float64
	Edges    []float64
	BinWidth float64

	// Log10 records that values were log10-transformed before binning,
	// so that downstream statistics can report exponentiated values too.
	Log10 bool
}

// New builds an empty histogram spanning [min, max] with the given bin
// width. The bin count is rounded so the range is covered exactly.
func New(min, max, binWidth float64) (*Histogram, error) {
	if max <= min {
		return nil, fmt.Errorf("histogram: bad range [%g, %g]", min, max)
	}
	if binWidth <= 0 {
		return nil, fmt.Errorf("histogram: bad bin width %g", binWidth)
	}
	bins := int(math.Round((max-min)/binWidth + 1))
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = min + (max-min)*float64(i)/float64(bins)
	}
	return &Histogram{
		Counts:   make([]float64, bins),
		Edges:    edges,
		BinWidth: binWidth,
	}, nil
}

// NewLog10 builds a histogram over log10-transformed values. The range
// is given in linear units; non-positive limits fall back to the log
// floor. Useful for free/bound ratios, which span decades.
func NewLog10(min, max, binWidth float64) (*Histogram, error) {
	lo := math.Log10(logFloor)
	hi := math.Log10(logFloor)
	if min > 0 {
		lo = math.Log10(min)
	}
	if max > 0 {
		hi = math.Log10(max)
	}
	h, err := New(lo, hi, binWidth)
	if err != nil {
		return nil, err
	}
	h.Log10 = true
	return h, nil
}

// AddValue bins a single value. Values outside the range are dropped,
// as are NaNs. For log histograms the value is transformed first, so
// zero pixels go to -Inf and fall below the range like any other
// out-of-range value.
func (h *Histogram) AddValue(v float64) {
	if h.Log10 {
		v = math.Log10(v)
	}
	if math.IsNaN(v) {
		return
	}
	lo := h.Edges[0]
	hi := h.Edges[len(h.Edges)-1]
	if v < lo || v > hi {
		return
	}
	idx := int((v - lo) / (hi - lo) * float64(len(h.Counts)))
	if idx == len(h.Counts) {
		// The top edge belongs to the last bin.
		idx--
	}
	h.Counts[idx]++
}

// AddValues bins a slice of values.
func (h *Histogram) AddValues(vs []float64) {
	for _, v := range vs {
		h.AddValue(v)
	}
}

// Merge adds the counts of o into h. The two histograms must have been
// built over identical edges.
func (h *Histogram) Merge(o *Histogram) error {
	if len(h.Edges) != len(o.Edges) {
		return fmt.Errorf("histogram: merging %d bins into %d", len(o.Counts), len(h.Counts))
	}
	for i := range h.Edges {
		if math.Abs(h.Edges[i]-o.Edges[i]) > 1e-12 {
			return fmt.Errorf("histogram: edge %d differs: %g vs %g", i, h.Edges[i], o.Edges[i])
		}
	}
	for i := range h.Counts {
		h.Counts[i] += o.Counts[i]
	}
	return nil
}

// Centers returns the midpoint of every bin.
func (h *Histogram) Centers() []float64 {
	centers := make([]float64, len(h.Counts))
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}

// Widths returns the width of every bin. Bins are uniform today, but
// the trimming helpers can produce a ragged first bin.
func (h *Histogram) Widths() []float64 {
	widths := make([]float64, len(h.Counts))
	for i := range widths {
		widths[i] = h.Edges[i+1] - h.Edges[i]
	}
	return widths
}

// Total returns the summed count over all bins.
func (h *Histogram) Total() float64 {
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// TrimBelow drops every bin whose center is at or below cutoff,
// returning a new histogram. Used to exclude the zero spike that
// masked or empty pixels produce.
func (h *Histogram) TrimBelow(cutoff float64) *Histogram {
	centers := h.Centers()
	start := len(centers)
	for i, c := range centers {
		if c > cutoff {
			start = i
			break
		}
	}
	out := &Histogram{
		Counts:   append([]float64(nil), h.Counts[start:]...),
		Edges:    append([]float64(nil), h.Edges[start:]...),
		BinWidth: h.BinWidth,
		Log10:    h.Log10,
	}
	return out
}
