package histogram

import (
	"math"
	"strings"
	"testing"
)

// uniformHist builds a histogram with unit bins over [0, n] and the
// given counts, bypassing the range constructor for exact edges.
func uniformHist(counts ...float64) *Histogram {
	edges := make([]float64, len(counts)+1)
	for i := range edges {
		edges[i] = float64(i)
	}
	return &Histogram{Counts: counts, Edges: edges, BinWidth: 1}
}

func TestSummarizeSymmetric(t *testing.T) {
	// Symmetric triangle centered between bins 4 and 5, so every
	// location statistic must land at 5.
	h := uniformHist(1, 2, 3, 4, 5, 5, 4, 3, 2, 1)
	s := Summarize(h)

	if math.Abs(s.Mean-5) > 1e-9 {
		t.Errorf("Expected mean 5, got %v", s.Mean)
	}
	if math.Abs(s.Median-5) > 1e-9 {
		t.Errorf("Expected median 5, got %v", s.Median)
	}
	if math.Abs(s.Mode-5) > 1e-9 {
		t.Errorf("Expected mode 5, got %v", s.Mode)
	}
	if s.StdDev <= 0 {
		t.Errorf("Expected positive standard deviation, got %v", s.StdDev)
	}
	if !(s.Percentiles[1] <= s.Percentiles[5] &&
		s.Percentiles[5] <= s.Median &&
		s.Median <= s.Percentiles[95] &&
		s.Percentiles[95] <= s.Percentiles[99]) {
		t.Errorf("Percentiles out of order: %v (median %v)", s.Percentiles, s.Median)
	}
	if len(s.GaussianFit) != len(h.Counts) {
		t.Errorf("Expected one Gaussian sample per bin, got %d", len(s.GaussianFit))
	}
	if s.KLDivergence < 0 {
		t.Errorf("Expected non-negative KL divergence, got %v", s.KLDivergence)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	h := uniformHist(0, 0, 0)
	s := Summarize(h)
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Median) {
		t.Errorf("Expected NaN statistics for an empty histogram, got mean %v median %v",
			s.Mean, s.Median)
	}
}

// TestSmoothedModeSymmetricPeak verifies that a symmetric isolated peak
// refines to its own bin center.
func TestSmoothedModeSymmetricPeak(t *testing.T) {
	h := uniformHist(0, 1, 10, 1, 0)
	s := Summarize(h)
	if math.Abs(s.Mode-2.5) > 1e-9 {
		t.Errorf("Expected mode 2.5, got %v", s.Mode)
	}
}

// TestSmoothedModeSubBin verifies that an asymmetric neighbourhood
// pulls the refined mode off the bin center toward the heavier side.
func TestSmoothedModeSubBin(t *testing.T) {
	h := uniformHist(0, 2, 10, 8, 0)
	s := Summarize(h)
	if s.Mode <= 2.5 || s.Mode >= 3.5 {
		t.Errorf("Expected mode in (2.5, 3.5), got %v", s.Mode)
	}
}

func TestTrimOutliers(t *testing.T) {
	// One far outlier bin on each side of a dense middle.
	h := uniformHist(1, 0, 50, 60, 50, 0, 1)
	trimmed, err := TrimOutliers(h, 2, 98)
	if err != nil {
		t.Fatalf("TrimOutliers failed: %v", err)
	}
	if len(trimmed.Counts) >= len(h.Counts) {
		t.Errorf("Expected outlier bins dropped, still have %d of %d",
			len(trimmed.Counts), len(h.Counts))
	}
	if trimmed.Counts[0] == 1 || trimmed.Counts[len(trimmed.Counts)-1] == 1 {
		t.Errorf("Outlier bins survived trimming: %v", trimmed.Counts)
	}
}

// TestTrimOutliersBeforeSummarize exercises the statistics path with
// both trims applied in order: the zero spike is cut first, then the
// percentile bounds, and the summary reflects only the surviving bins.
func TestTrimOutliersBeforeSummarize(t *testing.T) {
	// Huge zero spike, a dense middle, one far outlier bin.
	h := uniformHist(5000, 0, 50, 60, 50, 0, 1)

	trimmed := h.TrimBelow(0.5)
	trimmed, err := TrimOutliers(trimmed, 2, 98)
	if err != nil {
		t.Fatalf("TrimOutliers failed: %v", err)
	}
	s := Summarize(trimmed)

	// Survivors are the three middle bins centered on 3.5; without the
	// trims the zero spike would drag the mean below 1.
	if s.Mean < 2.5 || s.Mean > 4.5 {
		t.Errorf("Expected mean near 3.5 after trimming, got %v", s.Mean)
	}
	if math.Abs(s.Mode-3.5) > 0.5 {
		t.Errorf("Expected mode near 3.5 after trimming, got %v", s.Mode)
	}
}

func TestTrimOutliersEmpty(t *testing.T) {
	h := uniformHist(0, 0)
	trimmed, err := TrimOutliers(h, 1, 99)
	if err != nil {
		t.Fatalf("TrimOutliers failed: %v", err)
	}
	if trimmed != h {
		t.Error("Expected an empty histogram returned unchanged")
	}
}

func TestWriteText(t *testing.T) {
	h := uniformHist(1, 2, 3, 2, 1)
	s := Summarize(h)

	var b strings.Builder
	if err := s.WriteText(&b, true); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"mean:", "standard deviation:", "1th percentile:", "99th percentile:",
		"KL divergence to Gaussian:", "exponential of mean:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}
