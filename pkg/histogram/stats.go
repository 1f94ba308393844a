package histogram

import (
	"fmt"
	"io"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Percentiles reported by Summarize, in order.
var summaryPercentiles = []int{1, 5, 95, 99}

// Summary holds the statistics derived from a binned histogram.
type Summary struct {
	Mean   float64
	StdDev float64

	// Median is the weighted median interpolated from the CDF.
	Median float64

	// Mode is the smoothed, sub-bin-refined histogram peak.
	Mode float64

	// Percentiles maps percentile rank to the interpolated value.
	Percentiles map[int]float64

	// KLDivergence measures how far the histogram is from a Gaussian
	// with the same mean and standard deviation.
	KLDivergence float64

	// GaussianFit is the same-moment Gaussian evaluated at the bin
	// centers and scaled to the histogram's area, for overlay plots.
	GaussianFit []float64
}

// Summarize computes mean, spread, percentiles, mode and the Gaussian
// comparison for the histogram. An empty histogram yields NaNs.
func Summarize(h *Histogram) Summary {
	centers := h.Centers()
	widths := h.Widths()
	total := h.Total()
	if total == 0 || len(centers) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, StdDev: nan, Median: nan, Mode: nan, KLDivergence: nan}
	}

	mean := stat.Mean(centers, h.Counts)
	variance := 0.0
	for i, c := range centers {
		d := c - mean
		variance += h.Counts[i] * d * d
	}
	variance /= total
	stddev := math.Sqrt(variance)

	// Cumulative distribution for percentile interpolation.
	cdf := make([]float64, len(h.Counts))
	running := 0.0
	for i, c := range h.Counts {
		running += c
		cdf[i] = running / total
	}

	percentiles := make(map[int]float64, len(summaryPercentiles))
	for _, p := range summaryPercentiles {
		percentiles[p] = interpCDF(cdf, centers, float64(p)/100)
	}
	median := interpCDF(cdf, centers, 0.5)

	// Same-moment Gaussian, normalized to the histogram's area.
	norm := distuv.Normal{Mu: mean, Sigma: stddev}
	gaussian := make([]float64, len(centers))
	histArea, gaussArea := 0.0, 0.0
	for i, c := range centers {
		if stddev > 0 {
			gaussian[i] = norm.Prob(c)
		}
		histArea += h.Counts[i] * widths[i]
		gaussArea += gaussian[i] * widths[i]
	}
	if gaussArea > 0 {
		scale := histArea / gaussArea
		for i := range gaussian {
			gaussian[i] *= scale
		}
	}

	kl := klDivergence(h.Counts, gaussian)

	return Summary{
		Mean:         mean,
		StdDev:       stddev,
		Median:       median,
		Mode:         smoothedMode(centers, h.Counts, 0),
		Percentiles:  percentiles,
		KLDivergence: kl,
		GaussianFit:  gaussian,
	}
}

// interpCDF linearly interpolates the value whose cumulative fraction
// is q. Below the first point it clamps to the first center.
func interpCDF(cdf, centers []float64, q float64) float64 {
	if q <= cdf[0] {
		return centers[0]
	}
	for i := 1; i < len(cdf); i++ {
		if cdf[i] >= q {
			span := cdf[i] - cdf[i-1]
			if span == 0 {
				return centers[i]
			}
			t := (q - cdf[i-1]) / span
			return centers[i-1] + t*(centers[i]-centers[i-1])
		}
	}
	return centers[len(centers)-1]
}

// klDivergence compares the histogram against the fitted Gaussian as
// discrete distributions. A tiny floor keeps empty bins from blowing
// up the log.
func klDivergence(counts, gaussian []float64) float64 {
	const floor = 1e-10
	p := make([]float64, len(counts))
	q := make([]float64, len(counts))
	pSum, qSum := 0.0, 0.0
	for i := range counts {
		p[i] = counts[i] + floor
		q[i] = gaussian[i] + floor
		pSum += p[i]
		qSum += q[i]
	}
	for i := range p {
		p[i] /= pSum
		q[i] /= qSum
	}
	return stat.KullbackLeibler(p, q)
}

// smoothedMode finds the histogram peak after Gaussian smoothing and
// refines it to sub-bin precision with a 3-point parabolic fit.
// bandwidth is in value units; zero selects 1.5 bin widths.
func smoothedMode(centers, counts []float64, bandwidth float64) float64 {
	if len(centers) == 0 {
		return math.NaN()
	}
	binWidth := 1.0
	if len(centers) > 1 {
		diffs := make([]float64, len(centers)-1)
		for i := range diffs {
			diffs[i] = centers[i+1] - centers[i]
		}
		sort.Float64s(diffs)
		binWidth = diffs[len(diffs)/2]
	}
	if bandwidth == 0 {
		bandwidth = 1.5 * binWidth
	}
	sigma := math.Max(bandwidth/binWidth, 1e-6)

	// Discrete Gaussian kernel truncated at 4 sigma.
	half := int(math.Ceil(4 * sigma))
	kernel := make([]float64, 2*half+1)
	kSum := 0.0
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = math.Exp(-0.5 * (x / sigma) * (x / sigma))
		kSum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= kSum
	}

	smooth := make([]float64, len(counts))
	for i := range counts {
		for j, k := range kernel {
			src := i + j - half
			if src >= 0 && src < len(counts) {
				smooth[i] += counts[src] * k
			}
		}
	}

	peak := 0
	for i, v := range smooth {
		if v > smooth[peak] {
			peak = i
		}
	}
	return parabolicPeak(centers, smooth, peak)
}

// parabolicPeak fits a quadratic through the peak bin and its two
// neighbours and returns the vertex position. Falls back to the bin
// center at edges or degenerate fits.
func parabolicPeak(x, y []float64, i int) float64 {
	if i <= 0 || i >= len(y)-1 {
		return x[i]
	}
	y1, y2, y3 := y[i-1], y[i], y[i+1]
	denom := y1 - 2*y2 + y3
	if denom == 0 {
		return x[i]
	}
	delta := 0.5 * (y1 - y3) / denom
	dx := 0.5 * (x[i+1] - x[i-1])
	return x[i] + delta*dx
}

// TrimOutliers drops bins outside the given percentile bounds of the
// underlying data, reconstructed by repeating each bin center by its
// count. Returns the histogram unchanged when it is empty.
func TrimOutliers(h *Histogram, lowerPct, upperPct float64) (*Histogram, error) {
	centers := h.Centers()
	var expanded []float64
	for i, c := range h.Counts {
		n := int(c)
		for j := 0; j < n; j++ {
			expanded = append(expanded, centers[i])
		}
	}
	if len(expanded) == 0 {
		return h, nil
	}

	lower, err := mstats.Percentile(expanded, lowerPct)
	if err != nil {
		return nil, fmt.Errorf("histogram: trimming outliers: %w", err)
	}
	upper, err := mstats.Percentile(expanded, upperPct)
	if err != nil {
		return nil, fmt.Errorf("histogram: trimming outliers: %w", err)
	}

	start, end := 0, len(centers)
	for start < end && centers[start] < lower {
		start++
	}
	for end > start && centers[end-1] > upper {
		end--
	}
	return &Histogram{
		Counts:   append([]float64(nil), h.Counts[start:end]...),
		Edges:    append([]float64(nil), h.Edges[start:end+1]...),
		BinWidth: h.BinWidth,
		Log10:    h.Log10,
	}, nil
}

// WriteText prints the summary in the suite's usual textual format.
// When log10 is set (the histogram was over log values), the
// exponentiated statistics are repeated for convenience.
func (s Summary) WriteText(w io.Writer, log10 bool) error {
	if _, err := fmt.Fprintf(w, "mean: %.2f\n", s.Mean); err != nil {
		return err
	}
	fmt.Fprintf(w, "standard deviation: %.2f\n", s.StdDev)
	for _, p := range summaryPercentiles {
		fmt.Fprintf(w, "%dth percentile: %.2f\n", p, s.Percentiles[p])
	}
	fmt.Fprintf(w, "KL divergence to Gaussian: %.4f\n", s.KLDivergence)
	if log10 {
		exp10 := func(v float64) float64 { return math.Pow(10, v) }
		fmt.Fprintf(w, "exponential of mean: %.2f\n", exp10(s.Mean))
		fmt.Fprintf(w, "exponential of standard deviation: %.2f\n", exp10(s.StdDev))
		for _, p := range summaryPercentiles {
			fmt.Fprintf(w, "exponential of %dth percentile: %.2f\n", p, exp10(s.Percentiles[p]))
		}
	}
	return nil
}
