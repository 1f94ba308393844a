// Package visualization renders the summary figures of the suite:
// accumulated histograms with their Gaussian fit, and per-group
// boxplots of sampled pixel values.
package visualization

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/brp-optics/flimfitutils/pkg/histogram"
)

// SaveHistogramPlot renders the histogram as bars with the summary's
// scaled Gaussian fit overlaid and dashed rules at the summary
// percentiles, then saves the figure to path (format from the
// extension, typically .png).
func SaveHistogramPlot(path string, h *histogram.Histogram, sum histogram.Summary, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Value"
	p.Y.Label.Text = "Frequency"

	bins := make([]plotter.HistogramBin, len(h.Counts))
	maxCount := 0.0
	for i, c := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: c}
		if c > maxCount {
			maxCount = c
		}
	}
	bars := &plotter.Histogram{
		Bins:      bins,
		Width:     h.Edges[1] - h.Edges[0],
		FillColor: color.RGBA{R: 70, G: 130, B: 180, A: 160},
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(bars)

	if len(sum.GaussianFit) == len(h.Counts) {
		centers := h.Centers()
		pts := make(plotter.XYs, len(centers))
		for i := range centers {
			pts[i].X = centers[i]
			pts[i].Y = sum.GaussianFit[i]
		}
		fit, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("visualization: building fit line: %w", err)
		}
		fit.Color = color.RGBA{R: 200, A: 255}
		fit.Width = vg.Points(1.5)
		p.Add(fit)
		p.Legend.Add("Gaussian fit", fit)
	}

	dashed := draw.LineStyle{
		Color:  color.Gray{Y: 96},
		Width:  vg.Points(1),
		Dashes: []vg.Length{vg.Points(4), vg.Points(2)},
	}
	for _, v := range sum.Percentiles {
		if math.IsNaN(v) {
			continue
		}
		rule, err := plotter.NewLine(plotter.XYs{{X: v, Y: 0}, {X: v, Y: maxCount}})
		if err != nil {
			return fmt.Errorf("visualization: building percentile rule: %w", err)
		}
		rule.LineStyle = dashed
		p.Add(rule)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("visualization: saving %s: %w", path, err)
	}
	return nil
}

// BoxPlotOptions configures SaveBoxPlot.
type BoxPlotOptions struct {
	Title  string
	XLabel string
	YLabel string

	// Log applies a natural log to the values first, clamping
	// non-positive values to 1e-16 so masked pixels do not dominate.
	Log bool
}

// SaveBoxPlot renders one box per group, labelled in order. Groups are
// typically per-directory collections of sampled pixel values.
func SaveBoxPlot(path string, groups [][]float64, labels []string, opts BoxPlotOptions) error {
	if len(groups) == 0 {
		return fmt.Errorf("visualization: no groups to plot")
	}
	if len(labels) != len(groups) {
		return fmt.Errorf("visualization: %d labels for %d groups", len(labels), len(groups))
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	args := make([]interface{}, 0, 2*len(groups))
	for i, g := range groups {
		vals := make(plotter.Values, len(g))
		for j, v := range g {
			if opts.Log {
				if v <= 0 {
					v = 1e-16
				}
				v = math.Log(v)
			}
			vals[j] = v
		}
		args = append(args, labels[i], vals)
	}
	if err := plotutil.AddBoxPlots(p, vg.Points(30), args...); err != nil {
		return fmt.Errorf("visualization: adding boxplots: %w", err)
	}

	if err := p.Save(vg.Length(2+float64(len(groups)))*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("visualization: saving %s: %w", path, err)
	}
	return nil
}

// SamplePixels returns about ratio*len(values) values drawn without
// replacement, to keep boxplots over many full grids tractable. NaN
// values (masked pixels in thresholded exports) are excluded before
// sampling so they cannot skew the box statistics.
func SamplePixels(values []float64, ratio float64, rng *rand.Rand) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	n := int(math.Round(ratio * float64(len(valid))))
	if n >= len(valid) {
		return valid
	}
	perm := rng.Perm(len(valid))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = valid[perm[i]]
	}
	return out
}
