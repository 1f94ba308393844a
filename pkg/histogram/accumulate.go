package histogram

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/brp-optics/flimfitutils/pkg/fileutil"
)

// AccumulateOptions configures directory-wide histogram accumulation.
type AccumulateOptions struct {
	// Suffixes limits which files are histogrammed. Empty means all.
	Suffixes []string

	// Recursive descends into subdirectories.
	Recursive bool

	// Log10 histograms log10 of the values (for free/bound ratios).
	Log10 bool

	// Min, Max and BinWidth define the bins, in linear units.
	Min, Max, BinWidth float64

	// Workers bounds the number of files histogrammed concurrently.
	// Zero means one worker per CPU.
	Workers int

	// Verbose prints one dot per processed file.
	Verbose bool
}

// AccumulateDir histograms every matching file under dir and merges
// the per-file histograms into one. Files are independent, so they are
// fanned out over a bounded worker pool; the partial histograms are
// summed by the caller side of the channel, which needs no locking and
// no ordering. A file that fails to parse is reported on stderr and
// skipped; it does not abort the run.
func AccumulateDir(dir string, opts AccumulateOptions) (*Histogram, error) {
	var files []string
	var err error
	if opts.Recursive {
		files, err = fileutil.FilesRecursively(dir, opts.Suffixes...)
	} else {
		files, err = fileutil.FilesNonRecursively(dir, opts.Suffixes...)
	}
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("histogram: no files under %s match the suffixes", dir)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan string)
	partials := make(chan *Histogram)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				h, err := histogramFile(path, opts)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
					continue
				}
				partials <- h
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(partials)
	}()

	total, err := newFromOpts(opts)
	if err != nil {
		return nil, err
	}
	for h := range partials {
		if err := total.Merge(h); err != nil {
			return nil, err
		}
		if opts.Verbose {
			fmt.Print(".")
		}
	}
	if opts.Verbose {
		fmt.Println(":")
	}
	return total, nil
}

func newFromOpts(opts AccumulateOptions) (*Histogram, error) {
	if opts.Log10 {
		return NewLog10(opts.Min, opts.Max, opts.BinWidth)
	}
	return New(opts.Min, opts.Max, opts.BinWidth)
}

// histogramFile bins every numeric token in the file. Shape does not
// matter here, so the values are read as a flat stream rather than
// through the grid codec.
func histogramFile(path string, opts AccumulateOptions) (*Histogram, error) {
	h, err := newFromOpts(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric token %q: %w", scanner.Text(), err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	h.AddValues(values)
	return h, nil
}

// Save writes the histogram as three text files next to stem: the
// counts to stem.hist, the bin edges to stem.bins and the bin width to
// stem.width, one value per line.
func (h *Histogram) Save(stem string) error {
	if err := writeColumn(stem+".hist", h.Counts); err != nil {
		return err
	}
	if err := writeColumn(stem+".bins", h.Edges); err != nil {
		return err
	}
	return writeColumn(stem+".width", []float64{h.BinWidth})
}

// LoadSaved reads a histogram previously written by Save, so summary
// statistics can be recomputed without re-reading the raw grids.
func LoadSaved(stem string) (*Histogram, error) {
	counts, err := readColumn(stem + ".hist")
	if err != nil {
		return nil, err
	}
	edges, err := readColumn(stem + ".bins")
	if err != nil {
		return nil, err
	}
	width, err := readColumn(stem + ".width")
	if err != nil {
		return nil, err
	}
	if len(edges) != len(counts)+1 {
		return nil, fmt.Errorf("histogram: %s: %d edges for %d counts", stem, len(edges), len(counts))
	}
	if len(width) != 1 {
		return nil, fmt.Errorf("histogram: %s: expected one bin width, got %d", stem, len(width))
	}
	return &Histogram{Counts: counts, Edges: edges, BinWidth: width[0]}, nil
}

func writeColumn(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("histogram: saving %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, v := range values {
		if _, err := fmt.Fprintf(w, "%.7g\n", v); err != nil {
			f.Close()
			return fmt.Errorf("histogram: saving %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("histogram: saving %s: %w", path, err)
	}
	return f.Close()
}

func readColumn(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("histogram: loading %s: %w", path, err)
	}
	defer f.Close()

	var values []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("histogram: loading %s: bad value %q: %w", path, line, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("histogram: loading %s: %w", path, err)
	}
	return values, nil
}
