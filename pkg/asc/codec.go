// Package asc reads and writes SPCImage-compatible .asc files: plain
// text, whitespace-delimited pixel values, one scan line per row.
package asc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/brp-optics/flimfitutils/internal/models"
)

// ParseError reports a file whose content does not form a grid of the
// expected shape, or contains a non-numeric token.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asc: parsing %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("asc: parsing %s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Codec loads and saves grids in the .asc text format.
//
// When Rows and Cols are set, Load validates every file against that
// shape, accepting either a matrix laid out as Rows lines of Cols
// values or a flat sequence of Rows*Cols values. When both are zero,
// the shape is inferred from the file: one grid row per line, and all
// lines must have the same length.
type Codec struct {
	Rows, Cols int

	// Verbose enables per-file progress output on stdout.
	Verbose bool

	// DryRun makes Save validate and log without writing anything.
	DryRun bool
}

// NewCodec returns a codec expecting rows x cols grids. Pass 0, 0 to
// infer shapes from the files instead.
func NewCodec(rows, cols int) *Codec {
	return &Codec{Rows: rows, Cols: cols}
}

// Load parses the .asc file at path into a grid.
func (c *Codec) Load(path string) (models.Grid, error) {
	if c.Verbose {
		fmt.Printf("Loading %s ... ", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Grid{}, &ParseError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	var lines [][]float64
	total := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return models.Grid{}, &ParseError{
					Path:   path,
					Reason: fmt.Sprintf("non-numeric token %q on line %d", tok, len(lines)+1),
					Err:    err,
				}
			}
			row[i] = v
		}
		lines = append(lines, row)
		total += len(row)
	}
	if err := scanner.Err(); err != nil {
		return models.Grid{}, &ParseError{Path: path, Reason: "read failed", Err: err}
	}

	grid, perr := c.assemble(path, lines, total)
	if perr != nil {
		return models.Grid{}, perr
	}
	if c.Verbose {
		fmt.Println("success.")
	}
	return grid, nil
}

// assemble turns the parsed lines into a grid, reshaping a flat value
// sequence when an expected shape is configured.
func (c *Codec) assemble(path string, lines [][]float64, total int) (models.Grid, *ParseError) {
	if c.Rows > 0 && c.Cols > 0 {
		if len(lines) == c.Rows {
			matrix := true
			for _, row := range lines {
				if len(row) != c.Cols {
					matrix = false
					break
				}
			}
			if matrix {
				return flatten(c.Rows, c.Cols, lines), nil
			}
		}
		// Not a Rows x Cols matrix; accept a flat sequence of the right size.
		if total == c.Rows*c.Cols {
			return flatten(c.Rows, c.Cols, lines), nil
		}
		return models.Grid{}, &ParseError{
			Path: path,
			Reason: fmt.Sprintf("expected %dx%d values or a flat sequence of %d, got %d values on %d lines",
				c.Rows, c.Cols, c.Rows*c.Cols, total, len(lines)),
		}
	}

	// Inferred shape: every line is one grid row of equal length.
	if len(lines) == 0 {
		return models.Grid{}, &ParseError{Path: path, Reason: "empty file"}
	}
	cols := len(lines[0])
	for i, row := range lines {
		if len(row) != cols {
			return models.Grid{}, &ParseError{
				Path:   path,
				Reason: fmt.Sprintf("ragged rows: line 1 has %d values, line %d has %d", cols, i+1, len(row)),
			}
		}
	}
	return flatten(len(lines), cols, lines), nil
}

func flatten(rows, cols int, lines [][]float64) models.Grid {
	g := models.Grid{Rows: rows, Cols: cols, Data: make([]float64, 0, rows*cols)}
	for _, row := range lines {
		g.Data = append(g.Data, row...)
	}
	return g
}

// Save writes the grid to path, one row per line, values separated by
// single spaces and formatted with 7 significant digits (enough to
// round-trip lifetimes and ratios). Invalid pixels are expected to be
// NaN already; they are written as the NaN token.
func (c *Codec) Save(path string, g models.Grid) error {
	if c.DryRun {
		if c.Verbose {
			fmt.Printf("Would save (%d, %d) to %s.\n", g.Rows, g.Cols, path)
		}
		return nil
	}
	if c.Verbose {
		fmt.Printf("Saving (%d, %d) to %s ... ", g.Rows, g.Cols, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("asc: saving %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for r := 0; r < g.Rows; r++ {
		for col := 0; col < g.Cols; col++ {
			if col > 0 {
				if err := w.WriteByte(' '); err != nil {
					f.Close()
					return fmt.Errorf("asc: saving %s: %w", path, err)
				}
			}
			if _, err := fmt.Fprintf(w, "%.7g", g.At(r, col)); err != nil {
				f.Close()
				return fmt.Errorf("asc: saving %s: %w", path, err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return fmt.Errorf("asc: saving %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("asc: saving %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("asc: saving %s: %w", path, err)
	}

	if c.Verbose {
		fmt.Println("success.")
	}
	return nil
}
