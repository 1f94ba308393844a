package models

// Grid is a fixed-shape 2-D array of per-pixel values, stored in
// row-major order. All grids belonging to one related file-set share
// the same shape (commonly 256x256 for SPCImage exports).
type Grid struct {
	// Rows and Cols are the grid dimensions in pixels.
	Rows, Cols int

	// Data holds the pixel values in row-major order, so the value at
	// (r, c) lives at index r*Cols+c.
	Data []float64
}

// NewGrid allocates a zero-filled grid of the given shape.
func NewGrid(rows, cols int) Grid {
	return Grid{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// At returns the value at row r, column c.
func (g Grid) At(r, c int) float64 {
	return g.Data[r*g.Cols+c]
}

// Set stores v at row r, column c.
func (g Grid) Set(r, c int, v float64) {
	g.Data[r*g.Cols+c] = v
}

// SameShape reports whether two grids have identical dimensions.
func (g Grid) SameShape(o Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := Grid{Rows: g.Rows, Cols: g.Cols, Data: make([]float64, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// MaskedGrid pairs a grid with a same-shape invalidity mask. A true
// mask entry marks the pixel as invalid. The mask only ever widens:
// Invalidate ORs new failures in and nothing un-marks a pixel.
type MaskedGrid struct {
	Grid

	// Mask flags invalid pixels, indexed like Data.
	Mask []bool
}

// NewMaskedGrid wraps a grid with an all-valid mask. The grid data is
// shared, not copied.
func NewMaskedGrid(g Grid) MaskedGrid {
	return MaskedGrid{Grid: g, Mask: make([]bool, len(g.Data))}
}

// Invalidate ORs the given failure mask into the grid's mask.
// The argument must be indexed like Data.
func (m MaskedGrid) Invalidate(failed []bool) {
	for i, f := range failed {
		if f {
			m.Mask[i] = true
		}
	}
}

// InvalidCount returns the number of masked pixels.
func (m MaskedGrid) InvalidCount() int {
	n := 0
	for _, f := range m.Mask {
		if f {
			n++
		}
	}
	return n
}

// Filled returns a copy of the grid with every masked pixel replaced
// by fill.
func (m MaskedGrid) Filled(fill float64) Grid {
	out := m.Grid.Clone()
	for i, f := range m.Mask {
		if f {
			out.Data[i] = fill
		}
	}
	return out
}

// Dataset maps each quantity kind of one related file-set to its grid.
// Kinds whose export file was absent are simply not present.
type Dataset map[Kind]Grid

// MaskedDataset is a dataset after thresholding: every member carries
// the same combined invalidity mask.
type MaskedDataset map[Kind]MaskedGrid
