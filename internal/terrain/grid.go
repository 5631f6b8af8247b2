// Package terrain builds the terrain solid (top surface, base plate,
// perimeter walls), embosses road polygons into the height field, and
// builds the polygon-outline skirt/base used when a clip polygon is active
// (spec.md §4.C, §4.D, §4.E).
package terrain

import (
	"fmt"
	"math"
)

// Grid is a dense row-major rows x cols elevation grid in metres
// (spec.md §3 ElevationGrid). Cell (0,0) is the north-west corner; rows
// increase southward, columns increase eastward. Samples may be NaN until
// Normalize is called.
type Grid struct {
	Rows, Cols int
	Values     []float32 // len == Rows*Cols, row-major
}

// NewGrid allocates a zeroed Rows x Cols grid.
func NewGrid(rows, cols int) Grid {
	return Grid{Rows: rows, Cols: cols, Values: make([]float32, rows*cols)}
}

// Validate enforces spec.md §3's ElevationGrid invariants: at least 2 rows
// and columns, at least one finite sample.
func (g Grid) Validate() error {
	if g.Rows < 2 || g.Cols < 2 {
		return fmt.Errorf("elevation grid must be at least 2x2, got %dx%d", g.Rows, g.Cols)
	}
	for _, v := range g.Values {
		if !math.IsNaN(float64(v)) {
			return nil
		}
	}
	return fmt.Errorf("elevation grid has no finite sample (nodata)")
}

// At returns the sample at (r, c).
func (g Grid) At(r, c int) float32 { return g.Values[r*g.Cols+c] }

// Set assigns the sample at (r, c).
func (g Grid) Set(r, c int, v float32) { g.Values[r*g.Cols+c] = v }

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make([]float32, len(g.Values))
	copy(out, g.Values)
	return Grid{Rows: g.Rows, Cols: g.Cols, Values: out}
}

// Min returns the minimum finite sample (nanmin), and whether any finite
// sample existed.
func (g Grid) Min() (float64, bool) {
	min := math.Inf(1)
	found := false
	for _, v := range g.Values {
		if math.IsNaN(float64(v)) {
			continue
		}
		found = true
		if float64(v) < min {
			min = float64(v)
		}
	}
	return min, found
}

// mean returns the arithmetic mean of finite samples.
func (g Grid) mean() float64 {
	sum := 0.0
	n := 0
	for _, v := range g.Values {
		if math.IsNaN(float64(v)) {
			continue
		}
		sum += float64(v)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Normalize replaces every NaN sample with the grid's mean finite value —
// the original system's nodata handling (original_source
// terrain.py:nan_mask/mean_val), carried into SPEC_FULL.md §9 as an
// explicit step so no NaN ever reaches model-space conversion (scenario S3).
func (g Grid) Normalize() Grid {
	out := g.Clone()
	mean := float32(g.mean())
	for i, v := range out.Values {
		if math.IsNaN(float64(v)) {
			out.Values[i] = mean
		}
	}
	return out
}

// Downsample applies the hard downsampling cap (spec.md §6): if
// max(rows,cols) > maxDim, the grid is stride-decimated with
// step = ceil(max(rows,cols)/maxDim).
func (g Grid) Downsample(maxDim int) Grid {
	dim := g.Rows
	if g.Cols > dim {
		dim = g.Cols
	}
	if dim <= maxDim {
		return g
	}
	step := int(math.Ceil(float64(dim) / float64(maxDim)))

	newRows := (g.Rows + step - 1) / step
	newCols := (g.Cols + step - 1) / step
	out := NewGrid(newRows, newCols)
	for r := 0; r < newRows; r++ {
		for c := 0; c < newCols; c++ {
			out.Set(r, c, g.At(r*step, c*step))
		}
	}
	return out
}
