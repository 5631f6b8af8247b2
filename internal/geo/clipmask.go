package geo

import "github.com/paulmach/orb"

// ClipPolygon is a single outline in projected metres, at least 3 points
// (spec.md §3). It is stored as an orb.Ring so it shares the PointInRing
// primitive with roads and building bounds.
type ClipPolygon struct {
	Ring orb.Ring
}

// Valid reports whether the polygon is usable as a clip outline.
func (c ClipPolygon) Valid() bool {
	return RingValid(c.Ring)
}

// Contains reports whether a projected point lies inside the clip polygon.
func (c ClipPolygon) Contains(e, n float64) bool {
	return PointInRing(orb.Point{e, n}, c.Ring)
}

// Mask is a boolean rows x cols grid, true where the cell-centre lies inside
// the clip polygon (spec.md §4.B).
type Mask struct {
	Rows, Cols int
	bits       []bool
}

// NewAllTrueMask returns a mask with every cell set, used whenever clipping
// is effectively disabled (empty, self-intersecting, or too-small polygon —
// spec.md §4.B).
func NewAllTrueMask(rows, cols int) Mask {
	bits := make([]bool, rows*cols)
	for i := range bits {
		bits[i] = true
	}
	return Mask{Rows: rows, Cols: cols, bits: bits}
}

// At reports the mask bit at (r, c).
func (m Mask) At(r, c int) bool {
	return m.bits[r*m.Cols+c]
}

func (m Mask) set(r, c int, v bool) {
	m.bits[r*m.Cols+c] = v
}

// BuildClipMask rasterises a clip polygon onto a rows x cols elevation grid.
// Mask bit (r, c) is set when the grid sample point (r, c) — the same
// evenly-spaced easting/northing sample the elevation grid and its xx/yy
// model-mm grids use — lies inside the polygon. Using the sample points
// themselves (rather than a separate finer cell-centre raster) is what lets
// the terrain solid builder's "all four corners inside" test (spec.md
// §4.C) read directly off this mask. An empty, degenerate, or invalid
// polygon yields an all-true mask, which effectively disables clipping
// elsewhere in the pipeline.
func BuildClipMask(poly *ClipPolygon, rows, cols int, bbox ProjectedBBox) Mask {
	if poly == nil || !poly.Valid() {
		return NewAllTrueMask(rows, cols)
	}

	m := Mask{Rows: rows, Cols: cols, bits: make([]bool, rows*cols)}
	for r := 0; r < rows; r++ {
		// Row 0 is north (max northing).
		n := bbox.MaxN - float64(r)/float64(rows-1)*bbox.Height()
		for c := 0; c < cols; c++ {
			e := bbox.MinE + float64(c)/float64(cols-1)*bbox.Width()
			m.set(r, c, poly.Contains(e, n))
		}
	}
	return m
}

// AllCornersInside reports whether all four corners of cell (r, c) are
// inside the mask — the test used by the terrain solid builder to decide
// whether a quad is emitted (spec.md §4.C).
func (m Mask) AllCornersInside(r, c int) bool {
	return m.At(r, c) && m.At(r, c+1) && m.At(r+1, c) && m.At(r+1, c+1)
}
