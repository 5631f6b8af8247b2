package terrain

import (
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/mesh"
)

// ModelGrid holds the per-vertex model-space X/Y/Z millimetre coordinates
// for a rows x cols elevation grid, derived once via geo.Frame.
type ModelGrid struct {
	Rows, Cols int
	X, Y, Z    []float64 // row-major, len == Rows*Cols
}

// BuildModelGrid converts an elevation grid into model-mm coordinates using
// the shared coordinate-mapper formulas (spec.md §4.A) — the only place
// outside geo.Frame allowed to perform a projected-to-model conversion.
func BuildModelGrid(elev Grid, frame geo.Frame) ModelGrid {
	rows, cols := elev.Rows, elev.Cols
	out := ModelGrid{Rows: rows, Cols: cols, X: make([]float64, rows*cols), Y: make([]float64, rows*cols), Z: make([]float64, rows*cols)}

	bbox := frame.Bounds()
	for c := 0; c < cols; c++ {
		e := bbox.MinE + float64(c)/float64(cols-1)*bbox.Width()
		x := frame.ToModelX(e)
		for r := 0; r < rows; r++ {
			out.X[r*cols+c] = x
		}
	}
	for r := 0; r < rows; r++ {
		n := bbox.MaxN - float64(r)/float64(rows-1)*bbox.Height()
		y := frame.ToModelY(n)
		for c := 0; c < cols; c++ {
			out.Y[r*cols+c] = y
		}
	}
	for i, v := range elev.Values {
		out.Z[i] = frame.ToModelZ(float64(v))
	}
	return out
}

func (g ModelGrid) at(r, c int) mesh.Vec3 {
	i := r*g.Cols + c
	return mesh.Vec3{float32(g.X[i]), float32(g.Y[i]), float32(g.Z[i])}
}

func (g ModelGrid) atBase(r, c int, baseZ float64) mesh.Vec3 {
	i := r*g.Cols + c
	return mesh.Vec3{float32(g.X[i]), float32(g.Y[i]), float32(baseZ)}
}

// BuildSolid builds the terrain solid's faces: top surface always, bottom
// plate and perimeter walls only when clipMask is nil (spec.md §4.C, and
// the unified Open Question resolution in DESIGN.md — rectangular base iff
// no clip mask).
func BuildSolid(g ModelGrid, baseZ float64, clipMask *geo.Mask) mesh.Soup {
	var out mesh.Soup
	out = append(out, buildTop(g, clipMask)...)

	if clipMask == nil {
		out = append(out, buildBottom(g, baseZ)...)
		out = append(out, buildWalls(g, baseZ)...)
	}
	return out
}

// buildTop emits two triangles per cell, split along the TL-BR diagonal.
// When clipMask is set, a cell is emitted only if all four corners are
// inside the mask (spec.md §4.C).
func buildTop(g ModelGrid, clipMask *geo.Mask) mesh.Soup {
	out := make(mesh.Soup, 0, 2*(g.Rows-1)*(g.Cols-1))
	for r := 0; r < g.Rows-1; r++ {
		for c := 0; c < g.Cols-1; c++ {
			if clipMask != nil && !clipMask.AllCornersInside(r, c) {
				continue
			}
			tl := g.at(r, c)
			bl := g.at(r+1, c)
			tr := g.at(r, c+1)
			br := g.at(r+1, c+1)
			out = append(out, mesh.NewFace(tl, bl, tr), mesh.NewFace(tr, bl, br))
		}
	}
	return out
}

// buildBottom emits the two triangles of the full model_width_mm x
// height_mm base rectangle at z = baseZ.
func buildBottom(g ModelGrid, baseZ float64) mesh.Soup {
	modelWidth := g.X[g.Cols-1]
	modelHeight := g.Y[0]
	bz := float32(baseZ)

	a := mesh.Vec3{0, 0, bz}
	b := mesh.Vec3{0, float32(modelHeight), bz}
	c := mesh.Vec3{float32(modelWidth), 0, bz}
	d := mesh.Vec3{float32(modelWidth), float32(modelHeight), bz}

	return mesh.Soup{
		mesh.NewFace(a, b, c),
		mesh.NewFace(c, b, d),
	}
}

// buildWalls emits the four perimeter wall strips, with winding alternated
// so every outward normal faces away from the interior: north and east use
// one winding, south and west the flipped winding (spec.md §4.C).
func buildWalls(g ModelGrid, baseZ float64) mesh.Soup {
	row := func(r int) []gridIndex {
		idx := make([]gridIndex, g.Cols)
		for c := range idx {
			idx[c] = gridIndex{r, c}
		}
		return idx
	}
	col := func(c int) []gridIndex {
		idx := make([]gridIndex, g.Rows)
		for r := range idx {
			idx[r] = gridIndex{r, c}
		}
		return idx
	}

	var out mesh.Soup
	out = append(out, wallStrip(g, baseZ, row(0), false)...)           // north
	out = append(out, wallStrip(g, baseZ, row(g.Rows-1), true)...)     // south, flipped
	out = append(out, wallStrip(g, baseZ, col(0), true)...)            // west, flipped
	out = append(out, wallStrip(g, baseZ, col(g.Cols-1), false)...)    // east
	return out
}

type gridIndex struct{ r, c int }

// wallStrip walks an ordered sequence of grid-vertex indices along one
// model edge and emits 2*(len(idx)-1) triangles connecting each top edge
// sample to its base-level counterpart.
func wallStrip(g ModelGrid, baseZ float64, idx []gridIndex, flip bool) mesh.Soup {
	out := make(mesh.Soup, 0, 2*(len(idx)-1))
	for k := 0; k < len(idx)-1; k++ {
		a, b := idx[k], idx[k+1]
		p0 := g.at(a.r, a.c)
		p1 := g.at(b.r, b.c)
		p0b := g.atBase(a.r, a.c, baseZ)
		p1b := g.atBase(b.r, b.c, baseZ)

		if flip {
			out = append(out, mesh.NewFace(p0, p0b, p1), mesh.NewFace(p1, p0b, p1b))
		} else {
			out = append(out, mesh.NewFace(p0, p1, p0b), mesh.NewFace(p1, p1b, p0b))
		}
	}
	return out
}
