package terrain

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulreginaphoto/swisstl/internal/geo"
)

// RoadRing is a single road polygon ring with its swisstlm3d objektart class
// code, as produced by the (out-of-scope) road fetcher (spec.md §6).
type RoadRing struct {
	Ring      orb.Ring
	ClassCode int
}

// DefaultRoadRaiseMM is the design-default height added to every cell a road
// polygon covers (spec.md §4.D).
const DefaultRoadRaiseMM = 0.15

// EmbossRoads raises the model-space height field (mg.Z, already converted
// to millimetres by BuildModelGrid) inside road polygons by raiseMM exactly,
// returning a modified copy (never mutating the input). Operating on the
// mm-denominated ModelGrid rather than the metres-denominated elevation
// grid matters: raising the latter by raiseMM would later get multiplied by
// frame.zScale inside ToModelZ, scaling the visible raise by an unrelated
// factor (spec.md §4.D: emboss modifies "the height field z" after the §4.C
// conversion, not before it). It uses a downscaled working raster to bound
// the point-in-polygon cost on large grids (spec.md §4.D).
func EmbossRoads(mg ModelGrid, bbox geo.ProjectedBBox, roads []RoadRing, raiseMM float64) ModelGrid {
	if len(roads) == 0 {
		return mg
	}

	rows, cols := mg.Rows, mg.Cols
	stride := embossStride(rows, cols)
	workRows := ceilDiv(rows, stride)
	workCols := ceilDiv(cols, stride)

	workMask := make([]bool, workRows*workCols)
	for _, rr := range roads {
		if !geo.RingValid(rr.Ring) {
			continue
		}
		rasterizeRoad(rr.Ring, bbox, workRows, workCols, workMask)
	}

	out := mg
	out.Z = append([]float64(nil), mg.Z...)
	any := false
	for r := 0; r < rows; r++ {
		wr := r / stride
		if wr >= workRows {
			wr = workRows - 1
		}
		for c := 0; c < cols; c++ {
			wc := c / stride
			if wc >= workCols {
				wc = workCols - 1
			}
			if workMask[wr*workCols+wc] {
				i := r*cols + c
				out.Z[i] += raiseMM
				any = true
			}
		}
	}
	if !any {
		return mg
	}
	return out
}

// embossStride chooses the raster stride that bounds the work grid to
// roughly 1.2M cells (spec.md §4.D step 1), clamped to >= 1.
func embossStride(rows, cols int) int {
	const targetCells = 1_200_000
	total := rows * cols
	if total <= targetCells {
		return 1
	}
	s := int(math.Ceil(math.Sqrt(float64(total) / float64(targetCells))))
	if s < 1 {
		s = 1
	}
	return s
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// rasterizeRoad computes the ring's projected AABB, translates it to
// work-grid index ranges, and ORs its point-in-polygon coverage into mask
// (spec.md §4.D step 3). Degenerate AABBs (after clamping, empty) are
// skipped silently.
func rasterizeRoad(ring orb.Ring, bbox geo.ProjectedBBox, workRows, workCols int, mask []bool) {
	b := ring.Bound()
	pMinE, pMinN, pMaxE, pMaxN := b.Min[0], b.Min[1], b.Max[0], b.Max[1]

	c0 := clampInt(int(math.Floor((pMinE-bbox.MinE)/bbox.Width()*float64(workCols-1))), 0, workCols-1)
	c1 := clampInt(int(math.Ceil((pMaxE-bbox.MinE)/bbox.Width()*float64(workCols-1))), 0, workCols-1)
	r0 := clampInt(int(math.Floor((1-(pMaxN-bbox.MinN)/bbox.Height())*float64(workRows-1))), 0, workRows-1)
	r1 := clampInt(int(math.Ceil((1-(pMinN-bbox.MinN)/bbox.Height())*float64(workRows-1))), 0, workRows-1)
	if c1 < c0 || r1 < r0 {
		return
	}

	for r := r0; r <= r1; r++ {
		n := bbox.MaxN - float64(r)/float64(workRows-1)*bbox.Height()
		for c := c0; c <= c1; c++ {
			e := bbox.MinE + float64(c)/float64(workCols-1)*bbox.Width()
			if geo.PointInRing(orb.Point{e, n}, ring) {
				mask[r*workCols+c] = true
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
