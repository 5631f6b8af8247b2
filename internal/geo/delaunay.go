package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Triangle2D is three 2-D point indices into a shared vertex slice.
type Triangle2D [3]int

type edge2D struct{ a, b int }

func (e edge2D) normalized() edge2D {
	if e.a > e.b {
		return edge2D{e.b, e.a}
	}
	return e
}

// DelaunayRing computes an unconstrained Bowyer-Watson Delaunay
// triangulation of a ring's own vertices (spec.md §4.E: "triangulate the
// polygon interior in 2-D using a constrained triangulation (Delaunay over
// polygon vertices followed by centroid-in-polygon filtering of
// simplices)"). The last vertex is de-duplicated first if the ring is
// closed (first point repeated as last).
//
// This is not a full constrained Delaunay triangulator — it triangulates
// the convex hull of the point set and relies on the caller to discard
// simplices whose centroid falls outside the (possibly non-convex)
// polygon, exactly as spec.md prescribes.
func DelaunayRing(ring orb.Ring) []Triangle2D {
	pts := dedupeClosingVertex(ring)
	n := len(pts)
	if n < 3 {
		return nil
	}

	minX, minY, maxX, maxY := pts[0][0], pts[0][1], pts[0][0], pts[0][1]
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	dx, dy := maxX-minX, maxY-minY
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	span := math.Max(dx, dy) * 20

	// Super-triangle covering every input point, appended at the end of the
	// working vertex slice so its indices are known and removable later.
	work := make([]orb.Point, n, n+3)
	copy(work, pts)
	superA := len(work)
	work = append(work,
		orb.Point{midX - span, midY - span},
		orb.Point{midX + span, midY - span},
		orb.Point{midX, midY + span},
	)

	tris := []Triangle2D{{superA, superA + 1, superA + 2}}

	for i := 0; i < n; i++ {
		tris = insertPoint(work, tris, i)
	}

	// Discard any triangle touching a super-triangle vertex.
	out := make([]Triangle2D, 0, len(tris))
	for _, t := range tris {
		if t[0] >= superA || t[1] >= superA || t[2] >= superA {
			continue
		}
		out = append(out, t)
	}
	return out
}

// insertPoint performs one Bowyer-Watson incremental insertion step: find
// every triangle whose circumcircle contains the new point, remove them,
// and re-triangulate the resulting cavity as a fan from the new point.
func insertPoint(pts []orb.Point, tris []Triangle2D, pi int) []Triangle2D {
	p := pts[pi]

	var bad []Triangle2D
	var good []Triangle2D
	for _, t := range tris {
		if inCircumcircle(pts[t[0]], pts[t[1]], pts[t[2]], p) {
			bad = append(bad, t)
		} else {
			good = append(good, t)
		}
	}

	boundary := polygonHole(bad)

	for _, e := range boundary {
		good = append(good, Triangle2D{e.a, e.b, pi})
	}
	return good
}

// polygonHole returns the edges used by exactly one triangle in bad — the
// boundary of the cavity left by removing every triangle whose
// circumcircle contains the new point.
func polygonHole(bad []Triangle2D) []edge2D {
	count := make(map[edge2D]int)
	order := make([]edge2D, 0, len(bad)*3)
	for _, t := range bad {
		edges := [3]edge2D{{t[0], t[1]}, {t[1], t[2]}, {t[2], t[0]}}
		for _, e := range edges {
			ne := e.normalized()
			if count[ne] == 0 {
				order = append(order, e)
			}
			count[ne]++
		}
	}
	result := make([]edge2D, 0, len(order))
	for _, e := range order {
		if count[e.normalized()] == 1 {
			result = append(result, e)
		}
	}
	return result
}

// inCircumcircle reports whether d lies inside the circumcircle of triangle
// (a, b, c), using the standard determinant test. The triangle's winding
// does not need to be consistent; the sign of the determinant is flipped to
// compensate.
func inCircumcircle(a, b, c, d orb.Point) bool {
	ax, ay := a[0]-d[0], a[1]-d[1]
	bx, by := b[0]-d[0], b[1]-d[1]
	cx, cy := c[0]-d[0], c[1]-d[1]

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	if signedArea(a, b, c) < 0 {
		det = -det
	}
	return det > 0
}

func signedArea(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}

// Centroid2D returns the arithmetic mean of a triangle's three vertices.
func Centroid2D(a, b, c orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3}
}

// dedupeClosingVertex drops the final point of ring if it duplicates the
// first (a closed ring), per spec.md §4.E.
func dedupeClosingVertex(ring orb.Ring) []orb.Point {
	if len(ring) < 2 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] == last[0] && first[1] == last[1] {
		return ring[:len(ring)-1]
	}
	return ring
}
