package terrain

import (
	"github.com/paulmach/orb"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/mesh"
)

// BuildPolygonSkirt builds the vertical wall + planar base active only when
// a clip polygon is present (spec.md §4.E): walls lift each polygon vertex
// from baseZ to its sampled terrain height, and the base triangulates the
// polygon interior via an unconstrained Delaunay over its own vertices,
// keeping only simplices whose centroid lies inside the polygon.
func BuildPolygonSkirt(g ModelGrid, frame geo.Frame, poly geo.ClipPolygon, baseZ float64) mesh.Soup {
	var out mesh.Soup
	out = append(out, buildPolygonWalls(g, frame, poly.Ring, baseZ)...)
	out = append(out, buildPolygonBase(frame, poly, baseZ)...)
	return out
}

// sampleHeightAt returns the terrain height (model-mm Z) nearest the grid
// indices for projected point (e, n).
func sampleHeightAt(g ModelGrid, frame geo.Frame, e, n float64) float64 {
	r := int(frame.RowAt(n, g.Rows) + 0.5)
	c := int(frame.ColAt(e, g.Cols) + 0.5)
	if r >= g.Rows {
		r = g.Rows - 1
	}
	if c >= g.Cols {
		c = g.Cols - 1
	}
	return g.Z[r*g.Cols+c]
}

// buildPolygonWalls emits two triangles per polygon edge, connecting the
// base level to the sampled terrain height at each vertex.
func buildPolygonWalls(g ModelGrid, frame geo.Frame, ring orb.Ring, baseZ float64) mesh.Soup {
	pts := dedupeRing(ring)
	n := len(pts)
	if n < 2 {
		return nil
	}

	vertex := func(p orb.Point) (top, bottom mesh.Vec3) {
		x := frame.ToModelX(p[0])
		y := frame.ToModelY(p[1])
		z := sampleHeightAt(g, frame, p[0], p[1])
		return mesh.Vec3{float32(x), float32(y), float32(z)}, mesh.Vec3{float32(x), float32(y), float32(baseZ)}
	}

	out := make(mesh.Soup, 0, 2*n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		topA, baseA := vertex(pts[i])
		topB, baseB := vertex(pts[j])
		out = append(out, mesh.NewFace(topA, baseA, topB), mesh.NewFace(topB, baseA, baseB))
	}
	return out
}

// buildPolygonBase triangulates the polygon interior and emits each
// surviving triangle at z = baseZ, wound so its normal points downward.
func buildPolygonBase(frame geo.Frame, poly geo.ClipPolygon, baseZ float64) mesh.Soup {
	pts := dedupeRing(poly.Ring)
	tris := geo.DelaunayRing(poly.Ring)

	out := make(mesh.Soup, 0, len(tris))
	for _, t := range tris {
		a, b, c := pts[t[0]], pts[t[1]], pts[t[2]]
		centroid := geo.Centroid2D(a, b, c)
		if !poly.Contains(centroid[0], centroid[1]) {
			continue
		}
		out = append(out, downwardFace(frame, baseZ, a, b, c))
	}
	return out
}

// downwardFace maps three projected points to model space at z = baseZ and
// orders them so the triangle's normal points in -z.
func downwardFace(frame geo.Frame, baseZ float64, a, b, c orb.Point) mesh.Face {
	va := toBaseVertex(frame, baseZ, a)
	vb := toBaseVertex(frame, baseZ, b)
	vc := toBaseVertex(frame, baseZ, c)

	// Cross product z-component of (b-a) x (c-a) in the XY plane; positive
	// means counter-clockwise, which yields a +z normal we must flip.
	cross := (vb[0]-va[0])*(vc[1]-va[1]) - (vb[1]-va[1])*(vc[0]-va[0])
	if cross > 0 {
		return mesh.NewFace(va, vc, vb)
	}
	return mesh.NewFace(va, vb, vc)
}

func toBaseVertex(frame geo.Frame, baseZ float64, p orb.Point) mesh.Vec3 {
	return mesh.Vec3{float32(frame.ToModelX(p[0])), float32(frame.ToModelY(p[1])), float32(baseZ)}
}

// dedupeRing drops the closing vertex if the ring repeats its first point.
func dedupeRing(ring orb.Ring) []orb.Point {
	if len(ring) < 2 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] == last[0] && first[1] == last[1] {
		return ring[:len(ring)-1]
	}
	return ring
}
