package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestDelaunayRing_Square(t *testing.T) {
	ring := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}

	tris := DelaunayRing(ring)
	require.Len(t, tris, 2, "a convex quadrilateral triangulates into exactly 2 triangles")

	for _, tri := range tris {
		for _, idx := range tri {
			require.Less(t, idx, 4, "no triangle should reference the super-triangle or the deduped closing vertex")
		}
	}
}

func TestDelaunayRing_TooFewPoints(t *testing.T) {
	require.Nil(t, DelaunayRing(orb.Ring{{0, 0}, {1, 1}}))
}

func TestDelaunayRing_LShape(t *testing.T) {
	// Concave L-shape: Delaunay over the vertex set triangulates the convex
	// hull, so some simplices will have centroids outside the polygon —
	// exactly what the caller (terrain.BuildPolygonSkirt) is expected to
	// filter via centroid-in-polygon.
	ring := orb.Ring{
		{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}, {0, 0},
	}
	tris := DelaunayRing(ring)
	require.NotEmpty(t, tris)

	var insideCount int
	poly := orb.Polygon{append(orb.Ring{}, ring...)}
	pts := ring[:len(ring)-1]
	for _, tri := range tris {
		centroid := Centroid2D(pts[tri[0]], pts[tri[1]], pts[tri[2]])
		if PointInPolygon(centroid, poly) {
			insideCount++
		}
	}
	require.Greater(t, insideCount, 0, "at least some simplices must fall inside the L-shape")
}
