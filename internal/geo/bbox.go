// Package geo provides the coordinate mapping and planar geometry primitives
// the STL assembly core treats as opaque: projected-metres to model-millimetre
// conversion, clip-mask rasterisation, point-in-polygon, and an unconstrained
// Delaunay triangulation used by the polygon base builder.
package geo

import "fmt"

// WGS84BBox is a geographic bounding box in degrees, as accepted at the job
// surface before any fetcher runs.
type WGS84BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Validate enforces the Switzerland-only operating envelope from the job
// surface contract: lon in [5.9,10.5], lat in [45.8,47.9]. It does not
// check the 100 km^2 area limit; the HTTP handler applies that separately.
func (b WGS84BBox) Validate() error {
	if b.MaxLon <= b.MinLon || b.MaxLat <= b.MinLat {
		return fmt.Errorf("inverted or empty bounding box")
	}
	if b.MinLon < 5.9 || b.MaxLon > 10.5 || b.MinLat < 45.8 || b.MaxLat > 47.9 {
		return fmt.Errorf("bounding box outside Switzerland")
	}
	return nil
}

// ProjectedBBox is the rectangular footprint of the terrain grid in a local
// metric coordinate system (eastings/northings in metres). Strictly positive
// extent.
type ProjectedBBox struct {
	MinE, MinN, MaxE, MaxN float64
}

// Width returns the easting extent in metres.
func (b ProjectedBBox) Width() float64 { return b.MaxE - b.MinE }

// Height returns the northing extent in metres.
func (b ProjectedBBox) Height() float64 { return b.MaxN - b.MinN }

// Validate enforces strictly positive extent (spec.md §3 ProjectedBBox
// invariant).
func (b ProjectedBBox) Validate() error {
	if b.Width() <= 0 || b.Height() <= 0 {
		return fmt.Errorf("projected bbox must have strictly positive extent")
	}
	return nil
}

// AreaKM2 returns the projected bbox area in square kilometres. The job
// surface's pre-fetch 100 km^2 check does not use it; it estimates the area
// from the WGS84 bbox instead.
func (b ProjectedBBox) AreaKM2() float64 {
	return b.Width() * b.Height() / 1e6
}
