// Package mesh implements the mesh repair kernel and integrity checker
// (spec.md §4.G, §4.H): global/per-subsystem normal orientation, vertex
// merge, degenerate/duplicate-face removal, and boundary-edge/component
// measurement.
package mesh

// Vec3 is a single vertex coordinate in millimetre model space.
type Vec3 [3]float32

// Face is one triangle, as three vertex coordinates with no shared-vertex
// topology — spec.md §3's FaceSoup representation.
type Face [3]Vec3

// Soup is an F x 3 x 3 array of triangle vertex coordinates: the
// intermediate representation every component (terrain, walls, buildings)
// produces and appends to before repair recovers shared-vertex topology.
type Soup []Face

// Append concatenates additional faces onto the soup, mirroring
// np.concatenate over face arrays in the reference implementation.
func (s Soup) Append(other Soup) Soup {
	return append(s, other...)
}

// NewFace returns the face with vertices (a, b, c), in that order.
func NewFace(a, b, c Vec3) Face {
	return Face{a, b, c}
}
