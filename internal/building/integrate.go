// Package building implements the building integrator (spec.md §4.F):
// converting an externally fetched building mesh into the assembled model,
// filtered to the model bounds (and clip polygon, if any) and repaired
// before being expanded into a face soup.
package building

import (
	"github.com/paulmach/orb"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/mesh"
)

// marginMM is the in-bounds tolerance applied to the model rectangle,
// matching spec.md §4.F step 2.
const marginMM = 0.5

// Mesh is an externally fetched building mesh, as returned by the building
// fetcher: vertices in projected metres + metres elevation, faces as vertex
// indices (spec.md §3 BuildingMesh).
type Mesh struct {
	Vertices [][3]float64 // (easting_m, northing_m, elevation_m)
	Faces    [][3]int
}

// Integrate runs the full pipeline: mm conversion, bounds + clip filtering,
// face compaction, repair, and soup expansion. Returns an empty soup (never
// an error) when every face is filtered out — scenario S5, "building
// outside bbox".
func Integrate(b Mesh, frame geo.Frame, clip *geo.ClipPolygon) mesh.Soup {
	if len(b.Faces) == 0 || len(b.Vertices) == 0 {
		return nil
	}

	modelVerts := make([]mesh.Vec3, len(b.Vertices))
	inBounds := make([]bool, len(b.Vertices))
	for i, v := range b.Vertices {
		x := frame.ToModelX(v[0])
		y := frame.ToModelY(v[1])
		z := frame.ToModelZ(v[2])
		modelVerts[i] = mesh.Vec3{float32(x), float32(y), float32(z)}
		inBounds[i] = withinModelBounds(x, y, frame) && withinClip(clip, v[0], v[1])
	}

	keptFaces := make([][3]int, 0, len(b.Faces))
	for _, f := range b.Faces {
		if !validIndices(f, len(modelVerts)) {
			continue
		}
		if inBounds[f[0]] && inBounds[f[1]] && inBounds[f[2]] {
			keptFaces = append(keptFaces, f)
		}
	}
	if len(keptFaces) == 0 {
		return nil
	}

	compactVerts, compactFaces := compact(modelVerts, keptFaces)
	soup := toSoup(compactVerts, compactFaces)
	return mesh.Repair(soup, mesh.DefaultRepairOptions())
}

func withinModelBounds(x, y float64, frame geo.Frame) bool {
	return x >= -marginMM && x <= frame.ModelWidthMM()+marginMM &&
		y >= -marginMM && y <= frame.HeightMM()+marginMM
}

func withinClip(clip *geo.ClipPolygon, e, n float64) bool {
	if clip == nil || !clip.Valid() {
		return true
	}
	return clip.Contains(e, n)
}

func validIndices(f [3]int, n int) bool {
	for _, i := range f {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

// compact takes the unique set of referenced vertices and builds an
// old->new index remap, dropping unreferenced vertices (spec.md §4.F
// step 4).
func compact(verts []mesh.Vec3, faces [][3]int) ([]mesh.Vec3, [][3]int) {
	remap := make(map[int]int)
	var out []mesh.Vec3
	for _, f := range faces {
		for _, i := range f {
			if _, ok := remap[i]; !ok {
				remap[i] = len(out)
				out = append(out, verts[i])
			}
		}
	}

	outFaces := make([][3]int, len(faces))
	for fi, f := range faces {
		outFaces[fi] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return out, outFaces
}

func toSoup(verts []mesh.Vec3, faces [][3]int) mesh.Soup {
	out := make(mesh.Soup, 0, len(faces))
	for _, f := range faces {
		out = append(out, mesh.NewFace(verts[f[0]], verts[f[1]], verts[f[2]]))
	}
	return out
}

// BoundsRing returns the building mesh's convex bounding ring in projected
// metres, used by callers that need a cheap bbox-style outline rather than
// a point-in-polygon test over the full mesh.
func BoundsRing(b Mesh) orb.Ring {
	if len(b.Vertices) == 0 {
		return nil
	}
	minE, minN := b.Vertices[0][0], b.Vertices[0][1]
	maxE, maxN := minE, minN
	for _, v := range b.Vertices[1:] {
		if v[0] < minE {
			minE = v[0]
		}
		if v[0] > maxE {
			maxE = v[0]
		}
		if v[1] < minN {
			minN = v[1]
		}
		if v[1] > maxN {
			maxN = v[1]
		}
	}
	return orb.Ring{
		{minE, minN}, {maxE, minN}, {maxE, maxN}, {minE, maxN}, {minE, minN},
	}
}
