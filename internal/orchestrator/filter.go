package orchestrator

import (
	"github.com/paulreginaphoto/swisstl/internal/building"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
)

// filterBuildings keeps only faces whose vertices all lie within bbox,
// compacting the result, so a tile only carries the buildings relevant to
// its own footprint.
func filterBuildings(b *building.Mesh, bbox geo.ProjectedBBox) *building.Mesh {
	if b == nil {
		return nil
	}
	inBounds := make([]bool, len(b.Vertices))
	for i, v := range b.Vertices {
		inBounds[i] = v[0] >= bbox.MinE && v[0] <= bbox.MaxE && v[1] >= bbox.MinN && v[1] <= bbox.MaxN
	}

	var keptFaces [][3]int
	for _, f := range b.Faces {
		if inBounds[f[0]] && inBounds[f[1]] && inBounds[f[2]] {
			keptFaces = append(keptFaces, f)
		}
	}
	if len(keptFaces) == 0 {
		return nil
	}

	remap := make(map[int]int)
	var verts [][3]float64
	for _, f := range keptFaces {
		for _, i := range f {
			if _, ok := remap[i]; !ok {
				remap[i] = len(verts)
				verts = append(verts, b.Vertices[i])
			}
		}
	}
	outFaces := make([][3]int, len(keptFaces))
	for i, f := range keptFaces {
		outFaces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return &building.Mesh{Vertices: verts, Faces: outFaces}
}

// filterRoads keeps only road rings whose bounding box overlaps bbox.
func filterRoads(roads []terrain.RoadRing, bbox geo.ProjectedBBox) []terrain.RoadRing {
	var out []terrain.RoadRing
	for _, rr := range roads {
		if !geo.RingValid(rr.Ring) {
			continue
		}
		b := rr.Ring.Bound()
		if b.Max[0] < bbox.MinE || b.Min[0] > bbox.MaxE || b.Max[1] < bbox.MinN || b.Min[1] > bbox.MaxN {
			continue
		}
		out = append(out, rr)
	}
	return out
}
