package orchestrator

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulreginaphoto/swisstl/internal/building"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
	"github.com/stretchr/testify/require"
)

func TestFilterBuildings_KeepsOnlyInBoundsFaces(t *testing.T) {
	b := &building.Mesh{
		Vertices: [][3]float64{
			{10, 10, 500}, {20, 10, 500}, {20, 20, 500}, // inside
			{500, 500, 500}, {510, 500, 500}, {510, 510, 500}, // outside
		},
		Faces: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}

	out := filterBuildings(b, bbox)
	require.NotNil(t, out)
	require.Len(t, out.Faces, 1)
	require.Len(t, out.Vertices, 3)
}

func TestFilterBuildings_NilInputIsNil(t *testing.T) {
	require.Nil(t, filterBuildings(nil, geo.ProjectedBBox{MaxE: 1, MaxN: 1}))
}

func TestFilterBuildings_AllOutsideYieldsNil(t *testing.T) {
	b := &building.Mesh{
		Vertices: [][3]float64{{500, 500, 0}, {510, 500, 0}, {510, 510, 0}},
		Faces:    [][3]int{{0, 1, 2}},
	}
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	require.Nil(t, filterBuildings(b, bbox))
}

func TestFilterRoads_KeepsOverlapping(t *testing.T) {
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	inside := terrain.RoadRing{Ring: orb.Ring{{10, 10}, {20, 10}, {20, 20}, {10, 20}, {10, 10}}}
	outside := terrain.RoadRing{Ring: orb.Ring{{500, 500}, {510, 500}, {510, 510}, {500, 510}, {500, 500}}}

	out := filterRoads([]terrain.RoadRing{inside, outside}, bbox)
	require.Len(t, out, 1)
}

func TestFilterRoads_DropsInvalidRing(t *testing.T) {
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	invalid := terrain.RoadRing{Ring: orb.Ring{{0, 0}, {1, 1}}}
	require.Empty(t, filterRoads([]terrain.RoadRing{invalid}, bbox))
}
