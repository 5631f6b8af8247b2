package terrain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/stretchr/testify/require"
)

func flatModelGrid(rows, cols int, bbox geo.ProjectedBBox, zScale float64) ModelGrid {
	frame, err := geo.NewFrame(bbox, geo.ModelOptions{ModelWidthMM: 200, ZExaggeration: zScale, BaseHeightMM: 3}, 500)
	if err != nil {
		panic(err)
	}
	g := NewGrid(rows, cols)
	for i := range g.Values {
		g.Values[i] = 500
	}
	return BuildModelGrid(g, frame)
}

func TestEmbossRoads_NoRoadsIsNoop(t *testing.T) {
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	mg := flatModelGrid(5, 5, bbox, 1.5)
	out := EmbossRoads(mg, bbox, nil, DefaultRoadRaiseMM)
	require.Equal(t, mg.Z, out.Z)
}

func TestEmbossRoads_RaisesCoveredCells(t *testing.T) {
	rows, cols := 11, 11
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	mg := flatModelGrid(rows, cols, bbox, 1.5)

	road := RoadRing{
		Ring:      orb.Ring{{40, 40}, {60, 40}, {60, 60}, {40, 60}, {40, 40}},
		ClassCode: 1,
	}
	out := EmbossRoads(mg, bbox, []RoadRing{road}, DefaultRoadRaiseMM)

	centre := 5*cols + 5
	corner := 0
	require.InDelta(t, mg.Z[centre]+DefaultRoadRaiseMM, out.Z[centre], 1e-9, "centre cell sits inside the road ring and must be raised by exactly raiseMM in model space")
	require.InDelta(t, mg.Z[corner], out.Z[corner], 1e-9, "corner cell sits far outside the road ring")
}

func TestEmbossRoads_RaiseIsExactRegardlessOfZScale(t *testing.T) {
	rows, cols := 11, 11
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	road := RoadRing{Ring: orb.Ring{{40, 40}, {60, 40}, {60, 60}, {40, 60}, {40, 40}}}
	centre := 5*cols + 5

	for _, zExaggeration := range []float64{0.5, 1.0, 1.5, 5.0} {
		mg := flatModelGrid(rows, cols, bbox, zExaggeration)
		out := EmbossRoads(mg, bbox, []RoadRing{road}, DefaultRoadRaiseMM)
		require.InDelta(t, DefaultRoadRaiseMM, out.Z[centre]-mg.Z[centre], 1e-9,
			"the model-space raise must equal raiseMM exactly, independent of z_exaggeration/z_scale")
	}
}

func TestEmbossRoads_DoesNotMutateInput(t *testing.T) {
	rows, cols := 11, 11
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	mg := flatModelGrid(rows, cols, bbox, 1.5)
	original := append([]float64(nil), mg.Z...)
	road := RoadRing{Ring: orb.Ring{{40, 40}, {60, 40}, {60, 60}, {40, 60}, {40, 40}}}

	_ = EmbossRoads(mg, bbox, []RoadRing{road}, DefaultRoadRaiseMM)
	require.Equal(t, original, mg.Z)
}

func TestEmbossStride_BoundsWorkGrid(t *testing.T) {
	require.Equal(t, 1, embossStride(1000, 1000), "under the 1.2M-cell target needs no decimation")
	require.Greater(t, embossStride(5000, 5000), 1, "a 25M-cell grid exceeds the target and must be strided")
}
