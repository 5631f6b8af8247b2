package terrain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/stretchr/testify/require"
)

func testModelGrid(t *testing.T, rows, cols int) (ModelGrid, geo.Frame) {
	t.Helper()
	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 1000, MaxN: 500}
	opts := geo.ModelOptions{ModelWidthMM: 200, ZExaggeration: 1.5, BaseHeightMM: 3}
	frame, err := geo.NewFrame(bbox, opts, 400)
	require.NoError(t, err)

	g := NewGrid(rows, cols)
	for i := range g.Values {
		g.Values[i] = 400
	}
	mg := BuildModelGrid(g, frame)
	return mg, frame
}

func TestBuildSolid_RectangularBase_FaceCount(t *testing.T) {
	rows, cols := 4, 5
	mg, frame := testModelGrid(t, rows, cols)

	soup := BuildSolid(mg, frame.BaseZ(), nil)

	topFaces := 2 * (rows - 1) * (cols - 1)
	bottomFaces := 2
	wallFaces := 2*(cols-1)*2 + 2*(rows-1)*2
	require.Len(t, soup, topFaces+bottomFaces+wallFaces)
}

func TestBuildSolid_ClipMaskOmitsBottomAndWalls(t *testing.T) {
	rows, cols := 4, 5
	mg, frame := testModelGrid(t, rows, cols)
	mask := geo.NewAllTrueMask(rows, cols)

	soup := BuildSolid(mg, frame.BaseZ(), &mask)

	topFaces := 2 * (rows - 1) * (cols - 1)
	require.Len(t, soup, topFaces, "with a clip mask active, only the top surface is emitted")
}

func TestBuildSolid_ClipMaskExcludesCell(t *testing.T) {
	rows, cols := 3, 3
	mg, _ := testModelGrid(t, rows, cols)
	full := geo.NewAllTrueMask(rows, cols)
	fullSoup := BuildSolid(mg, -3, &full)

	bbox := geo.ProjectedBBox{MinE: 0, MinN: 0, MaxE: 1000, MaxN: 500}
	// Leaves out the whole north row of samples (northing=500 > 490) and the
	// whole west column (easting=0 < 10), including the NW corner sample, so
	// cell (0,0) fails AllCornersInside.
	poly := &geo.ClipPolygon{Ring: orb.Ring{{10, 0}, {1000, 0}, {1000, 490}, {10, 490}, {10, 0}}}
	partialMask := geo.BuildClipMask(poly, rows, cols, bbox)

	partial := BuildSolid(mg, -3, &partialMask)
	require.Less(t, len(partial), len(fullSoup))
}
