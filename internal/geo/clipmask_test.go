package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestNewAllTrueMask(t *testing.T) {
	m := NewAllTrueMask(4, 5)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			require.True(t, m.At(r, c))
		}
	}
	require.True(t, m.AllCornersInside(1, 1))
}

func TestBuildClipMask_NilPolygonIsAllTrue(t *testing.T) {
	bbox := ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	m := BuildClipMask(nil, 5, 5, bbox)
	for i := 0; i < 25; i++ {
		require.True(t, m.At(i/5, i%5))
	}
}

func TestBuildClipMask_InvalidPolygonIsAllTrue(t *testing.T) {
	bbox := ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	degenerate := &ClipPolygon{Ring: orb.Ring{{0, 0}, {1, 1}}}
	m := BuildClipMask(degenerate, 5, 5, bbox)
	require.True(t, m.At(0, 0))
}

func TestBuildClipMask_RestrictsInterior(t *testing.T) {
	bbox := ProjectedBBox{MinE: 0, MinN: 0, MaxE: 100, MaxN: 100}
	poly := &ClipPolygon{Ring: orb.Ring{{20, 20}, {80, 20}, {80, 80}, {20, 80}, {20, 20}}}
	require.True(t, poly.Valid())

	m := BuildClipMask(poly, 11, 11, bbox)

	// Grid sample (r=5,c=5) sits at easting=50,northing=50 (row 0 = north,
	// i.e. max northing) — well inside the polygon.
	require.True(t, m.At(5, 5))
	// Corner sample (r=0,c=0) is at (easting=0, northing=100) — outside.
	require.False(t, m.At(0, 0))
}

func TestMask_AllCornersInside(t *testing.T) {
	m := Mask{Rows: 2, Cols: 2, bits: []bool{true, true, true, false}}
	require.False(t, m.AllCornersInside(0, 0))
}
