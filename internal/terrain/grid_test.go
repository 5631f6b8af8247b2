package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrid_Validate(t *testing.T) {
	g := NewGrid(1, 5)
	require.Error(t, g.Validate(), "1 row is below the 2x2 minimum")

	g = NewGrid(3, 3)
	for i := range g.Values {
		g.Values[i] = float32(math.NaN())
	}
	require.Error(t, g.Validate(), "all-nodata grid has no finite sample")

	g.Set(1, 1, 100)
	require.NoError(t, g.Validate())
}

func TestGrid_Normalize_FillsNaNWithMean(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, 10)
	g.Set(0, 1, 20)
	g.Set(1, 0, float32(math.NaN()))
	g.Set(1, 1, float32(math.NaN()))

	out := g.Normalize()
	require.InDelta(t, 15, out.At(1, 0), 1e-6)
	require.InDelta(t, 15, out.At(1, 1), 1e-6)
	require.InDelta(t, 10, out.At(0, 0), 1e-6, "untouched finite samples are preserved")

	require.True(t, math.IsNaN(float64(g.At(1, 0))), "Normalize must not mutate the source grid")
}

func TestGrid_Min(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, 5)
	g.Set(0, 1, float32(math.NaN()))
	g.Set(1, 0, 2)
	g.Set(1, 1, 9)

	min, found := g.Min()
	require.True(t, found)
	require.Equal(t, 2.0, min)
}

func TestGrid_Downsample_NoopUnderCap(t *testing.T) {
	g := NewGrid(10, 10)
	out := g.Downsample(1200)
	require.Equal(t, 10, out.Rows)
	require.Equal(t, 10, out.Cols)
}

func TestGrid_Downsample_StrideDecimates(t *testing.T) {
	g := NewGrid(2500, 2500)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			g.Set(r, c, float32(r*g.Cols+c))
		}
	}
	out := g.Downsample(1200)
	require.LessOrEqual(t, out.Rows, 1200)
	require.LessOrEqual(t, out.Cols, 1200)
	require.Equal(t, g.At(0, 0), out.At(0, 0), "stride sampling keeps the origin sample")
}
