package fetch

import (
	"context"

	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
)

// StaticFetcher is a trivial in-memory fetcher returning fixed data,
// grounded on the teacher's OverpassDataSource shape but with no network
// code — HTTP fetching is explicitly out of scope (spec.md §1). Used by
// integration tests to exercise internal/generator end-to-end.
type StaticFetcher struct {
	Grid          terrain.Grid
	Meta          TerrainMeta
	BuildingVerts [][3]float64
	BuildingFaces [][3]int32
	Roads         []terrain.RoadRing
	Err           error
}

func (s StaticFetcher) FetchTerrain(_ context.Context, _ geo.WGS84BBox, _ string, progress ProgressFunc) (terrain.Grid, TerrainMeta, error) {
	if progress != nil {
		progress(100, "terrain fetched (static)")
	}
	return s.Grid, s.Meta, s.Err
}

func (s StaticFetcher) FetchBuildings(_ context.Context, _ geo.WGS84BBox, progress ProgressFunc) ([][3]float64, [][3]int32, error) {
	if progress != nil {
		progress(100, "buildings fetched (static)")
	}
	return s.BuildingVerts, s.BuildingFaces, s.Err
}

func (s StaticFetcher) FetchRoads(_ context.Context, _ geo.WGS84BBox, progress ProgressFunc) ([]terrain.RoadRing, error) {
	if progress != nil {
		progress(100, "roads fetched (static)")
	}
	return s.Roads, s.Err
}
