package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulreginaphoto/swisstl/internal/fetch"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/job"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
	"github.com/stretchr/testify/require"
)

func projBBox() geo.ProjectedBBox {
	return geo.ProjectedBBox{MinE: 2600000, MinN: 1200000, MaxE: 2600100, MaxN: 1200100}
}

func projBBoxWGS84() geo.WGS84BBox {
	return geo.WGS84BBox{MinLon: 7.0, MinLat: 46.0, MaxLon: 7.01, MaxLat: 46.01}
}

func testServer(t *testing.T) *Server {
	t.Helper()
	runner := &job.Runner{
		Registry: job.NewRegistry(),
		Terrain: &fetch.StaticFetcher{
			Grid: flatTestGrid(),
			Meta: fetch.TerrainMeta{
				ProjectedBBox: projBBox(),
				ResolutionM:   2,
				MinElev:       500,
				MaxElev:       500,
			},
		},
	}
	return New(runner, t.TempDir(), nil)
}

func flatTestGrid() terrain.Grid {
	g := terrain.NewGrid(10, 10)
	for i := range g.Values {
		g.Values[i] = 500
	}
	return g
}

func TestHandleGenerate_RejectsOutOfEnvelopeBBox(t *testing.T) {
	srv := testServer(t)
	body, _ := json.Marshal(generateRequest{
		MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1, // outside Switzerland
		ModelWidthMM: 200, ZExaggeration: 1.5, BaseHeightMM: 3,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(body))
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerate_AcceptsValidRequest(t *testing.T) {
	srv := testServer(t)
	body, _ := json.Marshal(generateRequest{
		MinLon: 7.0, MinLat: 46.0, MaxLon: 7.01, MaxLat: 46.01,
		ModelWidthMM: 200, ZExaggeration: 1.5, BaseHeightMM: 3,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(body))
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp jobResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.JobID)
}

func TestHandleStatus_UnknownJobIs404(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status/does-not-exist", nil)
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproxAreaKM2_RoughlyMatchesSmallBBox(t *testing.T) {
	bbox := projBBoxWGS84()
	area := approxAreaKM2(bbox)
	require.Greater(t, area, 0.0)
	require.Less(t, area, 100.0)
}
