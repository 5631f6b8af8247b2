// Package job implements the job registry and submission surface (spec.md
// §5, SPEC_FULL.md §9): a job is accepted, runs on a background goroutine,
// and its status is queried concurrently through a sync.Map-backed
// registry — the same shape as the teacher's currentTiles tracking in
// internal/datasource.FetchQueue.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/paulreginaphoto/swisstl/internal/building"
	"github.com/paulreginaphoto/swisstl/internal/fetch"
	"github.com/paulreginaphoto/swisstl/internal/generator"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/orchestrator"
	"github.com/paulreginaphoto/swisstl/internal/stlio"
	"github.com/paulreginaphoto/swisstl/internal/swisstlerr"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
)

// State is the job status enum, mirroring the original implementation's
// schemas.py JobStatus (SPEC_FULL.md §9 supplemented feature).
type State string

const (
	StatePending             State = "pending"
	StateDownloadingTerrain  State = "downloading_terrain"
	StateDownloadingBuilding State = "downloading_buildings"
	StateDownloadingRoads    State = "downloading_roads"
	StateGeneratingSTL       State = "generating_stl"
	StateCompleted           State = "completed"
	StateFailed              State = "failed"
)

// Status is the user-visible job record, returned by both POST /generate
// and GET /status/{job_id} (spec.md §6).
type Status struct {
	JobID       string
	State       State
	Progress    int
	Message     string
	DownloadURL string
	Err         error
}

// Request is the validated input to Submit.
type Request struct {
	BBox          geo.WGS84BBox
	ModelWidthMM  float64
	ZExaggeration float64
	BaseHeightMM  float64
	GridSplit     int // 1 disables tiling
	ClipPolygon   *geo.ClipPolygon
	OutputDir     string
}

// Registry maps job IDs to their current status. Writers are the owning job
// goroutine; readers are status-query handlers — concurrent reads/writes
// are safe, and torn reads across fields are acceptable (spec.md §5).
type Registry struct {
	statuses sync.Map // map[string]*Status
	active   atomic.Int64
}

// NewRegistry creates an empty job registry.
func NewRegistry() *Registry { return &Registry{} }

// Get returns a copy of the job's status and whether it exists.
func (r *Registry) Get(jobID string) (Status, bool) {
	v, ok := r.statuses.Load(jobID)
	if !ok {
		return Status{}, false
	}
	s := v.(*Status)
	return *s, true
}

func (r *Registry) set(jobID string, mutate func(*Status)) {
	v, _ := r.statuses.LoadOrStore(jobID, &Status{JobID: jobID})
	s := v.(*Status)
	mutate(s)
}

// Runner executes one job's fetch-then-generate pipeline.
type Runner struct {
	Registry   *Registry
	Terrain    fetch.TerrainFetcher
	Buildings  fetch.BuildingFetcher
	Roads      fetch.RoadFetcher
	Logger     *slog.Logger
}

// Submit validates req's bbox, registers a new pending job, and launches it on a
// background goroutine, returning immediately with the job ID (spec.md §5:
// "the public entry point accepts a job and returns immediately").
func (rn *Runner) Submit(req Request) (string, error) {
	if err := req.BBox.Validate(); err != nil {
		return "", fmt.Errorf("%w: %s", swisstlerr.ErrInputInvalid, err)
	}

	jobID := uuid.NewString()
	rn.Registry.set(jobID, func(s *Status) {
		s.State = StatePending
		s.Message = "queued"
	})

	rn.Registry.active.Add(1)
	go func() {
		defer rn.Registry.active.Add(-1)
		rn.run(context.Background(), jobID, req)
	}()

	return jobID, nil
}

// run executes the strictly sequential fetch-terrain -> fetch-buildings ->
// fetch-roads -> STL generation pipeline (spec.md §5), reporting progress
// through the per-stage percentage breakdown ported from the original
// implementation's routers/generate.py (SPEC_FULL.md §9).
func (rn *Runner) run(ctx context.Context, jobID string, req Request) {
	log := rn.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("job_id", jobID)

	progress := func(percent int, message string) {
		rn.Registry.set(jobID, func(s *Status) {
			s.Progress = percent
			s.Message = message
		})
	}

	fail := func(state State, err error) {
		rn.Registry.set(jobID, func(s *Status) {
			s.State = StateFailed
			s.Err = err
			s.Message = err.Error()
		})
		log.Error("job failed", "state", string(state), "error", err)
	}

	rn.Registry.set(jobID, func(s *Status) { s.State = StateDownloadingTerrain })
	if rn.Terrain == nil {
		fail(StateDownloadingTerrain, fmt.Errorf("%w: terrain: no terrain fetcher configured", swisstlerr.ErrFetchFailed))
		return
	}
	grid, meta, err := rn.Terrain.FetchTerrain(ctx, req.BBox, "2", scaledProgress(progress, 5, 40, "downloading terrain"))
	if err != nil {
		fail(StateDownloadingTerrain, fmt.Errorf("%w: terrain: %s", swisstlerr.ErrFetchFailed, err))
		return
	}

	var buildingMesh *building.Mesh
	if rn.Buildings != nil {
		rn.Registry.set(jobID, func(s *Status) { s.State = StateDownloadingBuilding })
		verts, faces, err := rn.Buildings.FetchBuildings(ctx, req.BBox, scaledProgress(progress, 40, 55, "downloading buildings"))
		if err != nil {
			fail(StateDownloadingBuilding, fmt.Errorf("%w: buildings: %s", swisstlerr.ErrFetchFailed, err))
			return
		}
		if len(faces) > 0 {
			bm := toBuildingMesh(verts, faces)
			buildingMesh = &bm
		}
	}

	var roads []terrain.RoadRing
	if rn.Roads != nil {
		rn.Registry.set(jobID, func(s *Status) { s.State = StateDownloadingRoads })
		rr, err := rn.Roads.FetchRoads(ctx, req.BBox, scaledProgress(progress, 55, 60, "downloading roads"))
		if err != nil {
			fail(StateDownloadingRoads, fmt.Errorf("%w: roads: %s", swisstlerr.ErrFetchFailed, err))
			return
		}
		roads = rr
	}

	rn.Registry.set(jobID, func(s *Status) { s.State = StateGeneratingSTL })
	opts := generator.Options{
		ModelWidthMM:  req.ModelWidthMM,
		ZExaggeration: req.ZExaggeration,
		BaseHeightMM:  req.BaseHeightMM,
		Buildings:     buildingMesh,
		ProjectedBBox: &meta.ProjectedBBox,
		RoadPolygons:  roads,
		ClipPolygon:   req.ClipPolygon,
		Progress:      scaledProgress(progress, 60, 100, "generating STL"),
	}

	if req.GridSplit > 1 {
		if _, err := orchestrator.GenerateTiled(grid, jobID, req.GridSplit, opts, req.OutputDir); err != nil {
			fail(StateGeneratingSTL, err)
			return
		}
		rn.Registry.set(jobID, func(s *Status) {
			s.State = StateCompleted
			s.Progress = 100
			s.Message = "done"
			s.DownloadURL = "/output/" + jobID + ".zip"
		})
		return
	}

	soup, _, err := generator.GenerateSTL(grid, jobID, opts)
	if err != nil {
		fail(StateGeneratingSTL, err)
		return
	}
	outPath := req.OutputDir + "/" + jobID + ".stl"
	if err := stlio.WriteBinaryFile(outPath, soup); err != nil {
		fail(StateGeneratingSTL, fmt.Errorf("writing STL: %w", err))
		return
	}

	rn.Registry.set(jobID, func(s *Status) {
		s.State = StateCompleted
		s.Progress = 100
		s.Message = "done"
		s.DownloadURL = "/output/" + jobID + ".stl"
	})
}

// toBuildingMesh converts the fetcher contract's float64/int32 arrays into
// the building package's own representation.
func toBuildingMesh(verts [][3]float64, faces [][3]int32) building.Mesh {
	outFaces := make([][3]int, len(faces))
	for i, f := range faces {
		outFaces[i] = [3]int{int(f[0]), int(f[1]), int(f[2])}
	}
	return building.Mesh{Vertices: verts, Faces: outFaces}
}

// scaledProgress maps a sub-stage's own 0-100 percent into [lo, hi] of the
// overall job percentage, matching the original implementation's
// stl_progress closure (SPEC_FULL.md §9).
func scaledProgress(report func(int, string), lo, hi int, label string) fetch.ProgressFunc {
	return func(percent int, message string) {
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		overall := lo + (hi-lo)*percent/100
		report(overall, label+": "+message)
	}
}
