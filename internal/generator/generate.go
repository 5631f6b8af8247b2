// Package generator is the core's public entry point (spec.md §6.2):
// GenerateSTL wires coordinate setup, optional road emboss, terrain
// triangulation, optional clip-polygon skirt, building integration, global
// repair, and the integrity check into the single generator contract.
package generator

import (
	"fmt"

	"github.com/paulreginaphoto/swisstl/internal/building"
	"github.com/paulreginaphoto/swisstl/internal/fetch"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/mesh"
	"github.com/paulreginaphoto/swisstl/internal/swisstlerr"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
)

// maxGridDim is the hard downsampling cap (spec.md §6.4).
const maxGridDim = 1200

// globalRepairTolerance is the vertex-merge tolerance (mm) used for the
// post-concatenation repair pass.
const globalRepairTolerance = 1e-4

// Options is the explicit request record replacing the reference
// implementation's optional-argument cascade (spec.md §9).
type Options struct {
	ModelWidthMM  float64
	ZExaggeration float64
	BaseHeightMM  float64

	Buildings     *building.Mesh
	ProjectedBBox *geo.ProjectedBBox
	RoadPolygons  []terrain.RoadRing
	Progress      fetch.ProgressFunc
	GlobalMinElev *float64
	ClipPolygon   *geo.ClipPolygon
}

func (o Options) modelOptions() geo.ModelOptions {
	return geo.ModelOptions{ModelWidthMM: o.ModelWidthMM, ZExaggeration: o.ZExaggeration, BaseHeightMM: o.BaseHeightMM}
}

func (o Options) report(percent int, message string) {
	if o.Progress == nil {
		return
	}
	defer func() { _ = recover() }()
	o.Progress(percent, message)
}

// GenerateSTL runs the full assembly pipeline and returns the repaired face
// soup plus its integrity report.
func GenerateSTL(elevation terrain.Grid, jobID string, opts Options) (mesh.Soup, mesh.Integrity, error) {
	if err := elevation.Validate(); err != nil {
		return nil, mesh.Integrity{}, fmt.Errorf("%w: %s (job %s)", swisstlerr.ErrNoData, err, jobID)
	}
	if err := opts.modelOptions().Validate(); err != nil {
		return nil, mesh.Integrity{}, fmt.Errorf("%w: %s", swisstlerr.ErrInputInvalid, err)
	}
	if opts.ProjectedBBox == nil {
		return nil, mesh.Integrity{}, fmt.Errorf("%w: projected_bbox is required", swisstlerr.ErrInputInvalid)
	}
	bbox := *opts.ProjectedBBox
	if err := bbox.Validate(); err != nil {
		return nil, mesh.Integrity{}, fmt.Errorf("%w: %s", swisstlerr.ErrInputInvalid, err)
	}

	opts.report(5, "normalising elevation grid")
	elev := elevation.Normalize().Downsample(maxGridDim)

	minElev, _ := elev.Min()
	if opts.GlobalMinElev != nil {
		minElev = *opts.GlobalMinElev
	}

	frame, err := geo.NewFrame(bbox, opts.modelOptions(), minElev)
	if err != nil {
		return nil, mesh.Integrity{}, fmt.Errorf("%w: %s", swisstlerr.ErrInputInvalid, err)
	}

	hasClip := opts.ClipPolygon != nil && opts.ClipPolygon.Valid()

	var clipMask *geo.Mask
	if hasClip {
		m := geo.BuildClipMask(opts.ClipPolygon, elev.Rows, elev.Cols, bbox)
		clipMask = &m
	}

	opts.report(40, "triangulating terrain")
	modelGrid := terrain.BuildModelGrid(elev, frame)

	if len(opts.RoadPolygons) > 0 {
		opts.report(45, "embossing road polygons")
		modelGrid = terrain.EmbossRoads(modelGrid, bbox, opts.RoadPolygons, terrain.DefaultRoadRaiseMM)
	}

	soup := terrain.BuildSolid(modelGrid, frame.BaseZ(), clipMask)

	if hasClip {
		soup = soup.Append(terrain.BuildPolygonSkirt(modelGrid, frame, *opts.ClipPolygon, frame.BaseZ()))
	}

	if opts.Buildings != nil {
		opts.report(55, "integrating buildings")
		soup = soup.Append(building.Integrate(*opts.Buildings, frame, opts.ClipPolygon))
	}

	opts.report(80, "repairing/normalising mesh")
	soup = mesh.RepairGlobal(soup, globalRepairTolerance)

	integrity := mesh.ComputeIntegrity(soup)
	if integrity.Evaluate(hasClip) == mesh.SeverityFail {
		return nil, integrity, fmt.Errorf("%w: boundary_edges=%d exceeds threshold (job %s)", swisstlerr.ErrIntegrityFail, integrity.BoundaryEdges, jobID)
	}

	opts.report(100, "mesh assembled")
	return soup, integrity, nil
}
